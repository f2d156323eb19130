package instr_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ladderlogic/instr"
)

var _ = Describe("ParseInstruction", func() {
	It("should parse an operator with an operand", func() {
		inst, err := instr.ParseInstruction("  LD   X1 ")
		Expect(err).NotTo(HaveOccurred())
		Expect(inst).To(Equal(instr.Instruction{Operator: instr.LD, Operand: "X1"}))
	})

	It("should parse an operator without an operand", func() {
		inst, err := instr.ParseInstruction("NOT")
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.HasOperand()).To(BeFalse())
		Expect(inst.Operator).To(Equal(instr.NOT))
	})

	It("should rejoin multi-token operands with single spaces", func() {
		inst, err := instr.ParseInstruction("ADD  a\t b   c")
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Operand).To(Equal("a b c"))
	})

	It("should extract the modifier", func() {
		inst, err := instr.ParseInstruction("LD(N) X1")
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Operator).To(Equal(instr.LD))
		Expect(inst.Modifier).To(Equal("N"))
		Expect(inst.Operand).To(Equal("X1"))
	})

	It("should upper-case the operator", func() {
		inst, err := instr.ParseInstruction("ton T#5s")
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Operator).To(Equal(instr.TON))
		Expect(inst.Operand).To(Equal("T#5s"))
	})

	It("should reject malformed parenthesis syntax", func() {
		for _, line := range []string{"LD( X1", "LD(X1", "LD)X", "LD() X", "LD(a b)"} {
			_, err := instr.ParseInstruction(line)
			var pe *instr.ParseError
			Expect(errors.As(err, &pe)).To(BeTrue(), line)
		}
	})

	It("should reject an empty line", func() {
		_, err := instr.ParseInstruction("   ")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseProgram", func() {
	It("should drop blank and comment lines", func() {
		prog, err := instr.ParseProgram("; start\n\nLD X1\n   ; inner\nAND X2\r\nST Y1\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions).To(Equal([]instr.Instruction{
			{Operator: instr.LD, Operand: "X1"},
			{Operator: instr.AND, Operand: "X2"},
			{Operator: instr.ST, Operand: "Y1"},
		}))
	})

	It("should report the failing line number", func() {
		_, err := instr.ParseProgram("LD X1\n\nAND( X2\n")
		var pe *instr.ParseError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Line).To(Equal(3))
	})
})

var _ = Describe("Format", func() {
	It("should format operator, modifier and operand", func() {
		Expect(instr.FormatInstruction(instr.Instruction{
			Operator: instr.LD, Modifier: "N", Operand: "X1",
		})).To(Equal("LD(N) X1"))
		Expect(instr.FormatInstruction(instr.Instruction{Operator: instr.NOT})).
			To(Equal("NOT"))
	})

	It("should join program lines with newlines", func() {
		prog := instr.Program{Instructions: []instr.Instruction{
			{Operator: instr.LD, Operand: "X1"},
			{Operator: instr.ST, Operand: "Y1"},
		}}
		Expect(instr.FormatProgram(prog)).To(Equal("LD X1\nST Y1"))
	})

	DescribeTable("round trip",
		func(line string) {
			inst, err := instr.ParseInstruction(line)
			Expect(err).NotTo(HaveOccurred())

			again, err := instr.ParseInstruction(instr.FormatInstruction(inst))
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(inst))
		},
		Entry("plain", "LD X1"),
		Entry("no operand", "NOT"),
		Entry("modifier", "AND(N) X2"),
		Entry("modifier without operand", "ST(R)"),
		Entry("multi token", "ADD  x   y"),
		Entry("time preset", "TON T#100ms"),
		Entry("unknown operator", "JMP label"),
	)
})

var _ = Describe("Instruction", func() {
	It("should know negated operators", func() {
		Expect(instr.LDN.Negated()).To(BeTrue())
		Expect(instr.ANDN.Negated()).To(BeTrue())
		Expect(instr.AND.Negated()).To(BeFalse())
		Expect(instr.NOT.Negated()).To(BeFalse())
	})

	It("should know the IL operator set", func() {
		Expect(instr.CTUD.Known()).To(BeTrue())
		Expect(instr.Operator("JMP").Known()).To(BeFalse())
	})

	It("should report every failing field", func() {
		err := instr.Instruction{Operator: "L D", Modifier: "a-b", Operand: "x\ny"}.Validate()
		Expect(err).To(MatchError(ContainSubstring("operator")))
		Expect(err).To(MatchError(ContainSubstring("modifier")))
		Expect(err).To(MatchError(ContainSubstring("operand")))
	})
})
