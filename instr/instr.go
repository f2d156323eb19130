// Package instr defines the Instruction List (IL) instruction model and the
// line parser that turns IL text into an ordered program.
package instr

import (
	"regexp"

	"github.com/sarchlab/ladderlogic/validate"
)

// Operator is the operation of an IL instruction.
type Operator string

// The operators an IL instruction may carry.
const (
	LD   Operator = "LD"
	LDN  Operator = "LDN"
	ST   Operator = "ST"
	STN  Operator = "STN"
	AND  Operator = "AND"
	ANDN Operator = "ANDN"
	OR   Operator = "OR"
	ORN  Operator = "ORN"
	XOR  Operator = "XOR"
	NOT  Operator = "NOT"
	ADD  Operator = "ADD"
	SUB  Operator = "SUB"
	MUL  Operator = "MUL"
	DIV  Operator = "DIV"
	GT   Operator = "GT"
	GE   Operator = "GE"
	EQ   Operator = "EQ"
	NE   Operator = "NE"
	LE   Operator = "LE"
	LT   Operator = "LT"
	TON  Operator = "TON"
	TOF  Operator = "TOF"
	TP   Operator = "TP"
	CTU  Operator = "CTU"
	CTD  Operator = "CTD"
	CTUD Operator = "CTUD"
	R    Operator = "R"
	S    Operator = "S"
)

var knownOperators = map[Operator]bool{
	LD: true, LDN: true, ST: true, STN: true,
	AND: true, ANDN: true, OR: true, ORN: true, XOR: true, NOT: true,
	ADD: true, SUB: true, MUL: true, DIV: true,
	GT: true, GE: true, EQ: true, NE: true, LE: true, LT: true,
	TON: true, TOF: true, TP: true,
	CTU: true, CTD: true, CTUD: true,
	R: true, S: true,
}

// Known reports whether o belongs to the IL operator set.
func (o Operator) Known() bool {
	return knownOperators[o]
}

// Negated reports whether o is the negating form of a load, store or
// boolean combination.
func (o Operator) Negated() bool {
	switch o {
	case LDN, STN, ANDN, ORN:
		return true
	default:
		return false
	}
}

// Instruction is one IL instruction. An empty Operand or Modifier means the
// instruction does not carry one.
type Instruction struct {
	Operator Operator
	Operand  string
	Modifier string
}

// HasOperand reports whether the instruction carries an operand.
func (i Instruction) HasOperand() bool {
	return i.Operand != ""
}

// HasModifier reports whether the instruction carries a modifier.
func (i Instruction) HasModifier() bool {
	return i.Modifier != ""
}

func (i Instruction) String() string {
	return FormatInstruction(i)
}

var (
	operatorPattern = regexp.MustCompile(`^\w+$`)
	modifierPattern = regexp.MustCompile(`^\w*$`)
)

// Validate checks that the instruction could have been produced by the
// parser. Operators outside the IL set are valid here; the converter decides
// what to do with them.
func (i Instruction) Validate() error {
	c := validate.New("instruction", string(i.Operator))
	c.Check(operatorPattern.MatchString(string(i.Operator)),
		"operator", "must be a single word, got %q", i.Operator)
	c.Check(modifierPattern.MatchString(i.Modifier),
		"modifier", "must be a single word, got %q", i.Modifier)
	c.Check(!containsLineBreak(i.Operand),
		"operand", "must not contain line breaks")
	return c.Err()
}

func containsLineBreak(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			return true
		}
	}
	return false
}

// Program is an ordered IL instruction sequence. Order is execution order.
type Program struct {
	Instructions []Instruction
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p.Instructions)
}
