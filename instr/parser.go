package instr

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports a malformed instruction line.
type ParseError struct {
	Line int // 1-based line number, 0 when parsing a single line
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Text)
}

var modifiedOperatorPattern = regexp.MustCompile(`^(\w+)\((\w+)\)$`)

// CommentPrefix starts a comment line in IL text.
const CommentPrefix = ";"

// ParseInstruction parses one IL text line. The operator token may carry a
// modifier as OP(modifier); every token after it is part of the operand.
// Operators are upper-cased, so "ld X1" parses as LD; operands and modifiers
// keep their case.
func ParseInstruction(line string) (Instruction, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Instruction{}, &ParseError{Text: line, Msg: "empty instruction line"}
	}

	tokens := strings.Fields(trimmed)
	opToken := tokens[0]

	inst := Instruction{}
	if strings.ContainsAny(opToken, "()") {
		m := modifiedOperatorPattern.FindStringSubmatch(opToken)
		if m == nil {
			return Instruction{}, &ParseError{
				Text: line,
				Msg:  "malformed operator modifier, expected OP(modifier)",
			}
		}
		inst.Operator = Operator(strings.ToUpper(m[1]))
		inst.Modifier = m[2]
	} else {
		inst.Operator = Operator(strings.ToUpper(opToken))
	}

	inst.Operand = strings.Join(tokens[1:], " ")

	if err := inst.Validate(); err != nil {
		return Instruction{}, &ParseError{Text: line, Msg: err.Error()}
	}

	return inst, nil
}

// ParseProgram parses IL text. Blank lines and lines starting with ';' are
// dropped.
func ParseProgram(text string) (Program, error) {
	prog := Program{}

	for n, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
			continue
		}

		inst, err := ParseInstruction(trimmed)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = n + 1
			}
			return Program{}, err
		}

		prog.Instructions = append(prog.Instructions, inst)
	}

	return prog, nil
}

// FormatInstruction is the textual inverse of ParseInstruction.
func FormatInstruction(i Instruction) string {
	var sb strings.Builder

	sb.WriteString(string(i.Operator))
	if i.HasModifier() {
		sb.WriteString("(" + i.Modifier + ")")
	}
	if i.HasOperand() {
		sb.WriteString(" " + i.Operand)
	}

	return sb.String()
}

// FormatProgram renders a program one instruction per line.
func FormatProgram(p Program) string {
	lines := make([]string, 0, len(p.Instructions))
	for _, inst := range p.Instructions {
		lines = append(lines, FormatInstruction(inst))
	}
	return strings.Join(lines, "\n")
}
