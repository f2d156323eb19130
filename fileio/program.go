package fileio

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/ladderlogic/instr"
)

type programFile struct {
	Program programBody `json:"program" yaml:"program"`
}

type programBody struct {
	Instructions []instructionWire `json:"instructions" yaml:"instructions"`
}

// instructionWire writes absent operands and modifiers as null.
type instructionWire struct {
	Operator string  `json:"operator" yaml:"operator"`
	Operand  *string `json:"operand" yaml:"operand"`
	Modifier *string `json:"modifier" yaml:"modifier"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EncodeProgram renders a program in format f.
func EncodeProgram(prog instr.Program, f Format) ([]byte, error) {
	if f == Text {
		return []byte(instr.FormatProgram(prog) + "\n"), nil
	}

	file := programFile{Program: programBody{
		Instructions: make([]instructionWire, 0, prog.Len()),
	}}
	for _, i := range prog.Instructions {
		file.Program.Instructions = append(file.Program.Instructions, instructionWire{
			Operator: string(i.Operator),
			Operand:  optional(i.Operand),
			Modifier: optional(i.Modifier),
		})
	}

	switch f {
	case JSON:
		return json.MarshalIndent(file, "", "  ")
	case YAML:
		return yaml.Marshal(file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// DecodeProgram parses a program in format f and validates every
// instruction.
func DecodeProgram(data []byte, f Format) (instr.Program, error) {
	if f == Text {
		return instr.ParseProgram(string(data))
	}

	var file programFile
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &file)
	case YAML:
		err = yaml.Unmarshal(data, &file)
	default:
		return instr.Program{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return instr.Program{}, fmt.Errorf("decode program: %w", err)
	}

	prog := instr.Program{Instructions: make([]instr.Instruction, 0, len(file.Program.Instructions))}
	for n, w := range file.Program.Instructions {
		i := instr.Instruction{
			Operator: instr.Operator(w.Operator),
			Operand:  deref(w.Operand),
			Modifier: deref(w.Modifier),
		}
		if err := i.Validate(); err != nil {
			return instr.Program{}, fmt.Errorf("instruction %d: %w", n, err)
		}
		prog.Instructions = append(prog.Instructions, i)
	}

	return prog, nil
}

// LoadProgram reads a program file.
func LoadProgram(fs afero.Fs, path string) (instr.Program, error) {
	f, err := FormatFor(path)
	if err != nil {
		return instr.Program{}, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return instr.Program{}, fmt.Errorf("read program: %w", err)
	}

	prog, err := DecodeProgram(data, f)
	if err != nil {
		return instr.Program{}, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// SaveProgram writes a program file.
func SaveProgram(fs afero.Fs, path string, prog instr.Program) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := EncodeProgram(prog, f)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write program: %w", err)
	}
	return nil
}
