// Package convert translates between Instruction List programs and Ladder
// Diagram networks.
package convert

import (
	"github.com/sarchlab/ladderlogic/instr"
	"github.com/sarchlab/ladderlogic/ladder"
)

// UnknownPolicy tells Trace what to do after it meets an element it cannot
// express as an instruction.
type UnknownPolicy string

const (
	// ContinuePastUnknown skips the element but still walks its successors.
	ContinuePastUnknown UnknownPolicy = "continue"

	// StopAtUnknown ends the walk of that branch at the element.
	StopAtUnknown UnknownPolicy = "stop"
)

// Options tune a Converter.
type Options struct {
	DefaultTimerPreset   string
	DefaultCounterPreset string
	UnknownElements      UnknownPolicy
}

// DefaultOptions returns the options used by BuildNetwork and TraceNetwork.
func DefaultOptions() Options {
	return Options{
		DefaultTimerPreset:   "T#1s",
		DefaultCounterPreset: "10",
		UnknownElements:      ContinuePastUnknown,
	}
}

// Converter builds networks from programs and traces programs back out of
// networks. A Converter holds no state between calls.
type Converter struct {
	opts Options
}

// New creates a converter. Empty option fields take their default.
func New(opts Options) *Converter {
	def := DefaultOptions()
	if opts.DefaultTimerPreset == "" {
		opts.DefaultTimerPreset = def.DefaultTimerPreset
	}
	if opts.DefaultCounterPreset == "" {
		opts.DefaultCounterPreset = def.DefaultCounterPreset
	}
	if opts.UnknownElements == "" {
		opts.UnknownElements = def.UnknownElements
	}
	return &Converter{opts: opts}
}

// Options returns the effective options.
func (c *Converter) Options() Options {
	return c.opts
}

// BuildNetwork builds a network with the default options.
func BuildNetwork(prog []instr.Instruction) (*ladder.Network, error) {
	return New(DefaultOptions()).Build(prog)
}

// TraceNetwork traces a network with the default options.
func TraceNetwork(net *ladder.Network) []instr.Instruction {
	return New(DefaultOptions()).Trace(net)
}

var blockTypes = map[instr.Operator]ladder.ElementType{
	instr.ADD: ladder.Add,
	instr.SUB: ladder.Subtract,
	instr.MUL: ladder.Multiply,
	instr.DIV: ladder.Divide,
	instr.GT:  ladder.GreaterThan,
	instr.GE:  ladder.GreaterEqual,
	instr.EQ:  ladder.Equal,
	instr.NE:  ladder.NotEqual,
	instr.LE:  ladder.LessEqual,
	instr.LT:  ladder.LessThan,
}

var blockOperators = func() map[ladder.ElementType]instr.Operator {
	m := make(map[ladder.ElementType]instr.Operator, len(blockTypes))
	for op, t := range blockTypes {
		m[t] = op
	}
	return m
}()
