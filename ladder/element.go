// Package ladder defines the Ladder Diagram network model: elements with
// declared ports, directed connections between those ports, and the pure
// mutation primitives used while editing a network.
package ladder

import (
	"slices"

	"github.com/sarchlab/ladderlogic/validate"
)

// ElementType is the kind of a network element.
type ElementType string

// The element kinds a network may hold.
const (
	Contact        ElementType = "contact"
	ContactNegated ElementType = "contact_negated"
	Coil           ElementType = "coil"
	CoilNegated    ElementType = "coil_negated"
	And            ElementType = "and"
	Or             ElementType = "or"
	Not            ElementType = "not"
	TimerOn        ElementType = "timer_on"
	TimerOff       ElementType = "timer_off"
	TimerPulse     ElementType = "timer_pulse"
	CounterUp      ElementType = "counter_up"
	CounterDown    ElementType = "counter_down"
	CounterUpDown  ElementType = "counter_updown"
	Add            ElementType = "add"
	Subtract       ElementType = "subtract"
	Multiply       ElementType = "multiply"
	Divide         ElementType = "divide"
	GreaterThan    ElementType = "greater_than"
	GreaterEqual   ElementType = "greater_equal"
	Equal          ElementType = "equal"
	NotEqual       ElementType = "not_equal"
	LessEqual      ElementType = "less_equal"
	LessThan       ElementType = "less_than"
)

// Port names.
const (
	PortIn  = "in"
	PortIn1 = "in1"
	PortIn2 = "in2"
	PortOut = "out"
	PortCU  = "cu"
	PortCD  = "cd"
	PortR   = "r"
	PortLD  = "ld"
)

// Property keys.
const (
	PropVariable = "variable"
	PropPreset   = "preset"
	PropOperand  = "operand"
)

type portSpec struct {
	inputs  []string
	outputs []string
}

var (
	singleIn = portSpec{inputs: []string{PortIn}, outputs: []string{PortOut}}
	dualIn   = portSpec{inputs: []string{PortIn1, PortIn2}, outputs: []string{PortOut}}
)

var elementPorts = map[ElementType]portSpec{
	Contact:        singleIn,
	ContactNegated: singleIn,
	Coil:           singleIn,
	CoilNegated:    singleIn,
	And:            dualIn,
	Or:             dualIn,
	Not:            singleIn,
	TimerOn:        singleIn,
	TimerOff:       singleIn,
	TimerPulse:     singleIn,
	CounterUp:      {inputs: []string{PortCU, PortR}, outputs: []string{PortOut}},
	CounterDown:    {inputs: []string{PortCD, PortLD}, outputs: []string{PortOut}},
	CounterUpDown: {
		inputs:  []string{PortCU, PortCD, PortR, PortLD},
		outputs: []string{PortOut},
	},
	Add:          dualIn,
	Subtract:     dualIn,
	Multiply:     dualIn,
	Divide:       dualIn,
	GreaterThan:  dualIn,
	GreaterEqual: dualIn,
	Equal:        dualIn,
	NotEqual:     dualIn,
	LessEqual:    dualIn,
	LessThan:     dualIn,
}

// Known reports whether t is one of the element kinds.
func (t ElementType) Known() bool {
	_, ok := elementPorts[t]
	return ok
}

// Inputs returns the declared input ports of t.
func (t ElementType) Inputs() []string {
	return slices.Clone(elementPorts[t].inputs)
}

// Outputs returns the declared output ports of t.
func (t ElementType) Outputs() []string {
	return slices.Clone(elementPorts[t].outputs)
}

// PrimaryInput is the port that carries the rung signal into the element.
func (t ElementType) PrimaryInput() string {
	spec, ok := elementPorts[t]
	if !ok || len(spec.inputs) == 0 {
		return ""
	}
	return spec.inputs[0]
}

func (t ElementType) IsContact() bool { return t == Contact || t == ContactNegated }

func (t ElementType) IsCoil() bool { return t == Coil || t == CoilNegated }

func (t ElementType) IsTimer() bool {
	return t == TimerOn || t == TimerOff || t == TimerPulse
}

func (t ElementType) IsCounter() bool {
	return t == CounterUp || t == CounterDown || t == CounterUpDown
}

func (t ElementType) IsArithmetic() bool {
	return t == Add || t == Subtract || t == Multiply || t == Divide
}

func (t ElementType) IsComparison() bool {
	switch t {
	case GreaterThan, GreaterEqual, Equal, NotEqual, LessEqual, LessThan:
		return true
	default:
		return false
	}
}

// Stateful reports whether elements of this kind keep state across cycles.
func (t ElementType) Stateful() bool {
	return t.IsTimer() || t.IsCounter()
}

// Negated reports whether the element inverts the value it reads or writes.
func (t ElementType) Negated() bool {
	return t == ContactNegated || t == CoilNegated
}

// Position is the layout position of an element. It has no semantic effect.
type Position struct {
	X float64
	Y float64
}

// Element is one node of a network.
type Element struct {
	ID         string
	Type       ElementType
	Position   Position
	Inputs     []string
	Outputs    []string
	Properties map[string]string
}

// NewElement creates an element of type t with the ports t declares.
func NewElement(id string, t ElementType, pos Position) Element {
	return Element{
		ID:         id,
		Type:       t,
		Position:   pos,
		Inputs:     t.Inputs(),
		Outputs:    t.Outputs(),
		Properties: map[string]string{},
	}
}

// WithProperty returns a copy of e with the property set.
func (e Element) WithProperty(key, value string) Element {
	e = e.Clone()
	e.Properties[key] = value
	return e
}

// Property returns the named property.
func (e Element) Property(key string) (string, bool) {
	v, ok := e.Properties[key]
	return v, ok
}

// Variable returns the bound variable name, or "" if none is configured.
func (e Element) Variable() string {
	return e.Properties[PropVariable]
}

// Preset returns the configured timer or counter preset.
func (e Element) Preset() string {
	return e.Properties[PropPreset]
}

// Operand returns the second operand of a math or comparison block.
func (e Element) Operand() string {
	return e.Properties[PropOperand]
}

func (e Element) HasInput(port string) bool {
	return slices.Contains(e.Inputs, port)
}

func (e Element) HasOutput(port string) bool {
	return slices.Contains(e.Outputs, port)
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	e.Inputs = slices.Clone(e.Inputs)
	e.Outputs = slices.Clone(e.Outputs)

	props := make(map[string]string, len(e.Properties))
	for k, v := range e.Properties {
		props[k] = v
	}
	e.Properties = props

	return e
}

// Validate checks the element's structural invariant: a non-empty id and
// type, unique port names, and for known types exactly the declared ports.
// Unknown types are structurally valid; converters and the simulator report
// them when they meet them.
func (e Element) Validate() error {
	c := validate.New("element", e.ID)
	c.Check(e.ID != "", "id", "must not be empty")
	c.Check(e.Type != "", "type", "must not be empty")
	c.Check(uniquePorts(e.Inputs, e.Outputs), "ports", "port names must be unique")

	if e.Type.Known() {
		c.Check(slices.Equal(e.Inputs, e.Type.Inputs()),
			"inputs", "must be %v for %s, got %v", e.Type.Inputs(), e.Type, e.Inputs)
		c.Check(slices.Equal(e.Outputs, e.Type.Outputs()),
			"outputs", "must be %v for %s, got %v", e.Type.Outputs(), e.Type, e.Outputs)
	}

	return c.Err()
}

func uniquePorts(lists ...[]string) bool {
	seen := map[string]bool{}
	for _, l := range lists {
		for _, p := range l {
			if p == "" || seen[p] {
				return false
			}
			seen[p] = true
		}
	}
	return true
}
