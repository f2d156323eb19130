package convert

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/ladderlogic/instr"
	"github.com/sarchlab/ladderlogic/ladder"
)

const (
	columnWidth = 120.0
	rowHeight   = 100.0
	branchDrop  = 50.0
)

type builder struct {
	opts    Options
	net     *ladder.Network
	current string
	x, y    float64
}

// Build turns a program into a freshly identified network. Instructions are
// applied in order against an accumulator element; each ST closes a rung.
// AND/OR without an accumulator still places the block and wires its
// contact into in2, leaving in1 open.
// Operators without a ladder form are logged and skipped. The result is
// validated before it is returned.
func (c *Converter) Build(prog []instr.Instruction) (*ladder.Network, error) {
	b := &builder{
		opts: c.opts,
		net:  ladder.NewNetwork(""),
	}

	for i, inst := range prog {
		b.step(i, inst)
	}

	if err := b.net.Validate(); err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}

	return b.net, nil
}

func (b *builder) step(index int, inst instr.Instruction) {
	switch op := inst.Operator; op {
	case instr.LD, instr.LDN:
		b.current = b.contact(op.Negated(), inst.Operand, 0)
		b.x += columnWidth
	case instr.ST, instr.STN:
		t := ladder.Coil
		if op.Negated() {
			t = ladder.CoilNegated
		}
		coil := b.place(t, 0, ladder.PropVariable, inst.Operand)
		b.feed(coil, ladder.PortIn)
		b.current = ""
		b.x = 0
		b.y += rowHeight
	case instr.AND, instr.ANDN, instr.OR, instr.ORN:
		t := ladder.And
		if op == instr.OR || op == instr.ORN {
			t = ladder.Or
		}
		contact := b.contact(op.Negated(), inst.Operand, branchDrop)
		block := b.place(t, 0, "", "")
		b.x += columnWidth
		b.feed(block, ladder.PortIn1)
		b.connect(contact, block, ladder.PortIn2)
		b.current = block
	case instr.NOT:
		b.chain(ladder.Not, ladder.PortIn, "", "")
	case instr.TON:
		b.chain(ladder.TimerOn, ladder.PortIn, ladder.PropPreset, b.preset(inst, b.opts.DefaultTimerPreset))
	case instr.TOF:
		b.chain(ladder.TimerOff, ladder.PortIn, ladder.PropPreset, b.preset(inst, b.opts.DefaultTimerPreset))
	case instr.CTU:
		b.chain(ladder.CounterUp, ladder.PortCU, ladder.PropPreset, b.preset(inst, b.opts.DefaultCounterPreset))
	case instr.CTD:
		b.chain(ladder.CounterDown, ladder.PortCD, ladder.PropPreset, b.preset(inst, b.opts.DefaultCounterPreset))
	default:
		t, ok := blockTypes[op]
		if !ok {
			slog.Warn("operator has no ladder form, skipped",
				"operator", op, "operand", inst.Operand, "index", index)
			return
		}
		b.chain(t, ladder.PortIn1, ladder.PropOperand, inst.Operand)
	}
}

func (b *builder) preset(inst instr.Instruction, def string) string {
	if inst.HasOperand() {
		return inst.Operand
	}
	return def
}

// contact places a contact bound to variable dy below the rung line.
func (b *builder) contact(negated bool, variable string, dy float64) string {
	t := ladder.Contact
	if negated {
		t = ladder.ContactNegated
	}
	return b.place(t, dy, ladder.PropVariable, variable)
}

// chain places a block fed by the accumulator through port and makes it the
// new accumulator.
func (b *builder) chain(t ladder.ElementType, port, key, value string) {
	block := b.place(t, 0, key, value)
	b.x += columnWidth
	b.feed(block, port)
	b.current = block
}

// place appends an element at the cursor. An empty value leaves the
// property unset.
func (b *builder) place(t ladder.ElementType, dy float64, key, value string) string {
	el := ladder.NewElement(b.net.NextID(t), t, ladder.Position{X: b.x, Y: b.y + dy})
	if key != "" && value != "" {
		el.Properties[key] = value
	}
	b.net.Elements = append(b.net.Elements, el)
	return el.ID
}

// feed wires the accumulator, if any, into port of id.
func (b *builder) feed(id, port string) {
	if b.current == "" {
		return
	}
	b.connect(b.current, id, port)
}

func (b *builder) connect(src, dst, port string) {
	b.net.Connections = append(b.net.Connections,
		ladder.Connect(src, ladder.PortOut, dst, port))
}
