package convert

import (
	"log/slog"

	"github.com/sarchlab/ladderlogic/instr"
	"github.com/sarchlab/ladderlogic/ladder"
)

type tracer struct {
	opts     Options
	net      *ladder.Network
	elements map[string]ladder.Element
	absorbed map[string]bool
	visited  map[string]bool
	out      []instr.Instruction
}

// Trace reconstructs a program from a network. Every element whose primary
// input is unwired starts a walk; each walk is a breadth-first traversal
// along output wires that emits at most one instruction per element and
// stops at coils. Walks run in element order.
//
// Contacts that only feed the second input of an AND or OR block are that
// block's operand and are never emitted on their own. The instruction order
// of a rung that branches and joins again follows the walk and is not
// guaranteed to be a valid evaluation order.
func (c *Converter) Trace(net *ladder.Network) []instr.Instruction {
	t := &tracer{
		opts:     c.opts,
		net:      net,
		elements: net.Index(),
		visited:  map[string]bool{},
	}
	t.absorbed = t.findAbsorbed()

	for _, el := range net.Elements {
		if t.visited[el.ID] || t.absorbed[el.ID] || !t.isEntry(el) {
			continue
		}
		t.walk(el.ID)
	}

	return t.out
}

func (t *tracer) findAbsorbed() map[string]bool {
	absorbed := map[string]bool{}

	for _, el := range t.net.Elements {
		if !el.Type.IsContact() {
			continue
		}

		out := t.net.Outgoing(el.ID, ladder.PortOut)
		if len(out) == 0 {
			continue
		}

		only := true
		for _, c := range out {
			dst, ok := t.elements[c.Target.Element]
			if !ok || c.Target.Port != ladder.PortIn2 ||
				(dst.Type != ladder.And && dst.Type != ladder.Or) {
				only = false
				break
			}
		}
		absorbed[el.ID] = only
	}

	return absorbed
}

func (t *tracer) isEntry(el ladder.Element) bool {
	port := el.Type.PrimaryInput()
	if port == "" && len(el.Inputs) > 0 {
		port = el.Inputs[0]
	}
	if port == "" {
		return true
	}
	return len(t.net.Incoming(el.ID, port)) == 0
}

func (t *tracer) walk(entry string) {
	queue := []string{entry}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if t.visited[id] {
			continue
		}
		t.visited[id] = true

		el := t.elements[id]
		inst, ok := t.instruction(el)
		if ok {
			t.out = append(t.out, inst)
		} else {
			slog.Warn("element has no instruction form, skipped",
				"element", el.ID, "type", el.Type, "policy", t.opts.UnknownElements)
			if t.opts.UnknownElements == StopAtUnknown {
				continue
			}
		}

		if el.Type.IsCoil() {
			continue
		}

		for _, port := range el.Outputs {
			for _, next := range t.net.Successors(el.ID, port) {
				if !t.visited[next.ID] && !t.absorbed[next.ID] {
					queue = append(queue, next.ID)
				}
			}
		}
	}
}

func (t *tracer) instruction(el ladder.Element) (instr.Instruction, bool) {
	switch el.Type {
	case ladder.Contact:
		return instr.Instruction{Operator: instr.LD, Operand: el.Variable()}, true
	case ladder.ContactNegated:
		return instr.Instruction{Operator: instr.LDN, Operand: el.Variable()}, true
	case ladder.Coil:
		return instr.Instruction{Operator: instr.ST, Operand: el.Variable()}, true
	case ladder.CoilNegated:
		return instr.Instruction{Operator: instr.STN, Operand: el.Variable()}, true
	case ladder.And, ladder.Or:
		return t.logic(el), true
	case ladder.Not:
		return instr.Instruction{Operator: instr.NOT}, true
	case ladder.TimerOn:
		return instr.Instruction{Operator: instr.TON, Operand: el.Preset()}, true
	case ladder.TimerOff:
		return instr.Instruction{Operator: instr.TOF, Operand: el.Preset()}, true
	case ladder.CounterUp:
		return instr.Instruction{Operator: instr.CTU, Operand: el.Preset()}, true
	case ladder.CounterDown:
		return instr.Instruction{Operator: instr.CTD, Operand: el.Preset()}, true
	default:
		op, ok := blockOperators[el.Type]
		if !ok {
			return instr.Instruction{}, false
		}
		return instr.Instruction{Operator: op, Operand: el.Operand()}, true
	}
}

// logic emits AND/OR with the variable of the contact wired into in2. A
// negated contact there turns the operator into ANDN/ORN.
func (t *tracer) logic(el ladder.Element) instr.Instruction {
	op, negOp := instr.AND, instr.ANDN
	if el.Type == ladder.Or {
		op, negOp = instr.OR, instr.ORN
	}

	src, ok := t.net.Feeder(el.ID, ladder.PortIn2)
	if !ok {
		return instr.Instruction{Operator: op}
	}

	if src.Type == ladder.ContactNegated {
		op = negOp
	}

	return instr.Instruction{Operator: op, Operand: src.Variable()}
}
