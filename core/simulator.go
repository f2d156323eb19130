package core

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sarchlab/ladderlogic/ladder"
)

var (
	// ErrCyclicNetwork is wrapped by CycleError.
	ErrCyclicNetwork = errors.New("cyclic network")

	// ErrUnknownVariable is reported when an element reads a variable that
	// is not in the store.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrMissingProperty is reported when an element lacks a property it
	// needs to evaluate.
	ErrMissingProperty = errors.New("missing property")
)

// CycleError reports an element that transitively feeds its own input.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCyclicNetwork, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicNetwork
}

// RunCycle executes one scan cycle: every coil, in network order, evaluates
// the element feeding its input and writes the result to its variable. A
// plain coil whose variable is INT or REAL stores a numeric result as a
// number rather than a BOOL. It returns the updated variable store. A cyclic feed path aborts the cycle
// with a CycleError; every other evaluation problem is logged at the element
// and the element reads as false.
func RunCycle(net *ladder.Network, ctx *Context) (*VariableStore, error) {
	ev := newEvaluator(net, ctx)

	for _, el := range net.Elements {
		if !el.Type.IsCoil() {
			continue
		}

		name := el.Variable()
		feeder, ok := ev.feeders[ladder.Endpoint{Element: el.ID, Port: ladder.PortIn}]
		if name == "" || !ok {
			Trace("CoilSkipped", "element", el.ID, "cycle", ctx.cycles)
			continue
		}

		v, err := ev.evaluate(feeder)
		if err != nil {
			return ctx.Variables, fmt.Errorf("scan cycle %d, coil %q: %w", ctx.cycles, el.ID, err)
		}

		ev.writeCoil(el, name, v)
	}

	ctx.cycles++
	LogState(ctx)

	return ctx.Variables, nil
}

// Evaluate computes the output of one element against the context. It
// advances timer and counter state like a scan cycle would.
func Evaluate(net *ladder.Network, ctx *Context, id string) (Value, error) {
	ev := newEvaluator(net, ctx)
	if _, ok := ev.elements[id]; !ok {
		return Value{}, fmt.Errorf("%w: %q", ladder.ErrElementNotFound, id)
	}
	return ev.evaluate(id)
}

type evaluator struct {
	ctx      *Context
	now      time.Time
	elements map[string]ladder.Element
	feeders  map[ladder.Endpoint]string

	onPath map[string]bool
	path   []string
	memo   map[string]Value
}

func newEvaluator(net *ladder.Network, ctx *Context) *evaluator {
	ev := &evaluator{
		ctx:      ctx,
		now:      ctx.Clock.Now(),
		elements: net.Index(),
		feeders:  make(map[ladder.Endpoint]string, len(net.Connections)),
		onPath:   map[string]bool{},
		memo:     map[string]Value{},
	}

	for _, c := range net.Connections {
		if _, dup := ev.feeders[c.Target]; !dup {
			ev.feeders[c.Target] = c.Source.Element
		}
	}

	return ev
}

func (ev *evaluator) evaluate(id string) (Value, error) {
	if ev.onPath[id] {
		start := 0
		for i, p := range ev.path {
			if p == id {
				start = i
				break
			}
		}
		path := append(append([]string{}, ev.path[start:]...), id)
		return Value{}, &CycleError{Path: path}
	}

	if v, ok := ev.memo[id]; ok {
		return v, nil
	}

	el, ok := ev.elements[id]
	if !ok {
		return BoolValue(false), nil
	}

	ev.onPath[id] = true
	ev.path = append(ev.path, id)
	defer func() {
		ev.path = ev.path[:len(ev.path)-1]
		delete(ev.onPath, id)
	}()

	v, err := ev.evalElement(el)
	if err != nil {
		var cycle *CycleError
		if errors.As(err, &cycle) {
			return Value{}, err
		}

		slog.Warn("element evaluation failed, treating as false",
			"element", el.ID, "type", el.Type, "error", err)
		v = BoolValue(false)
	}

	if ev.ctx.Options.MemoizeStateful && el.Type.Stateful() {
		ev.memo[id] = v
	}

	return v, nil
}

// input evaluates the element wired into port. ok is false when the port is
// unconnected.
func (ev *evaluator) input(el ladder.Element, port string) (v Value, ok bool, err error) {
	src, ok := ev.feeders[ladder.Endpoint{Element: el.ID, Port: port}]
	if !ok {
		return Value{}, false, nil
	}

	v, err = ev.evaluate(src)
	return v, true, err
}

func (ev *evaluator) inputBool(el ladder.Element, port string) (bool, error) {
	v, ok, err := ev.input(el, port)
	if err != nil || !ok {
		return false, err
	}
	return v.Bool(), nil
}

func (ev *evaluator) inputNumber(el ladder.Element, port string) (float64, error) {
	v, ok, err := ev.input(el, port)
	if err != nil || !ok {
		return 0, err
	}
	return v.Number(), nil
}

func (ev *evaluator) evalElement(el ladder.Element) (Value, error) {
	switch el.Type {
	case ladder.Contact, ladder.ContactNegated:
		return ev.evalContact(el)
	case ladder.Coil, ladder.CoilNegated:
		in, err := ev.inputBool(el, ladder.PortIn)
		return BoolValue(in != el.Type.Negated()), err
	case ladder.And, ladder.Or:
		return ev.evalLogic(el)
	case ladder.Not:
		in, err := ev.inputBool(el, ladder.PortIn)
		return BoolValue(!in), err
	case ladder.TimerOn:
		return ev.evalTimerOn(el)
	case ladder.TimerOff:
		return ev.evalTimerOff(el)
	case ladder.CounterUp:
		return ev.evalCounterUp(el)
	case ladder.CounterDown:
		return ev.evalCounterDown(el)
	case ladder.Add, ladder.Subtract, ladder.Multiply, ladder.Divide:
		return ev.evalArithmetic(el)
	case ladder.GreaterThan, ladder.GreaterEqual, ladder.Equal,
		ladder.NotEqual, ladder.LessEqual, ladder.LessThan:
		return ev.evalComparison(el)
	case ladder.TimerPulse, ladder.CounterUpDown:
		slog.Warn("element type is not simulated, treating as false",
			"element", el.ID, "type", el.Type)
		return BoolValue(false), nil
	default:
		slog.Warn("unknown element type, treating as false",
			"element", el.ID, "type", el.Type)
		return BoolValue(false), nil
	}
}

func (ev *evaluator) evalContact(el ladder.Element) (Value, error) {
	name := el.Variable()
	if name == "" {
		return Value{}, fmt.Errorf("%w %q", ErrMissingProperty, ladder.PropVariable)
	}

	v, ok := ev.ctx.Variables.Get(name)
	if !ok {
		return Value{}, fmt.Errorf("%w %q", ErrUnknownVariable, name)
	}

	if el.Type.Negated() {
		return BoolValue(!v.Value.Bool()), nil
	}
	return v.Value, nil
}

func (ev *evaluator) evalLogic(el ladder.Element) (Value, error) {
	a, err := ev.inputBool(el, ladder.PortIn1)
	if err != nil {
		return Value{}, err
	}

	b, err := ev.inputBool(el, ladder.PortIn2)
	if err != nil {
		return Value{}, err
	}

	if el.Type == ladder.And {
		return BoolValue(a && b), nil
	}
	return BoolValue(a || b), nil
}

// resolveOperand turns the operand property into a number: a numeric or
// T# literal is used directly, any other text names a variable.
func (ev *evaluator) resolveOperand(el ladder.Element) (float64, error) {
	op := strings.TrimSpace(el.Operand())
	if op == "" {
		return 0, fmt.Errorf("%w %q", ErrMissingProperty, ladder.PropOperand)
	}

	if f, err := strconv.ParseFloat(op, 64); err == nil {
		return f, nil
	}
	if d, ok := ParseTimeLiteral(op); ok {
		return float64(d.Milliseconds()), nil
	}

	v, ok := ev.ctx.Variables.Get(op)
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownVariable, op)
	}
	return v.Value.Number(), nil
}

func (ev *evaluator) evalArithmetic(el ladder.Element) (Value, error) {
	a, err := ev.inputNumber(el, ladder.PortIn1)
	if err != nil {
		return Value{}, err
	}

	b, err := ev.resolveOperand(el)
	if err != nil {
		return Value{}, err
	}

	switch el.Type {
	case ladder.Add:
		return NumberValue(a + b), nil
	case ladder.Subtract:
		return NumberValue(a - b), nil
	case ladder.Multiply:
		return NumberValue(a * b), nil
	default:
		if b == 0 {
			slog.Warn("division by zero, result set to 0", "element", el.ID)
			return NumberValue(0), nil
		}
		return NumberValue(a / b), nil
	}
}

func (ev *evaluator) evalComparison(el ladder.Element) (Value, error) {
	a, err := ev.inputNumber(el, ladder.PortIn1)
	if err != nil {
		return Value{}, err
	}

	b, err := ev.resolveOperand(el)
	if err != nil {
		return Value{}, err
	}

	var r bool
	switch el.Type {
	case ladder.GreaterThan:
		r = a > b
	case ladder.GreaterEqual:
		r = a >= b
	case ladder.Equal:
		r = a == b
	case ladder.NotEqual:
		r = a != b
	case ladder.LessEqual:
		r = a <= b
	default:
		r = a < b
	}

	return BoolValue(r), nil
}

// writeCoil stores a coil result. A plain coil driving a numeric variable
// from a numeric block stores the number; everything else stores a BOOL.
func (ev *evaluator) writeCoil(el ladder.Element, name string, v Value) {
	vars := ev.ctx.Variables

	if el.Type == ladder.CoilNegated {
		vars.SetBool(name, !v.Bool())
		return
	}

	if old, ok := vars.Get(name); ok && v.IsNumber() && (old.Type == Int || old.Type == Real) {
		vars.Set(name, old.Type, v)
		return
	}

	vars.SetBool(name, v.Bool())
}
