package core

import "github.com/sarchlab/ladderlogic/ladder"

// evalCounterUp implements CTU: rising edges on cu count up to the preset,
// a true r clears the count.
func (ev *evaluator) evalCounterUp(el ladder.Element) (Value, error) {
	cu, err := ev.inputBool(el, ladder.PortCU)
	if err != nil {
		return Value{}, err
	}

	reset, err := ev.inputBool(el, ladder.PortR)
	if err != nil {
		return Value{}, err
	}

	preset := ParseCounterPreset(el.Preset(), ev.ctx.Variables)
	st := ev.ctx.States.Counter(el.ID, 0)

	switch {
	case reset:
		st.Count = 0
	case cu && !st.PrevEdge && st.Count < preset:
		st.Count++
	}
	st.PrevEdge = cu

	Trace("CounterUp", "element", el.ID, "count", st.Count, "preset", preset)

	return BoolValue(st.Count >= preset), nil
}

// evalCounterDown implements CTD: the count starts at the preset, rising
// edges on cd count down to zero, a true ld reloads the preset.
func (ev *evaluator) evalCounterDown(el ladder.Element) (Value, error) {
	cd, err := ev.inputBool(el, ladder.PortCD)
	if err != nil {
		return Value{}, err
	}

	load, err := ev.inputBool(el, ladder.PortLD)
	if err != nil {
		return Value{}, err
	}

	preset := ParseCounterPreset(el.Preset(), ev.ctx.Variables)
	st := ev.ctx.States.Counter(el.ID, preset)

	switch {
	case load:
		st.Count = preset
	case cd && !st.PrevEdge && st.Count > 0:
		st.Count--
	}
	st.PrevEdge = cd

	Trace("CounterDown", "element", el.ID, "count", st.Count, "preset", preset)

	return BoolValue(st.Count == 0), nil
}
