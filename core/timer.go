package core

import "github.com/sarchlab/ladderlogic/ladder"

// evalTimerOn implements TON: the output turns on once the input has been
// continuously on for the preset duration.
func (ev *evaluator) evalTimerOn(el ladder.Element) (Value, error) {
	in, err := ev.inputBool(el, ladder.PortIn)
	if err != nil {
		return Value{}, err
	}

	preset := ParseTimePreset(el.Preset())
	st := ev.ctx.States.Timer(el.ID)

	switch {
	case in && !st.Running:
		st.Running = true
		st.StartTime = ev.now
		st.Elapsed = 0
	case in:
		st.Elapsed = ev.now.Sub(st.StartTime)
	default:
		*st = TimerState{}
	}

	Trace("TimerOn", "element", el.ID, "in", in, "elapsed", st.Elapsed, "preset", preset)

	return BoolValue(in && st.Elapsed >= preset), nil
}

// evalTimerOff implements TOF: the output follows the input on and stays on
// for the preset duration after the input falls.
func (ev *evaluator) evalTimerOff(el ladder.Element) (Value, error) {
	in, err := ev.inputBool(el, ladder.PortIn)
	if err != nil {
		return Value{}, err
	}

	preset := ParseTimePreset(el.Preset())
	st := ev.ctx.States.Timer(el.ID)

	switch {
	case !in && st.WasOn:
		st.Running = true
		st.StartTime = ev.now
		st.Elapsed = 0
		st.WasOn = false
	case st.Running:
		st.Elapsed = ev.now.Sub(st.StartTime)
		if st.Elapsed >= preset {
			st.Running = false
			st.Elapsed = preset
		}
		st.WasOn = in
	default:
		st.WasOn = in
	}

	Trace("TimerOff", "element", el.ID, "in", in, "running", st.Running, "elapsed", st.Elapsed)

	return BoolValue(in || st.Running), nil
}
