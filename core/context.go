package core

// Options tune the simulator.
type Options struct {
	// MemoizeStateful evaluates each timer and counter at most once per
	// cycle and shares the result between every coil it feeds. When false a
	// stateful block referenced twice in one cycle advances twice.
	MemoizeStateful bool
}

// Context is the state of one simulation session: the variable store, the
// timer and counter state, and the clock timers read.
//
// A Context is not safe for concurrent use. RunCycle and every manual write
// to Variables must be serialized by the caller; readers that tolerate a
// stale view should work on a Snapshot instead.
type Context struct {
	Variables *VariableStore
	States    *ElementStateStore
	Clock     Clock
	Options   Options

	cycles uint64
}

// NewContext creates a session context with empty stores. A nil clock means
// the wall clock.
func NewContext(clock Clock, opts Options) *Context {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Context{
		Variables: NewVariableStore(),
		States:    NewElementStateStore(),
		Clock:     clock,
		Options:   opts,
	}
}

// Cycles returns the number of completed scan cycles.
func (c *Context) Cycles() uint64 {
	return c.cycles
}

// Reset discards the element state and the cycle count. Call it whenever a
// new network is loaded into the session. Variables are kept.
func (c *Context) Reset() {
	c.States.Reset()
	c.cycles = 0
}

// Snapshot is a read-only copy of a context.
type Snapshot struct {
	Cycle     uint64
	Variables *VariableStore
	States    *ElementStateStore
}

// Snapshot copies the current state.
func (c *Context) Snapshot() *Snapshot {
	return &Snapshot{
		Cycle:     c.cycles,
		Variables: c.Variables.Clone(),
		States:    c.States.Clone(),
	}
}
