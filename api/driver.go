// Package api defines the scan driver that runs a ladder network on an akita
// simulation engine.
package api

import (
	"fmt"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/ladder"
)

// Driver runs scan cycles of a network, one cycle per tick of the engine.
// Timers read the engine's virtual time, so runs are reproducible.
type Driver interface {
	// LoadNetwork replaces the network. Element state and the cycle count
	// are discarded, variables are kept and missing ones are declared.
	LoadNetwork(net *ladder.Network)

	// SetVariable writes a variable, keeping its type if it exists.
	SetVariable(name string, v core.Value)

	// Variables returns the live variable store.
	Variables() *core.VariableStore

	// States returns the live timer and counter state.
	States() *core.ElementStateStore

	// Snapshot copies the current state.
	Snapshot() *core.Snapshot

	// RunCycles runs n scan cycles and returns when they are done or a
	// cycle failed.
	RunCycles(n int) error

	// Cycles returns the number of completed scan cycles.
	Cycles() uint64
}

type driverImpl struct {
	*sim.TickingComponent

	net     *ladder.Network
	ctx     *core.Context
	pending int
	err     error
}

// Tick runs one scan cycle if any is pending.
func (d *driverImpl) Tick() (madeProgress bool) {
	if d.pending == 0 || d.net == nil {
		return false
	}

	if _, err := core.RunCycle(d.net, d.ctx); err != nil {
		d.err = err
		d.pending = 0
		return false
	}

	d.pending--
	core.Trace("ScanCycle",
		"driver", d.Name(),
		"cycle", d.ctx.Cycles(),
		"time", float64(d.Engine.CurrentTime()*1e3),
	)

	return d.pending > 0
}

func (d *driverImpl) LoadNetwork(net *ladder.Network) {
	d.net = net
	d.ctx.Reset()
	core.SeedVariables(net, d.ctx.Variables)
}

func (d *driverImpl) SetVariable(name string, v core.Value) {
	d.ctx.Variables.Assign(name, v)
}

func (d *driverImpl) Variables() *core.VariableStore {
	return d.ctx.Variables
}

func (d *driverImpl) States() *core.ElementStateStore {
	return d.ctx.States
}

func (d *driverImpl) Snapshot() *core.Snapshot {
	return d.ctx.Snapshot()
}

func (d *driverImpl) Cycles() uint64 {
	return d.ctx.Cycles()
}

// RunCycles schedules n cycles and runs the engine until they are done.
func (d *driverImpl) RunCycles(n int) error {
	if d.net == nil {
		return fmt.Errorf("driver %s: no network loaded", d.Name())
	}
	if n <= 0 {
		return nil
	}

	d.err = nil
	d.pending += n
	d.TickLater()

	if err := d.Engine.Run(); err != nil {
		return fmt.Errorf("driver %s: %w", d.Name(), err)
	}

	return d.err
}

// engineClock maps the engine's virtual time onto wall-clock timestamps
// starting at epoch.
type engineClock struct {
	engine sim.TimeTeller
	epoch  time.Time
}

func (c engineClock) Now() time.Time {
	sec := float64(c.engine.CurrentTime())
	return c.epoch.Add(time.Duration(sec * float64(time.Second)))
}
