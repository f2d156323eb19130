package api

import (
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ladderlogic/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	opts   core.Options
	epoch  time.Time
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the scan frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithOptions sets the simulator options.
func (b DriverBuilder) WithOptions(opts core.Options) DriverBuilder {
	b.opts = opts
	return b
}

// WithEpoch sets the timestamp that engine time zero maps to.
func (b DriverBuilder) WithEpoch(epoch time.Time) DriverBuilder {
	b.epoch = epoch
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("driver needs an engine")
	}
	if b.freq == 0 {
		b.freq = 10 * sim.Hz
	}

	d := &driverImpl{}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)
	d.ctx = core.NewContext(engineClock{engine: b.engine, epoch: b.epoch}, b.opts)

	return d
}
