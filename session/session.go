// Package session is the interactive front of the simulator. A Session owns
// one network and one simulation context. Scan cycles and manual variable
// writes are serialized by a mutex; displays read an atomically published
// snapshot that may be one cycle stale.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/ladder"
)

// LineReader supplies command lines. ReadLine returns io.EOF when input
// ends.
type LineReader interface {
	ReadLine() (string, error)
}

// Session runs a network interactively.
type Session struct {
	mu  sync.Mutex
	net *ladder.Network
	ctx *core.Context

	snapshot   atomic.Pointer[core.Snapshot]
	continuous atomic.Bool

	display Display
	period  time.Duration
}

// Builder creates sessions.
type Builder struct {
	display Display
	period  time.Duration
	clock   core.Clock
	opts    core.Options
}

// WithDisplay sets where state and messages go.
func (b Builder) WithDisplay(d Display) Builder {
	b.display = d
	return b
}

// WithScanPeriod sets the period of continuous mode.
func (b Builder) WithScanPeriod(d time.Duration) Builder {
	b.period = d
	return b
}

// WithClock sets the clock timers read. The default is the wall clock.
func (b Builder) WithClock(c core.Clock) Builder {
	b.clock = c
	return b
}

// WithOptions sets the simulator options.
func (b Builder) WithOptions(opts core.Options) Builder {
	b.opts = opts
	return b
}

// Build creates a session for net with its variables seeded.
func (b Builder) Build(net *ladder.Network) *Session {
	if b.display == nil {
		panic("session needs a display")
	}
	if b.period <= 0 {
		b.period = 100 * time.Millisecond
	}

	s := &Session{
		net:     net,
		ctx:     core.NewContext(b.clock, b.opts),
		display: b.display,
		period:  b.period,
	}
	core.SeedVariables(net, s.ctx.Variables)
	s.publish()

	return s
}

func (s *Session) publish() {
	s.snapshot.Store(s.ctx.Snapshot())
}

// Snapshot returns the last published state without locking.
func (s *Session) Snapshot() *core.Snapshot {
	return s.snapshot.Load()
}

// Step runs one scan cycle.
func (s *Session) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := core.RunCycle(s.net, s.ctx)
	s.publish()

	return err
}

// Set writes a variable from its text form. An existing variable keeps its
// type; a new one gets the type the literal implies.
func (s *Session) Set(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.ctx.Variables.Get(name); ok {
		v, err := core.ParseValue(text, old.Type)
		if err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		s.ctx.Variables.Set(name, old.Type, v)
	} else {
		v, t, err := core.InferValue(text)
		if err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		s.ctx.Variables.Set(name, t, v)
	}

	s.publish()
	return nil
}

// Execute runs one command line. quit is true after exit.
func (s *Session) Execute(ctx context.Context, line string, lines LineReader) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		if err := s.Step(); err != nil {
			return false, err
		}
		s.display.ShowState(s.Snapshot())
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return true, nil
	case "set":
		if len(fields) < 3 {
			s.display.Message("usage: set VAR VALUE")
			return false, nil
		}
		if err := s.Set(fields[1], strings.Join(fields[2:], " ")); err != nil {
			s.display.Message(err.Error())
			return false, nil
		}
		s.display.Message(fmt.Sprintf("%s = %s", fields[1], strings.Join(fields[2:], " ")))
	case "visual":
		s.display.ShowState(s.Snapshot())
	case "continuous":
		return false, s.RunContinuous(ctx, lines)
	default:
		s.display.Message(fmt.Sprintf(
			"unknown command %q; use exit, set VAR VALUE, visual, continuous, or an empty line to scan once",
			fields[0]))
	}

	return false, nil
}

// RunContinuous scans every period until a line is read from lines. The stop
// flag is polled once per tick, so an in-flight cycle always completes. A
// done ctx or a failing cycle stops the scans, but RunContinuous returns only
// once the pending read has finished.
func (s *Session) RunContinuous(ctx context.Context, lines LineReader) error {
	s.continuous.Store(true)
	s.display.Message(fmt.Sprintf("scanning every %s, press Enter to stop", s.period))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(s.period)
		defer ticker.Stop()

		for s.continuous.Load() {
			select {
			case <-ctx.Done():
				s.continuous.Store(false)
				return nil
			case <-ticker.C:
			}

			if err := s.Step(); err != nil {
				s.continuous.Store(false)
				s.display.Message("scan stopped, press Enter: " + err.Error())
				return err
			}
		}
		return nil
	})

	g.Go(func() error {
		_, err := lines.ReadLine()
		s.continuous.Store(false)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	})

	err := g.Wait()
	s.display.ShowState(s.Snapshot())

	return err
}

// Run reads and executes commands until exit, end of input, or a scan error.
// Command errors are shown and the session continues.
func (s *Session) Run(ctx context.Context, lines LineReader) error {
	for {
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := s.Execute(ctx, line, lines)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}
