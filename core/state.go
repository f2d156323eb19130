package core

import (
	"maps"
	"slices"
	"time"
)

// TimerState is the persistent state of a TON or TOF block.
type TimerState struct {
	Running   bool
	StartTime time.Time
	Elapsed   time.Duration
	WasOn     bool // TOF falling-edge detection
}

// CounterState is the persistent state of a CTU or CTD block.
type CounterState struct {
	Count    int
	PrevEdge bool // last seen value of the counting input
}

// ElementStateStore holds timer and counter state by element id for the
// lifetime of a simulation session.
type ElementStateStore struct {
	timers   map[string]*TimerState
	counters map[string]*CounterState
}

// NewElementStateStore creates an empty store.
func NewElementStateStore() *ElementStateStore {
	return &ElementStateStore{
		timers:   map[string]*TimerState{},
		counters: map[string]*CounterState{},
	}
}

// Timer returns the timer state of the element, creating an idle one.
func (s *ElementStateStore) Timer(id string) *TimerState {
	st, ok := s.timers[id]
	if !ok {
		st = &TimerState{}
		s.timers[id] = st
	}
	return st
}

// Counter returns the counter state of the element, creating one with the
// given initial count.
func (s *ElementStateStore) Counter(id string, initial int) *CounterState {
	st, ok := s.counters[id]
	if !ok {
		st = &CounterState{Count: initial}
		s.counters[id] = st
	}
	return st
}

// LookupTimer returns the timer state without creating it.
func (s *ElementStateStore) LookupTimer(id string) (TimerState, bool) {
	st, ok := s.timers[id]
	if !ok {
		return TimerState{}, false
	}
	return *st, true
}

// LookupCounter returns the counter state without creating it.
func (s *ElementStateStore) LookupCounter(id string) (CounterState, bool) {
	st, ok := s.counters[id]
	if !ok {
		return CounterState{}, false
	}
	return *st, true
}

// TimerIDs returns the ids of the elements with timer state, sorted.
func (s *ElementStateStore) TimerIDs() []string {
	return slices.Sorted(maps.Keys(s.timers))
}

// CounterIDs returns the ids of the elements with counter state, sorted.
func (s *ElementStateStore) CounterIDs() []string {
	return slices.Sorted(maps.Keys(s.counters))
}

// Reset discards all element state.
func (s *ElementStateStore) Reset() {
	clear(s.timers)
	clear(s.counters)
}

// Clone returns an independent copy of the store.
func (s *ElementStateStore) Clone() *ElementStateStore {
	c := NewElementStateStore()
	for id, st := range s.timers {
		cp := *st
		c.timers[id] = &cp
	}
	for id, st := range s.counters {
		cp := *st
		c.counters[id] = &cp
	}
	return c
}
