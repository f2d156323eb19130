package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace is the slog level of per-element scan traces.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// RenderVariables writes the variables as a table.
func RenderVariables(w io.Writer, vars *VariableStore) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Variables")
	t.AppendHeader(table.Row{"Name", "Type", "Value"})

	for _, v := range vars.List() {
		t.AppendRow(table.Row{v.Name, v.Type, v.Value})
	}

	t.Render()
}

// RenderStates writes the timer and counter state as two tables. Empty
// tables are omitted.
func RenderStates(w io.Writer, states *ElementStateStore) {
	if ids := states.TimerIDs(); len(ids) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle("Timers")
		t.AppendHeader(table.Row{"Element", "Running", "Elapsed", "WasOn"})
		for _, id := range ids {
			st, _ := states.LookupTimer(id)
			t.AppendRow(table.Row{id, st.Running, st.Elapsed, st.WasOn})
		}
		t.Render()
	}

	if ids := states.CounterIDs(); len(ids) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle("Counters")
		t.AppendHeader(table.Row{"Element", "Count", "PrevEdge"})
		for _, id := range ids {
			st, _ := states.LookupCounter(id)
			t.AppendRow(table.Row{id, st.Count, st.PrevEdge})
		}
		t.Render()
	}
}

// PrintSnapshot renders a snapshot with a cycle header.
func PrintSnapshot(w io.Writer, s *Snapshot) {
	fmt.Fprintf(w, "==============Cycle %d==============\n", s.Cycle)
	RenderVariables(w, s.Variables)
	RenderStates(w, s.States)
}

// LogState emits the full session state at debug level.
func LogState(ctx *Context) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	vars := make(map[string]any, ctx.Variables.Len())
	for _, v := range ctx.Variables.List() {
		vars[v.Name] = v.Value.Interface()
	}

	slog.Debug("StateCheckpoint",
		"Cycle", ctx.cycles,
		"Variables", vars,
		"Timers", ctx.States.TimerIDs(),
		"Counters", ctx.States.CounterIDs(),
	)
}
