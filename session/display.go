package session

import (
	"fmt"
	"io"

	"github.com/sarchlab/ladderlogic/core"
)

// Display presents the session to the user.
type Display interface {
	// ShowState renders a snapshot of the simulation.
	ShowState(s *core.Snapshot)

	// Message prints one line of feedback.
	Message(msg string)
}

// TableDisplay renders snapshots as go-pretty tables.
type TableDisplay struct {
	W io.Writer
}

func (d TableDisplay) ShowState(s *core.Snapshot) {
	core.PrintSnapshot(d.W, s)
}

func (d TableDisplay) Message(msg string) {
	fmt.Fprintln(d.W, msg)
}
