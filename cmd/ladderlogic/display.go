package main

import (
	"strings"

	"github.com/mitchellh/cli"

	"github.com/sarchlab/ladderlogic/core"
)

// uiDisplay shows a session through a cli.Ui. Element states are shown only
// in visual mode.
type uiDisplay struct {
	ui     cli.Ui
	states bool
}

func (d uiDisplay) ShowState(s *core.Snapshot) {
	var sb strings.Builder
	if d.states {
		core.PrintSnapshot(&sb, s)
	} else {
		core.RenderVariables(&sb, s.Variables)
	}
	d.ui.Output(strings.TrimRight(sb.String(), "\n"))
}

func (d uiDisplay) Message(msg string) {
	d.ui.Info(msg)
}
