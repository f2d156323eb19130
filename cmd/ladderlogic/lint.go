package main

import (
	"errors"
	"strings"

	"github.com/sarchlab/ladderlogic/config"
	"github.com/sarchlab/ladderlogic/fileio"
	"github.com/sarchlab/ladderlogic/verify"
)

const lintCycles = 20

var errLintFailed = errors.New("network did not pass verification")

func (a *app) lint(cfg config.Config, o options) error {
	net, err := fileio.ReadNetwork(a.fs, o.lint)
	if err != nil {
		return err
	}

	report := verify.GenerateReport(net, lintCycles, cfg.CoreOptions())

	var sb strings.Builder
	report.WriteReport(&sb)
	a.ui.Output(sb.String())

	if !report.Passed() {
		return errLintFailed
	}
	return nil
}
