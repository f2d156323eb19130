// Command ladderlogic converts between Instruction List programs and ladder
// networks, and simulates ladder networks interactively.
//
//	ladderlogic -i prog.il -o net.json -c il2ld
//	ladderlogic -i net.json -o prog.il -c ld2il
//	ladderlogic -s net.json [-v]
//	ladderlogic -s net.json -e net.dot
//	ladderlogic -lint net.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/ladderlogic/config"
	"github.com/sarchlab/ladderlogic/session"
)

const usage = `Usage: ladderlogic [options]

  -i FILE -o FILE -c il2ld|ld2il   convert a program or network
  -s FILE                          simulate a network interactively
  -s FILE -v                       simulate, showing element state after each scan
  -s FILE -e FILE                  export the network as Graphviz DOT
  -lint FILE                       check a network and dry-run it
  -config FILE                     configuration file (default ladderlogic.yaml)
  -debug                           log at debug level
  -h                               show this help

Session commands: an empty line scans once, set VAR VALUE, visual,
continuous, exit.
`

type options struct {
	input      string
	output     string
	mode       string
	simulate   string
	visual     bool
	export     string
	lint       string
	configPath string
	debug      bool
	help       bool
}

var errUsage = errors.New("invalid arguments")

func parseArgs(args []string) (options, error) {
	var o options

	fl := flag.NewFlagSet("ladderlogic", flag.ContinueOnError)
	fl.SetOutput(io.Discard)
	fl.StringVar(&o.input, "i", "", "")
	fl.StringVar(&o.output, "o", "", "")
	fl.StringVar(&o.mode, "c", "", "")
	fl.StringVar(&o.simulate, "s", "", "")
	fl.BoolVar(&o.visual, "v", false, "")
	fl.StringVar(&o.export, "e", "", "")
	fl.StringVar(&o.lint, "lint", "", "")
	fl.StringVar(&o.configPath, "config", "ladderlogic.yaml", "")
	fl.BoolVar(&o.debug, "debug", false, "")
	fl.BoolVar(&o.help, "h", false, "")

	if err := fl.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			o.help = true
			return o, nil
		}
		return o, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fl.NArg() > 0 {
		return o, fmt.Errorf("%w: unexpected argument %q", errUsage, fl.Arg(0))
	}

	return o, nil
}

func (o options) check() error {
	switch {
	case o.lint != "":
		if o.simulate != "" || o.input != "" || o.output != "" || o.mode != "" {
			return fmt.Errorf("%w: -lint cannot be combined with other modes", errUsage)
		}
	case o.simulate != "":
		if o.input != "" || o.output != "" || o.mode != "" {
			return fmt.Errorf("%w: -s cannot be combined with -i, -o or -c", errUsage)
		}
	case o.input != "" || o.output != "" || o.mode != "":
		if o.input == "" || o.output == "" || o.mode == "" {
			return fmt.Errorf("%w: conversion needs -i, -o and -c", errUsage)
		}
		if o.mode != modeILToLD && o.mode != modeLDToIL {
			return fmt.Errorf("%w: -c must be %s or %s", errUsage, modeILToLD, modeLDToIL)
		}
		if o.visual || o.export != "" {
			return fmt.Errorf("%w: -v and -e need -s", errUsage)
		}
	default:
		return fmt.Errorf("%w: nothing to do", errUsage)
	}

	return nil
}

// app is one invocation of the command.
type app struct {
	fs        afero.Fs
	ui        cli.Ui
	newReader func() (session.LineReader, error)
}

func (a *app) run(args []string) int {
	o, err := parseArgs(args)
	if err == nil && !o.help {
		err = o.check()
	}
	if o.help {
		a.ui.Output(usage)
		return 0
	}
	if err != nil {
		a.ui.Error(err.Error())
		a.ui.Error(usage)
		return 1
	}

	cfg, err := config.Load(a.fs, o.configPath)
	if err != nil {
		a.ui.Error(err.Error())
		return 1
	}

	level := cfg.SlogLevel()
	if o.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	switch {
	case o.lint != "":
		err = a.lint(cfg, o)
	case o.simulate != "":
		err = a.simulate(cfg, o)
	default:
		err = a.convert(cfg, o)
	}
	if err != nil {
		a.ui.Error(err.Error())
		return 1
	}

	return 0
}

func main() {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	a := &app{
		fs:        afero.NewOsFs(),
		ui:        ui,
		newReader: newPromptReader,
	}

	atexit.Exit(a.run(os.Args[1:]))
}
