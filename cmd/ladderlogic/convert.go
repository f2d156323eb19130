package main

import (
	"fmt"

	"github.com/sarchlab/ladderlogic/config"
	"github.com/sarchlab/ladderlogic/convert"
	"github.com/sarchlab/ladderlogic/fileio"
	"github.com/sarchlab/ladderlogic/instr"
)

const (
	modeILToLD = "il2ld"
	modeLDToIL = "ld2il"
)

func (a *app) convert(cfg config.Config, o options) error {
	conv := convert.New(cfg.ConvertOptions())

	switch o.mode {
	case modeILToLD:
		prog, err := fileio.LoadProgram(a.fs, o.input)
		if err != nil {
			return err
		}

		net, err := conv.Build(prog.Instructions)
		if err != nil {
			return err
		}

		if err := fileio.SaveNetwork(a.fs, o.output, net); err != nil {
			return err
		}

		a.ui.Info(fmt.Sprintf("wrote %d elements and %d connections to %s",
			len(net.Elements), len(net.Connections), o.output))
	case modeLDToIL:
		net, err := fileio.LoadNetwork(a.fs, o.input)
		if err != nil {
			return err
		}

		prog := instr.Program{Instructions: conv.Trace(net)}
		if err := fileio.SaveProgram(a.fs, o.output, prog); err != nil {
			return err
		}

		a.ui.Info(fmt.Sprintf("wrote %d instructions to %s", prog.Len(), o.output))
	}

	return nil
}
