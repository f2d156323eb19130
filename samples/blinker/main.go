package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ladderlogic/api"
	"github.com/sarchlab/ladderlogic/convert"
	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/instr"
	"github.com/tebeka/atexit"
)

//go:embed blinker.il
var program string

func blink(driver api.Driver, pulses int) error {
	for i := 0; i < pulses; i++ {
		driver.SetVariable("Start", core.BoolValue(true))
		if err := driver.RunCycles(8); err != nil {
			return err
		}

		driver.SetVariable("Start", core.BoolValue(false))
		if err := driver.RunCycles(2); err != nil {
			return err
		}

		core.PrintSnapshot(os.Stdout, driver.Snapshot())
	}

	return nil
}

func main() {
	prog, err := instr.ParseProgram(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	net, err := convert.BuildNetwork(prog.Instructions)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(10 * sim.Hz).
		Build("Driver")

	driver.LoadNetwork(net)

	if err := blink(driver, 3); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	done, _ := driver.Variables().Get("Done")
	fmt.Printf("Done = %s after %d scans\n", done.Value, driver.Cycles())

	atexit.Exit(0)
}
