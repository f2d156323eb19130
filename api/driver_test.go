package api_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/ladderlogic/api"
	"github.com/sarchlab/ladderlogic/convert"
	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/instr"
	"github.com/sarchlab/ladderlogic/ladder"
)

func build(il string) *ladder.Network {
	prog, err := instr.ParseProgram(il)
	Expect(err).NotTo(HaveOccurred())

	net, err := convert.BuildNetwork(prog.Instructions)
	Expect(err).NotTo(HaveOccurred())

	return net
}

func boolVar(d api.Driver, name string) bool {
	v, ok := d.Variables().Get(name)
	Expect(ok).To(BeTrue())
	return v.Value.Bool()
}

var _ = Describe("Driver", func() {
	var (
		engine sim.Engine
		driver api.Driver
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		driver = api.DriverBuilder{}.
			WithEngine(engine).
			WithFreq(1 * sim.KHz).
			Build("Driver")
	})

	It("should refuse to run without a network", func() {
		Expect(driver.RunCycles(1)).NotTo(Succeed())
	})

	It("should seed the variables of a loaded network", func() {
		driver.LoadNetwork(build("LD X1\nAND X2\nST Y1"))

		Expect(driver.Variables().Names()).To(Equal([]string{"X1", "X2", "Y1"}))
		Expect(driver.Cycles()).To(BeZero())
	})

	It("should run the requested number of cycles", func() {
		driver.LoadNetwork(build("LD X1\nAND X2\nST Y1"))
		driver.SetVariable("X1", core.BoolValue(true))
		driver.SetVariable("X2", core.BoolValue(true))

		Expect(driver.RunCycles(3)).To(Succeed())

		Expect(driver.Cycles()).To(Equal(uint64(3)))
		Expect(boolVar(driver, "Y1")).To(BeTrue())

		Expect(driver.RunCycles(2)).To(Succeed())
		Expect(driver.Cycles()).To(Equal(uint64(5)))
	})

	It("should time TON blocks in engine time", func() {
		driver.LoadNetwork(build("LD X1\nTON T#100ms\nST Y1"))
		driver.SetVariable("X1", core.BoolValue(true))

		Expect(driver.RunCycles(50)).To(Succeed())
		Expect(boolVar(driver, "Y1")).To(BeFalse())

		Expect(driver.RunCycles(100)).To(Succeed())
		Expect(boolVar(driver, "Y1")).To(BeTrue())
		Expect(float64(engine.CurrentTime())).To(BeNumerically("~", 0.150, 0.0015))
	})

	It("should count rising edges across runs", func() {
		driver.LoadNetwork(build("LD X1\nCTU 2\nST Y1"))

		for i := 0; i < 2; i++ {
			driver.SetVariable("X1", core.BoolValue(true))
			Expect(driver.RunCycles(1)).To(Succeed())
			driver.SetVariable("X1", core.BoolValue(false))
			Expect(driver.RunCycles(1)).To(Succeed())
		}

		Expect(boolVar(driver, "Y1")).To(BeTrue())
		Expect(driver.States().CounterIDs()).To(HaveLen(1))

		snap := driver.Snapshot()
		Expect(snap.Cycle).To(Equal(uint64(4)))
	})

	It("should discard element state when a network is reloaded", func() {
		net := build("LD X1\nCTU 2\nST Y1")
		driver.LoadNetwork(net)
		driver.SetVariable("X1", core.BoolValue(true))
		Expect(driver.RunCycles(1)).To(Succeed())

		driver.LoadNetwork(net)

		Expect(driver.States().CounterIDs()).To(BeEmpty())
		Expect(boolVar(driver, "X1")).To(BeTrue())
	})

	It("should stop on a cyclic network", func() {
		net := ladder.NewNetwork("loop")
		net.Elements = []ladder.Element{
			ladder.NewElement("a", ladder.Or, ladder.Position{}),
			ladder.NewElement("y", ladder.Coil, ladder.Position{}).
				WithProperty(ladder.PropVariable, "Y"),
		}
		net.Connections = []ladder.Connection{
			ladder.Connect("a", ladder.PortOut, "a", ladder.PortIn2),
			ladder.Connect("a", ladder.PortOut, "y", ladder.PortIn),
		}
		driver.LoadNetwork(net)

		err := driver.RunCycles(5)

		Expect(err).To(MatchError(core.ErrCyclicNetwork))
		Expect(driver.Cycles()).To(BeZero())
	})
})
