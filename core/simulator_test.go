package core_test

import (
	"errors"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ladderlogic/convert"
	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/instr"
	"github.com/sarchlab/ladderlogic/ladder"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func build(il string) *ladder.Network {
	prog, err := instr.ParseProgram(il)
	Expect(err).NotTo(HaveOccurred())

	net, err := convert.BuildNetwork(prog.Instructions)
	Expect(err).NotTo(HaveOccurred())

	return net
}

func boolVar(ctx *core.Context, name string) bool {
	v, ok := ctx.Variables.Get(name)
	Expect(ok).To(BeTrue(), "variable %s should exist", name)
	return v.Value.Bool()
}

func numVar(ctx *core.Context, name string) float64 {
	v, ok := ctx.Variables.Get(name)
	Expect(ok).To(BeTrue(), "variable %s should exist", name)
	return v.Value.Number()
}

func scan(net *ladder.Network, ctx *core.Context) {
	_, err := core.RunCycle(net, ctx)
	Expect(err).NotTo(HaveOccurred())
}

var _ = Describe("RunCycle", func() {
	var (
		clock *fakeClock
		ctx   *core.Context
	)

	BeforeEach(func() {
		clock = &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		ctx = core.NewContext(clock, core.Options{})
	})

	Context("boolean logic", func() {
		It("should set the coil of an AND rung", func() {
			net := build("LD X1\nAND X2\nST Y1")
			ctx.Variables.SetBool("X1", true)
			ctx.Variables.SetBool("X2", true)
			ctx.Variables.SetBool("Y1", false)

			vars, err := core.RunCycle(net, ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(vars).To(BeIdenticalTo(ctx.Variables))
			Expect(boolVar(ctx, "Y1")).To(BeTrue())
			Expect(ctx.Cycles()).To(Equal(uint64(1)))
		})

		It("should clear the coil when one AND input is off", func() {
			net := build("LD X1\nAND X2\nST Y1")
			ctx.Variables.SetBool("X1", true)
			ctx.Variables.SetBool("X2", false)
			ctx.Variables.SetBool("Y1", true)

			scan(net, ctx)

			Expect(boolVar(ctx, "Y1")).To(BeFalse())
		})

		It("should negate contacts and coils", func() {
			net := build("LDN X1\nANDN X2\nSTN Y1")
			ctx.Variables.SetBool("X1", false)
			ctx.Variables.SetBool("X2", false)

			scan(net, ctx)

			Expect(boolVar(ctx, "Y1")).To(BeFalse())
		})

		It("should evaluate OR and NOT", func() {
			net := build("LD X1\nOR X2\nNOT\nST Y1")
			ctx.Variables.SetBool("X1", false)
			ctx.Variables.SetBool("X2", false)

			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeTrue())

			ctx.Variables.SetBool("X2", true)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())
		})

		It("should treat an unknown variable as false", func() {
			net := build("LD X1\nST Y1")

			scan(net, ctx)

			Expect(boolVar(ctx, "Y1")).To(BeFalse())
		})

		It("should skip coils without a feed or a variable", func() {
			net := build("ST Y1")

			scan(net, ctx)

			_, ok := ctx.Variables.Get("Y1")
			Expect(ok).To(BeFalse())
		})
	})

	Context("TON", func() {
		var net *ladder.Network

		BeforeEach(func() {
			net = build("LD X1\nTON T#100ms\nST Y1")
			ctx.Variables.SetBool("X1", true)
		})

		It("should turn on after the preset has elapsed", func() {
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())

			clock.Advance(60 * time.Millisecond)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())

			clock.Advance(40 * time.Millisecond)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeTrue())
		})

		It("should reset when the input drops", func() {
			scan(net, ctx)
			clock.Advance(150 * time.Millisecond)
			ctx.Variables.SetBool("X1", false)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())

			ctx.Variables.SetBool("X1", true)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())

			st, ok := ctx.States.LookupTimer(net.Elements[1].ID)
			Expect(ok).To(BeTrue())
			Expect(st.Running).To(BeTrue())
			Expect(st.Elapsed).To(BeZero())
		})
	})

	Context("TOF", func() {
		var net *ladder.Network

		BeforeEach(func() {
			net = build("LD X1\nTOF T#100ms\nST Y1")
		})

		It("should hold the output for the preset after the input falls", func() {
			ctx.Variables.SetBool("X1", true)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeTrue())

			ctx.Variables.SetBool("X1", false)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeTrue())

			clock.Advance(50 * time.Millisecond)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeTrue())

			clock.Advance(50 * time.Millisecond)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())

			st, _ := ctx.States.LookupTimer(net.Elements[1].ID)
			Expect(st.Running).To(BeFalse())
			Expect(st.Elapsed).To(Equal(100 * time.Millisecond))
		})

		It("should stay off while the input stays off", func() {
			ctx.Variables.SetBool("X1", false)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())
		})
	})

	Context("CTU", func() {
		var net *ladder.Network

		pulse := func() {
			ctx.Variables.SetBool("X1", true)
			scan(net, ctx)
			ctx.Variables.SetBool("X1", false)
			scan(net, ctx)
		}

		BeforeEach(func() {
			net = build("LD X1\nCTU 3\nST Y1")
		})

		It("should need three rising edges", func() {
			pulse()
			Expect(boolVar(ctx, "Y1")).To(BeFalse())

			ctx.Variables.SetBool("X1", true)
			scan(net, ctx)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse(), "a held input is a single edge")

			ctx.Variables.SetBool("X1", false)
			scan(net, ctx)
			pulse()
			Expect(boolVar(ctx, "Y1")).To(BeTrue())

			st, _ := ctx.States.LookupCounter(net.Elements[1].ID)
			Expect(st.Count).To(Equal(3))

			pulse()
			st, _ = ctx.States.LookupCounter(net.Elements[1].ID)
			Expect(st.Count).To(Equal(3), "count saturates at the preset")
		})

		It("should clear on reset", func() {
			pulse()
			reset := ladder.NewElement("rst", ladder.Contact, ladder.Position{}).
				WithProperty(ladder.PropVariable, "R1")
			net, _ = ladder.AddElement(net, reset)
			var err error
			net, err = ladder.AddConnection(net,
				ladder.Connect("rst", ladder.PortOut, net.Elements[1].ID, ladder.PortR))
			Expect(err).NotTo(HaveOccurred())

			ctx.Variables.SetBool("R1", true)
			scan(net, ctx)

			st, _ := ctx.States.LookupCounter(net.Elements[1].ID)
			Expect(st.Count).To(BeZero())
		})

		It("should discard state on reset of the context", func() {
			pulse()
			ctx.Reset()
			_, ok := ctx.States.LookupCounter(net.Elements[1].ID)
			Expect(ok).To(BeFalse())
			Expect(ctx.Cycles()).To(BeZero())
		})
	})

	Context("CTD", func() {
		It("should count down from the preset to zero", func() {
			net := build("LD X1\nCTD 2\nST Y1")

			ctx.Variables.SetBool("X1", false)
			scan(net, ctx)
			Expect(boolVar(ctx, "Y1")).To(BeFalse())

			for i := 0; i < 2; i++ {
				ctx.Variables.SetBool("X1", true)
				scan(net, ctx)
				ctx.Variables.SetBool("X1", false)
				scan(net, ctx)
			}

			Expect(boolVar(ctx, "Y1")).To(BeTrue())
			st, _ := ctx.States.LookupCounter(net.Elements[1].ID)
			Expect(st.Count).To(BeZero())
		})
	})

	Context("math and comparison", func() {
		It("should yield 0 when dividing by zero", func() {
			net := build("LD A\nDIV 0\nST Q")
			ctx.Variables.Set("A", core.Int, core.NumberValue(10))
			ctx.Variables.Set("Q", core.Int, core.NumberValue(7))

			scan(net, ctx)

			Expect(numVar(ctx, "Q")).To(BeZero())
		})

		DescribeTable("arithmetic on the loaded value",
			func(op string, operand string, want float64) {
				net := build("LD A\n" + op + " " + operand + "\nST Q")
				ctx.Variables.Set("A", core.Int, core.NumberValue(10))
				ctx.Variables.Set("Zero", core.Int, core.NumberValue(0))
				ctx.Variables.Set("Q", core.Real, core.NumberValue(-1))

				scan(net, ctx)

				Expect(numVar(ctx, "Q")).To(Equal(want))
			},
			Entry("ADD", "ADD", "5", 15.0),
			Entry("SUB", "SUB", "4", 6.0),
			Entry("MUL", "MUL", "3", 30.0),
			Entry("DIV", "DIV", "4", 2.5),
			Entry("DIV by literal zero", "DIV", "0", 0.0),
			Entry("DIV by a zero variable", "DIV", "Zero", 0.0),
		)

		It("should pass a numeric variable through a contact", func() {
			net := build("LD A\nST B\nLDN A\nST C")
			ctx.Variables.Set("A", core.Int, core.NumberValue(10))
			ctx.Variables.Set("B", core.Int, core.NumberValue(0))

			scan(net, ctx)

			Expect(numVar(ctx, "B")).To(Equal(10.0))
			Expect(boolVar(ctx, "C")).To(BeFalse())
		})

		It("should resolve variable operands", func() {
			net := build("LD A\nMUL B\nST Q")
			ctx.Variables.Set("A", core.Int, core.NumberValue(6))
			ctx.Variables.Set("B", core.Int, core.NumberValue(7))
			ctx.Variables.Set("Q", core.Real, core.NumberValue(0))

			scan(net, ctx)

			Expect(numVar(ctx, "Q")).To(Equal(42.0))
		})

		It("should read a missing variable operand as false", func() {
			net := build("LD A\nSUB missing\nST Q")
			ctx.Variables.Set("A", core.Int, core.NumberValue(6))

			scan(net, ctx)

			Expect(boolVar(ctx, "Q")).To(BeFalse())
		})

		DescribeTable("comparisons",
			func(op string, operand string, want bool) {
				net := build("LD A\n" + op + " " + operand + "\nST Q")
				ctx.Variables.Set("A", core.Int, core.NumberValue(5))

				scan(net, ctx)

				Expect(boolVar(ctx, "Q")).To(Equal(want))
			},
			Entry("GT true", "GT", "4", true),
			Entry("GT false", "GT", "5", false),
			Entry("GE", "GE", "5", true),
			Entry("EQ", "EQ", "5", true),
			Entry("NE", "NE", "5", false),
			Entry("LE", "LE", "4", false),
			Entry("LT", "LT", "6", true),
		)

		It("should evaluate a single element", func() {
			net := build("LD A\nADD 2.5\nST Q")
			ctx.Variables.Set("A", core.Real, core.NumberValue(4))

			v, err := core.Evaluate(net, ctx, net.Elements[1].ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(v.Number()).To(Equal(6.5))
		})
	})

	Context("structure", func() {
		It("should report a cycle instead of recursing forever", func() {
			net := ladder.NewNetwork("loop")
			net.Elements = []ladder.Element{
				ladder.NewElement("a", ladder.And, ladder.Position{}),
				ladder.NewElement("y", ladder.Coil, ladder.Position{}).
					WithProperty(ladder.PropVariable, "Y"),
			}
			net.Connections = []ladder.Connection{
				ladder.Connect("a", ladder.PortOut, "a", ladder.PortIn1),
				ladder.Connect("a", ladder.PortOut, "y", ladder.PortIn),
			}

			_, err := core.RunCycle(net, ctx)

			Expect(err).To(MatchError(core.ErrCyclicNetwork))
			var ce *core.CycleError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Path).To(Equal([]string{"a", "a"}))
		})

		It("should evaluate unknown element types as false", func() {
			net := ladder.NewNetwork("odd")
			net.Elements = []ladder.Element{
				{ID: "x", Type: "lamp", Outputs: []string{"out"}},
				ladder.NewElement("y", ladder.Coil, ladder.Position{}).
					WithProperty(ladder.PropVariable, "Y"),
			}
			net.Connections = []ladder.Connection{
				ladder.Connect("x", ladder.PortOut, "y", ladder.PortIn),
			}
			ctx.Variables.SetBool("Y", true)

			scan(net, ctx)

			Expect(boolVar(ctx, "Y")).To(BeFalse())
		})
	})

	Context("memoization", func() {
		It("should share one counter result between coils", func() {
			net := build("LD X1\nCTU 1\nST Y1")
			ctu := net.Elements[1].ID
			second := ladder.NewElement("y2", ladder.Coil, ladder.Position{}).
				WithProperty(ladder.PropVariable, "Y2")
			net, _ = ladder.AddElement(net, second)
			net, _ = ladder.AddConnection(net,
				ladder.Connect(ctu, ladder.PortOut, "y2", ladder.PortIn))

			ctx.Options.MemoizeStateful = true
			ctx.Variables.SetBool("X1", true)
			scan(net, ctx)

			Expect(boolVar(ctx, "Y1")).To(BeTrue())
			Expect(boolVar(ctx, "Y2")).To(BeTrue())
			st, _ := ctx.States.LookupCounter(ctu)
			Expect(st.Count).To(Equal(1))
		})
	})
})

var _ = Describe("Clock", func() {
	var mockCtrl *gomock.Controller

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should read the clock once per cycle", func() {
		clock := NewMockClock(mockCtrl)
		start := time.Unix(1000, 0)
		clock.EXPECT().Now().Return(start)
		clock.EXPECT().Now().Return(start.Add(2 * time.Second))

		net := build("LD X1\nTON T#1s\nST Y1\nLD X1\nTON T#1s\nST Y2")
		ctx := core.NewContext(clock, core.Options{})
		ctx.Variables.SetBool("X1", true)

		scan(net, ctx)
		scan(net, ctx)

		Expect(boolVar(ctx, "Y1")).To(BeTrue())
		Expect(boolVar(ctx, "Y2")).To(BeTrue())
	})
})
