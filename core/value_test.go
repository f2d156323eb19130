package core_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ladderlogic/core"
)

var _ = Describe("Value", func() {
	DescribeTable("ParseValue",
		func(text string, t core.VarType, want any) {
			v, err := core.ParseValue(text, t)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Interface()).To(Equal(want))
		},
		Entry("TRUE", "TRUE", core.Bool, true),
		Entry("lower-case on", "on", core.Bool, true),
		Entry("0 as BOOL", "0", core.Bool, false),
		Entry("INT", "42", core.Int, 42.0),
		Entry("REAL", "-1.5", core.Real, -1.5),
		Entry("TIME", "T#5s", core.Time, "T#5s"),
	)

	It("should reject malformed values", func() {
		_, err := core.ParseValue("maybe", core.Bool)
		Expect(err).To(HaveOccurred())

		_, err = core.ParseValue("1.5", core.Int)
		Expect(err).To(HaveOccurred())

		_, err = core.ParseValue("5s", core.Time)
		Expect(err).To(HaveOccurred())
	})

	It("should infer literal types", func() {
		_, t, err := core.InferValue("FALSE")
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(Equal(core.Bool))

		_, t, _ = core.InferValue("1")
		Expect(t).To(Equal(core.Int))

		_, t, _ = core.InferValue("2.25")
		Expect(t).To(Equal(core.Real))

		v, t, _ := core.InferValue("T#250ms")
		Expect(t).To(Equal(core.Time))
		Expect(v.Number()).To(Equal(250.0))

		_, _, err = core.InferValue("hello")
		Expect(err).To(HaveOccurred())
	})

	It("should coerce on Set", func() {
		vars := core.NewVariableStore()
		vars.Set("N", core.Int, core.NumberValue(3.9))
		vars.Set("B", core.Bool, core.NumberValue(2))

		n, _ := vars.Get("N")
		b, _ := vars.Get("B")
		Expect(n.Value.Number()).To(Equal(3.0))
		Expect(b.Value.String()).To(Equal("TRUE"))
	})

	It("should keep the declared type on Assign", func() {
		vars := core.NewVariableStore()
		vars.Set("N", core.Int, core.NumberValue(1))

		vars.Assign("N", core.BoolValue(true))
		vars.Assign("R", core.NumberValue(0.5))

		n, _ := vars.Get("N")
		r, _ := vars.Get("R")
		Expect(n.Type).To(Equal(core.Int))
		Expect(r.Type).To(Equal(core.Real))
		Expect(vars.Names()).To(Equal([]string{"N", "R"}))
	})

	It("should not share storage between clones", func() {
		vars := core.NewVariableStore()
		vars.SetBool("A", true)

		c := vars.Clone()
		c.SetBool("A", false)

		a, _ := vars.Get("A")
		Expect(a.Value.Bool()).To(BeTrue())
	})
})

var _ = Describe("Presets", func() {
	DescribeTable("ParseTimePreset",
		func(text string, want time.Duration) {
			Expect(core.ParseTimePreset(text)).To(Equal(want))
		},
		Entry("milliseconds", "T#100ms", 100*time.Millisecond),
		Entry("seconds", "T#2s", 2*time.Second),
		Entry("minutes", "t#3m", 3*time.Minute),
		Entry("hours", "T#1h", time.Hour),
		Entry("missing prefix", "100ms", core.DefaultTimerPreset),
		Entry("empty", "", core.DefaultTimerPreset),
		Entry("bad unit", "T#5d", core.DefaultTimerPreset),
		Entry("overflowing hours", "T#9999999999h", core.DefaultTimerPreset),
		Entry("overflowing milliseconds", "T#9223372036854775807ms", core.DefaultTimerPreset),
		Entry("largest hours", "T#2562047h", 2562047*time.Hour),
	)

	It("should reject time literals that overflow", func() {
		_, ok := core.ParseTimeLiteral("T#9999999999h")
		Expect(ok).To(BeFalse())

		_, err := core.ParseValue("T#9999999999h", core.Time)
		Expect(err).To(HaveOccurred())

		_, _, err = core.InferValue("T#9999999999h")
		Expect(err).To(HaveOccurred())
	})

	It("should resolve counter presets", func() {
		vars := core.NewVariableStore()
		vars.Set("LIMIT", core.Int, core.NumberValue(7))
		vars.SetBool("FLAG", true)

		Expect(core.ParseCounterPreset("5", vars)).To(Equal(5))
		Expect(core.ParseCounterPreset("LIMIT", vars)).To(Equal(7))
		Expect(core.ParseCounterPreset("FLAG", vars)).To(Equal(0))
		Expect(core.ParseCounterPreset("nope", nil)).To(Equal(0))
	})
})
