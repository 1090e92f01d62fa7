package heat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatgrid/internal/heat"
)

var _ = Describe("Stepper", func() {
	var (
		field   *heat.Field
		stepper *heat.Stepper
	)

	BeforeEach(func() {
		stepper = heat.NewStepper(1.0, 0.1)
	})

	Context("with two adjacent conductors at 100 and 0", func() {
		BeforeEach(func() {
			var err error
			field, err = heat.Build([]string{"#00#"})
			Expect(err).NotTo(HaveOccurred())
			Expect(field.SetTemperature(1, 0, 100)).To(BeTrue())
		})

		It("moves a tenth of the difference on the first tick", func() {
			stepper.Step(field)
			Expect(field.Temperature(1, 0)).To(Equal(90.0))
			Expect(field.Temperature(2, 0)).To(Equal(10.0))
		})

		It("conserves the pair's total while converging on 50", func() {
			for i := 0; i < 100; i++ {
				stepper.Step(field)
				Expect(field.Stats().Total).To(BeNumerically("~", 100, 1e-9))
			}
			Expect(field.Temperature(1, 0)).To(BeNumerically("~", 50, 1e-6))
			Expect(field.Temperature(2, 0)).To(BeNumerically("~", 50, 1e-6))
		})
	})

	Context("with insulators", func() {
		BeforeEach(func() {
			var err error
			field, err = heat.Build([]string{
				"f#0",
				"###",
				"9#2",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps every conductor static when all are isolated", func() {
			before := field.Temperatures()
			stepper.Advance(field, 40)
			Expect(field.Temperatures()).To(Equal(before))
		})

		It("leaves insulator temperatures at zero", func() {
			stepper.Advance(field, 40)
			for row := 0; row < field.Height(); row++ {
				for col := 0; col < field.Width(); col++ {
					if field.Kind(col, row) == heat.Insulator {
						Expect(field.Temperature(col, row)).To(BeZero())
					}
				}
			}
		})
	})

	Context("with a uniform conductor region", func() {
		It("does not change any temperature", func() {
			var err error
			field, err = heat.Build([]string{
				"#7777",
				"77#77",
				"7777#",
			})
			Expect(err).NotTo(HaveOccurred())
			stepper.Step(field)
			s := field.Stats()
			Expect(s.Min).To(Equal(112.0))
			Expect(s.Max).To(Equal(112.0))
			Expect(stepper.Residual()).To(BeZero())
		})
	})
})

var _ = Describe("Build", func() {
	It("rejects rows of unequal filtered length", func() {
		field, err := heat.Build([]string{"000", "0 0"})
		Expect(err).To(MatchError(heat.ErrMalformedLayout))
		Expect(field).To(BeNil())
	})

	It("maps every hex digit to sixteen degrees per level", func() {
		field, err := heat.Build([]string{"0123456789abcdef"})
		Expect(err).NotTo(HaveOccurred())
		for col := 0; col < 16; col++ {
			Expect(field.At(col, 0)).To(Equal(heat.Tile{Kind: heat.Conductor, Temperature: float64(col * 16)}))
		}
	})
})
