package erosion_test

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/terrain"
)

func variance(t *terrain.Terrain) float64 {
	n := float64(t.Len())
	mean := t.Totals().Height / n
	sum := 0.0
	t.Each(func(_, _ int, c terrain.Cell) {
		d := c.Height - mean
		sum += d * d
	})
	return sum / n
}

func randomTerrain(size int, seed uint64) *terrain.Terrain {
	rng := rand.New(rand.NewPCG(seed, 0))
	b, _ := terrain.NewBuilder(size)
	cells := b.Cells()
	for i := range cells {
		cells[i] = terrain.Cell{
			Height:   rng.Float64() * 2,
			Water:    rng.Float64(),
			Sediment: rng.Float64() * 0.1,
		}
	}
	return b.Build()
}

var _ = Describe("Step", func() {
	var (
		params  erosion.Params
		stepper *erosion.Stepper
		start   *terrain.Terrain
	)

	BeforeEach(func() {
		params = erosion.DefaultParams()
		params.Size = 32
		var err error
		stepper, err = erosion.NewStepper(params)
		Expect(err).NotTo(HaveOccurred())
		start, err = erosion.NewTerrain(params, erosion.NewSource(7))
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("keeps every field non-negative",
		func(rain float64) {
			t := start
			for i := 0; i < 50; i++ {
				var err error
				t, err = stepper.Step(t, rain)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(t.Validate()).To(Succeed())
		},
		Entry("dry", 0.0),
		Entry("light rain", 0.005),
		Entry("maximum rain", 0.05),
	)

	It("is deterministic", func() {
		a, b := start, start
		for i := 0; i < 25; i++ {
			a, _ = stepper.Step(a, 0.02)
			b, _ = stepper.Step(b, 0.02)
		}
		Expect(a.Equal(b)).To(BeTrue())
	})

	It("never creates water beyond rainfall", func() {
		t := start
		for i := 0; i < 30; i++ {
			before := t.Totals().Water
			next, stats, err := stepper.StepWithStats(t, 0.01)
			Expect(err).NotTo(HaveOccurred())
			after := next.Totals().Water
			Expect(after).To(BeNumerically("<=", before+0.01*float64(t.Len())+1e-9))
			Expect(after).To(BeNumerically("~", before+stats.Rain-stats.Infiltrated, 1e-9))
			t = next
		}
	})

	It("handles a 3x3 grid with every cell on the boundary", func() {
		p := erosion.DefaultParams()
		p.Size = 3
		s, err := erosion.NewStepper(p)
		Expect(err).NotTo(HaveOccurred())

		for seed := uint64(0); seed < 20; seed++ {
			t := randomTerrain(3, seed)
			for i := 0; i < 10; i++ {
				t, err = s.Step(t, 0.05)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(t.Validate()).To(Succeed())
		}
	})
})

var _ = Describe("Smooth", func() {
	It("does not increase height variance of a generated terrain", func() {
		for seed := int64(0); seed < 5; seed++ {
			t, err := erosion.NewTerrain(erosion.DefaultParams(), erosion.NewSource(seed))
			Expect(err).NotTo(HaveOccurred())
			next, err := erosion.Smooth(t, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(variance(next)).To(BeNumerically("<=", variance(t)))
		}
	})

	It("leaves a flat field flat", func() {
		b, _ := terrain.NewBuilder(6)
		for i := range b.Cells() {
			b.Cells()[i].Height = 0.5
		}
		next, err := erosion.Smooth(b.Build(), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(variance(next)).To(BeNumerically("~", 0, 1e-15))
	})
})

var _ = Describe("NewTerrain", func() {
	It("reproduces the same landscape for the same seed", func() {
		a, _ := erosion.NewTerrain(erosion.DefaultParams(), erosion.NewSource(99))
		b, _ := erosion.NewTerrain(erosion.DefaultParams(), erosion.NewSource(99))
		c, _ := erosion.NewTerrain(erosion.DefaultParams(), erosion.NewSource(100))
		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Equal(c)).To(BeFalse())
	})
})

var _ = Describe("RaiseGround", func() {
	It("never exceeds the height cap", func() {
		t, _ := erosion.NewTerrain(erosion.DefaultParams(), erosion.NewSource(3))
		for i := 0; i < 20; i++ {
			var err error
			t, err = erosion.RaiseGround(t, 40, 40)
			Expect(err).NotTo(HaveOccurred())
		}
		c, ok := t.At(40, 40)
		Expect(ok).To(BeTrue())
		Expect(c.Height).To(Equal(2.0))
	})
})
