package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
)

var _ = Describe("Integrator", func() {
	var (
		integ *physics.Integrator
		reg   *physics.Registry
	)

	build := func(specs ...physics.BodySpec) {
		var err error
		reg, err = physics.NewRegistry(specs, physics.DefaultTrailCapacity)
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error
		integ, err = physics.NewIntegrator(physics.DefaultConstants())
		Expect(err).NotTo(HaveOccurred())
	})

	Context("with a fixed sun and one planet in the corner", func() {
		BeforeEach(func() {
			build(
				physics.BodySpec{Name: "sun", Mass: 10, Fixed: true},
				physics.BodySpec{Name: "red", Pos: dynamo.Vec2{X: -1, Y: -1}, Mass: 1},
			)
		})

		It("pulls the planet toward the origin", func() {
			integ.Step(reg)
			red := reg.Body(1)
			Expect(red.Vel.X).To(BeNumerically(">", 0))
			Expect(red.Vel.Y).To(BeNumerically(">", 0))
			Expect(red.Pos.X).To(BeNumerically(">", -1))
			Expect(red.Pos.Y).To(BeNumerically(">", -1))
		})

		It("records the new position as the only trail sample", func() {
			integ.Step(reg)
			red := reg.Body(1)
			Expect(red.Trail.Points()).To(Equal([]dynamo.Vec2{red.Pos}))
		})

		It("never moves the sun", func() {
			for i := 0; i < 500; i++ {
				integ.Step(reg)
			}
			Expect(reg.Body(0).Pos).To(Equal(dynamo.Vec2{}))
			Expect(reg.Body(0).Vel).To(Equal(dynamo.Vec2{}))
		})
	})

	Context("with a planet about to cross the right wall", func() {
		BeforeEach(func() {
			build(physics.BodySpec{Name: "probe", Pos: dynamo.Vec2{X: 0.999}, Vel: dynamo.Vec2{X: 0.01}, Mass: 1})
		})

		It("clamps to the wall and stops", func() {
			stats := integ.Step(reg)
			probe := reg.Body(0)
			Expect(probe.Pos.X).To(Equal(1.0))
			Expect(probe.Vel).To(Equal(dynamo.Vec2{}))
			Expect(stats.Clamped).To(Equal(1))
		})
	})

	Context("with the five-body scene", func() {
		BeforeEach(func() {
			build(
				physics.BodySpec{Name: "sun", Mass: 10, Fixed: true},
				physics.BodySpec{Name: "red", Pos: dynamo.Vec2{X: -1, Y: -1}, Mass: 1},
				physics.BodySpec{Name: "green", Pos: dynamo.Vec2{X: 0.3, Y: 0.7}, Mass: 1},
				physics.BodySpec{Name: "yellow", Pos: dynamo.Vec2{X: 0.7, Y: 0.5}, Mass: 1},
				physics.BodySpec{Name: "blue", Pos: dynamo.Vec2{X: 0.5, Y: 0.3}, Mass: 1},
			)
		})

		It("keeps every body inside the square", func() {
			for tick := 0; tick < 3000; tick++ {
				integ.Step(reg)
				for _, b := range reg.Bodies() {
					Expect(math.Abs(b.Pos.X)).To(BeNumerically("<=", physics.Bound))
					Expect(math.Abs(b.Pos.Y)).To(BeNumerically("<=", physics.Bound))
				}
			}
		})

		It("caps every trail at its capacity", func() {
			for tick := 0; tick < physics.DefaultTrailCapacity+37; tick++ {
				integ.Step(reg)
				for _, b := range reg.Bodies() {
					Expect(b.Trail.Len()).To(BeNumerically("<=", physics.DefaultTrailCapacity))
				}
			}
			for _, b := range reg.Bodies() {
				Expect(b.Trail.Len()).To(Equal(physics.DefaultTrailCapacity))
				last, ok := b.Trail.Last()
				Expect(ok).To(BeTrue())
				Expect(last).To(Equal(b.Pos))
			}
		})
	})

	Context("with two planets mirrored about a fixed sun", func() {
		BeforeEach(func() {
			build(
				physics.BodySpec{Name: "sun", Mass: 10, Fixed: true},
				physics.BodySpec{Name: "north", Pos: dynamo.Vec2{Y: 0.4}, Mass: 2},
				physics.BodySpec{Name: "south", Pos: dynamo.Vec2{Y: -0.4}, Mass: 2},
			)
		})

		It("gives both the same speed", func() {
			integ.Step(reg)
			Expect(reg.Body(1).Vel.Len()).To(BeNumerically("~", reg.Body(2).Vel.Len(), 1e-15))
			Expect(reg.Body(1).Vel.Y).To(BeNumerically("<", 0))
			Expect(reg.Body(2).Vel.Y).To(BeNumerically(">", 0))
		})
	})

	Context("with coincident bodies", func() {
		BeforeEach(func() {
			build(
				physics.BodySpec{Name: "sun", Mass: 10, Fixed: true},
				physics.BodySpec{Name: "a", Pos: dynamo.Vec2{X: 0.25, Y: -0.25}, Mass: 1},
				physics.BodySpec{Name: "b", Pos: dynamo.Vec2{X: 0.25, Y: -0.25}, Mass: 1},
			)
		})

		It("skips the pair instead of producing NaN", func() {
			stats := integ.Step(reg)
			Expect(stats.Degenerate).To(Equal(2))
			for _, b := range reg.Bodies() {
				Expect(b.Pos.IsValid()).To(BeTrue())
				Expect(b.Vel.IsValid()).To(BeTrue())
			}
		})
	})

	Context("with a lone fixed body", func() {
		BeforeEach(func() {
			build(physics.BodySpec{Name: "sun", Pos: dynamo.Vec2{X: -0.2, Y: 0.1}, Mass: 10, Fixed: true})
		})

		It("leaves the state unchanged indefinitely", func() {
			before := reg.Snapshot()
			for i := 0; i < 1000; i++ {
				Expect(integ.Step(reg)).To(Equal(physics.StepStats{}))
			}
			Expect(reg.Snapshot()).To(Equal(before))
		})
	})
})
