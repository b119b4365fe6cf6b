package loadshare_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/loadshare"
)

const weight = 300000.0 // 300 kN

var reference = chassis.AxleLayout{Positions: [chassis.NumAxles]float64{0, 1.35, 3.00, 4.35}}

func vehicleAt(cg float64) chassis.Vehicle {
	v, err := chassis.NewVehicle("reference", reference, weight, cg)
	Expect(err).NotTo(HaveOccurred())
	return v
}

func expectEquilibrium(d loadshare.Distribution) {
	Expect(loadshare.Check(d, chassis.DefaultTolerance)).To(Succeed())
	Expect(d.Sum()).To(BeNumerically("~", weight, weight*1e-6))
	Expect(d.Moment()).To(BeNumerically("~", 0, weight*reference.Wheelbase()*1e-6))
}

var _ = Describe("Paired", func() {
	var model loadshare.Model

	BeforeEach(func() {
		model = loadshare.NewPaired(chassis.DefaultAssumptions())
	})

	It("splits evenly when the cg sits midway between the pairs", func() {
		d, err := model.Distribute(vehicleAt(4.35 / 2))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Front()).To(BeNumerically("~", 150000, 1e-6))
		Expect(d.Rear()).To(BeNumerically("~", 150000, 1e-6))
		expectEquilibrium(d)
	})

	It("shares each pair equally and balances for any cg between the pairs", func() {
		for cg := 0.7; cg <= 3.65; cg += 0.15 {
			d, err := model.Distribute(vehicleAt(cg))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Axles[0]).To(Equal(d.Axles[1]))
			Expect(d.Axles[2]).To(Equal(d.Axles[3]))
			expectEquilibrium(d)
		}
	})

	It("matches the per-axle formula of the 8x8 rig", func() {
		layout := chassis.LayoutFromSpacings(1.8, 4.8, 1.4)
		w := chassis.MassToWeight(24700)
		d := 1.2 // cg behind axle 2
		v, err := chassis.NewVehicle("rig", layout, w, layout.Positions[1]+d)
		Expect(err).NotTo(HaveOccurred())

		dist, err := model.Distribute(v)
		Expect(err).NotTo(HaveOccurred())

		rearPerAxle := w * (1.8 + 2*d) / (2 * (1.8 + 2*4.8 + 1.4))
		Expect(dist.Axles[2]).To(BeNumerically("~", rearPerAxle, 1e-6))
		Expect(dist.Axles[0]).To(BeNumerically("~", (w-2*rearPerAxle)/2, 1e-6))
	})

	It("flags a cg ahead of the front pair", func() {
		_, err := model.Distribute(vehicleAt(0.5))
		Expect(err).To(MatchError(chassis.ErrInvalidConfiguration))
		Expect(chassis.Violated(err, chassis.ConstraintCGOutside)).To(BeTrue())
	})

	It("flags a cg behind the rear pair", func() {
		_, err := model.Distribute(vehicleAt(4.0))
		Expect(chassis.Violated(err, chassis.ConstraintCGOutside)).To(BeTrue())
	})

	It("refuses to run without equal pair sharing", func() {
		a := chassis.DefaultAssumptions()
		a.EqualPairSharing = false
		_, err := loadshare.NewPaired(a).Distribute(vehicleAt(2.2))
		Expect(chassis.Violated(err, chassis.ConstraintAssumption)).To(BeTrue())
	})
})

var _ = Describe("InverseDistance", func() {
	var model loadshare.Model

	BeforeEach(func() {
		model = loadshare.NewInverseDistance(chassis.DefaultAssumptions())
	})

	It("loads the axles nearest the cg most for the reference rig", func() {
		d, err := model.Distribute(vehicleAt(2.2))
		Expect(err).NotTo(HaveOccurred())
		for _, f := range d.Axles {
			Expect(f).To(BeNumerically(">", 0))
		}
		expectEquilibrium(d)

		near := math.Min(d.Axles[1], d.Axles[2])
		far := math.Max(d.Axles[0], d.Axles[3])
		Expect(near).To(BeNumerically(">", far))
		Expect(d.Axles[1]).To(BeNumerically(">", d.Axles[0]))
		Expect(d.Axles[2]).To(BeNumerically(">", d.Axles[3]))
	})

	It("gives equal loads when every axle is equally far from the cg", func() {
		k := [chassis.NumAxles]float64{1, 1, 1, 1}
		loads, err := loadshare.InverseDistanceLoads(weight, [chassis.NumAxles]float64{-2, -2, 2, 2}, k)
		Expect(err).NotTo(HaveOccurred())
		for _, f := range loads {
			Expect(f).To(BeNumerically("~", weight/4, 1e-9))
		}
	})

	It("mirrors the loads of a symmetric layout", func() {
		d, err := model.Distribute(vehicleAt(4.35 / 2))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Axles[0]).To(BeNumerically("~", d.Axles[3], 1e-6))
		Expect(d.Axles[1]).To(BeNumerically("~", d.Axles[2], 1e-6))
		expectEquilibrium(d)
	})

	It("gives an axle more load as it moves toward the cg", func() {
		base, err := model.Distribute(vehicleAt(2.2))
		Expect(err).NotTo(HaveOccurred())

		closer := reference
		closer.Positions[1] = 1.6
		v, err := chassis.NewVehicle("closer", closer, weight, 2.2)
		Expect(err).NotTo(HaveOccurred())
		moved, err := model.Distribute(v)
		Expect(err).NotTo(HaveOccurred())

		Expect(moved.Axles[1]).To(BeNumerically(">", base.Axles[1]))
		expectEquilibrium(moved)
	})

	It("keeps equilibrium with three axles on one side of the cg", func() {
		d, err := model.Distribute(vehicleAt(0.9))
		Expect(err).NotTo(HaveOccurred())
		expectEquilibrium(d)
		Expect(d.Axles[2]).To(BeNumerically(">", d.Axles[3]))
	})

	It("honours per-axle stiffness when uniform stiffness is relaxed", func() {
		a := chassis.DefaultAssumptions()
		a.UniformStiffness = false
		a.Stiffness = [chassis.NumAxles]float64{2e5, 4e5, 4e5, 2e5}
		d, err := loadshare.NewInverseDistance(a).Distribute(vehicleAt(4.35 / 2))
		Expect(err).NotTo(HaveOccurred())
		expectEquilibrium(d)

		uniform, err := model.Distribute(vehicleAt(4.35 / 2))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Axles[1]).To(BeNumerically(">", uniform.Axles[1]))
	})

	It("rejects an axle on the cg instead of dividing by zero", func() {
		_, err := model.Distribute(vehicleAt(1.35))
		Expect(err).To(MatchError(chassis.ErrInvalidConfiguration))
		Expect(chassis.Violated(err, chassis.ConstraintAxleAtCG)).To(BeTrue())
	})

	It("rejects a cg outside the wheelbase", func() {
		_, err := model.Distribute(vehicleAt(-0.5))
		Expect(chassis.Violated(err, chassis.ConstraintCGOutside)).To(BeTrue())
	})

	It("rejects a flexible frame", func() {
		a := chassis.DefaultAssumptions()
		a.RigidFrame = false
		_, err := loadshare.NewInverseDistance(a).Distribute(vehicleAt(2.2))
		Expect(chassis.Violated(err, chassis.ConstraintAssumption)).To(BeTrue())
	})
})

var _ = Describe("RigidFrame", func() {
	var model loadshare.Model

	BeforeEach(func() {
		model = loadshare.NewRigidFrame(chassis.DefaultAssumptions())
	})

	It("agrees with the closed form W(S2 - S1 d)/(4 S2 - S1^2)", func() {
		cg := 2.2
		d, err := model.Distribute(vehicleAt(cg))
		Expect(err).NotTo(HaveOccurred())

		off := reference.Offsets(cg)
		var s1, s2 float64
		for _, o := range off {
			s1 += o
			s2 += o * o
		}
		for i, o := range off {
			want := weight * (s2 - s1*o) / (4*s2 - s1*s1)
			Expect(d.Axles[i]).To(BeNumerically("~", want, 1e-6))
		}
		expectEquilibrium(d)
	})

	It("flags a cg that would lift an axle", func() {
		_, err := model.Distribute(vehicleAt(0.1))
		Expect(chassis.Violated(err, chassis.ConstraintCGOutside)).To(BeTrue())
	})
})

var _ = Describe("Check", func() {
	It("reports a distribution that does not balance", func() {
		d, err := loadshare.NewPaired(chassis.DefaultAssumptions()).Distribute(vehicleAt(2.2))
		Expect(err).NotTo(HaveOccurred())

		d.Axles[0] += 1000
		d.Axles[3] -= 1000
		Expect(loadshare.Check(d, chassis.DefaultTolerance)).To(MatchError(loadshare.ErrImbalance))
	})
})

var _ = Describe("ByName", func() {
	It("resolves canonical names and aliases", func() {
		for name, want := range map[string]string{
			"paired": loadshare.PairedName, "simple": loadshare.PairedName,
			"refined": loadshare.InverseDistanceName, "inverse": loadshare.InverseDistanceName,
			"rigid": loadshare.RigidFrameName, "linear": loadshare.RigidFrameName,
		} {
			m, err := loadshare.ByName(name, chassis.DefaultAssumptions())
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Name()).To(Equal(want))
		}
	})

	It("rejects unknown models", func() {
		_, err := loadshare.ByName("tandem", chassis.DefaultAssumptions())
		Expect(err).To(HaveOccurred())
	})
})
