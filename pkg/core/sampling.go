package core

import "math/rand"

// RandomInUnitSphere returns a uniformly distributed point strictly inside the unit sphere.
// Candidates are drawn from the [-1,1]³ cube and rejected while their squared length is >= 1.
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := Vec3{
			X: 2*random.Float32() - 1,
			Y: 2*random.Float32() - 1,
			Z: 2*random.Float32() - 1,
		}
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
