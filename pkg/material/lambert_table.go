package material

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// LambertTable holds a fixed set of points inside the unit sphere.
// Lookups pick a random entry, trading sample variety for skipping rejection sampling.
type LambertTable struct {
	vectors []core.Vec3
}

// NewLambertTable fills a table of the given size using the provided random generator
func NewLambertTable(size int, random *rand.Rand) (*LambertTable, error) {
	if size <= 0 {
		return nil, fmt.Errorf("lambert table size must be positive, got %d", size)
	}

	vectors := make([]core.Vec3, size)
	for i := range vectors {
		vectors[i] = core.RandomInUnitSphere(random)
	}
	return &LambertTable{vectors: vectors}, nil
}

// Get returns a random entry of the table
func (lt *LambertTable) Get(random *rand.Rand) core.Vec3 {
	return lt.vectors[random.Intn(len(lt.vectors))]
}

// Size returns the number of entries in the table
func (lt *LambertTable) Size() int {
	return len(lt.vectors)
}
