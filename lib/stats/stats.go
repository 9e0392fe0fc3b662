/*package stats computes simple summary statistics over the halo positions
of a catalogue: per-axis means and standard deviations, and the axis ratios
of the distribution's reduced inertia tensor. Displacements are always taken
with periodic wrapping, so a catalogue straddling the domain edge doesn't
get split in half.
*/
package stats

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gravitree"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the statistics computed by Summarize.
type Summary struct {
	// N is the number of haloes summarized.
	N int
	// Mean and Std are the per-axis mean and standard deviation of the
	// positions.
	Mean, Std [3]float64
	// CA and BA are the minor-to-major and intermediate-to-major axis
	// ratios of the reduced inertia tensor, or -1 when there are too few
	// haloes to measure a shape.
	CA, BA float64
}

// Summarize computes summary statistics for the given positions inside a
// periodic box with the given per-axis widths. The positions themselves are
// not modified.
func Summarize(x [][3]float64, width [3]float64) *Summary {
	s := &Summary{ N: len(x), CA: -1, BA: -1 }
	if len(x) == 0 { return s }

	col := make([]float64, len(x))
	for dim := 0; dim < 3; dim++ {
		for i := range x { col[i] = x[i][dim] }
		s.Mean[dim] = stat.Mean(col, nil)
		s.Std[dim] = stat.StdDev(col, nil)
	}

	s.CA, s.BA = axisRatios(x, s.Mean, width)
	return s
}

// axisRatios computes c/a and b/a from the eigenvalues of the reduced
// inertia tensor of the positions about the given center. Each halo's
// contribution is normalized by its squared distance, so far-flung haloes
// don't dominate the shape.
func axisRatios(
	x [][3]float64, center [3]float64, width [3]float64,
) (ca, ba float64) {
	if len(x) < 4 { return -1, -1 }

	S := make([]float64, 9)
	n := 0
	for k := range x {
		dx := PeriodicDisplacement(x[k], center, width)
		r2 := dx[0]*dx[0] + dx[1]*dx[1] + dx[2]*dx[2]
		if r2 == 0 { continue }
		n++
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				S[i+3*j] += dx[i] * dx[j] / r2
			}
		}
	}
	if n < 4 { return -1, -1 }

	for i := range S { S[i] /= float64(n) }
	Smat := mat.NewDense(3, 3, S)

	eig := &mat.Eigen{ }
	ok := eig.Factorize(Smat, mat.EigenRight)
	if !ok { panic(fmt.Sprintf("decomposition of %v failed", Smat)) }
	val := eig.Values(make([]complex128, 3))

	a2, b2, c2 := sort3(real(val[0]), real(val[1]), real(val[2]))
	return math.Sqrt(c2 / a2), math.Sqrt(b2 / a2)
}

// PotentialEnergies returns the specific potential energy of each halo in
// the distribution, computed with a tree code at softening scale eps. The
// values are in G = 1 units with unit masses; callers multiply by G*M
// themselves. Displacements are taken about the first halo with periodic
// wrapping, the box having the given per-axis widths.
func PotentialEnergies(
	x [][3]float64, eps float64, width [3]float64,
) []float64 {
	pe := make([]float64, len(x))
	if len(x) < 2 { return pe }

	dx := make([][3]float64, len(x))
	for i := range x {
		dx[i] = PeriodicDisplacement(x[i], x[0], width)
	}

	tree := gravitree.NewTree(dx)
	tree.Potential(eps, pe)
	return pe
}

// PeriodicDisplacement returns x1 - x2 with each component wrapped into
// [-width/2, width/2).
func PeriodicDisplacement(x1, x2, width [3]float64) [3]float64 {
	out := [3]float64{ }
	for dim := 0; dim < 3; dim++ {
		dx := x1[dim] - x2[dim]
		if dx > width[dim]/2 {
			dx -= width[dim]
		} else if dx < -width[dim]/2 {
			dx += width[dim]
		}
		out[dim] = dx
	}
	return out
}

// sort3 returns its three arguments in decreasing order.
func sort3(x, y, z float64) (l1, l2, l3 float64) {
	min, max := x, x
	if y > max {
		max = y
	} else if y < min {
		min = y
	}

	if z > max {
		max = z
	} else if z < min {
		min = z
	}

	return max, (x + y + z) - (min + max), min
}
