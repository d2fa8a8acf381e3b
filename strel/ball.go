package strel

import (
	"fmt"
	"math"

	"github.com/openmorph/gorpho/morph"
)

// BallLineCount is the number of line segments a flat ball decomposes into:
// 3 axis directions, 6 face diagonals, 4 body diagonals.
const BallLineCount = 13

var ballDirs = [BallLineCount][3]int32{
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	{1, 1, 0}, {1, -1, 0}, {1, 0, 1}, {1, 0, -1}, {0, 1, 1}, {0, 1, -1},
	{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {-1, 1, 1},
}

// Per-class step counts (line length minus one) that equalize the zonohedron
// support function with a sphere of radius r along the axis, face-diagonal
// and body-diagonal directions:
//
//	t_axis = (4/sqrt(3) - 2) r
//	t_face = (sqrt(2) - 2/sqrt(3)) r
//	t_body = (1/sqrt(3) + 1 - sqrt(2)) r
var (
	axisCoef = 4/math.Sqrt(3) - 2
	faceCoef = math.Sqrt2 - 2/math.Sqrt(3)
	bodyCoef = 1/math.Sqrt(3) + 1 - math.Sqrt2
)

// FlatBallApprox decomposes a flat ball of the given radius into
// BallLineCount line segments. The approximation bias selects whether the
// zonohedron is constrained inside the sphere, outside it, or rounded to the
// nearest lattice count. Radius 0 is a point: the result is empty.
func FlatBallApprox(radius int, approx morph.ApproxType) ([]LineSegment, error) {
	if !approx.Valid() {
		return nil, fmt.Errorf("%w: %d", morph.ErrBadApproxType, approx)
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: negative radius %d", morph.ErrBadApproxType, radius)
	}
	if radius == 0 {
		return nil, nil
	}

	r := float64(radius)
	steps := [3]int32{
		quantize(axisCoef*r, approx),
		quantize(faceCoef*r, approx),
		quantize(bodyCoef*r, approx),
	}

	lines := make([]LineSegment, BallLineCount)
	for i, d := range ballDirs {
		class := 0
		if i >= 3 {
			class = 1
		}
		if i >= 9 {
			class = 2
		}
		lines[i] = LineSegment{Step: d, Length: steps[class] + 1}
	}
	return lines, nil
}

func quantize(t float64, approx morph.ApproxType) int32 {
	var n float64
	switch approx {
	case morph.Inside:
		n = math.Floor(t)
	case morph.Outside:
		n = math.Ceil(t)
	default:
		n = math.Round(t)
	}
	if n < 0 {
		n = 0
	}
	return int32(n)
}
