// Package strel builds structuring elements for 3D morphology: line segment
// decompositions and the zonohedral flat ball approximation.
package strel

// LineSegment is one summand of a structuring element decomposed into
// discrete line segments. Step is a repeated integer offset (not necessarily
// a unit vector); Length is the number of samples along the segment. A
// length of 0 or 1 leaves the volume unchanged.
type LineSegment struct {
	Step   [3]int32
	Length int32
}

// Zip pairs a flat 3*n step array with an n-long length array, in order.
// This is the wire form of the flat-linear entry point.
func Zip(steps []int32, lens []int32, n int) []LineSegment {
	lines := make([]LineSegment, n)
	for i := 0; i < n; i++ {
		lines[i] = LineSegment{
			Step:   [3]int32{steps[3*i], steps[3*i+1], steps[3*i+2]},
			Length: lens[i],
		}
	}
	return lines
}

// Reach returns the most negative and most positive displacement the segment
// reads along each axis, under the centered anchor (Length-1)/2.
func (l LineSegment) Reach() (lo, hi [3]int) {
	if l.Length <= 1 {
		return
	}
	c := int(l.Length-1) / 2
	for a := 0; a < 3; a++ {
		s := int(l.Step[a])
		// offsets are (c-t)*s for t in [0, Length-1]
		o1 := c * s
		o2 := (c - int(l.Length-1)) * s
		if o1 < o2 {
			lo[a], hi[a] = o1, o2
		} else {
			lo[a], hi[a] = o2, o1
		}
	}
	return
}
