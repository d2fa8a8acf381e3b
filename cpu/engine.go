// Package cpu is the host-side reference compute engine. It favors obvious
// correctness over speed: dense scans are direct neighborhood sweeps and the
// line-segment path is a plain centered scan per segment. The GPU engine is
// the performance path; this engine backs tests, hosts without a device, and
// the 64-bit element kinds the device cannot express.
package cpu

import (
	"fmt"
	"math"

	"github.com/openmorph/gorpho/morph"
	"github.com/openmorph/gorpho/strel"
)

// GenDilateErode runs grayscale dilation or erosion with a dense structuring
// element of the same element type as the volume. dst must not alias vol.
// The block hint is ignored: the host engine always has the whole volume.
func GenDilateErode[T morph.Scalar](dst, vol, se morph.VolumeView[T], op morph.Op, _ morph.BlockSize) error {
	switch op {
	case morph.Dilate, morph.Erode:
	default:
		return fmt.Errorf("%w: %s on generic path", morph.ErrBadMorphOp, op)
	}
	genScan(dst, vol, se, op == morph.Dilate)
	return nil
}

// FlatMorph runs any of the six operations with a dense flat structuring
// element. Compositions are built from the two primitive scans; tophat and
// bothat subtract pointwise with the element type's native arithmetic,
// unsigned wrap-around included.
func FlatMorph[T morph.Scalar](dst, vol morph.VolumeView[T], se morph.VolumeView[bool], op morph.Op, _ morph.BlockSize) error {
	n := vol.Extent.Numel()
	tmp := func() morph.VolumeView[T] {
		return morph.VolumeView[T]{Data: make([]T, n), Extent: vol.Extent}
	}
	switch op {
	case morph.Dilate, morph.Erode:
		flatScan(dst, vol, se, op == morph.Dilate)
	case morph.Open:
		t := tmp()
		flatScan(t, vol, se, false)
		flatScan(dst, t, se, true)
	case morph.Close:
		t := tmp()
		flatScan(t, vol, se, true)
		flatScan(dst, t, se, false)
	case morph.Tophat:
		t1, t2 := tmp(), tmp()
		flatScan(t1, vol, se, false)
		flatScan(t2, t1, se, true)
		diff(dst.Data, vol.Data, t2.Data)
	case morph.Bothat:
		t1, t2 := tmp(), tmp()
		flatScan(t1, vol, se, true)
		flatScan(t2, t1, se, false)
		diff(dst.Data, t2.Data, vol.Data)
	default:
		return fmt.Errorf("%w: %s on flat path", morph.ErrBadMorphOp, op)
	}
	return nil
}

// FlatLinearDilateErode applies a sequence of flat line segments, each over
// the result of the previous one. Segments of length 0 or 1 are identity.
func FlatLinearDilateErode[T morph.Scalar](dst, vol morph.VolumeView[T], lines []strel.LineSegment, op morph.Op, _ morph.BlockSize) error {
	switch op {
	case morph.Dilate, morph.Erode:
	default:
		return fmt.Errorf("%w: %s on flat-linear path", morph.ErrBadMorphOp, op)
	}
	copy(dst.Data, vol.Data)
	scratch := morph.VolumeView[T]{Data: make([]T, vol.Extent.Numel()), Extent: vol.Extent}
	for _, ln := range lines {
		if ln.Length <= 1 {
			continue
		}
		lineScan(scratch, dst, ln, op == morph.Dilate)
		copy(dst.Data, scratch.Data)
	}
	return nil
}

// flatScan: out[p] = max/min over supported offsets q of vol[p + anchor - q].
// Out-of-volume neighbors are ignored; a voxel with no in-bounds supported
// neighbor takes the operation's neutral extreme.
func flatScan[T morph.Scalar](dst, vol morph.VolumeView[T], se morph.VolumeView[bool], dilate bool) {
	ax, ay, az := se.Extent.Anchor()
	lo, hi := limits[T]()
	for z := 0; z < vol.Extent.Z; z++ {
		for y := 0; y < vol.Extent.Y; y++ {
			for x := 0; x < vol.Extent.X; x++ {
				acc := hi
				if dilate {
					acc = lo
				}
				i := 0
				for qz := 0; qz < se.Extent.Z; qz++ {
					vz := z + az - qz
					for qy := 0; qy < se.Extent.Y; qy++ {
						vy := y + ay - qy
						for qx := 0; qx < se.Extent.X; qx++ {
							vx := x + ax - qx
							if se.Data[i] && vol.Contains(vx, vy, vz) {
								v := vol.At(vx, vy, vz)
								if dilate == (v > acc) {
									acc = v
								}
							}
							i++
						}
					}
				}
				dst.Set(x, y, z, acc)
			}
		}
	}
}

// genScan: out[p] = max over q of vol[p + anchor - q] + se[q] for dilation,
// min of vol[p + anchor - q] - se[q] for erosion.
func genScan[T morph.Scalar](dst, vol, se morph.VolumeView[T], dilate bool) {
	ax, ay, az := se.Extent.Anchor()
	lo, hi := limits[T]()
	for z := 0; z < vol.Extent.Z; z++ {
		for y := 0; y < vol.Extent.Y; y++ {
			for x := 0; x < vol.Extent.X; x++ {
				acc := hi
				if dilate {
					acc = lo
				}
				i := 0
				for qz := 0; qz < se.Extent.Z; qz++ {
					vz := z + az - qz
					for qy := 0; qy < se.Extent.Y; qy++ {
						vy := y + ay - qy
						for qx := 0; qx < se.Extent.X; qx++ {
							vx := x + ax - qx
							if vol.Contains(vx, vy, vz) {
								var cand T
								if dilate {
									cand = vol.At(vx, vy, vz) + se.Data[i]
								} else {
									cand = vol.At(vx, vy, vz) - se.Data[i]
								}
								if dilate == (cand > acc) {
									acc = cand
								}
							}
							i++
						}
					}
				}
				dst.Set(x, y, z, acc)
			}
		}
	}
}

// lineScan: centered scan along one segment, anchor (Length-1)/2.
func lineScan[T morph.Scalar](dst, vol morph.VolumeView[T], ln strel.LineSegment, dilate bool) {
	c := int(ln.Length-1) / 2
	sx, sy, sz := int(ln.Step[0]), int(ln.Step[1]), int(ln.Step[2])
	lo, hi := limits[T]()
	for z := 0; z < vol.Extent.Z; z++ {
		for y := 0; y < vol.Extent.Y; y++ {
			for x := 0; x < vol.Extent.X; x++ {
				acc := hi
				if dilate {
					acc = lo
				}
				for t := 0; t < int(ln.Length); t++ {
					vx := x + (c-t)*sx
					vy := y + (c-t)*sy
					vz := z + (c-t)*sz
					if vol.Contains(vx, vy, vz) {
						v := vol.At(vx, vy, vz)
						if dilate == (v > acc) {
							acc = v
						}
					}
				}
				dst.Set(x, y, z, acc)
			}
		}
	}
}

func diff[T morph.Scalar](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

// limits returns the neutral extremes for the element type: the values a
// voxel takes when the structuring element finds no in-bounds support.
func limits[T morph.Scalar]() (lo, hi T) {
	switch p := any(&lo).(type) {
	case *int8:
		*p = math.MinInt8
		*any(&hi).(*int8) = math.MaxInt8
	case *uint8:
		*any(&hi).(*uint8) = math.MaxUint8
	case *int16:
		*p = math.MinInt16
		*any(&hi).(*int16) = math.MaxInt16
	case *uint16:
		*any(&hi).(*uint16) = math.MaxUint16
	case *int32:
		*p = math.MinInt32
		*any(&hi).(*int32) = math.MaxInt32
	case *uint32:
		*any(&hi).(*uint32) = math.MaxUint32
	case *int64:
		*p = math.MinInt64
		*any(&hi).(*int64) = math.MaxInt64
	case *uint64:
		*any(&hi).(*uint64) = math.MaxUint64
	case *float32:
		*p = float32(math.Inf(-1))
		*any(&hi).(*float32) = float32(math.Inf(1))
	case *float64:
		*p = math.Inf(-1)
		*any(&hi).(*float64) = math.Inf(1)
	}
	return
}
