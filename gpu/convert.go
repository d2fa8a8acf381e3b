package gpu

import (
	"github.com/openfluke/webgpu/wgpu"

	"github.com/openmorph/gorpho/morph"
)

// lane is the device-side representation of an element type. WGSL has
// 32-bit numeric lanes only; narrower integers widen losslessly on upload
// and narrow on readback, 64-bit kinds have no lane at all.
type lane int

const (
	laneF32 lane = iota
	laneI32
	laneU32
	laneNone
)

func laneOf[T morph.Scalar]() lane {
	var z T
	switch any(z).(type) {
	case float32:
		return laneF32
	case int8, int16, int32:
		return laneI32
	case uint8, uint16, uint32:
		return laneU32
	}
	// TODO: pack int64 lanes as vec2<u32> with carry-aware min/max once the
	// shader generator grows emulated 64-bit compares.
	return laneNone
}

func (l lane) wgsl() string {
	switch l {
	case laneF32:
		return "f32"
	case laneI32:
		return "i32"
	}
	return "u32"
}

// Neutral extremes per lane, as WGSL expressions.
func (l lane) neutralLo() string {
	switch l {
	case laneF32:
		return "-3.4028235e38"
	case laneI32:
		return "i32(-2147483647 - 1)"
	}
	return "0u"
}

func (l lane) neutralHi() string {
	switch l {
	case laneF32:
		return "3.4028235e38"
	case laneI32:
		return "2147483647"
	}
	return "4294967295u"
}

// widen converts host elements to their 32-bit device lanes.
func widen[T morph.Scalar](src []T) []byte {
	switch s := any(src).(type) {
	case []float32:
		return wgpu.ToBytes(s)
	case []int32:
		return wgpu.ToBytes(s)
	case []uint32:
		return wgpu.ToBytes(s)
	case []int8:
		w := make([]int32, len(s))
		for i, v := range s {
			w[i] = int32(v)
		}
		return wgpu.ToBytes(w)
	case []int16:
		w := make([]int32, len(s))
		for i, v := range s {
			w[i] = int32(v)
		}
		return wgpu.ToBytes(w)
	case []uint8:
		w := make([]uint32, len(s))
		for i, v := range s {
			w[i] = uint32(v)
		}
		return wgpu.ToBytes(w)
	case []uint16:
		w := make([]uint32, len(s))
		for i, v := range s {
			w[i] = uint32(v)
		}
		return wgpu.ToBytes(w)
	}
	return nil
}

// narrow converts device lanes back into host elements.
func narrow[T morph.Scalar](raw []byte, dst []T) {
	switch d := any(dst).(type) {
	case []float32:
		copy(d, wgpu.FromBytes[float32](raw))
	case []int32:
		copy(d, wgpu.FromBytes[int32](raw))
	case []uint32:
		copy(d, wgpu.FromBytes[uint32](raw))
	case []int8:
		w := wgpu.FromBytes[int32](raw)
		for i := range d {
			d[i] = int8(w[i])
		}
	case []int16:
		w := wgpu.FromBytes[int32](raw)
		for i := range d {
			d[i] = int16(w[i])
		}
	case []uint8:
		w := wgpu.FromBytes[uint32](raw)
		for i := range d {
			d[i] = uint8(w[i])
		}
	case []uint16:
		w := wgpu.FromBytes[uint32](raw)
		for i := range d {
			d[i] = uint16(w[i])
		}
	}
}
