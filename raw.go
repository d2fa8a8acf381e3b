package gorpho

import (
	"fmt"
	"unsafe"

	"github.com/openmorph/gorpho/morph"
	"github.com/openmorph/gorpho/strel"
)

// The Raw entry points are the foreign-call surface: contiguous caller-owned
// buffers addressed by pointer, extents as plain integers, element type as a
// runtime tag. Pointers and extents are trusted to match the underlying
// allocations; nothing here is validated beyond the tag and operation code.
// The cabi package wraps these in C exports.

// RawGenDilateErode is the raw form of GenDilateErode: res and vol are
// volExt-shaped buffers of the tagged type, se a seExt-shaped buffer of the
// same type.
func RawGenDilateErode(res, vol, se unsafe.Pointer, volExt, seExt morph.Extent, tag morph.TypeTag, op morph.Op, block morph.BlockSize) error {
	if op != morph.Dilate && op != morph.Erode {
		return fmt.Errorf("%w: %s on generic path", morph.ErrBadMorphOp, op)
	}
	if err := gate(); err != nil {
		return err
	}
	return dispatchGen(tag, res, vol, se, volExt, seExt, op, block)
}

// RawFlatMorph is the raw form of FlatMorph: se points at a seExt-shaped
// boolean buffer (one byte per voxel).
func RawFlatMorph(res, vol unsafe.Pointer, volExt morph.Extent, se unsafe.Pointer, seExt morph.Extent, tag morph.TypeTag, op morph.Op, block morph.BlockSize) error {
	if op < morph.Dilate || op > morph.Bothat {
		return fmt.Errorf("%w: %d", morph.ErrBadMorphOp, op)
	}
	if err := gate(); err != nil {
		return err
	}
	return dispatchFlat(tag, res, vol, volExt, se, seExt, op, block)
}

// RawFlatLinearDilateErode is the raw form of FlatLinearDilateErode: steps
// points at 3*n int32 step components, lens at n int32 lengths.
func RawFlatLinearDilateErode(res, vol unsafe.Pointer, volExt morph.Extent, steps, lens unsafe.Pointer, n int, tag morph.TypeTag, op morph.Op, block morph.BlockSize) error {
	if op != morph.Dilate && op != morph.Erode {
		return fmt.Errorf("%w: %s on flat-linear path", morph.ErrBadMorphOp, op)
	}
	if err := gate(); err != nil {
		return err
	}
	lines := strel.Zip(
		unsafe.Slice((*int32)(steps), 3*n),
		unsafe.Slice((*int32)(lens), n),
		n,
	)
	return dispatchLinear(tag, res, vol, volExt, lines, op, block)
}

// RawFlatBallApprox writes the ball decomposition into caller-preallocated
// arrays: steps holds strel.BallLineCount step triples, lens as many
// lengths. The caller must size both for strel.BallLineCount entries; the
// capacity is not checked. Radius 0 writes nothing.
func RawFlatBallApprox(steps, lens unsafe.Pointer, radius int, approx morph.ApproxType) error {
	lines, err := strel.FlatBallApprox(radius, approx)
	if err != nil {
		return err
	}
	stepSlice := unsafe.Slice((*int32)(steps), 3*len(lines))
	lenSlice := unsafe.Slice((*int32)(lens), len(lines))
	for i, ln := range lines {
		stepSlice[3*i] = ln.Step[0]
		stepSlice[3*i+1] = ln.Step[1]
		stepSlice[3*i+2] = ln.Step[2]
		lenSlice[i] = ln.Length
	}
	return nil
}
