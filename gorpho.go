// Package gorpho is a foreign-call boundary over GPU-resident 3D
// mathematical morphology. Callers hand it raw buffers, shape metadata, a
// runtime element type tag and an operation code; the boundary resolves
// those into one statically-typed engine invocation and flattens every
// failure into a stable integer status.
//
// Three structuring element encodings exist, one per entry point family:
// dense grayscale (same element type as the volume), dense flat (boolean),
// and flat line segments (used for ball approximations). The generic and
// flat-linear paths accept dilation and erosion only; the flat path accepts
// the full six-operation set.
package gorpho

import (
	"fmt"

	"github.com/openmorph/gorpho/cpu"
	"github.com/openmorph/gorpho/gpu"
	"github.com/openmorph/gorpho/morph"
	"github.com/openmorph/gorpho/strel"
)

// GenDilateErode dilates or erodes vol with a dense grayscale structuring
// element of the same element type, writing into dst. dst and vol share the
// volume extent and must not alias.
func GenDilateErode[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []T, seExt morph.Extent, op morph.Op, block morph.BlockSize) error {
	if op != morph.Dilate && op != morph.Erode {
		return fmt.Errorf("%w: %s on generic path", morph.ErrBadMorphOp, op)
	}
	if err := gate(); err != nil {
		return err
	}
	dstV, err := morph.NewView(dst, volExt)
	if err != nil {
		return err
	}
	volV, err := morph.NewView(vol, volExt)
	if err != nil {
		return err
	}
	seV, err := morph.NewView(se, seExt)
	if err != nil {
		return err
	}
	return engineGen(dstV, volV, seV, op, block)
}

// FlatMorph applies op with a dense flat structuring element. All six
// operations are legal on this path.
func FlatMorph[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []bool, seExt morph.Extent, op morph.Op, block morph.BlockSize) error {
	if op < morph.Dilate || op > morph.Bothat {
		return fmt.Errorf("%w: %d", morph.ErrBadMorphOp, op)
	}
	if err := gate(); err != nil {
		return err
	}
	dstV, err := morph.NewView(dst, volExt)
	if err != nil {
		return err
	}
	volV, err := morph.NewView(vol, volExt)
	if err != nil {
		return err
	}
	seV, err := morph.NewView(se, seExt)
	if err != nil {
		return err
	}
	return engineFlat(dstV, volV, seV, op, block)
}

// FlatLinearDilateErode dilates or erodes vol with a sequence of flat line
// segments, applied in order.
func FlatLinearDilateErode[T morph.Scalar](dst, vol []T, volExt morph.Extent, lines []strel.LineSegment, op morph.Op, block morph.BlockSize) error {
	if op != morph.Dilate && op != morph.Erode {
		return fmt.Errorf("%w: %s on flat-linear path", morph.ErrBadMorphOp, op)
	}
	if err := gate(); err != nil {
		return err
	}
	dstV, err := morph.NewView(dst, volExt)
	if err != nil {
		return err
	}
	volV, err := morph.NewView(vol, volExt)
	if err != nil {
		return err
	}
	return engineLinear(dstV, volV, lines, op, block)
}

// FlatBallApprox decomposes a flat ball of the given radius into line
// segments. Host-side geometry: no device gate.
func FlatBallApprox(radius int, approx morph.ApproxType) ([]strel.LineSegment, error) {
	return strel.FlatBallApprox(radius, approx)
}

/* ---------- engine selection ---------- */

func engineGen[T morph.Scalar](dst, vol, se morph.VolumeView[T], op morph.Op, block morph.BlockSize) error {
	if active == BackendCPU {
		return cpu.GenDilateErode(dst, vol, se, op, block)
	}
	return gpu.GenDilateErode(dst, vol, se, op, block)
}

func engineFlat[T morph.Scalar](dst, vol morph.VolumeView[T], se morph.VolumeView[bool], op morph.Op, block morph.BlockSize) error {
	if active == BackendCPU {
		return cpu.FlatMorph(dst, vol, se, op, block)
	}
	return gpu.FlatMorph(dst, vol, se, op, block)
}

func engineLinear[T morph.Scalar](dst, vol morph.VolumeView[T], lines []strel.LineSegment, op morph.Op, block morph.BlockSize) error {
	if active == BackendCPU {
		return cpu.FlatLinearDilateErode(dst, vol, lines, op, block)
	}
	return gpu.FlatLinearDilateErode(dst, vol, lines, op, block)
}

/* ---------- convenience wrappers ---------- */

// FlatDilate dilates vol with a flat structuring element.
func FlatDilate[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []bool, seExt morph.Extent, block morph.BlockSize) error {
	return FlatMorph(dst, vol, volExt, se, seExt, morph.Dilate, block)
}

// FlatErode erodes vol with a flat structuring element.
func FlatErode[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []bool, seExt morph.Extent, block morph.BlockSize) error {
	return FlatMorph(dst, vol, volExt, se, seExt, morph.Erode, block)
}

// FlatOpen opens vol: erosion followed by dilation.
func FlatOpen[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []bool, seExt morph.Extent, block morph.BlockSize) error {
	return FlatMorph(dst, vol, volExt, se, seExt, morph.Open, block)
}

// FlatClose closes vol: dilation followed by erosion.
func FlatClose[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []bool, seExt morph.Extent, block morph.BlockSize) error {
	return FlatMorph(dst, vol, volExt, se, seExt, morph.Close, block)
}

// FlatTophat extracts fine bright features: vol minus its opening.
func FlatTophat[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []bool, seExt morph.Extent, block morph.BlockSize) error {
	return FlatMorph(dst, vol, volExt, se, seExt, morph.Tophat, block)
}

// FlatBothat extracts fine dark features: closing of vol minus vol.
func FlatBothat[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []bool, seExt morph.Extent, block morph.BlockSize) error {
	return FlatMorph(dst, vol, volExt, se, seExt, morph.Bothat, block)
}

// GenDilate dilates vol with a grayscale structuring element.
func GenDilate[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []T, seExt morph.Extent, block morph.BlockSize) error {
	return GenDilateErode(dst, vol, volExt, se, seExt, morph.Dilate, block)
}

// GenErode erodes vol with a grayscale structuring element.
func GenErode[T morph.Scalar](dst, vol []T, volExt morph.Extent, se []T, seExt morph.Extent, block morph.BlockSize) error {
	return GenDilateErode(dst, vol, volExt, se, seExt, morph.Erode, block)
}

// FlatLinearDilate dilates vol with flat line segments.
func FlatLinearDilate[T morph.Scalar](dst, vol []T, volExt morph.Extent, lines []strel.LineSegment, block morph.BlockSize) error {
	return FlatLinearDilateErode(dst, vol, volExt, lines, morph.Dilate, block)
}

// FlatLinearErode erodes vol with flat line segments.
func FlatLinearErode[T morph.Scalar](dst, vol []T, volExt morph.Extent, lines []strel.LineSegment, block morph.BlockSize) error {
	return FlatLinearDilateErode(dst, vol, volExt, lines, morph.Erode, block)
}
