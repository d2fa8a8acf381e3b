package morph

import (
	"fmt"
	"unsafe"
)

// VolumeView is a non-owning handle over a contiguous 3D buffer. The backing
// memory belongs to the caller; a view never allocates, frees, or outlives
// the call it was built for. Layout is row-major with x fastest-varying:
// index(x,y,z) = x + X*(y + Y*z).
type VolumeView[T any] struct {
	Data   []T
	Extent Extent
}

// NewView wraps a slice whose length must match the extent.
func NewView[T any](data []T, ext Extent) (VolumeView[T], error) {
	if !ext.Positive() {
		return VolumeView[T]{}, fmt.Errorf("%w: extent %dx%dx%d", ErrShape, ext.X, ext.Y, ext.Z)
	}
	if len(data) != ext.Numel() {
		return VolumeView[T]{}, fmt.Errorf("%w: have %d elements, extent %dx%dx%d needs %d",
			ErrShape, len(data), ext.X, ext.Y, ext.Z, ext.Numel())
	}
	return VolumeView[T]{Data: data, Extent: ext}, nil
}

// ViewAt wraps caller-owned raw memory. The pointer and extent are trusted to
// match the underlying allocation; this is the foreign-call contract.
func ViewAt[T any](ptr unsafe.Pointer, ext Extent) VolumeView[T] {
	return VolumeView[T]{
		Data:   unsafe.Slice((*T)(ptr), ext.Numel()),
		Extent: ext,
	}
}

func (v VolumeView[T]) Index(x, y, z int) int {
	return x + v.Extent.X*(y+v.Extent.Y*z)
}

func (v VolumeView[T]) At(x, y, z int) T {
	return v.Data[v.Index(x, y, z)]
}

func (v VolumeView[T]) Set(x, y, z int, val T) {
	v.Data[v.Index(x, y, z)] = val
}

// Contains reports whether (x,y,z) is inside the volume.
func (v VolumeView[T]) Contains(x, y, z int) bool {
	return x >= 0 && x < v.Extent.X &&
		y >= 0 && y < v.Extent.Y &&
		z >= 0 && z < v.Extent.Z
}

// Anchor is the structuring element origin convention: (s-1)/2 per axis.
// The same anchor is used for dilation and erosion.
func (e Extent) Anchor() (int, int, int) {
	return (e.X - 1) / 2, (e.Y - 1) / 2, (e.Z - 1) / 2
}
