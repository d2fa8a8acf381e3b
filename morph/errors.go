package morph

import "errors"

var (
	// ErrBadMorphOp indicates an operation code that is unrecognized or
	// illegal for the entry point it was passed to.
	ErrBadMorphOp = errors.New("morph: invalid morphology operation code")
	// ErrBadType indicates a type tag outside the supported closed set.
	ErrBadType = errors.New("morph: unsupported element type tag")
	// ErrBadDevice indicates an out-of-range or unqueryable device index.
	ErrBadDevice = errors.New("morph: invalid device index")
	// ErrNoDevice indicates the device gate found zero usable devices.
	ErrNoDevice = errors.New("morph: no compute device available")
	// ErrBadApproxType indicates an unrecognized ball approximation bias.
	ErrBadApproxType = errors.New("morph: invalid approximation type")
	// ErrShape indicates a slice whose length does not match its declared
	// extent. Only the slice-based API can detect this; the raw-pointer
	// path trusts the caller.
	ErrShape = errors.New("morph: buffer length does not match extent")
)
