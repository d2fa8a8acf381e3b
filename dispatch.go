package gorpho

import (
	"fmt"
	"unsafe"

	"github.com/openmorph/gorpho/morph"
	"github.com/openmorph/gorpho/strel"
)

// The dispatch tables below map a runtime type tag onto exactly one
// statically-typed engine instantiation. The tag set is closed: the two
// 64-bit integer tag pairs share an instantiation, bool shares the uint8
// one (same bytes, same order), and anything else is ErrBadType. No
// coercion happens here; the buffers must already hold the tagged type.

func dispatchGen(tag morph.TypeTag, res, vol, se unsafe.Pointer, volExt, seExt morph.Extent, op morph.Op, block morph.BlockSize) error {
	switch tag {
	case morph.TagBool, morph.TagUint8:
		return engineGen(morph.ViewAt[uint8](res, volExt), morph.ViewAt[uint8](vol, volExt), morph.ViewAt[uint8](se, seExt), op, block)
	case morph.TagInt8:
		return engineGen(morph.ViewAt[int8](res, volExt), morph.ViewAt[int8](vol, volExt), morph.ViewAt[int8](se, seExt), op, block)
	case morph.TagInt16:
		return engineGen(morph.ViewAt[int16](res, volExt), morph.ViewAt[int16](vol, volExt), morph.ViewAt[int16](se, seExt), op, block)
	case morph.TagUint16:
		return engineGen(morph.ViewAt[uint16](res, volExt), morph.ViewAt[uint16](vol, volExt), morph.ViewAt[uint16](se, seExt), op, block)
	case morph.TagInt32:
		return engineGen(morph.ViewAt[int32](res, volExt), morph.ViewAt[int32](vol, volExt), morph.ViewAt[int32](se, seExt), op, block)
	case morph.TagUint32:
		return engineGen(morph.ViewAt[uint32](res, volExt), morph.ViewAt[uint32](vol, volExt), morph.ViewAt[uint32](se, seExt), op, block)
	case morph.TagInt64, morph.TagLongLong:
		return engineGen(morph.ViewAt[int64](res, volExt), morph.ViewAt[int64](vol, volExt), morph.ViewAt[int64](se, seExt), op, block)
	case morph.TagUint64, morph.TagULongLong:
		return engineGen(morph.ViewAt[uint64](res, volExt), morph.ViewAt[uint64](vol, volExt), morph.ViewAt[uint64](se, seExt), op, block)
	case morph.TagFloat32:
		return engineGen(morph.ViewAt[float32](res, volExt), morph.ViewAt[float32](vol, volExt), morph.ViewAt[float32](se, seExt), op, block)
	case morph.TagFloat64:
		return engineGen(morph.ViewAt[float64](res, volExt), morph.ViewAt[float64](vol, volExt), morph.ViewAt[float64](se, seExt), op, block)
	}
	return fmt.Errorf("%w: tag %d", morph.ErrBadType, tag)
}

func dispatchFlat(tag morph.TypeTag, res, vol unsafe.Pointer, volExt morph.Extent, se unsafe.Pointer, seExt morph.Extent, op morph.Op, block morph.BlockSize) error {
	seV := morph.ViewAt[bool](se, seExt)
	switch tag {
	case morph.TagBool, morph.TagUint8:
		return engineFlat(morph.ViewAt[uint8](res, volExt), morph.ViewAt[uint8](vol, volExt), seV, op, block)
	case morph.TagInt8:
		return engineFlat(morph.ViewAt[int8](res, volExt), morph.ViewAt[int8](vol, volExt), seV, op, block)
	case morph.TagInt16:
		return engineFlat(morph.ViewAt[int16](res, volExt), morph.ViewAt[int16](vol, volExt), seV, op, block)
	case morph.TagUint16:
		return engineFlat(morph.ViewAt[uint16](res, volExt), morph.ViewAt[uint16](vol, volExt), seV, op, block)
	case morph.TagInt32:
		return engineFlat(morph.ViewAt[int32](res, volExt), morph.ViewAt[int32](vol, volExt), seV, op, block)
	case morph.TagUint32:
		return engineFlat(morph.ViewAt[uint32](res, volExt), morph.ViewAt[uint32](vol, volExt), seV, op, block)
	case morph.TagInt64, morph.TagLongLong:
		return engineFlat(morph.ViewAt[int64](res, volExt), morph.ViewAt[int64](vol, volExt), seV, op, block)
	case morph.TagUint64, morph.TagULongLong:
		return engineFlat(morph.ViewAt[uint64](res, volExt), morph.ViewAt[uint64](vol, volExt), seV, op, block)
	case morph.TagFloat32:
		return engineFlat(morph.ViewAt[float32](res, volExt), morph.ViewAt[float32](vol, volExt), seV, op, block)
	case morph.TagFloat64:
		return engineFlat(morph.ViewAt[float64](res, volExt), morph.ViewAt[float64](vol, volExt), seV, op, block)
	}
	return fmt.Errorf("%w: tag %d", morph.ErrBadType, tag)
}

func dispatchLinear(tag morph.TypeTag, res, vol unsafe.Pointer, volExt morph.Extent, lines []strel.LineSegment, op morph.Op, block morph.BlockSize) error {
	switch tag {
	case morph.TagBool, morph.TagUint8:
		return engineLinear(morph.ViewAt[uint8](res, volExt), morph.ViewAt[uint8](vol, volExt), lines, op, block)
	case morph.TagInt8:
		return engineLinear(morph.ViewAt[int8](res, volExt), morph.ViewAt[int8](vol, volExt), lines, op, block)
	case morph.TagInt16:
		return engineLinear(morph.ViewAt[int16](res, volExt), morph.ViewAt[int16](vol, volExt), lines, op, block)
	case morph.TagUint16:
		return engineLinear(morph.ViewAt[uint16](res, volExt), morph.ViewAt[uint16](vol, volExt), lines, op, block)
	case morph.TagInt32:
		return engineLinear(morph.ViewAt[int32](res, volExt), morph.ViewAt[int32](vol, volExt), lines, op, block)
	case morph.TagUint32:
		return engineLinear(morph.ViewAt[uint32](res, volExt), morph.ViewAt[uint32](vol, volExt), lines, op, block)
	case morph.TagInt64, morph.TagLongLong:
		return engineLinear(morph.ViewAt[int64](res, volExt), morph.ViewAt[int64](vol, volExt), lines, op, block)
	case morph.TagUint64, morph.TagULongLong:
		return engineLinear(morph.ViewAt[uint64](res, volExt), morph.ViewAt[uint64](vol, volExt), lines, op, block)
	case morph.TagFloat32:
		return engineLinear(morph.ViewAt[float32](res, volExt), morph.ViewAt[float32](vol, volExt), lines, op, block)
	case morph.TagFloat64:
		return engineLinear(morph.ViewAt[float64](res, volExt), morph.ViewAt[float64](vol, volExt), lines, op, block)
	}
	return fmt.Errorf("%w: tag %d", morph.ErrBadType, tag)
}
