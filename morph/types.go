package morph

// Op selects a morphological operation. The numeric values are part of the
// foreign-call ABI and must not be reordered.
type Op int32

const (
	Dilate Op = 0
	Erode  Op = 1
	Open   Op = 2
	Close  Op = 3
	Tophat Op = 4
	Bothat Op = 5
)

func (op Op) String() string {
	switch op {
	case Dilate:
		return "dilate"
	case Erode:
		return "erode"
	case Open:
		return "open"
	case Close:
		return "close"
	case Tophat:
		return "tophat"
	case Bothat:
		return "bothat"
	}
	return "invalid"
}

// ApproxType biases the flat ball approximation. Forwarded opaquely to the
// approximation routine; the boundary only validates membership.
type ApproxType int32

const (
	Inside  ApproxType = 0
	Best    ApproxType = 1
	Outside ApproxType = 2
)

func (a ApproxType) Valid() bool {
	return a == Inside || a == Best || a == Outside
}

// TypeTag identifies the element type of a raw buffer at runtime. The values
// are NumPy dtype numbers so existing ctypes callers keep working.
type TypeTag int32

const (
	TagBool      TypeTag = 0
	TagInt8      TypeTag = 1
	TagUint8     TypeTag = 2
	TagInt16     TypeTag = 3
	TagUint16    TypeTag = 4
	TagInt32     TypeTag = 5
	TagUint32    TypeTag = 6
	TagInt64     TypeTag = 7 // NPY_LONG on LP64 platforms
	TagUint64    TypeTag = 8
	TagLongLong  TypeTag = 9 // second 64-bit width; same instantiation as TagInt64
	TagULongLong TypeTag = 10
	TagFloat32   TypeTag = 11
	TagFloat64   TypeTag = 12
)

// Scalar is the closed set of element types the engines instantiate over.
// Bool buffers dispatch through the uint8 instantiation; the bytes are
// identical and the ordering coincides.
type Scalar interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 |
		int64 | uint64 | float32 | float64
}

// Extent is a volume size in voxels, x fastest-varying.
type Extent struct {
	X, Y, Z int
}

func (e Extent) Numel() int {
	return e.X * e.Y * e.Z
}

func (e Extent) Positive() bool {
	return e.X > 0 && e.Y > 0 && e.Z > 0
}

// BlockSize is the tile extent hint for out-of-core processing. Components
// below 1 mean the engine picks its own tile for that axis.
type BlockSize struct {
	X, Y, Z int
}

// Or fills non-positive components from def.
func (b BlockSize) Or(def BlockSize) BlockSize {
	if b.X < 1 {
		b.X = def.X
	}
	if b.Y < 1 {
		b.Y = def.Y
	}
	if b.Z < 1 {
		b.Z = def.Z
	}
	return b
}
