package cpu

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/openmorph/gorpho/morph"
	"github.com/openmorph/gorpho/strel"
)

func volume[T morph.Scalar](ext morph.Extent) morph.VolumeView[T] {
	return morph.VolumeView[T]{Data: make([]T, ext.Numel()), Extent: ext}
}

func fullSE(ext morph.Extent) morph.VolumeView[bool] {
	se := morph.VolumeView[bool]{Data: make([]bool, ext.Numel()), Extent: ext}
	for i := range se.Data {
		se.Data[i] = true
	}
	return se
}

// TestFlatDilateSupport verifies the support of dilation with an even-sized
// dense element: a single voxel at (3,3,3) of a 7^3 volume dilated by a 4^3
// element lights up exactly [2,5] on each axis.
func TestFlatDilateSupport(t *testing.T) {
	ext := morph.Extent{X: 7, Y: 7, Z: 7}
	vol := volume[uint8](ext)
	vol.Set(3, 3, 3, 1)
	dst := volume[uint8](ext)

	se := fullSE(morph.Extent{X: 4, Y: 4, Z: 4})
	if err := FlatMorph(dst, vol, se, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for z := 0; z < 7; z++ {
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				want := uint8(0)
				if x >= 2 && x <= 5 && y >= 2 && y <= 5 && z >= 2 && z <= 5 {
					want = 1
				}
				if got := dst.At(x, y, z); got != want {
					t.Fatalf("dilate at (%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
			}
		}
	}
}

// TestFlatErodeSupport verifies erosion uses the same support as dilation: a
// single zero in an all-ones volume erodes to zero over the same [2,5] box.
func TestFlatErodeSupport(t *testing.T) {
	ext := morph.Extent{X: 7, Y: 7, Z: 7}
	vol := volume[uint8](ext)
	for i := range vol.Data {
		vol.Data[i] = 1
	}
	vol.Set(3, 3, 3, 0)
	dst := volume[uint8](ext)

	se := fullSE(morph.Extent{X: 4, Y: 4, Z: 4})
	if err := FlatMorph(dst, vol, se, morph.Erode, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for z := 0; z < 7; z++ {
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				want := uint8(1)
				if x >= 2 && x <= 5 && y >= 2 && y <= 5 && z >= 2 && z <= 5 {
					want = 0
				}
				if got := dst.At(x, y, z); got != want {
					t.Fatalf("erode at (%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
			}
		}
	}
}

// TestFlatDilateNonCubic verifies anchoring with a 3x4x5 element: the point
// at (3,3,3) spreads to [2,4]x[2,5]x[1,5].
func TestFlatDilateNonCubic(t *testing.T) {
	ext := morph.Extent{X: 7, Y: 7, Z: 7}
	vol := volume[uint8](ext)
	vol.Set(3, 3, 3, 1)
	dst := volume[uint8](ext)

	se := fullSE(morph.Extent{X: 3, Y: 4, Z: 5})
	if err := FlatMorph(dst, vol, se, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for z := 0; z < 7; z++ {
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				want := uint8(0)
				if x >= 2 && x <= 4 && y >= 2 && y <= 5 && z >= 1 && z <= 5 {
					want = 1
				}
				if got := dst.At(x, y, z); got != want {
					t.Fatalf("dilate at (%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
			}
		}
	}
}

// TestFlatPointChebyshev verifies the canonical small scenario: a single
// voxel of value 5 at (1,1,1) of a 4^3 int32 volume dilated by a full 3^3
// element lights up exactly the Chebyshev-1 neighborhood; erosion of the same
// input is all zeros.
func TestFlatPointChebyshev(t *testing.T) {
	ext := morph.Extent{X: 4, Y: 4, Z: 4}
	vol := volume[int32](ext)
	vol.Set(1, 1, 1, 5)
	se := fullSE(morph.Extent{X: 3, Y: 3, Z: 3})

	dst := volume[int32](ext)
	if err := FlatMorph(dst, vol, se, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for z := 0; z < 4; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				want := int32(0)
				if abs(x-1) <= 1 && abs(y-1) <= 1 && abs(z-1) <= 1 {
					want = 5
				}
				if got := dst.At(x, y, z); got != want {
					t.Fatalf("dilate at (%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
			}
		}
	}

	if err := FlatMorph(dst, vol, se, morph.Erode, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for i, v := range dst.Data {
		if v != 0 {
			t.Fatalf("erode voxel %d = %d, want 0", i, v)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// TestFlatConstantVolume verifies out-of-bounds neighbors are ignored: every
// operation on a constant volume is exact, with no border halo.
func TestFlatConstantVolume(t *testing.T) {
	ext := morph.Extent{X: 5, Y: 4, Z: 3}
	vol := volume[int32](ext)
	for i := range vol.Data {
		vol.Data[i] = 100
	}
	se := fullSE(morph.Extent{X: 3, Y: 3, Z: 3})

	for _, op := range []morph.Op{morph.Dilate, morph.Erode, morph.Open, morph.Close} {
		dst := volume[int32](ext)
		if err := FlatMorph(dst, vol, se, op, morph.BlockSize{}); err != nil {
			t.Fatal(err)
		}
		for i, v := range dst.Data {
			if v != 100 {
				t.Fatalf("%s of constant volume: voxel %d = %d", op, i, v)
			}
		}
	}
	for _, op := range []morph.Op{morph.Tophat, morph.Bothat} {
		dst := volume[int32](ext)
		if err := FlatMorph(dst, vol, se, op, morph.BlockSize{}); err != nil {
			t.Fatal(err)
		}
		for i, v := range dst.Data {
			if v != 0 {
				t.Fatalf("%s of constant volume: voxel %d = %d", op, i, v)
			}
		}
	}
}

// TestFlatCompositions verifies open, close, tophat and bothat against their
// definitions built from separate dilate and erode calls.
func TestFlatCompositions(t *testing.T) {
	ext := morph.Extent{X: 6, Y: 5, Z: 4}
	rng := rand.New(rand.NewSource(7))
	vol := volume[int32](ext)
	for i := range vol.Data {
		vol.Data[i] = rng.Int31n(100)
	}
	se := fullSE(morph.Extent{X: 3, Y: 1, Z: 3})
	se.Data[4] = false // knock out the center to keep the element irregular
	blk := morph.BlockSize{}

	eroded := volume[int32](ext)
	dilated := volume[int32](ext)
	opened := volume[int32](ext)
	closed := volume[int32](ext)
	if err := FlatMorph(eroded, vol, se, morph.Erode, blk); err != nil {
		t.Fatal(err)
	}
	if err := FlatMorph(dilated, vol, se, morph.Dilate, blk); err != nil {
		t.Fatal(err)
	}
	if err := FlatMorph(opened, eroded, se, morph.Dilate, blk); err != nil {
		t.Fatal(err)
	}
	if err := FlatMorph(closed, dilated, se, morph.Erode, blk); err != nil {
		t.Fatal(err)
	}

	check := func(op morph.Op, want func(i int) int32) {
		dst := volume[int32](ext)
		if err := FlatMorph(dst, vol, se, op, blk); err != nil {
			t.Fatal(err)
		}
		for i, v := range dst.Data {
			if w := want(i); v != w {
				t.Fatalf("%s voxel %d = %d, want %d", op, i, v, w)
			}
		}
	}
	check(morph.Open, func(i int) int32 { return opened.Data[i] })
	check(morph.Close, func(i int) int32 { return closed.Data[i] })
	check(morph.Tophat, func(i int) int32 { return vol.Data[i] - opened.Data[i] })
	check(morph.Bothat, func(i int) int32 { return closed.Data[i] - vol.Data[i] })
}

// TestFlatOpenIdempotent verifies opening and closing are idempotent.
func TestFlatOpenIdempotent(t *testing.T) {
	ext := morph.Extent{X: 8, Y: 7, Z: 6}
	rng := rand.New(rand.NewSource(11))
	vol := volume[uint16](ext)
	for i := range vol.Data {
		vol.Data[i] = uint16(rng.Intn(1000))
	}
	se := fullSE(morph.Extent{X: 3, Y: 3, Z: 1})

	for _, op := range []morph.Op{morph.Open, morph.Close} {
		once := volume[uint16](ext)
		twice := volume[uint16](ext)
		if err := FlatMorph(once, vol, se, op, morph.BlockSize{}); err != nil {
			t.Fatal(err)
		}
		if err := FlatMorph(twice, once, se, op, morph.BlockSize{}); err != nil {
			t.Fatal(err)
		}
		for i := range once.Data {
			if once.Data[i] != twice.Data[i] {
				t.Fatalf("%s not idempotent at voxel %d: %d then %d", op, i, once.Data[i], twice.Data[i])
			}
		}
	}
}

// TestFlatNeutralExtremes verifies a voxel with no supported in-bounds
// neighbor takes the operation's neutral extreme: the type minimum for
// dilation, the maximum for erosion, infinities for floats.
func TestFlatNeutralExtremes(t *testing.T) {
	ext := morph.Extent{X: 2, Y: 2, Z: 1}
	se := morph.VolumeView[bool]{Data: make([]bool, 1), Extent: morph.Extent{X: 1, Y: 1, Z: 1}}

	du := volume[uint8](ext)
	vu := volume[uint8](ext)
	if err := FlatMorph(du, vu, se, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for _, v := range du.Data {
		if v != 0 {
			t.Errorf("uint8 dilate with empty element = %d, want 0", v)
		}
	}
	if err := FlatMorph(du, vu, se, morph.Erode, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for _, v := range du.Data {
		if v != math.MaxUint8 {
			t.Errorf("uint8 erode with empty element = %d, want 255", v)
		}
	}

	df := volume[float32](ext)
	vf := volume[float32](ext)
	if err := FlatMorph(df, vf, se, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for _, v := range df.Data {
		if !math.IsInf(float64(v), -1) {
			t.Errorf("float32 dilate with empty element = %g, want -Inf", v)
		}
	}
	if err := FlatMorph(df, vf, se, morph.Erode, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for _, v := range df.Data {
		if !math.IsInf(float64(v), 1) {
			t.Errorf("float32 erode with empty element = %g, want +Inf", v)
		}
	}
}

// TestTophatWraps verifies tophat subtracts with the element type's native
// arithmetic: with an element that does not cover its own anchor the opening
// can exceed the volume, and unsigned subtraction wraps.
func TestTophatWraps(t *testing.T) {
	ext := morph.Extent{X: 3, Y: 1, Z: 1}
	vol := volume[uint8](ext)
	copy(vol.Data, []uint8{0, 0, 7})

	// 3x1x1 element supported only at q=0: every read is vol[x+1].
	se := morph.VolumeView[bool]{Data: []bool{true, false, false}, Extent: morph.Extent{X: 3, Y: 1, Z: 1}}

	dst := volume[uint8](ext)
	if err := FlatMorph(dst, vol, se, morph.Tophat, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	// erode = [0, 7, 255]; open = dilate(erode) = [7, 255, 0];
	// tophat = vol - open with wrap-around.
	want := []uint8{256 - 7, 256 - 255, 7 - 0}
	for i, v := range dst.Data {
		if v != want[i] {
			t.Errorf("tophat voxel %d = %d, want %d", i, v, want[i])
		}
	}
}

// TestGenDilateErode verifies grayscale dilation adds the element value and
// erosion subtracts it.
func TestGenDilateErode(t *testing.T) {
	ext := morph.Extent{X: 5, Y: 5, Z: 5}
	vol := volume[int32](ext)
	vol.Set(2, 2, 2, 5)

	se := volume[int32](morph.Extent{X: 3, Y: 3, Z: 3})
	for i := range se.Data {
		se.Data[i] = 2
	}

	dst := volume[int32](ext)
	if err := GenDilateErode(dst, vol, se, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for z := 0; z < 5; z++ {
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				want := int32(2) // background 0 plus element value
				if x >= 1 && x <= 3 && y >= 1 && y <= 3 && z >= 1 && z <= 3 {
					want = 7 // peak 5 plus element value
				}
				if got := dst.At(x, y, z); got != want {
					t.Fatalf("gen dilate at (%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
			}
		}
	}

	if err := GenDilateErode(dst, vol, se, morph.Erode, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	// Every voxel sees at least one zero neighbor, so the minimum of
	// vol - 2 is -2 everywhere.
	for i, v := range dst.Data {
		if v != -2 {
			t.Fatalf("gen erode voxel %d = %d, want -2", i, v)
		}
	}
}

// TestGenIdentity verifies a 1^3 zero-valued element is the identity for both
// grayscale operations.
func TestGenIdentity(t *testing.T) {
	ext := morph.Extent{X: 4, Y: 3, Z: 2}
	rng := rand.New(rand.NewSource(3))
	vol := volume[float64](ext)
	for i := range vol.Data {
		vol.Data[i] = rng.NormFloat64()
	}
	se := volume[float64](morph.Extent{X: 1, Y: 1, Z: 1})

	for _, op := range []morph.Op{morph.Dilate, morph.Erode} {
		dst := volume[float64](ext)
		if err := GenDilateErode(dst, vol, se, op, morph.BlockSize{}); err != nil {
			t.Fatal(err)
		}
		for i := range vol.Data {
			if dst.Data[i] != vol.Data[i] {
				t.Fatalf("gen %s identity broken at voxel %d", op, i)
			}
		}
	}
}

// TestFlatLinearMatchesDense verifies a single x line of length 3 equals a
// dense 3x1x1 flat element, and an x then y pair equals the dense 3x3x1
// rectangle, for both operations.
func TestFlatLinearMatchesDense(t *testing.T) {
	ext := morph.Extent{X: 6, Y: 5, Z: 4}
	rng := rand.New(rand.NewSource(19))
	vol := volume[uint16](ext)
	for i := range vol.Data {
		vol.Data[i] = uint16(rng.Intn(500))
	}

	xLine := strel.LineSegment{Step: [3]int32{1, 0, 0}, Length: 3}
	yLine := strel.LineSegment{Step: [3]int32{0, 1, 0}, Length: 3}
	zLine := strel.LineSegment{Step: [3]int32{0, 0, 1}, Length: 3}

	cases := []struct {
		name  string
		lines []strel.LineSegment
		seExt morph.Extent
	}{
		{"x3", []strel.LineSegment{xLine}, morph.Extent{X: 3, Y: 1, Z: 1}},
		{"x3y3", []strel.LineSegment{xLine, yLine}, morph.Extent{X: 3, Y: 3, Z: 1}},
		{"x3y3z3", []strel.LineSegment{xLine, yLine, zLine}, morph.Extent{X: 3, Y: 3, Z: 3}},
	}
	for _, c := range cases {
		se := fullSE(c.seExt)
		for _, op := range []morph.Op{morph.Dilate, morph.Erode} {
			lin := volume[uint16](ext)
			dense := volume[uint16](ext)
			if err := FlatLinearDilateErode(lin, vol, c.lines, op, morph.BlockSize{}); err != nil {
				t.Fatal(err)
			}
			if err := FlatMorph(dense, vol, se, op, morph.BlockSize{}); err != nil {
				t.Fatal(err)
			}
			for i := range lin.Data {
				if lin.Data[i] != dense.Data[i] {
					t.Fatalf("%s %s: voxel %d linear %d, dense %d",
						c.name, op, i, lin.Data[i], dense.Data[i])
				}
			}
		}
	}
}

// TestFlatLinearIdentity verifies an empty segment list and degenerate
// segments leave the volume unchanged.
func TestFlatLinearIdentity(t *testing.T) {
	ext := morph.Extent{X: 3, Y: 3, Z: 3}
	rng := rand.New(rand.NewSource(23))
	vol := volume[int8](ext)
	for i := range vol.Data {
		vol.Data[i] = int8(rng.Intn(256) - 128)
	}
	degenerate := []strel.LineSegment{
		{Step: [3]int32{1, 0, 0}, Length: 1},
		{Step: [3]int32{0, 1, 1}, Length: 0},
	}
	for _, lines := range [][]strel.LineSegment{nil, degenerate} {
		dst := volume[int8](ext)
		if err := FlatLinearDilateErode(dst, vol, lines, morph.Dilate, morph.BlockSize{}); err != nil {
			t.Fatal(err)
		}
		for i := range vol.Data {
			if dst.Data[i] != vol.Data[i] {
				t.Fatalf("identity broken at voxel %d", i)
			}
		}
	}
}

// TestBadOps verifies each path rejects operations outside its legal set.
func TestBadOps(t *testing.T) {
	ext := morph.Extent{X: 2, Y: 2, Z: 2}
	vol := volume[uint8](ext)
	dst := volume[uint8](ext)
	se := fullSE(morph.Extent{X: 1, Y: 1, Z: 1})
	gse := volume[uint8](morph.Extent{X: 1, Y: 1, Z: 1})

	if err := FlatMorph(dst, vol, se, morph.Op(9), morph.BlockSize{}); !errors.Is(err, morph.ErrBadMorphOp) {
		t.Errorf("flat op 9: got %v", err)
	}
	for _, op := range []morph.Op{morph.Open, morph.Close, morph.Tophat, morph.Bothat, morph.Op(-1)} {
		if err := GenDilateErode(dst, vol, gse, op, morph.BlockSize{}); !errors.Is(err, morph.ErrBadMorphOp) {
			t.Errorf("gen %s: got %v", op, err)
		}
		if err := FlatLinearDilateErode(dst, vol, nil, op, morph.BlockSize{}); !errors.Is(err, morph.ErrBadMorphOp) {
			t.Errorf("linear %s: got %v", op, err)
		}
	}
}

// TestBallLinesExtensive verifies the ball decomposition behaves like a
// structuring element covering its own anchor: every segment includes the
// zero offset, so dilation never decreases a voxel and erosion never
// increases one.
func TestBallLinesExtensive(t *testing.T) {
	ext := morph.Extent{X: 15, Y: 14, Z: 13}
	rng := rand.New(rand.NewSource(31))
	vol := volume[uint8](ext)
	for i := range vol.Data {
		vol.Data[i] = uint8(rng.Intn(256))
	}

	lines, err := strel.FlatBallApprox(4, morph.Best)
	if err != nil {
		t.Fatal(err)
	}
	dilated := volume[uint8](ext)
	eroded := volume[uint8](ext)
	if err := FlatLinearDilateErode(dilated, vol, lines, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	if err := FlatLinearDilateErode(eroded, vol, lines, morph.Erode, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	for i := range vol.Data {
		if dilated.Data[i] < vol.Data[i] {
			t.Fatalf("dilation decreased voxel %d: %d -> %d", i, vol.Data[i], dilated.Data[i])
		}
		if eroded.Data[i] > vol.Data[i] {
			t.Fatalf("erosion increased voxel %d: %d -> %d", i, vol.Data[i], eroded.Data[i])
		}
	}
}

// TestBallDilateSpread verifies a dilated point reaches along each segment's
// spread direction and leaves far voxels untouched.
func TestBallDilateSpread(t *testing.T) {
	ext := morph.Extent{X: 21, Y: 21, Z: 21}
	vol := volume[uint8](ext)
	vol.Set(10, 10, 10, 200)

	lines, err := strel.FlatBallApprox(7, morph.Best)
	if err != nil {
		t.Fatal(err)
	}
	dilated := volume[uint8](ext)
	if err := FlatLinearDilateErode(dilated, vol, lines, morph.Dilate, morph.BlockSize{}); err != nil {
		t.Fatal(err)
	}
	// Radius 7, best bias: the axis lines have length 3, anchor 1, so the
	// axis alone spreads one step either way.
	if dilated.At(10, 10, 10) != 200 {
		t.Errorf("center lost: %d", dilated.At(10, 10, 10))
	}
	for _, p := range [][3]int{{9, 10, 10}, {11, 10, 10}, {10, 9, 10}, {10, 11, 10}, {10, 10, 9}, {10, 10, 11}} {
		if got := dilated.At(p[0], p[1], p[2]); got != 200 {
			t.Errorf("axis neighbor %v = %d, want 200", p, got)
		}
	}
	if got := dilated.At(0, 0, 0); got != 0 {
		t.Errorf("far corner = %d, want 0", got)
	}
}
