package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/openmorph/gorpho"
	"github.com/openmorph/gorpho/config"
	"github.com/openmorph/gorpho/morph"
)

// typeNames maps the -type flag onto a tag and an element width. The names
// follow the numpy dtype names the original callers used.
var typeNames = map[string]struct {
	tag  morph.TypeTag
	size int
}{
	"bool":    {morph.TagBool, 1},
	"int8":    {morph.TagInt8, 1},
	"uint8":   {morph.TagUint8, 1},
	"int16":   {morph.TagInt16, 2},
	"uint16":  {morph.TagUint16, 2},
	"int32":   {morph.TagInt32, 4},
	"uint32":  {morph.TagUint32, 4},
	"int64":   {morph.TagInt64, 8},
	"uint64":  {morph.TagUint64, 8},
	"float32": {morph.TagFloat32, 4},
	"float64": {morph.TagFloat64, 8},
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	in := fs.String("in", "", "input volume file (.zst for zstd)")
	out := fs.String("out", "", "output volume file (.zst for zstd)")
	dims := fs.String("dims", "", "volume extent as X,Y,Z")
	typ := fs.String("type", "uint8", "element type (numpy dtype name)")
	opName := fs.String("op", "dilate", "operation: dilate, erode, open, close, tophat, bothat")
	ball := fs.Int("ball", 0, "use a flat ball structuring element of this radius")
	approx := fs.String("approx", "best", "ball approximation bias")
	seFile := fs.String("strel", "", "flat structuring element file (one byte per voxel)")
	seDims := fs.String("strel-dims", "", "structuring element extent as X,Y,Z")
	cfgFile := fs.String("config", "", "YAML configuration file")
	backend := fs.String("backend", "", "override configured backend: gpu or cpu")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.Load(*cfgFile); err != nil {
			return err
		}
	}
	if err := parseBackend(cfg, *backend); err != nil {
		return err
	}

	op, err := parseOp(*opName)
	if err != nil {
		return err
	}
	ti, ok := typeNames[*typ]
	if !ok {
		return fmt.Errorf("unknown element type %q", *typ)
	}
	volExt, err := parseDims(*dims)
	if err != nil {
		return fmt.Errorf("-dims: %w", err)
	}

	vol, err := readVolume(*in, volExt.Numel()*ti.size)
	if err != nil {
		return err
	}
	res := make([]byte, len(vol))
	block := cfg.BlockSize()

	// The raw boundary takes untyped pointers, same as a foreign caller.
	switch {
	case *ball > 0:
		if op != morph.Dilate && op != morph.Erode {
			return fmt.Errorf("ball structuring elements support dilate and erode only")
		}
		at, err := parseApprox(*approx)
		if err != nil {
			return err
		}
		lines, err := gorpho.FlatBallApprox(*ball, at)
		if err != nil {
			return err
		}
		steps := make([]int32, 3*len(lines))
		lens := make([]int32, len(lines))
		for i, ln := range lines {
			copy(steps[3*i:], ln.Step[:])
			lens[i] = ln.Length
		}
		err = gorpho.RawFlatLinearDilateErode(
			unsafe.Pointer(&res[0]), unsafe.Pointer(&vol[0]), volExt,
			unsafe.Pointer(&steps[0]), unsafe.Pointer(&lens[0]), len(lines),
			ti.tag, op, block)
		if err != nil {
			return err
		}

	case *seFile != "":
		seExt, err := parseDims(*seDims)
		if err != nil {
			return fmt.Errorf("-strel-dims: %w", err)
		}
		se, err := readVolume(*seFile, seExt.Numel())
		if err != nil {
			return err
		}
		err = gorpho.RawFlatMorph(
			unsafe.Pointer(&res[0]), unsafe.Pointer(&vol[0]), volExt,
			unsafe.Pointer(&se[0]), seExt,
			ti.tag, op, block)
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("need -ball or -strel")
	}

	if *out != "" {
		if err := writeVolume(*out, res, cfg.Output.Compress); err != nil {
			return err
		}
	}
	if cfg.Output.Digest {
		sum := blake3.Sum256(res)
		fmt.Printf("blake3  %x\n", sum)
	}
	if cfg.Output.Stats {
		printStats(res, ti.tag)
	}
	return nil
}

func parseDims(s string) (morph.Extent, error) {
	var e morph.Extent
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d,%d,%d", &e.X, &e.Y, &e.Z); err != nil {
		return e, fmt.Errorf("want X,Y,Z: %w", err)
	}
	if !e.Positive() {
		return e, fmt.Errorf("extent %d,%d,%d not positive", e.X, e.Y, e.Z)
	}
	return e, nil
}

func readVolume(path string, want int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, fmt.Errorf("%s: got %d bytes, extent needs %d", path, len(data), want)
	}
	return data, nil
}

func writeVolume(path string, data []byte, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if compress || strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
	_, err = f.Write(data)
	return err
}

// printStats summarizes the result volume. Everything is lifted to float64;
// good enough for a console summary.
func printStats(data []byte, tag morph.TypeTag) {
	vals := asFloats(data, tag)
	if len(vals) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(vals, nil)
	fmt.Printf("min %g  max %g  mean %g  std %g\n",
		floats.Min(vals), floats.Max(vals), mean, std)
}

func asFloats(data []byte, tag morph.TypeTag) []float64 {
	le := binary.LittleEndian
	switch tag {
	case morph.TagBool, morph.TagUint8:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out
	case morph.TagInt8:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(int8(v))
		}
		return out
	case morph.TagInt16:
		out := make([]float64, len(data)/2)
		for i := range out {
			out[i] = float64(int16(le.Uint16(data[2*i:])))
		}
		return out
	case morph.TagUint16:
		out := make([]float64, len(data)/2)
		for i := range out {
			out[i] = float64(le.Uint16(data[2*i:]))
		}
		return out
	case morph.TagInt32:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(int32(le.Uint32(data[4*i:])))
		}
		return out
	case morph.TagUint32:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(le.Uint32(data[4*i:]))
		}
		return out
	case morph.TagInt64, morph.TagLongLong:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = float64(int64(le.Uint64(data[8*i:])))
		}
		return out
	case morph.TagUint64, morph.TagULongLong:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = float64(le.Uint64(data[8*i:]))
		}
		return out
	case morph.TagFloat32:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(math.Float32frombits(le.Uint32(data[4*i:])))
		}
		return out
	case morph.TagFloat64:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = math.Float64frombits(le.Uint64(data[8*i:]))
		}
		return out
	}
	return nil
}
