// C ABI for the gorpho morphology boundary. The exported symbol set and
// argument order are drop-in compatible with the original libpygorpho thin
// wrapper, so existing ctypes callers relink without change.
//
// Build with:
//
//	go build -buildmode=c-shared -o libpygorpho.so ./cabi
//
// Every export returns a stable integer status; no Go panic or error value
// crosses the boundary.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/openmorph/gorpho"
	"github.com/openmorph/gorpho/morph"
)

// Fixed name buffer size of the original ABI.
const deviceNameLen = 256

// guard flattens any failure, including a panic, into a status code.
func guard(f func() error) (code C.int) {
	defer func() {
		if recover() != nil {
			code = C.int(morph.StatusUncaughtException)
		}
	}()
	return C.int(morph.StatusOf(f()))
}

func extent(x, y, z C.int) morph.Extent {
	return morph.Extent{X: int(x), Y: int(y), Z: int(z)}
}

func blockSize(x, y, z C.int) morph.BlockSize {
	return morph.BlockSize{X: int(x), Y: int(y), Z: int(z)}
}

//export pyGetDeviceCount
func pyGetDeviceCount() C.int {
	return C.int(gorpho.DeviceCount())
}

//export pyGetDeviceName
func pyGetDeviceName(device C.int, name *C.char) C.int {
	return guard(func() error {
		s, err := gorpho.DeviceName(int(device))
		if err != nil {
			return err
		}
		buf := unsafe.Slice((*byte)(unsafe.Pointer(name)), deviceNameLen)
		n := copy(buf[:deviceNameLen-1], s)
		buf[n] = 0
		return nil
	})
}

//export pyFlatBallApproxStrel
func pyFlatBallApproxStrel(lineSteps *C.int32_t, lineLens *C.int32_t, radius C.int, approxType C.int) C.int {
	return guard(func() error {
		return gorpho.RawFlatBallApprox(
			unsafe.Pointer(lineSteps), unsafe.Pointer(lineLens),
			int(radius), morph.ApproxType(approxType))
	})
}

//export pyGenDilateErode
func pyGenDilateErode(res, vol, strel unsafe.Pointer,
	volX, volY, volZ, strelX, strelY, strelZ, typ, op, blockX, blockY, blockZ C.int) C.int {
	return guard(func() error {
		return gorpho.RawGenDilateErode(res, vol, strel,
			extent(volX, volY, volZ), extent(strelX, strelY, strelZ),
			morph.TypeTag(typ), morph.Op(op), blockSize(blockX, blockY, blockZ))
	})
}

//export pyFlatMorph
func pyFlatMorph(res, vol, strel unsafe.Pointer,
	volX, volY, volZ, strelX, strelY, strelZ, typ, op, blockX, blockY, blockZ C.int) C.int {
	return guard(func() error {
		return gorpho.RawFlatMorph(res, vol,
			extent(volX, volY, volZ), strel, extent(strelX, strelY, strelZ),
			morph.TypeTag(typ), morph.Op(op), blockSize(blockX, blockY, blockZ))
	})
}

//export pyFlatDilateErode
func pyFlatDilateErode(res, vol, strel unsafe.Pointer,
	volX, volY, volZ, strelX, strelY, strelZ, typ, op, blockX, blockY, blockZ C.int) C.int {
	// Historical entry point: dilate/erode subset of pyFlatMorph.
	if mop := morph.Op(op); mop != morph.Dilate && mop != morph.Erode {
		return C.int(morph.StatusBadMorphOp)
	}
	return pyFlatMorph(res, vol, strel, volX, volY, volZ, strelX, strelY, strelZ, typ, op, blockX, blockY, blockZ)
}

//export pyFlatLinearDilateErode
func pyFlatLinearDilateErode(res, vol unsafe.Pointer, lineSteps, lineLens *C.int32_t,
	volX, volY, volZ, numLines, typ, op, blockX, blockY, blockZ C.int) C.int {
	return guard(func() error {
		return gorpho.RawFlatLinearDilateErode(res, vol,
			extent(volX, volY, volZ),
			unsafe.Pointer(lineSteps), unsafe.Pointer(lineLens), int(numLines),
			morph.TypeTag(typ), morph.Op(op), blockSize(blockX, blockY, blockZ))
	})
}

func main() {}
