package gorpho

import (
	"github.com/openmorph/gorpho/detector"
	"github.com/openmorph/gorpho/morph"
)

// DeviceProbe answers the two device questions the boundary asks. The
// production probe enumerates WebGPU adapters; tests substitute stubs.
type DeviceProbe interface {
	// DeviceCount returns the number of usable devices. It never fails: a
	// failed probe reads as zero.
	DeviceCount() int
	// DeviceName resolves a device index to its name, or ErrBadDevice.
	DeviceName(index int) (string, error)
}

type wgpuProbe struct{}

func (wgpuProbe) DeviceCount() int                      { return detector.Count() }
func (wgpuProbe) DeviceName(index int) (string, error)  { return detector.Name(index) }

var probe DeviceProbe = wgpuProbe{}

// DeviceCount returns the number of usable compute devices.
func DeviceCount() int {
	return probe.DeviceCount()
}

// DeviceName returns the name of the device at index.
func DeviceName(index int) (string, error) {
	return probe.DeviceName(index)
}

// gate is the device precondition for every device-executed operation: with
// zero devices the call stops here. It is a check, not a wait.
func gate() error {
	if active == BackendCPU {
		return nil
	}
	if probe.DeviceCount() < 1 {
		return morph.ErrNoDevice
	}
	return nil
}
