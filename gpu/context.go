// Package gpu is the device compute engine: WebGPU pipelines for flat,
// grayscale and line-segment morphology with block tiling for volumes that
// do not fit device memory at once. Element kinds without 32-bit device
// lanes (int64, uint64, float64) run on the reference engine instead.
package gpu

import (
	"fmt"
	"sync"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openmorph/gorpho/detector"
)

// Context holds the single WebGPU context for the process.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue

	Report *detector.Report

	once sync.Once
}

var ctx Context

// GetContext returns the singleton GPU context, initializing it on first use.
func GetContext() (*Context, error) {
	var initErr error
	ctx.once.Do(func() {
		rep, err := detector.Detect()
		if err != nil {
			initErr = fmt.Errorf("detector: %w", err)
			return
		}
		ctx.Report = rep

		ctx.Instance = wgpu.CreateInstance(nil)
		if ctx.Instance == nil {
			initErr = fmt.Errorf("failed to create WebGPU instance")
			return
		}

		pp := wgpu.PowerPreferenceHighPerformance
		if rep.AdapterType == "integrated-gpu" {
			pp = wgpu.PowerPreferenceLowPower
		}

		ctx.Adapter, err = ctx.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			PowerPreference: pp,
		})
		if err != nil || ctx.Adapter == nil {
			// Retry with defaults before giving up.
			ctx.Adapter, err = ctx.Instance.RequestAdapter(nil)
		}
		if err != nil || ctx.Adapter == nil {
			initErr = fmt.Errorf("all adapter attempts failed: %v", err)
			return
		}

		if Debug {
			info := ctx.Adapter.GetInfo()
			Log("using adapter %s (%s)", info.Name, info.BackendType.String())
		}

		ctx.Device, err = ctx.Adapter.RequestDevice(nil)
		if err != nil {
			initErr = err
			return
		}
		ctx.Queue = ctx.Device.GetQueue()
	})

	if initErr != nil {
		return nil, initErr
	}
	if ctx.Device == nil || ctx.Queue == nil {
		return nil, fmt.Errorf("WebGPU device or queue not initialized")
	}
	return &ctx, nil
}
