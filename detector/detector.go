// Package detector probes the available compute adapters. It backs the
// device gate of the morphology boundary: Count never fails (a probe error
// reads as zero devices) and Name resolves an adapter index to its name.
// Detect builds a fuller capability report used to size GPU tiles.
package detector

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openmorph/gorpho/morph"
)

/* ---------- device gate ---------- */

// Count returns the number of usable compute adapters. A failed probe is
// zero devices, never an error: gating must not throw.
func Count() (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return 0
	}
	defer inst.Release()
	return len(inst.EnumerateAdapters(nil))
}

// Name returns the adapter name for a valid index, or ErrBadDevice for an
// out-of-range or unqueryable one.
func Name(index int) (name string, err error) {
	defer func() {
		if recover() != nil {
			name, err = "", fmt.Errorf("%w: %d (probe panicked)", morph.ErrBadDevice, index)
		}
	}()
	if index < 0 {
		return "", fmt.Errorf("%w: %d", morph.ErrBadDevice, index)
	}
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return "", fmt.Errorf("%w: %d (no instance)", morph.ErrBadDevice, index)
	}
	defer inst.Release()
	adapters := inst.EnumerateAdapters(nil)
	if index >= len(adapters) {
		return "", fmt.Errorf("%w: %d of %d", morph.ErrBadDevice, index, len(adapters))
	}
	return strings.TrimSpace(adapters[index].GetInfo().Name), nil
}

/* ---------- capability report ---------- */

// Report is a portable summary of the default adapter's capabilities.
type Report struct {
	WhenISO     string          `json:"when_iso"`
	Backend     string          `json:"backend"`
	AdapterType string          `json:"adapter_type"`
	VendorID    string          `json:"vendor_id_hex"`
	DeviceID    string          `json:"device_id_hex"`
	Name        string          `json:"name"`
	Driver      string          `json:"driver"`
	Recommended Recommendations `json:"recommended"`
	Limits      Limits          `json:"limits"`
}

type Limits struct {
	MaxComputeInvocationsPerWorkgroup uint32 `json:"max_compute_invocations_per_workgroup"`
	MaxComputeWorkgroupSizeX          uint32 `json:"max_compute_workgroup_size_x"`
	MaxComputeWorkgroupSizeY          uint32 `json:"max_compute_workgroup_size_y"`
	MaxComputeWorkgroupSizeZ          uint32 `json:"max_compute_workgroup_size_z"`
	MaxComputeWorkgroupsPerDimension  uint32 `json:"max_compute_workgroups_per_dimension"`
	MaxStorageBufferBindingSize       uint64 `json:"max_storage_buffer_binding_size"`
	MaxBufferSize                     uint64 `json:"max_buffer_size"`
}

// Recommendations are the tile and workgroup sizes the GPU engine uses when
// the caller passes no block hint.
type Recommendations struct {
	WorkgroupX uint32 `json:"workgroup_x"`
	WorkgroupY uint32 `json:"workgroup_y"`
	WorkgroupZ uint32 `json:"workgroup_z"`

	// Default processing block for out-of-core volumes, in voxels.
	BlockX int `json:"block_x"`
	BlockY int `json:"block_y"`
	BlockZ int `json:"block_z"`
}

// DetectJSON runs a probe and returns the report as JSON.
func DetectJSON() (string, error) {
	rep, err := Detect()
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Detect probes the default adapter and synthesizes a report.
func Detect() (*Report, error) {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, fmt.Errorf("wgpu.CreateInstance returned nil")
	}
	defer inst.Release()

	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	if adapter == nil {
		return nil, fmt.Errorf("no adapter")
	}
	defer adapter.Release()

	info := adapter.GetInfo()
	limits := adapter.GetLimits()

	wgX, wgY, wgZ := chooseWorkgroup(limits)
	bx, by, bz := chooseBlock(limits)

	return &Report{
		WhenISO:     time.Now().UTC().Format(time.RFC3339),
		Backend:     info.BackendType.String(),
		AdapterType: info.AdapterType.String(),
		VendorID:    fmt.Sprintf("0x%04x", info.VendorId),
		DeviceID:    fmt.Sprintf("0x%04x", info.DeviceId),
		Name:        strings.TrimSpace(info.Name),
		Driver:      strings.TrimSpace(info.DriverDescription),
		Limits: Limits{
			MaxComputeInvocationsPerWorkgroup: limits.Limits.MaxComputeInvocationsPerWorkgroup,
			MaxComputeWorkgroupSizeX:          limits.Limits.MaxComputeWorkgroupSizeX,
			MaxComputeWorkgroupSizeY:          limits.Limits.MaxComputeWorkgroupSizeY,
			MaxComputeWorkgroupSizeZ:          limits.Limits.MaxComputeWorkgroupSizeZ,
			MaxComputeWorkgroupsPerDimension:  limits.Limits.MaxComputeWorkgroupsPerDimension,
			MaxStorageBufferBindingSize:       limits.Limits.MaxStorageBufferBindingSize,
			MaxBufferSize:                     limits.Limits.MaxBufferSize,
		},
		Recommended: Recommendations{
			WorkgroupX: wgX, WorkgroupY: wgY, WorkgroupZ: wgZ,
			BlockX: bx, BlockY: by, BlockZ: bz,
		},
	}, nil
}

func chooseWorkgroup(l wgpu.SupportedLimits) (uint32, uint32, uint32) {
	// 3D-friendly shapes first; fall back until the product fits.
	maxTot := l.Limits.MaxComputeInvocationsPerWorkgroup
	candidates := [][3]uint32{{8, 8, 4}, {8, 8, 2}, {4, 4, 4}, {4, 4, 2}, {2, 2, 2}, {1, 1, 1}}
	for _, c := range candidates {
		if c[0] <= l.Limits.MaxComputeWorkgroupSizeX &&
			c[1] <= l.Limits.MaxComputeWorkgroupSizeY &&
			c[2] <= l.Limits.MaxComputeWorkgroupSizeZ &&
			c[0]*c[1]*c[2] <= maxTot {
			return c[0], c[1], c[2]
		}
	}
	return 1, 1, 1
}

func chooseBlock(l wgpu.SupportedLimits) (int, int, int) {
	// 256^3 matches the historical default; shrink the z extent until a
	// 64-bit-per-voxel staging tile fits the storage binding limit.
	bx, by, bz := 256, 256, 256
	for bz > 1 && uint64(bx*by*bz)*8 > l.Limits.MaxStorageBufferBindingSize {
		bz /= 2
	}
	return bx, by, bz
}
