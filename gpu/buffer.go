package gpu

import (
	"fmt"
	"time"

	"github.com/openfluke/webgpu/wgpu"
)

// newStorageBuffer creates a storage buffer initialized with data.
func newStorageBuffer(c *Context, label string, data []byte) (*wgpu.Buffer, error) {
	buf, err := c.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: data,
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %v", label, err)
	}
	return buf, nil
}

// newOutputBuffer creates a zeroed storage buffer the kernel writes into.
func newOutputBuffer(c *Context, label string, size uint64) (*wgpu.Buffer, error) {
	buf, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %v", label, err)
	}
	return buf, nil
}

// newUniformBuffer creates a uniform buffer holding the pass parameters.
func newUniformBuffer(c *Context, label string, params []int32) (*wgpu.Buffer, error) {
	buf, err := c.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: wgpu.ToBytes(params),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %v", label, err)
	}
	return buf, nil
}

// readBuffer copies a storage buffer through a staging buffer and maps it.
func readBuffer(c *Context, src *wgpu.Buffer, sizeBytes uint64) ([]byte, error) {
	staging, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ReadStaging",
		Size:  sizeBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %v", err)
	}
	defer staging.Destroy()

	enc, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %v", err)
	}
	enc.CopyBufferToBuffer(src, 0, staging, 0, sizeBytes)
	cmd, err := enc.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish command: %v", err)
	}
	c.Queue.Submit(cmd)

	done := make(chan struct{})
	var mapErr error
	err = staging.MapAsync(wgpu.MapModeRead, 0, sizeBytes, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("MapAsync failed: %v", err)
	}

	timeout := time.After(10 * time.Second)
Loop:
	for {
		c.Device.Poll(false, nil)
		select {
		case <-done:
			break Loop
		case <-timeout:
			return nil, fmt.Errorf("readBuffer timed out")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if mapErr != nil {
		return nil, mapErr
	}

	data := staging.GetMappedRange(0, uint(sizeBytes))
	if data == nil {
		return nil, fmt.Errorf("failed to get mapped range")
	}
	out := make([]byte, sizeBytes)
	copy(out, data)
	staging.Unmap()
	return out, nil
}
