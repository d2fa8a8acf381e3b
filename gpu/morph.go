package gpu

import (
	"fmt"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openmorph/gorpho/cpu"
	"github.com/openmorph/gorpho/morph"
	"github.com/openmorph/gorpho/strel"
)

// GenDilateErode runs grayscale dilation or erosion on the device. dst must
// not alias vol.
func GenDilateErode[T morph.Scalar](dst, vol, se morph.VolumeView[T], op morph.Op, block morph.BlockSize) error {
	switch op {
	case morph.Dilate, morph.Erode:
	default:
		return fmt.Errorf("%w: %s on generic path", morph.ErrBadMorphOp, op)
	}
	l := laneOf[T]()
	if l == laneNone {
		return cpu.GenDilateErode(dst, vol, se, op, block)
	}
	c, err := GetContext()
	if err != nil {
		return err
	}
	rec := c.Report.Recommended
	ax, ay, az := se.Extent.Anchor()
	return runPass(c, dst, vol, passSpec{
		shader:  genShader(l, rec.WorkgroupX, rec.WorkgroupY, rec.WorkgroupZ),
		aux:     widen(se.Data),
		reachLo: [3]int{ax - (se.Extent.X - 1), ay - (se.Extent.Y - 1), az - (se.Extent.Z - 1)},
		reachHi: [3]int{ax, ay, az},
		a:       [3]int32{int32(se.Extent.X), int32(se.Extent.Y), int32(se.Extent.Z)},
		b:       [3]int32{int32(ax), int32(ay), int32(az)},
		op:      int32(op),
	}, block)
}

// FlatMorph runs any of the six flat operations on the device. Compositions
// are two sequential device passes; tophat and bothat finish with a host
// pointwise difference.
func FlatMorph[T morph.Scalar](dst, vol morph.VolumeView[T], se morph.VolumeView[bool], op morph.Op, block morph.BlockSize) error {
	if laneOf[T]() == laneNone {
		return cpu.FlatMorph(dst, vol, se, op, block)
	}
	scratch := func() morph.VolumeView[T] {
		return morph.VolumeView[T]{Data: make([]T, vol.Extent.Numel()), Extent: vol.Extent}
	}
	switch op {
	case morph.Dilate, morph.Erode:
		return flatPass(dst, vol, se, op, block)
	case morph.Open:
		t := scratch()
		if err := flatPass(t, vol, se, morph.Erode, block); err != nil {
			return err
		}
		return flatPass(dst, t, se, morph.Dilate, block)
	case morph.Close:
		t := scratch()
		if err := flatPass(t, vol, se, morph.Dilate, block); err != nil {
			return err
		}
		return flatPass(dst, t, se, morph.Erode, block)
	case morph.Tophat:
		t1, t2 := scratch(), scratch()
		if err := flatPass(t1, vol, se, morph.Erode, block); err != nil {
			return err
		}
		if err := flatPass(t2, t1, se, morph.Dilate, block); err != nil {
			return err
		}
		for i := range dst.Data {
			dst.Data[i] = vol.Data[i] - t2.Data[i]
		}
		return nil
	case morph.Bothat:
		t1, t2 := scratch(), scratch()
		if err := flatPass(t1, vol, se, morph.Dilate, block); err != nil {
			return err
		}
		if err := flatPass(t2, t1, se, morph.Erode, block); err != nil {
			return err
		}
		for i := range dst.Data {
			dst.Data[i] = t2.Data[i] - vol.Data[i]
		}
		return nil
	}
	return fmt.Errorf("%w: %s on flat path", morph.ErrBadMorphOp, op)
}

// FlatLinearDilateErode applies flat line segments as sequential device
// passes, each over the result of the previous one.
func FlatLinearDilateErode[T morph.Scalar](dst, vol morph.VolumeView[T], lines []strel.LineSegment, op morph.Op, block morph.BlockSize) error {
	switch op {
	case morph.Dilate, morph.Erode:
	default:
		return fmt.Errorf("%w: %s on flat-linear path", morph.ErrBadMorphOp, op)
	}
	if laneOf[T]() == laneNone {
		return cpu.FlatLinearDilateErode(dst, vol, lines, op, block)
	}
	c, err := GetContext()
	if err != nil {
		return err
	}
	rec := c.Report.Recommended

	copy(dst.Data, vol.Data)
	scratch := morph.VolumeView[T]{Data: make([]T, vol.Extent.Numel()), Extent: vol.Extent}
	for _, ln := range lines {
		if ln.Length <= 1 {
			continue
		}
		lo, hi := ln.Reach()
		anchor := int32(ln.Length-1) / 2
		err := runPass(c, scratch, dst, passSpec{
			shader:  lineShader(laneOf[T](), rec.WorkgroupX, rec.WorkgroupY, rec.WorkgroupZ),
			reachLo: lo,
			reachHi: hi,
			a:       ln.Step,
			b:       [3]int32{ln.Length, anchor, 0},
			op:      int32(op),
		}, block)
		if err != nil {
			return err
		}
		copy(dst.Data, scratch.Data)
	}
	return nil
}

func flatPass[T morph.Scalar](dst, vol morph.VolumeView[T], se morph.VolumeView[bool], op morph.Op, block morph.BlockSize) error {
	c, err := GetContext()
	if err != nil {
		return err
	}
	rec := c.Report.Recommended
	mask := make([]uint32, len(se.Data))
	for i, b := range se.Data {
		if b {
			mask[i] = 1
		}
	}
	ax, ay, az := se.Extent.Anchor()
	return runPass(c, dst, vol, passSpec{
		shader:  flatShader(laneOf[T](), rec.WorkgroupX, rec.WorkgroupY, rec.WorkgroupZ),
		aux:     wgpu.ToBytes(mask),
		reachLo: [3]int{ax - (se.Extent.X - 1), ay - (se.Extent.Y - 1), az - (se.Extent.Z - 1)},
		reachHi: [3]int{ax, ay, az},
		a:       [3]int32{int32(se.Extent.X), int32(se.Extent.Y), int32(se.Extent.Z)},
		b:       [3]int32{int32(ax), int32(ay), int32(az)},
		op:      int32(op),
	}, block)
}

// passSpec describes one neighborhood pass: the compiled shader source, an
// optional structuring element buffer, how far the pass reads beyond a tile
// (for halo sizing), and the shader parameter triples.
type passSpec struct {
	shader  string
	aux     []byte
	reachLo [3]int
	reachHi [3]int
	a, b    [3]int32
	op      int32
}

// runPass executes one pass over the whole volume in BlockSize tiles. Each
// tile uploads its clamped halo, computes the tile core on the device, and
// reads the core back into dst.
func runPass[T morph.Scalar](c *Context, dst, vol morph.VolumeView[T], spec passSpec, block morph.BlockSize) error {
	rec := c.Report.Recommended
	block = block.Or(morph.BlockSize{X: rec.BlockX, Y: rec.BlockY, Z: rec.BlockZ})

	module, err := c.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MorphPass_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: spec.shader},
	})
	if err != nil {
		return fmt.Errorf("shader compile: %v", err)
	}

	entries := []wgpu.BindGroupLayoutEntry{
		{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
		{Binding: 1, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
	}
	if spec.aux != nil {
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{Binding: 2, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			wgpu.BindGroupLayoutEntry{Binding: 3, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		)
	} else {
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{Binding: 2, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		)
	}
	bgl, err := c.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "MorphPass_BGL",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bgl: %v", err)
	}
	pipelineLayout, err := c.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "MorphPass_Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %v", err)
	}
	pipeline, err := c.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "MorphPass_Pipe",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %v", err)
	}
	defer pipeline.Release()

	var auxBuf *wgpu.Buffer
	if spec.aux != nil {
		auxBuf, err = newStorageBuffer(c, "strel", spec.aux)
		if err != nil {
			return err
		}
		defer auxBuf.Destroy()
	}

	ext := vol.Extent
	for z0 := 0; z0 < ext.Z; z0 += block.Z {
		for y0 := 0; y0 < ext.Y; y0 += block.Y {
			for x0 := 0; x0 < ext.X; x0 += block.X {
				t0 := [3]int{x0, y0, z0}
				t1 := [3]int{min(x0+block.X, ext.X), min(y0+block.Y, ext.Y), min(z0+block.Z, ext.Z)}
				if err := runTile(c, pipeline, bgl, auxBuf, dst, vol, spec, t0, t1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func runTile[T morph.Scalar](c *Context, pipeline *wgpu.ComputePipeline, bgl *wgpu.BindGroupLayout, auxBuf *wgpu.Buffer,
	dst, vol morph.VolumeView[T], spec passSpec, t0, t1 [3]int) error {

	ext := [3]int{vol.Extent.X, vol.Extent.Y, vol.Extent.Z}
	var p0, p1, core [3]int
	for i := 0; i < 3; i++ {
		p0[i] = max(0, t0[i]+spec.reachLo[i])
		p1[i] = min(ext[i], t1[i]+spec.reachHi[i])
		core[i] = t1[i] - t0[i]
	}
	pad := [3]int{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}

	tile := gather(vol, p0, p1)
	volBuf, err := newStorageBuffer(c, "vol", widen(tile))
	if err != nil {
		return err
	}
	defer volBuf.Destroy()

	coreN := core[0] * core[1] * core[2]
	outBuf, err := newOutputBuffer(c, "res", uint64(coreN*4))
	if err != nil {
		return err
	}
	defer outBuf.Destroy()

	params := []int32{
		int32(pad[0]), int32(pad[1]), int32(pad[2]),
		int32(core[0]), int32(core[1]), int32(core[2]),
		int32(t0[0] - p0[0]), int32(t0[1] - p0[1]), int32(t0[2] - p0[2]),
		spec.a[0], spec.a[1], spec.a[2],
		spec.b[0], spec.b[1], spec.b[2],
		spec.op,
	}
	paramBuf, err := newUniformBuffer(c, "params", params)
	if err != nil {
		return err
	}
	defer paramBuf.Destroy()

	bgEntries := []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: volBuf, Size: volBuf.GetSize()},
		{Binding: 1, Buffer: outBuf, Size: outBuf.GetSize()},
	}
	if auxBuf != nil {
		bgEntries = append(bgEntries,
			wgpu.BindGroupEntry{Binding: 2, Buffer: auxBuf, Size: auxBuf.GetSize()},
			wgpu.BindGroupEntry{Binding: 3, Buffer: paramBuf, Size: paramBuf.GetSize()},
		)
	} else {
		bgEntries = append(bgEntries,
			wgpu.BindGroupEntry{Binding: 2, Buffer: paramBuf, Size: paramBuf.GetSize()},
		)
	}
	bindGroup, err := c.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "MorphPass_BG",
		Layout:  bgl,
		Entries: bgEntries,
	})
	if err != nil {
		return fmt.Errorf("create bind group: %v", err)
	}
	defer bindGroup.Release()

	enc, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %v", err)
	}
	pass := enc.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	rec := c.Report.Recommended
	pass.DispatchWorkgroups(
		groups(core[0], rec.WorkgroupX),
		groups(core[1], rec.WorkgroupY),
		groups(core[2], rec.WorkgroupZ),
	)
	pass.End()
	cmd, err := enc.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command: %v", err)
	}
	c.Queue.Submit(cmd)

	raw, err := readBuffer(c, outBuf, uint64(coreN*4))
	if err != nil {
		return err
	}
	out := make([]T, coreN)
	narrow(raw, out)
	scatter(dst, t0, t1, out)

	if Debug {
		Log("tile %v..%v pad %v done", t0, t1, pad)
	}
	return nil
}

func gather[T any](vol morph.VolumeView[T], p0, p1 [3]int) []T {
	ex := p1[0] - p0[0]
	out := make([]T, ex*(p1[1]-p0[1])*(p1[2]-p0[2]))
	idx := 0
	for z := p0[2]; z < p1[2]; z++ {
		for y := p0[1]; y < p1[1]; y++ {
			row := vol.Index(p0[0], y, z)
			copy(out[idx:idx+ex], vol.Data[row:row+ex])
			idx += ex
		}
	}
	return out
}

func scatter[T any](dst morph.VolumeView[T], t0, t1 [3]int, core []T) {
	ex := t1[0] - t0[0]
	idx := 0
	for z := t0[2]; z < t1[2]; z++ {
		for y := t0[1]; y < t1[1]; y++ {
			row := dst.Index(t0[0], y, z)
			copy(dst.Data[row:row+ex], core[idx:idx+ex])
			idx += ex
		}
	}
}

func groups(n int, wg uint32) uint32 {
	if wg == 0 {
		wg = 1
	}
	return (uint32(n) + wg - 1) / wg
}
