package rend3

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// shaderPointLight mirrors the WGSL PointLight struct. Size 32 bytes,
// std430 aligned.
//
// Layout:
//
//	vec3<f32> position  (12 bytes, offset  0)
//	f32       radius    ( 4 bytes, offset 12)
//	vec3<f32> color     (12 bytes, offset 16), premultiplied by intensity
const (
	shaderPointLightHeaderSize = 16
	shaderPointLightStride     = 32
)

// PointLightManager owns point light storage and its GPU buffer. Like the
// directional manager it is single-threaded by contract.
type PointLightManager struct {
	data   arena[PointLight]
	buffer *wrappedPotBuffer
}

func NewPointLightManager(device *wgpu.Device) *PointLightManager {
	return &PointLightManager{
		buffer: newWrappedPotBuffer(device, wgpu.BufferUsageStorage, "point light buffer"),
	}
}

func (m *PointLightManager) Add(handle RawPointLightHandle, light PointLight) {
	l := light
	m.data.set(handle.Idx, &l)
}

func (m *PointLightManager) Update(handle RawPointLightHandle, change PointLightChange) {
	m.data.get(handle.Idx).UpdateFromChanges(change)
}

func (m *PointLightManager) Remove(handle RawPointLightHandle) {
	m.data.remove(handle.Idx)
}

func (m *PointLightManager) Get(handle RawPointLightHandle) PointLight {
	return *m.data.get(handle.Idx)
}

// Evaluate rewrites the GPU point light buffer from current light state.
func (m *PointLightManager) Evaluate(ctx *GpuContext) {
	m.buffer.write(ctx.Device, ctx.Queue, m.marshalShaderBuffer())
}

func (m *PointLightManager) marshalShaderBuffer() []byte {
	count := 0
	for _, l := range m.data.data {
		if l != nil {
			count++
		}
	}

	buf := make([]byte, shaderPointLightHeaderSize+count*shaderPointLightStride)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(count))

	putF32 := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}

	offset := shaderPointLightHeaderSize
	for _, l := range m.data.data {
		if l == nil {
			continue
		}
		color := l.Color.Mul(l.Intensity)
		for i := 0; i < 3; i++ {
			putF32(offset+i*4, l.Position[i])
			putF32(offset+16+i*4, color[i])
		}
		putF32(offset+12, l.Radius)
		offset += shaderPointLightStride
	}
	return buf
}

// AddPointLightsToBindGroupLayout appends the point light buffer's layout
// entry.
func AddPointLightsToBindGroupLayout(bglb *BindGroupLayoutBuilder) {
	bglb.AppendBuffer(
		wgpu.ShaderStageFragment,
		wgpu.BufferBindingTypeReadOnlyStorage,
		shaderPointLightHeaderSize,
	)
}

// AddToBindGroup appends the live point light buffer to a bind group being
// built.
func (m *PointLightManager) AddToBindGroup(bgb *BindGroupBuilder) {
	bgb.AppendBuffer(m.buffer.Buffer())
}

func (m *PointLightManager) release() {
	if m.buffer != nil {
		m.buffer.release()
	}
}
