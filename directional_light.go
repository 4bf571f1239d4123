package rend3

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// minimumShadowAtlasSize is the floor for the atlas side length, texels.
// The atlas texture always exists, even with zero shadow-mapped lights.
const minimumShadowAtlasSize uint32 = 32

// InternalDirectionalLight is the per-slot state held by the manager.
type InternalDirectionalLight struct {
	Inner DirectionalLight
}

// ShadowDesc pairs an atlas placement with the camera shadow rendering uses
// for it. Rebuilt from scratch every Evaluate; never persisted.
type ShadowDesc struct {
	Map    ShadowMap
	Camera CameraState
}

// shaderDirectionalLight mirrors the WGSL DirectionalLight struct. Size 128
// bytes, std430 aligned.
//
// Layout:
//
//	mat4x4<f32> view_proj       (64 bytes, offset   0)
//	vec3<f32>   color           (12 bytes, offset  64)
//	vec3<f32>   direction       (12 bytes, offset  80)
//	vec2<f32>   inv_resolution  ( 8 bytes, offset  96)
//	vec2<f32>   atlas_offset    ( 8 bytes, offset 104)
//	vec2<f32>   atlas_size      ( 8 bytes, offset 112)
type shaderDirectionalLight struct {
	ViewProj mgl32.Mat4
	// Color premultiplied by intensity.
	Color     mgl32.Vec3
	Direction mgl32.Vec3
	// 1 / atlas side length.
	InvResolution mgl32.Vec2
	// Placement inside the atlas, normalized to [0, 1].
	AtlasOffset mgl32.Vec2
	AtlasSize   mgl32.Vec2
}

const (
	// shaderDirectionalLightHeaderSize covers the leading count word padded
	// to the array element alignment. It is also the minimum binding size
	// advertised to bind group layouts.
	shaderDirectionalLightHeaderSize = 16
	shaderDirectionalLightStride     = 128
)

func (s *shaderDirectionalLight) marshal(buf []byte) {
	putF32 := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	for i := 0; i < 16; i++ {
		putF32(i*4, s.ViewProj[i])
	}
	for i := 0; i < 3; i++ {
		putF32(64+i*4, s.Color[i])
		putF32(80+i*4, s.Direction[i])
	}
	for i := 0; i < 2; i++ {
		putF32(96+i*4, s.InvResolution[i])
		putF32(104+i*4, s.AtlasOffset[i])
		putF32(112+i*4, s.AtlasSize[i])
	}
}

// DirectionalLightManager owns directional light storage, the shadow atlas
// texture, and the GPU-visible light buffer. It must only be touched from
// the frame-processing thread; cross-thread mutation goes through the
// instruction queue.
type DirectionalLightManager struct {
	data   arena[InternalDirectionalLight]
	buffer *wrappedPotBuffer

	textureSize uint32
	texture     *wgpu.Texture
	textureView *wgpu.TextureView
}

func NewDirectionalLightManager(device *wgpu.Device) *DirectionalLightManager {
	m := &DirectionalLightManager{
		buffer:      newWrappedPotBuffer(device, wgpu.BufferUsageStorage, "shadow data buffer"),
		textureSize: minimumShadowAtlasSize,
	}
	m.texture, m.textureView = createShadowTexture(device, m.textureSize, "rend3 shadow texture")
	return m
}

// Add inserts or overwrites the light at handle, growing storage when the
// handle is past the current slot count. Pure bookkeeping; no atlas work.
func (m *DirectionalLightManager) Add(handle RawDirectionalLightHandle, light DirectionalLight) {
	m.data.set(handle.Idx, &InternalDirectionalLight{Inner: light})
}

// Update applies a sparse delta to the light at handle. Panics if the slot
// is empty; only valid handles reach the manager by construction of the
// instruction-application stage.
func (m *DirectionalLightManager) Update(handle RawDirectionalLightHandle, change DirectionalLightChange) {
	m.data.get(handle.Idx).Inner.UpdateFromChanges(change)
}

// Remove clears the slot at handle. Panics if already empty.
func (m *DirectionalLightManager) Remove(handle RawDirectionalLightHandle) {
	m.data.remove(handle.Idx)
}

// Get returns the light stored at handle. Panics if the slot is empty.
func (m *DirectionalLightManager) Get(handle RawDirectionalLightHandle) DirectionalLight {
	return m.data.get(handle.Idx).Inner
}

// Evaluate repacks the shadow atlas from current light state, recreates the
// atlas texture when its required size changed, rewrites the GPU light
// buffer, and returns the atlas side length plus one ShadowDesc per light
// that received atlas space. Light storage itself is never mutated.
func (m *DirectionalLightManager) Evaluate(ctx *GpuContext, userCamera *CameraState) (uint32, []ShadowDesc) {
	size, descs, payload := m.plan(ctx.MaxTextureDimension2D, userCamera)

	if size != m.textureSize {
		m.texture.Release()
		m.textureView.Release()
		m.textureSize = size
		m.texture, m.textureView = createShadowTexture(ctx.Device, size, "rend3 shadow texture")
	}

	m.buffer.write(ctx.Device, ctx.Queue, payload)
	return size, descs
}

// plan is the GPU-free part of Evaluate: atlas packing, shadow camera
// fitting, and shader buffer marshaling from current light state.
func (m *DirectionalLightManager) plan(maxTextureDimension uint32, userCamera *CameraState) (uint32, []ShadowDesc, []byte) {
	var requests []shadowRequest
	for idx := 0; idx < m.data.len(); idx++ {
		if light := m.data.data[idx]; light != nil {
			requests = append(requests, shadowRequest{
				handle:     RawDirectionalLightHandle{Idx: idx},
				resolution: light.Inner.Resolution,
			})
		}
	}

	atlas := allocateShadowAtlas(requests, maxTextureDimension)

	size := minimumShadowAtlasSize
	if atlas != nil && atlas.TextureDimension > size {
		size = atlas.TextureDimension
	}

	if atlas == nil {
		// Nothing fit: no light receives a shadow this frame.
		return size, nil, m.marshalShaderBuffer(nil, size)
	}

	descs := make([]ShadowDesc, 0, len(atlas.Maps))
	for _, placement := range atlas.Maps {
		light := m.data.get(placement.Handle.Idx)
		descs = append(descs, ShadowDesc{
			Map:    placement,
			Camera: shadowCamera(light, userCamera),
		})
	}

	return size, descs, m.marshalShaderBuffer(descs, size)
}

// marshalShaderBuffer packs the shader buffer: a 16-byte header holding the
// light count, then one 128-byte record per descriptor in placement order.
func (m *DirectionalLightManager) marshalShaderBuffer(descs []ShadowDesc, atlasSize uint32) []byte {
	buf := make([]byte, shaderDirectionalLightHeaderSize+len(descs)*shaderDirectionalLightStride)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(descs)))

	sizeF := float32(atlasSize)
	for i, desc := range descs {
		light := m.data.get(desc.Map.Handle.Idx).Inner
		record := shaderDirectionalLight{
			ViewProj:      desc.Camera.ViewProj(),
			Color:         light.Color.Mul(light.Intensity),
			Direction:     light.Direction,
			InvResolution: mgl32.Vec2{1 / sizeF, 1 / sizeF},
			AtlasOffset: mgl32.Vec2{
				float32(desc.Map.OffsetX) / sizeF,
				float32(desc.Map.OffsetY) / sizeF,
			},
			AtlasSize: mgl32.Vec2{
				float32(desc.Map.Size) / sizeF,
				float32(desc.Map.Size) / sizeF,
			},
		}
		offset := shaderDirectionalLightHeaderSize + i*shaderDirectionalLightStride
		record.marshal(buf[offset : offset+shaderDirectionalLightStride])
	}
	return buf
}

// ShadowAtlasView exposes the depth texture view shadow rendering draws
// into and shading samples from.
func (m *DirectionalLightManager) ShadowAtlasView() *wgpu.TextureView {
	return m.textureView
}

// AddDirectionalLightsToBindGroupLayout appends the light buffer's layout
// entry: a read-only storage buffer whose minimum size is the header alone.
func AddDirectionalLightsToBindGroupLayout(bglb *BindGroupLayoutBuilder) {
	bglb.AppendBuffer(
		wgpu.ShaderStageVertex|wgpu.ShaderStageFragment,
		wgpu.BufferBindingTypeReadOnlyStorage,
		shaderDirectionalLightHeaderSize,
	)
}

// AddToBindGroup appends the live light buffer to a bind group being built.
func (m *DirectionalLightManager) AddToBindGroup(bgb *BindGroupBuilder) {
	bgb.AppendBuffer(m.buffer.Buffer())
}

func (m *DirectionalLightManager) release() {
	if m.texture != nil {
		m.texture.Release()
		m.textureView.Release()
	}
	if m.buffer != nil {
		m.buffer.release()
	}
}
