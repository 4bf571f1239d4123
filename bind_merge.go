package rend3

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupLayoutBuilder accumulates layout entries from several managers so
// they can share one bind group layout. Binding indices are assigned in
// append order.
type BindGroupLayoutBuilder struct {
	entries []wgpu.BindGroupLayoutEntry
}

func NewBindGroupLayoutBuilder() *BindGroupLayoutBuilder {
	return &BindGroupLayoutBuilder{}
}

// AppendBuffer adds a buffer binding at the next free index.
func (b *BindGroupLayoutBuilder) AppendBuffer(visibility wgpu.ShaderStage, ty wgpu.BufferBindingType, minBindingSize uint64) *BindGroupLayoutBuilder {
	b.entries = append(b.entries, wgpu.BindGroupLayoutEntry{
		Binding:    uint32(len(b.entries)),
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:             ty,
			HasDynamicOffset: false,
			MinBindingSize:   minBindingSize,
		},
	})
	return b
}

// AppendTexture adds a texture binding at the next free index.
func (b *BindGroupLayoutBuilder) AppendTexture(visibility wgpu.ShaderStage, sampleType wgpu.TextureSampleType) *BindGroupLayoutBuilder {
	b.entries = append(b.entries, wgpu.BindGroupLayoutEntry{
		Binding:    uint32(len(b.entries)),
		Visibility: visibility,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    sampleType,
			ViewDimension: wgpu.TextureViewDimension2D,
			Multisampled:  false,
		},
	})
	return b
}

func (b *BindGroupLayoutBuilder) Build(device *wgpu.Device, label string) *wgpu.BindGroupLayout {
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: b.entries,
	})
	if err != nil {
		panic(err)
	}
	return layout
}

// BindGroupBuilder accumulates concrete resources matching a layout built
// with BindGroupLayoutBuilder, in the same append order.
type BindGroupBuilder struct {
	entries []wgpu.BindGroupEntry
}

func NewBindGroupBuilder() *BindGroupBuilder {
	return &BindGroupBuilder{}
}

func (b *BindGroupBuilder) AppendBuffer(buffer *wgpu.Buffer) *BindGroupBuilder {
	b.entries = append(b.entries, wgpu.BindGroupEntry{
		Binding: uint32(len(b.entries)),
		Buffer:  buffer,
		Size:    wgpu.WholeSize,
	})
	return b
}

func (b *BindGroupBuilder) AppendTextureView(view *wgpu.TextureView) *BindGroupBuilder {
	b.entries = append(b.entries, wgpu.BindGroupEntry{
		Binding:     uint32(len(b.entries)),
		TextureView: view,
		Size:        wgpu.WholeSize,
	})
	return b
}

func (b *BindGroupBuilder) Build(device *wgpu.Device, label string, layout *wgpu.BindGroupLayout) *wgpu.BindGroup {
	group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: b.entries,
	})
	if err != nil {
		panic(err)
	}
	return group
}
