package rend3

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// InternalMesh is the GPU-resident form of a mesh. Mesh data formats are
// out of scope for this core; the manager only tracks the buffers so delete
// instructions can release them.
type InternalMesh struct {
	VertexBuffer *wgpu.Buffer
	IndexBuffer  *wgpu.Buffer
	IndexCount   uint32
}

type MeshManager struct {
	data arena[InternalMesh]
}

func NewMeshManager() *MeshManager {
	return &MeshManager{}
}

func (m *MeshManager) Add(handle RawMeshHandle, mesh *InternalMesh) {
	m.data.set(handle.Idx, mesh)
}

func (m *MeshManager) Get(handle RawMeshHandle) *InternalMesh {
	return m.data.get(handle.Idx)
}

func (m *MeshManager) Remove(handle RawMeshHandle) {
	mesh := m.data.remove(handle.Idx)
	if mesh.VertexBuffer != nil {
		mesh.VertexBuffer.Release()
	}
	if mesh.IndexBuffer != nil {
		mesh.IndexBuffer.Release()
	}
}

// Skeleton deforms a mesh with a matrix per joint.
type Skeleton struct {
	Mesh          RawMeshHandle
	JointMatrices []mgl32.Mat4
}

type SkeletonManager struct {
	data arena[Skeleton]
}

func NewSkeletonManager() *SkeletonManager {
	return &SkeletonManager{}
}

func (m *SkeletonManager) Add(handle RawSkeletonHandle, skeleton *Skeleton) {
	m.data.set(handle.Idx, skeleton)
}

func (m *SkeletonManager) Get(handle RawSkeletonHandle) *Skeleton {
	return m.data.get(handle.Idx)
}

// SetJointDeltas replaces the skeleton's joint matrices.
func (m *SkeletonManager) SetJointDeltas(handle RawSkeletonHandle, jointMatrices []mgl32.Mat4) {
	m.data.get(handle.Idx).JointMatrices = jointMatrices
}

func (m *SkeletonManager) Remove(handle RawSkeletonHandle) {
	m.data.remove(handle.Idx)
}

// InternalTexture is a GPU texture plus the default view shading samples.
type InternalTexture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Size    wgpu.Extent3D
	Format  wgpu.TextureFormat
	// MipCount of the underlying texture.
	MipCount uint32
}

// TextureFromTexture derives a new texture entry from an existing one by
// re-viewing a mip range. No texel data is copied.
type TextureFromTexture struct {
	Src      RawTexture2DHandle
	StartMip uint32
	MipCount uint32
}

// TextureManager stores 2-D or cube textures; the renderer holds one
// instance per dimensionality.
type TextureManager struct {
	data arena[InternalTexture]
}

func NewTextureManager() *TextureManager {
	return &TextureManager{}
}

func (m *TextureManager) AddIdx(idx int, texture *InternalTexture) {
	m.data.set(idx, texture)
}

func (m *TextureManager) GetIdx(idx int) *InternalTexture {
	return m.data.get(idx)
}

func (m *TextureManager) RemoveIdx(idx int) {
	texture := m.data.remove(idx)
	if texture.View != nil {
		texture.View.Release()
	}
	if texture.Texture != nil {
		texture.Texture.Release()
	}
}

// AddFromTexture views a mip range of an existing entry as a new entry.
// The source must still be live; deleting the source before this
// instruction applies is an ordering violation by the caller.
func (m *TextureManager) AddFromTexture(handle RawTexture2DHandle, from TextureFromTexture) {
	src := m.data.get(from.Src.Idx)

	mipCount := from.MipCount
	if mipCount == 0 {
		mipCount = src.MipCount - from.StartMip
	}

	view, err := src.Texture.CreateView(&wgpu.TextureViewDescriptor{
		Format:          src.Format,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    from.StartMip,
		MipLevelCount:   mipCount,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
	})
	if err != nil {
		panic(err)
	}

	m.data.set(handle.Idx, &InternalTexture{
		// The underlying texture is owned by the source entry.
		Texture:  nil,
		View:     view,
		Size:     src.Size,
		Format:   src.Format,
		MipCount: mipCount,
	})
}

// InternalMaterial is a filled material slot. Filling happens through the
// one-shot callbacks carried by Add/ChangeMaterial instructions, since it
// needs the device and texture manager.
type InternalMaterial struct {
	Label     string
	Uniform   []byte
	Buffer    *wgpu.Buffer
	BindGroup *wgpu.BindGroup
}

type MaterialManager struct {
	data arena[InternalMaterial]
}

func NewMaterialManager() *MaterialManager {
	return &MaterialManager{}
}

// Fill populates the slot for handle. Called from AddMaterialFillInvoke.
func (m *MaterialManager) Fill(handle RawMaterialHandle, material *InternalMaterial) {
	m.data.set(handle.Idx, material)
}

func (m *MaterialManager) Get(handle RawMaterialHandle) *InternalMaterial {
	return m.data.get(handle.Idx)
}

func (m *MaterialManager) Remove(handle RawMaterialHandle) {
	material := m.data.remove(handle.Idx)
	if material.BindGroup != nil {
		material.BindGroup.Release()
	}
	if material.Buffer != nil {
		material.Buffer.Release()
	}
}

// Object is a drawable instance: a mesh, an optional skeleton, a material,
// and a world transform.
type Object struct {
	Mesh      RawMeshHandle
	Skeleton  *RawSkeletonHandle
	Material  RawMaterialHandle
	Transform mgl32.Mat4
}

// ObjectChange is the sparse delta DuplicateObject applies on top of the
// source object.
type ObjectChange struct {
	Mesh      *RawMeshHandle
	Skeleton  *RawSkeletonHandle
	Material  *RawMaterialHandle
	Transform *mgl32.Mat4
}

type ObjectManager struct {
	data arena[Object]
}

func NewObjectManager() *ObjectManager {
	return &ObjectManager{}
}

func (m *ObjectManager) Add(handle RawObjectHandle, object Object) {
	o := object
	m.data.set(handle.Idx, &o)
}

func (m *ObjectManager) Get(handle RawObjectHandle) Object {
	return *m.data.get(handle.Idx)
}

func (m *ObjectManager) SetTransform(handle RawObjectHandle, transform mgl32.Mat4) {
	m.data.get(handle.Idx).Transform = transform
}

// Duplicate copies the source object into the destination slot, applying
// the sparse change on top.
func (m *ObjectManager) Duplicate(src, dst RawObjectHandle, change ObjectChange) {
	object := *m.data.get(src.Idx)
	if change.Mesh != nil {
		object.Mesh = *change.Mesh
	}
	if change.Skeleton != nil {
		object.Skeleton = change.Skeleton
	}
	if change.Material != nil {
		object.Material = *change.Material
	}
	if change.Transform != nil {
		object.Transform = *change.Transform
	}
	m.data.set(dst.Idx, &object)
}

func (m *ObjectManager) Remove(handle RawObjectHandle) {
	m.data.remove(handle.Idx)
}

// GraphStorage holds auxiliary render-graph data. Values are inserted by
// the one-shot callbacks carried by AddGraphData instructions.
type GraphStorage struct {
	data arena[any]
}

func NewGraphStorage() *GraphStorage {
	return &GraphStorage{}
}

func (s *GraphStorage) Set(handle RawGraphDataHandle, value any) {
	v := value
	s.data.set(handle.Idx, &v)
}

func (s *GraphStorage) Get(handle RawGraphDataHandle) any {
	return *s.data.get(handle.Idx)
}

func (s *GraphStorage) Remove(handle RawGraphDataHandle) {
	s.data.remove(handle.Idx)
}
