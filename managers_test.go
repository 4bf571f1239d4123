package rend3

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectManager_Duplicate(t *testing.T) {
	m := NewObjectManager()
	src := RawObjectHandle{Idx: 0}
	dst := RawObjectHandle{Idx: 1}

	original := Object{
		Mesh:      RawMeshHandle{Idx: 3},
		Material:  RawMaterialHandle{Idx: 4},
		Transform: mgl32.Ident4(),
	}
	m.Add(src, original)

	transform := mgl32.Translate3D(1, 2, 3)
	material := RawMaterialHandle{Idx: 9}
	m.Duplicate(src, dst, ObjectChange{
		Material:  &material,
		Transform: &transform,
	})

	duplicated := m.Get(dst)
	assert.Equal(t, RawMeshHandle{Idx: 3}, duplicated.Mesh, "unchanged fields copy from the source")
	assert.Equal(t, material, duplicated.Material)
	assert.Equal(t, transform, duplicated.Transform)

	// Source stays untouched.
	assert.Equal(t, original, m.Get(src))
}

func TestObjectManager_SetTransform(t *testing.T) {
	m := NewObjectManager()
	h := RawObjectHandle{Idx: 0}
	m.Add(h, Object{Transform: mgl32.Ident4()})

	transform := mgl32.Scale3D(2, 2, 2)
	m.SetTransform(h, transform)
	assert.Equal(t, transform, m.Get(h).Transform)
}

func TestObjectManager_DeadHandlePanics(t *testing.T) {
	m := NewObjectManager()
	h := RawObjectHandle{Idx: 0}
	m.Add(h, Object{})
	m.Remove(h)

	require.Panics(t, func() { m.Get(h) })
	require.Panics(t, func() { m.SetTransform(h, mgl32.Ident4()) })
	require.Panics(t, func() { m.Duplicate(h, RawObjectHandle{Idx: 1}, ObjectChange{}) })
}

func TestSkeletonManager_SetJointDeltas(t *testing.T) {
	m := NewSkeletonManager()
	h := RawSkeletonHandle{Idx: 0}
	m.Add(h, &Skeleton{Mesh: RawMeshHandle{Idx: 5}})

	joints := []mgl32.Mat4{mgl32.Ident4(), mgl32.Translate3D(0, 1, 0)}
	m.SetJointDeltas(h, joints)

	got := m.Get(h)
	assert.Equal(t, RawMeshHandle{Idx: 5}, got.Mesh)
	assert.Equal(t, joints, got.JointMatrices)
}

func TestGraphStorage_SetGetRemove(t *testing.T) {
	s := NewGraphStorage()
	h := RawGraphDataHandle{Idx: 0}

	s.Set(h, "shadow pass state")
	assert.Equal(t, "shadow pass state", s.Get(h))

	s.Remove(h)
	require.Panics(t, func() { s.Get(h) })
}

func TestGraphStorage_ReusesSlotAfterRemove(t *testing.T) {
	s := NewGraphStorage()
	h := RawGraphDataHandle{Idx: 0}

	s.Set(h, 1)
	s.Remove(h)
	s.Set(h, 2)
	assert.Equal(t, 2, s.Get(h))
}

func TestPointLightManager_UpdateAppliesSparseDelta(t *testing.T) {
	m := &PointLightManager{}
	h := RawPointLightHandle{Idx: 0}
	m.Add(h, PointLight{
		Position:  mgl32.Vec3{1, 2, 3},
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1,
		Radius:    5,
	})

	radius := float32(10)
	m.Update(h, PointLightChange{Radius: &radius})

	got := m.Get(h)
	assert.Equal(t, float32(10), got.Radius)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.Position)
}

func TestPointLightManager_MarshalShaderBuffer(t *testing.T) {
	m := &PointLightManager{}
	m.Add(RawPointLightHandle{Idx: 0}, PointLight{
		Position:  mgl32.Vec3{1, 2, 3},
		Color:     mgl32.Vec3{1, 0.5, 0.25},
		Intensity: 4,
		Radius:    7,
	})
	dead := RawPointLightHandle{Idx: 1}
	m.Add(dead, PointLight{})
	m.Remove(dead)

	buf := m.marshalShaderBuffer()
	require.Len(t, buf, shaderPointLightHeaderSize+shaderPointLightStride)

	f32At := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
	}

	// Dead slots are skipped, live lights counted.
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[0:4]))

	base := shaderPointLightHeaderSize
	assert.Equal(t, float32(1), f32At(base))
	assert.Equal(t, float32(2), f32At(base+4))
	assert.Equal(t, float32(3), f32At(base+8))
	assert.Equal(t, float32(7), f32At(base+12))
	assert.InDelta(t, 4.0, float64(f32At(base+16)), 1e-6)
	assert.InDelta(t, 2.0, float64(f32At(base+20)), 1e-6)
	assert.InDelta(t, 1.0, float64(f32At(base+24)), 1e-6)
}

func TestTextureManager_IdxRoundTrip(t *testing.T) {
	m := NewTextureManager()
	tex := &InternalTexture{MipCount: 3}
	m.AddIdx(0, tex)
	assert.Same(t, tex, m.GetIdx(0))

	m.RemoveIdx(0)
	require.Panics(t, func() { m.GetIdx(0) })
}

func TestArena_GrowthAndReuse(t *testing.T) {
	var a arena[int]
	v := 42
	a.set(10, &v)

	assert.Equal(t, 11, a.len())
	assert.Equal(t, 42, *a.get(10))
	require.Panics(t, func() { a.get(5) }, "unfilled slot below the high-water mark is dead")

	a.remove(10)
	w := 7
	a.set(10, &w)
	assert.Equal(t, 7, *a.get(10))
}
