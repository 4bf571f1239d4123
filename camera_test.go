package rend3

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func clipDepth(proj mgl32.Mat4, viewZ float32) float32 {
	clip := proj.Mul4x1(mgl32.Vec4{0, 0, viewZ, 1})
	return clip.Z() / clip.W()
}

func TestPerspectiveWgpu_DepthRange(t *testing.T) {
	proj := perspectiveWgpu(mgl32.DegToRad(60), 16.0/9.0, 0.5, 100)

	assert.InDelta(t, 0, float64(clipDepth(proj, -0.5)), 1e-5, "near plane maps to 0")
	assert.InDelta(t, 1, float64(clipDepth(proj, -100)), 1e-4, "far plane maps to 1")
}

func TestOrthoWgpu_DepthRange(t *testing.T) {
	proj := orthoWgpu(-10, 10, -10, 10, 1, 50)

	assert.InDelta(t, 0, float64(clipDepth(proj, -1)), 1e-6)
	assert.InDelta(t, 1, float64(clipDepth(proj, -50)), 1e-6)

	// XY edges land on the clip cube faces.
	edge := proj.Mul4x1(mgl32.Vec4{10, 10, -1, 1})
	assert.InDelta(t, 1, float64(edge.X()), 1e-6)
	assert.InDelta(t, 1, float64(edge.Y()), 1e-6)
}

func TestCameraState_DefaultProjection(t *testing.T) {
	state := NewCameraState(Camera{}, 1)

	// A nil projection falls back to a standard perspective and a zero
	// view matrix to identity.
	assert.NotEqual(t, mgl32.Ident4(), state.Proj())
	assert.Equal(t, mgl32.Ident4(), state.View())
}

func TestCameraState_SetAspectRatio(t *testing.T) {
	state := NewCameraState(Camera{
		Projection: PerspectiveProjection{VFov: mgl32.DegToRad(60), Near: 0.1, Far: 100},
	}, 1)
	wide := state.Proj()

	state.SetAspectRatio(2)
	assert.InDelta(t, float64(wide[0]/2), float64(state.Proj()[0]), 1e-6, "horizontal scale follows aspect")
	assert.Equal(t, wide[5], state.Proj()[5], "vertical scale unchanged")
}

func TestCameraState_SetDataKeepsAspect(t *testing.T) {
	state := NewCameraState(Camera{
		Projection: PerspectiveProjection{VFov: mgl32.DegToRad(60), Near: 0.1, Far: 100},
	}, 2)

	state.SetData(Camera{
		Projection: PerspectiveProjection{VFov: mgl32.DegToRad(90), Near: 0.1, Far: 100},
		View:       mgl32.Translate3D(0, 0, -5),
	})

	reference := perspectiveWgpu(mgl32.DegToRad(90), 2, 0.1, 100)
	assert.Equal(t, reference, state.Proj())
	assert.Equal(t, mgl32.Translate3D(0, 0, -5), state.View())
}

func TestOrthographicProjection_Size(t *testing.T) {
	proj := OrthographicProjection{Size: mgl32.Vec3{20, 10, 100}}.matrix(1)

	// Half extents land on the clip cube faces.
	edge := proj.Mul4x1(mgl32.Vec4{10, 5, 0, 1})
	assert.InDelta(t, 1, float64(edge.X()), 1e-6)
	assert.InDelta(t, 1, float64(edge.Y()), 1e-6)
}
