package rend3

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraProjection describes how a camera maps view space into clip space.
// Projections target WebGPU's clip conventions: X/Y in [-1, 1], Z in [0, 1].
type CameraProjection interface {
	matrix(aspect float32) mgl32.Mat4
}

// PerspectiveProjection is a finite right-handed perspective projection.
type PerspectiveProjection struct {
	VFov float32 // vertical field of view, radians
	Near float32
	Far  float32
}

func (p PerspectiveProjection) matrix(aspect float32) mgl32.Mat4 {
	return perspectiveWgpu(p.VFov, aspect, p.Near, p.Far)
}

// OrthographicProjection spans Size world units centered on the view origin.
type OrthographicProjection struct {
	Size mgl32.Vec3
}

func (p OrthographicProjection) matrix(aspect float32) mgl32.Mat4 {
	hx := p.Size.X() / 2 * aspect
	hy := p.Size.Y() / 2
	hz := p.Size.Z() / 2
	return orthoWgpu(-hx, hx, -hy, hy, -hz, hz)
}

// RawProjection passes a caller-built projection matrix through unchanged.
type RawProjection mgl32.Mat4

func (p RawProjection) matrix(aspect float32) mgl32.Mat4 {
	return mgl32.Mat4(p)
}

// Camera is the user-facing camera description carried by SetCameraData.
type Camera struct {
	Projection CameraProjection
	View       mgl32.Mat4
}

// CameraState caches the matrices derived from a Camera at a given aspect
// ratio. It serves both the user's viewpoint and, via the shadow fitter,
// each light's shadow-casting viewpoint.
type CameraState struct {
	data   Camera
	view   mgl32.Mat4
	proj   mgl32.Mat4
	world  mgl32.Mat4
	aspect float32
}

func NewCameraState(camera Camera, aspect float32) CameraState {
	if camera.Projection == nil {
		camera.Projection = PerspectiveProjection{VFov: mgl32.DegToRad(60), Near: 0.1, Far: 1000}
	}
	if camera.View == (mgl32.Mat4{}) {
		camera.View = mgl32.Ident4()
	}
	return CameraState{
		data:   camera,
		view:   camera.View,
		proj:   camera.Projection.matrix(aspect),
		world:  camera.View.Inv(),
		aspect: aspect,
	}
}

// SetData replaces the camera description, keeping the current aspect ratio.
func (c *CameraState) SetData(camera Camera) {
	*c = NewCameraState(camera, c.aspect)
}

// SetAspectRatio re-derives the projection for a new aspect ratio.
func (c *CameraState) SetAspectRatio(ratio float32) {
	*c = NewCameraState(c.data, ratio)
}

func (c *CameraState) View() mgl32.Mat4 { return c.view }

func (c *CameraState) Proj() mgl32.Mat4 { return c.proj }

// World is the inverse view matrix (camera-to-world).
func (c *CameraState) World() mgl32.Mat4 { return c.world }

func (c *CameraState) ViewProj() mgl32.Mat4 { return c.proj.Mul4(c.view) }

// perspectiveWgpu builds a right-handed perspective projection with depth
// mapped to [0, 1]. mgl32's stock Perspective targets GL's [-1, 1] depth
// range, which WebGPU does not use.
func perspectiveWgpu(fovy, aspect, near, far float32) mgl32.Mat4 {
	f := float32(1.0 / math.Tan(float64(fovy)/2))
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = near * far / (near - far)
	return m
}

// orthoWgpu builds a right-handed orthographic projection with depth mapped
// to [0, 1]: view-space z = -near lands on 0, z = -far lands on 1.
func orthoWgpu(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	rl := right - left
	tb := top - bottom
	fn := far - near

	m := mgl32.Ident4()
	m[0] = 2 / rl
	m[5] = 2 / tb
	m[10] = -1 / fn
	m[12] = -(right + left) / rl
	m[13] = -(top + bottom) / tb
	m[14] = -near / fn
	return m
}
