package rend3

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// shadowCamera fits a directional light's shadow-casting camera around the
// user camera's view frustum. The resulting view looks along the light
// direction and the orthographic projection tightly bounds the frustum's
// light-space AABB, with the XY bounds snapped to shadow-texel increments
// so the shadow does not shimmer as the user camera translates.
func shadowCamera(l *InternalDirectionalLight, userCamera *CameraState) CameraState {
	dir := l.Inner.Direction
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()

	// Pick an up vector that cannot be parallel to the light direction.
	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Y()) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(mgl32.Vec3{}, dir, up)

	corners := frustumCorners(userCamera.ViewProj().Inv())

	minB := mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	maxB := mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	for _, corner := range corners {
		c := mgl32.TransformCoordinate(corner, view)
		minB = mgl32.Vec3{min32(minB.X(), c.X()), min32(minB.Y(), c.Y()), min32(minB.Z(), c.Z())}
		maxB = mgl32.Vec3{max32(maxB.X(), c.X()), max32(maxB.Y(), c.Y()), max32(maxB.Z(), c.Z())}
	}

	// Snap the XY bounds outward to whole texels.
	resolution := float32(l.Inner.Resolution)
	if resolution > 0 {
		left, right := snapOutward(minB.X(), maxB.X(), resolution)
		bottom, top := snapOutward(minB.Y(), maxB.Y(), resolution)
		minB = mgl32.Vec3{left, bottom, minB.Z()}
		maxB = mgl32.Vec3{right, top, maxB.Z()}
	}

	// Pull the near plane back so casters between the light and the
	// frustum still land in the map.
	near := -maxB.Z() - l.Inner.Distance
	far := -minB.Z()
	proj := orthoWgpu(minB.X(), maxB.X(), minB.Y(), maxB.Y(), near, far)

	return NewCameraState(Camera{Projection: RawProjection(proj), View: view}, 1)
}

// frustumCorners unprojects the eight corners of the canonical clip cube
// (WebGPU convention, depth in [0, 1]) back into world space.
func frustumCorners(invViewProj mgl32.Mat4) [8]mgl32.Vec3 {
	var corners [8]mgl32.Vec3
	i := 0
	for _, x := range [2]float32{-1, 1} {
		for _, y := range [2]float32{-1, 1} {
			for _, z := range [2]float32{0, 1} {
				p := invViewProj.Mul4x1(mgl32.Vec4{x, y, z, 1})
				corners[i] = p.Vec3().Mul(1 / p.W())
				i++
			}
		}
	}
	return corners
}

// snapOutward widens [lo, hi] so both edges land on the texel grid implied
// by dividing the span into resolution texels.
func snapOutward(lo, hi, resolution float32) (float32, float32) {
	span := hi - lo
	if span <= 0 {
		return lo, hi
	}
	texel := span / resolution
	lo = float32(math.Floor(float64(lo/texel))) * texel
	hi = float32(math.Ceil(float64(hi/texel))) * texel
	return lo, hi
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
