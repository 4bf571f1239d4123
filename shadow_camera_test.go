package rend3

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shadowTestLight(direction mgl32.Vec3) *InternalDirectionalLight {
	return &InternalDirectionalLight{Inner: DirectionalLight{
		Color:      mgl32.Vec3{1, 1, 1},
		Intensity:  1,
		Direction:  direction,
		Distance:   20,
		Resolution: 256,
	}}
}

func TestShadowCamera_ContainsUserFrustum(t *testing.T) {
	userCamera := testUserCamera()
	light := shadowTestLight(mgl32.Vec3{1, -1, 0.5})

	shadow := shadowCamera(light, &userCamera)
	vp := shadow.ViewProj()

	const eps = 1e-3
	for _, corner := range frustumCorners(userCamera.ViewProj().Inv()) {
		clip := vp.Mul4x1(corner.Vec4(1))
		p := clip.Vec3().Mul(1 / clip.W())
		assert.GreaterOrEqual(t, p.X(), float32(-1-eps), "corner %v left of clip cube", corner)
		assert.LessOrEqual(t, p.X(), float32(1+eps), "corner %v right of clip cube", corner)
		assert.GreaterOrEqual(t, p.Y(), float32(-1-eps), "corner %v below clip cube", corner)
		assert.LessOrEqual(t, p.Y(), float32(1+eps), "corner %v above clip cube", corner)
		assert.GreaterOrEqual(t, p.Z(), float32(-eps), "corner %v in front of near plane", corner)
		assert.LessOrEqual(t, p.Z(), float32(1+eps), "corner %v past far plane", corner)
	}
}

func TestShadowCamera_ViewLooksAlongLight(t *testing.T) {
	userCamera := testUserCamera()
	dir := mgl32.Vec3{1, -2, 0.5}.Normalize()
	light := shadowTestLight(dir)

	shadow := shadowCamera(light, &userCamera)

	// The light direction maps onto the view's -Z axis.
	got := mgl32.TransformCoordinate(dir, shadow.View())
	require.InDelta(t, 0, float64(got.X()), 1e-5)
	require.InDelta(t, 0, float64(got.Y()), 1e-5)
	require.InDelta(t, -1, float64(got.Z()), 1e-5)
}

func TestShadowCamera_ZeroDirectionFallsBackToDown(t *testing.T) {
	userCamera := testUserCamera()
	light := shadowTestLight(mgl32.Vec3{})

	shadow := shadowCamera(light, &userCamera)

	got := mgl32.TransformCoordinate(mgl32.Vec3{0, -1, 0}, shadow.View())
	assert.InDelta(t, -1, float64(got.Z()), 1e-5)
}

func TestShadowCamera_VerticalDirectionHasValidView(t *testing.T) {
	userCamera := testUserCamera()
	// Straight down is parallel to the default up vector; the fitter must
	// still produce a finite view matrix.
	light := shadowTestLight(mgl32.Vec3{0, -1, 0})

	shadow := shadowCamera(light, &userCamera)
	vp := shadow.ViewProj()
	for i := 0; i < 16; i++ {
		assert.False(t, vp[i] != vp[i], "NaN in view-proj at element %d", i)
	}
}

func TestSnapOutward(t *testing.T) {
	lo, hi := snapOutward(0.3, 9.7, 10)
	texel := float32(9.7-0.3) / 10

	// Both edges land on the texel grid and the interval only widens.
	assert.LessOrEqual(t, lo, float32(0.3))
	assert.GreaterOrEqual(t, hi, float32(9.7))
	gridDistance := func(v float32) float64 {
		steps := float64(v / texel)
		return math.Abs(steps - math.Round(steps))
	}
	assert.InDelta(t, 0, gridDistance(lo), 1e-4)
	assert.InDelta(t, 0, gridDistance(hi), 1e-4)
}
