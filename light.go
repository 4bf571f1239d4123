package rend3

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLight is a sun-style light with no position. Shadows are
// rendered into a shared atlas texture; Resolution is the requested square
// shadow map size in texels.
type DirectionalLight struct {
	Color     mgl32.Vec3
	Intensity float32
	// Direction the light travels, world space. Does not need to be
	// normalized.
	Direction mgl32.Vec3
	// Distance the shadow volume extends past the camera frustum.
	Distance   float32
	Resolution uint32
}

// DirectionalLightChange is a sparse delta: nil fields are left unchanged.
type DirectionalLightChange struct {
	Color      *mgl32.Vec3
	Intensity  *float32
	Direction  *mgl32.Vec3
	Distance   *float32
	Resolution *uint32
}

// UpdateFromChanges applies a sparse delta in place.
func (l *DirectionalLight) UpdateFromChanges(change DirectionalLightChange) {
	if change.Color != nil {
		l.Color = *change.Color
	}
	if change.Intensity != nil {
		l.Intensity = *change.Intensity
	}
	if change.Direction != nil {
		l.Direction = *change.Direction
	}
	if change.Distance != nil {
		l.Distance = *change.Distance
	}
	if change.Resolution != nil {
		l.Resolution = *change.Resolution
	}
}

// PointLight emits in all directions from a position, attenuating out to
// Radius.
type PointLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Radius    float32
}

// PointLightChange is a sparse delta: nil fields are left unchanged.
type PointLightChange struct {
	Position  *mgl32.Vec3
	Color     *mgl32.Vec3
	Intensity *float32
	Radius    *float32
}

// UpdateFromChanges applies a sparse delta in place.
func (l *PointLight) UpdateFromChanges(change PointLightChange) {
	if change.Position != nil {
		l.Position = *change.Position
	}
	if change.Color != nil {
		l.Color = *change.Color
	}
	if change.Intensity != nil {
		l.Intensity = *change.Intensity
	}
	if change.Radius != nil {
		l.Radius = *change.Radius
	}
}
