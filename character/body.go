package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/common"
)

// Body is the rigid-body state of one character. The controller is its only
// writer during Move; the integrator drains accumulated forces once per step.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Rotation mgl64.Quat
	Mass     float64

	force mgl64.Vec3
}

// NewBody places a body at position facing yaw radians from +Z.
func NewBody(position mgl64.Vec3, yaw float64) *Body {
	return &Body{
		Position: position,
		Rotation: mgl64.QuatRotate(yaw, common.Up),
		Mass:     1,
	}
}

func (b *Body) rotation() mgl64.Quat {
	if b.Rotation.W == 0 && b.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return b.Rotation
}

// Rotate applies a yaw in the body's local frame.
func (b *Body) Rotate(radians float64) {
	if radians == 0 {
		return
	}
	b.Rotation = b.rotation().Mul(mgl64.QuatRotate(radians, common.Up)).Normalize()
}

// InverseTransformDirection converts a world direction into the local frame.
func (b *Body) InverseTransformDirection(v mgl64.Vec3) mgl64.Vec3 {
	return b.rotation().Inverse().Rotate(v)
}

// TransformDirection converts a local direction into world space.
func (b *Body) TransformDirection(v mgl64.Vec3) mgl64.Vec3 {
	return b.rotation().Rotate(v)
}

func (b *Body) Forward() mgl64.Vec3 {
	return b.TransformDirection(common.Forward)
}

func (b *Body) Yaw() float64 {
	return common.Yaw(b.rotation())
}

// AddForce accumulates a force for the next integration step.
func (b *Body) AddForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// Force returns the pending force without clearing it.
func (b *Body) Force() mgl64.Vec3 {
	return b.force
}

// TakeForce returns and clears the pending force.
func (b *Body) TakeForce() mgl64.Vec3 {
	f := b.force
	b.force = mgl64.Vec3{}
	return f
}
