package character

import "github.com/go-gl/mathgl/mgl64"

// Capsule is the character collider. Center is relative to the body position,
// which sits at the character's feet.
type Capsule struct {
	Height float64
	Center mgl64.Vec3
	Radius float64
}

// Crouched returns the half-height shape derived from a standing capsule.
func (c Capsule) Crouched() Capsule {
	return Capsule{
		Height: c.Height / 2,
		Center: c.Center.Mul(0.5),
		Radius: c.Radius,
	}
}

// Top returns the highest point of the capsule above the feet.
func (c Capsule) Top() float64 {
	return c.Center.Y() + c.Height/2
}
