package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/common"
)

// DefaultGravity is used when no environment is attached.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// Hit describes the first collider a cast touched.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Environment answers synchronous shape-cast queries against the static
// world. Casts ignore colliders they start inside of.
type Environment interface {
	Raycast(origin, dir mgl64.Vec3, maxDistance float64) (Hit, bool)
	SphereCast(origin, dir mgl64.Vec3, radius, maxDistance float64) (Hit, bool)
	Gravity() mgl64.Vec3
}

func raycast(env Environment, origin, dir mgl64.Vec3, maxDistance float64) (Hit, bool) {
	if env == nil || maxDistance <= 0 {
		return Hit{}, false
	}
	return env.Raycast(origin, dir, maxDistance)
}

func sphereCast(env Environment, origin, dir mgl64.Vec3, radius, maxDistance float64) (Hit, bool) {
	if env == nil || maxDistance <= 0 {
		return Hit{}, false
	}
	return env.SphereCast(origin, dir, radius, maxDistance)
}

func gravity(env Environment) mgl64.Vec3 {
	if env == nil {
		return DefaultGravity
	}
	return env.Gravity()
}

func surfaceNormal(n mgl64.Vec3) mgl64.Vec3 {
	if n.LenSqr() < 1e-12 {
		return common.Up
	}
	return n.Normalize()
}
