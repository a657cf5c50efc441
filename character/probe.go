package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/common"
)

const (
	// groundRayOffset starts the ground ray slightly inside the character.
	groundRayOffset = 0.1
	half            = 0.5
)

// GroundSample is the result of one ground check. Normal is world up while
// airborne.
type GroundSample struct {
	Grounded bool
	Normal   mgl64.Vec3
}

// Probe classifies ground contact and headroom for one character and owns
// its collider shape.
type Probe struct {
	body     *Body
	env      Environment
	standing Capsule
	current  Capsule
	crouched bool
}

func NewProbe(body *Body, capsule Capsule, env Environment) *Probe {
	return &Probe{
		body:     body,
		env:      env,
		standing: capsule,
		current:  capsule,
	}
}

// CheckGround casts down from just above the feet for distance units.
func (p *Probe) CheckGround(distance float64) GroundSample {
	origin := p.body.Position.Add(common.Up.Mul(groundRayOffset))
	hit, ok := raycast(p.env, origin, common.Down, distance)
	if !ok {
		return GroundSample{Normal: common.Up}
	}
	return GroundSample{Grounded: true, Normal: surfaceNormal(hit.Normal)}
}

// ResolveCrouchShape settles the collider for this step. Crouching only
// happens through here: on request while grounded, or when there is no
// headroom to stand.
func (p *Probe) ResolveCrouchShape(crouchRequested, grounded bool) Capsule {
	if grounded && crouchRequested {
		p.crouch()
	} else if p.HeadroomBlocked() {
		p.crouch()
	} else {
		p.stand()
	}

	// catches walking into a crouch-only zone while standing
	if !p.crouched && p.HeadroomBlocked() {
		p.crouch()
	}
	return p.current
}

// HeadroomBlocked reports whether a standing capsule would hit something
// overhead.
func (p *Probe) HeadroomBlocked() bool {
	r := p.standing.Radius * half
	origin := p.body.Position.Add(common.Up.Mul(r))
	_, hit := sphereCast(p.env, origin, common.Up, r, p.standing.Height-r)
	return hit
}

func (p *Probe) crouch() {
	if p.crouched {
		return
	}
	p.current = p.standing.Crouched()
	p.crouched = true
}

func (p *Probe) stand() {
	p.current = p.standing
	p.crouched = false
}

func (p *Probe) Capsule() Capsule {
	return p.current
}

func (p *Probe) Crouched() bool {
	return p.crouched
}
