package character

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	minGravityMultiplier = 1.0
	maxGravityMultiplier = 4.0
)

// Parameters tunes a single character's locomotion. Turn speeds are in
// degrees per second.
type Parameters struct {
	MovingTurnSpeed     float64
	StationaryTurnSpeed float64
	JumpPower           float64
	GravityMultiplier   float64
	MoveSpeedMultiplier float64
	AnimSpeedMultiplier float64
	GroundCheckDistance float64
	RunCycleLegOffset   float64

	// ParamDampTime smooths Forward and Turn on the animator side.
	ParamDampTime float64
	// ExtraTurnWeight scales the turn applied on top of the animation's
	// own root rotation. 1 keeps the tuned behaviour.
	ExtraTurnWeight float64
}

// DefaultParameters returns the values the sample character was tuned with.
func DefaultParameters() Parameters {
	return Parameters{
		MovingTurnSpeed:     360,
		StationaryTurnSpeed: 180,
		JumpPower:           12,
		GravityMultiplier:   2,
		MoveSpeedMultiplier: 1,
		AnimSpeedMultiplier: 1,
		GroundCheckDistance: 0.2,
		RunCycleLegOffset:   0.2,
		ParamDampTime:       0.1,
		ExtraTurnWeight:     1,
	}
}

// Sanitize clamps out-of-range values and reports whether anything changed.
func (p Parameters) Sanitize() (Parameters, bool) {
	changed := false
	defaults := DefaultParameters()

	if math.IsNaN(p.GravityMultiplier) {
		p.GravityMultiplier = defaults.GravityMultiplier
		changed = true
	} else if g := mgl64.Clamp(p.GravityMultiplier, minGravityMultiplier, maxGravityMultiplier); g != p.GravityMultiplier {
		p.GravityMultiplier = g
		changed = true
	}
	if math.IsNaN(p.GroundCheckDistance) || p.GroundCheckDistance <= 0 {
		p.GroundCheckDistance = defaults.GroundCheckDistance
		changed = true
	}
	if p.ParamDampTime < 0 {
		p.ParamDampTime = 0
		changed = true
	}
	if p.ExtraTurnWeight < 0 {
		p.ExtraTurnWeight = 0
		changed = true
	}
	return p, changed
}
