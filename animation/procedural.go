package animation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/common"
)

// Config tunes the procedural locomotion cycle.
type Config struct {
	// CycleRate is full strides per second at Forward = 1.
	CycleRate float64
	// IdleCycleRate keeps the cycle ticking while standing still.
	IdleCycleRate float64
	// StrideSpeed is root displacement in units per second at Forward = 1.
	StrideSpeed float64
	// CrouchStrideScale scales StrideSpeed while crouched.
	CrouchStrideScale float64
	// TurnRate is root yaw in radians per second at Turn = 1.
	TurnRate float64
}

func DefaultConfig() Config {
	return Config{
		CycleRate:         1.4,
		IdleCycleRate:     0.25,
		StrideSpeed:       3.5,
		CrouchStrideScale: 0.5,
		TurnRate:          1.5,
	}
}

// Procedural is a clip-less animator. It keeps parameter values, advances a
// locomotion cycle and reports root motion along the body's facing.
type Procedural struct {
	cfg  Config
	body *character.Body

	floats     map[string]float64
	bools      map[string]bool
	speed      float64
	normalized float64
	rootMotion bool
	delta      mgl64.Vec3
}

func NewProcedural(cfg Config, body *character.Body) *Procedural {
	return &Procedural{
		cfg:    cfg,
		body:   body,
		floats: make(map[string]float64),
		bools:  make(map[string]bool),
		speed:  1,
	}
}

func (p *Procedural) NormalizedTime() float64 {
	return p.normalized
}

func (p *Procedural) DeltaPosition() mgl64.Vec3 {
	return p.delta
}

func (p *Procedural) SetRootMotion(enabled bool) {
	p.rootMotion = enabled
}

// SetFloat moves the parameter toward value, exponentially smoothed over
// dampTime. A zero damp time sets it directly.
func (p *Procedural) SetFloat(name string, value, dampTime, dt float64) {
	cur, ok := p.floats[name]
	if !ok || dampTime <= 0 || dt <= 0 {
		p.floats[name] = value
		return
	}
	k := 1 - math.Exp(-dt/dampTime)
	p.floats[name] = cur + (value-cur)*k
}

func (p *Procedural) SetBool(name string, value bool) {
	p.bools[name] = value
}

func (p *Procedural) SetSpeed(speed float64) {
	p.speed = speed
}

func (p *Procedural) Float(name string) float64 {
	return p.floats[name]
}

func (p *Procedural) Bool(name string) bool {
	return p.bools[name]
}

func (p *Procedural) Speed() float64 {
	return p.speed
}

func (p *Procedural) RootMotion() bool {
	return p.rootMotion
}

// Advance steps the cycle by dt and computes this step's root motion.
func (p *Procedural) Advance(dt float64) {
	p.delta = mgl64.Vec3{}
	if dt <= 0 {
		return
	}
	scaled := dt * p.speed
	forward := p.floats[character.ParamForward]

	rate := math.Max(p.cfg.CycleRate*math.Abs(forward), p.cfg.IdleCycleRate)
	p.normalized = common.Repeat(p.normalized+rate*scaled, 1)

	if !p.rootMotion || p.body == nil {
		return
	}

	stride := p.cfg.StrideSpeed
	if p.bools[character.ParamCrouch] {
		stride *= p.cfg.CrouchStrideScale
	}
	heading := common.Horizontal(p.body.Forward())
	if heading.LenSqr() > 0 {
		heading = heading.Normalize()
	}
	p.delta = heading.Mul(forward * stride * scaled)

	if turn := p.floats[character.ParamTurn]; turn != 0 {
		p.body.Rotate(turn * p.cfg.TurnRate * scaled)
	}
}
