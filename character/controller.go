package character

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/common"
)

const (
	// airborneCheckDistance keeps the ground ray short while rising so a
	// fresh jump is not re-grounded by the surface it left.
	airborneCheckDistance = 0.01
	jumpCheckDistance     = 0.1
)

// MotionIntent is one step of steering input.
type MotionIntent struct {
	Direction mgl64.Vec3
	Crouch    bool
	Jump      bool
}

// Controller turns steering intents into rigid-body motion for one character.
type Controller struct {
	// Debug logs state transitions.
	Debug bool
	// OnStateChange, if set, is called after every state transition.
	OnStateChange func(from, to State)

	params Parameters
	body   *Body
	probe  *Probe
	anim   Animator
	env    Environment
	clock  Clock

	state               State
	groundNormal        mgl64.Vec3
	groundCheckDistance float64
	turnAmount          float64
	forwardAmount       float64
	out                 AnimatorParams
}

// New builds a controller around body. The capsule is the standing shape.
// Out-of-range parameters are clamped.
func New(body *Body, capsule Capsule, anim Animator, env Environment, clock Clock, params Parameters) *Controller {
	params, clamped := params.Sanitize()
	if clamped {
		log.Printf("character: clamped locomotion parameters: gravity_multiplier=%.2f ground_check_distance=%.2f",
			params.GravityMultiplier, params.GroundCheckDistance)
	}
	if body == nil {
		body = NewBody(mgl64.Vec3{}, 0)
	}
	if anim == nil {
		anim = nopAnimator{}
	}
	return &Controller{
		params:              params,
		body:                body,
		probe:               NewProbe(body, capsule, env),
		anim:                anim,
		env:                 env,
		clock:               clock,
		state:               Airborne,
		groundNormal:        common.Up,
		groundCheckDistance: params.GroundCheckDistance,
		out:                 AnimatorParams{Speed: 1},
	}
}

// MoveIntent is Move with the fields of in.
func (c *Controller) MoveIntent(in MotionIntent) {
	c.Move(in.Direction, in.Crouch, in.Jump)
}

// Move advances the controller by one simulation step. direction is in world
// space; vectors longer than one are normalized, shorter ones kept as
// partial input.
func (c *Controller) Move(direction mgl64.Vec3, crouch, jump bool) {
	dt := c.deltaTime()

	if direction.Len() > 1 {
		direction = direction.Normalize()
	}
	move := c.body.InverseTransformDirection(direction)

	c.checkGroundStatus()
	move = common.ProjectOnPlane(move, c.groundNormal)
	c.turnAmount = math.Atan2(move.X(), move.Z())
	c.forwardAmount = move.Z()

	c.applyExtraTurnRotation(dt)

	if c.state.Grounded() {
		c.handleGroundedMovement(crouch, jump)
	} else {
		c.handleAirborneMovement()
	}

	c.probe.ResolveCrouchShape(crouch, c.state.Grounded())
	if c.state.Grounded() {
		c.transition(groundedState(c.probe.Crouched()))
	}

	c.updateAnimator(move, dt)
}

// ApplyRootMotion replaces horizontal velocity with the animation's
// per-step displacement while grounded. Vertical velocity stays with physics.
func (c *Controller) ApplyRootMotion() {
	dt := c.deltaTime()
	if !c.state.Grounded() || dt <= 0 {
		return
	}
	v := c.anim.DeltaPosition().Mul(c.params.MoveSpeedMultiplier / dt)
	v[1] = c.body.Velocity.Y()
	c.body.Velocity = v
}

func (c *Controller) checkGroundStatus() {
	sample := c.probe.CheckGround(c.groundCheckDistance)
	c.groundNormal = sample.Normal
	if sample.Grounded {
		c.transition(groundedState(c.probe.Crouched()))
		c.anim.SetRootMotion(true)
		return
	}
	c.transition(Airborne)
	c.anim.SetRootMotion(false)
}

func (c *Controller) applyExtraTurnRotation(dt float64) {
	turnSpeed := common.Lerp(c.params.StationaryTurnSpeed, c.params.MovingTurnSpeed, c.forwardAmount)
	degrees := c.turnAmount * turnSpeed * dt * c.params.ExtraTurnWeight
	c.body.Rotate(mgl64.DegToRad(degrees))
}

func (c *Controller) handleGroundedMovement(crouch, jump bool) {
	if !jump || crouch || !c.state.Grounded() {
		return
	}
	v := c.body.Velocity
	c.body.Velocity = mgl64.Vec3{v.X(), c.params.JumpPower, v.Z()}
	c.transition(Airborne)
	c.anim.SetRootMotion(false)
	c.groundCheckDistance = jumpCheckDistance
}

func (c *Controller) handleAirborneMovement() {
	g := gravity(c.env)
	c.body.AddForce(g.Mul(c.params.GravityMultiplier).Sub(g))

	if c.body.Velocity.Y() < 0 {
		c.groundCheckDistance = c.params.GroundCheckDistance
	} else {
		c.groundCheckDistance = airborneCheckDistance
	}
}

func (c *Controller) updateAnimator(move mgl64.Vec3, dt float64) {
	grounded := c.state.Grounded()
	out := AnimatorParams{
		Forward:  c.forwardAmount,
		Turn:     c.turnAmount,
		Crouch:   c.probe.Crouched(),
		OnGround: grounded,
		Speed:    1,
	}

	c.anim.SetFloat(ParamForward, out.Forward, c.params.ParamDampTime, dt)
	c.anim.SetFloat(ParamTurn, out.Turn, c.params.ParamDampTime, dt)
	c.anim.SetBool(ParamCrouch, out.Crouch)
	c.anim.SetBool(ParamOnGround, out.OnGround)
	if !grounded {
		out.Jump = c.body.Velocity.Y()
		c.anim.SetFloat(ParamJump, out.Jump, 0, dt)
	}

	// One leg passes the other at normalized cycle times 0 and 0.5.
	runCycle := common.Repeat(c.anim.NormalizedTime()+c.params.RunCycleLegOffset, 1)
	leg := 1.0
	if runCycle >= half {
		leg = -1
	}
	if grounded {
		out.JumpLeg = leg * c.forwardAmount
		c.anim.SetFloat(ParamJumpLeg, out.JumpLeg, 0, dt)
	}

	if grounded && move.Len() > 0 {
		out.Speed = c.params.AnimSpeedMultiplier
	}
	c.anim.SetSpeed(out.Speed)
	c.out = out
}

func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}
	prev := c.state
	c.state = next
	if c.Debug {
		log.Printf("character: state %s -> %s at %.3f,%.3f,%.3f", prev, next,
			c.body.Position.X(), c.body.Position.Y(), c.body.Position.Z())
	}
	if c.OnStateChange != nil {
		c.OnStateChange(prev, next)
	}
}

func (c *Controller) deltaTime() float64 {
	if c.clock == nil {
		return 0
	}
	return c.clock.DeltaTime()
}

func (c *Controller) State() State                 { return c.state }
func (c *Controller) Grounded() bool               { return c.state.Grounded() }
func (c *Controller) Crouching() bool              { return c.probe.Crouched() }
func (c *Controller) TurnAmount() float64          { return c.turnAmount }
func (c *Controller) ForwardAmount() float64       { return c.forwardAmount }
func (c *Controller) GroundNormal() mgl64.Vec3     { return c.groundNormal }
func (c *Controller) GroundCheckDistance() float64 { return c.groundCheckDistance }
func (c *Controller) Capsule() Capsule             { return c.probe.Capsule() }
func (c *Controller) Params() Parameters           { return c.params }
func (c *Controller) Output() AnimatorParams       { return c.out }
func (c *Controller) Body() *Body                  { return c.body }
func (c *Controller) Probe() *Probe                { return c.probe }
