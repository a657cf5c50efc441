package character

import "github.com/go-gl/mathgl/mgl64"

// Animator parameter names.
const (
	ParamForward  = "Forward"
	ParamTurn     = "Turn"
	ParamCrouch   = "Crouch"
	ParamOnGround = "OnGround"
	ParamJump     = "Jump"
	ParamJumpLeg  = "JumpLeg"
)

// Animator is the animation system driving root motion. The controller reads
// its timing and per-step delta and pushes parameters; it never owns it.
type Animator interface {
	NormalizedTime() float64
	DeltaPosition() mgl64.Vec3
	SetRootMotion(enabled bool)
	SetFloat(name string, value, dampTime, dt float64)
	SetBool(name string, value bool)
	SetSpeed(speed float64)
}

// AnimatorParams is the parameter set pushed on the last Move.
type AnimatorParams struct {
	Forward  float64
	Turn     float64
	Crouch   bool
	OnGround bool
	Jump     float64
	JumpLeg  float64
	Speed    float64
}

type nopAnimator struct{}

func (nopAnimator) NormalizedTime() float64                    { return 0 }
func (nopAnimator) DeltaPosition() mgl64.Vec3                  { return mgl64.Vec3{} }
func (nopAnimator) SetRootMotion(bool)                         {}
func (nopAnimator) SetFloat(string, float64, float64, float64) {}
func (nopAnimator) SetBool(string, bool)                       {}
func (nopAnimator) SetSpeed(float64)                           {}
