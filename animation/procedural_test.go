package animation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/character"
)

func TestSetFloatDamping(t *testing.T) {
	p := NewProcedural(DefaultConfig(), nil)

	p.SetFloat(character.ParamForward, 1, 0.1, 0.02)
	if got := p.Float(character.ParamForward); got != 1 {
		t.Fatalf("first value should be set directly, got %v", got)
	}

	p.SetFloat(character.ParamForward, 0, 0.1, 0.02)
	want := 1 - (1 - math.Exp(-0.2))
	if got := p.Float(character.ParamForward); math.Abs(got-want) > 1e-12 {
		t.Fatalf("damped value = %v, want %v", got, want)
	}

	p.SetFloat(character.ParamForward, 0.25, 0, 0.02)
	if got := p.Float(character.ParamForward); got != 0.25 {
		t.Fatalf("zero damp time should set directly, got %v", got)
	}
}

func TestAdvanceWrapsCycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CycleRate = 1
	p := NewProcedural(cfg, nil)
	p.SetFloat(character.ParamForward, 1, 0, 0)

	for i := 0; i < 15; i++ {
		p.Advance(0.1)
	}
	if got := p.NormalizedTime(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("normalized time = %v, want 0.5", got)
	}
}

func TestAdvanceRootMotion(t *testing.T) {
	cases := []struct {
		name       string
		rootMotion bool
		crouch     bool
		speed      float64
		want       mgl64.Vec3
	}{
		{"disabled", false, false, 1, mgl64.Vec3{}},
		{"walking", true, false, 1, mgl64.Vec3{0, 0, 0.2}},
		{"crouched", true, true, 1, mgl64.Vec3{0, 0, 0.1}},
		{"sped_up", true, false, 2, mgl64.Vec3{0, 0, 0.4}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.StrideSpeed = 2
			body := character.NewBody(mgl64.Vec3{}, 0)
			p := NewProcedural(cfg, body)
			p.SetRootMotion(c.rootMotion)
			p.SetBool(character.ParamCrouch, c.crouch)
			p.SetSpeed(c.speed)
			p.SetFloat(character.ParamForward, 1, 0, 0)

			p.Advance(0.1)
			if !p.DeltaPosition().ApproxEqual(c.want) {
				t.Fatalf("delta = %v, want %v", p.DeltaPosition(), c.want)
			}
		})
	}
}

func TestAdvanceFollowsFacing(t *testing.T) {
	body := character.NewBody(mgl64.Vec3{}, math.Pi/2)
	p := NewProcedural(DefaultConfig(), body)
	p.SetRootMotion(true)
	p.SetFloat(character.ParamForward, 1, 0, 0)

	p.Advance(0.1)
	d := p.DeltaPosition()
	if d.X() <= 0 || math.Abs(d.Z()) > 1e-9 {
		t.Fatalf("delta should point along +X, got %v", d)
	}
}

func TestAdvanceAppliesRootRotation(t *testing.T) {
	body := character.NewBody(mgl64.Vec3{}, 0)
	cfg := DefaultConfig()
	cfg.TurnRate = 2
	p := NewProcedural(cfg, body)
	p.SetRootMotion(true)
	p.SetFloat(character.ParamTurn, 0.5, 0, 0)

	p.Advance(0.1)
	if got := body.Yaw(); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("yaw = %v, want 0.1", got)
	}
}

func TestAdvanceIgnoresNonPositiveStep(t *testing.T) {
	p := NewProcedural(DefaultConfig(), character.NewBody(mgl64.Vec3{}, 0))
	p.SetRootMotion(true)
	p.SetFloat(character.ParamForward, 1, 0, 0)
	p.Advance(0.1)
	p.Advance(0)
	if p.DeltaPosition() != (mgl64.Vec3{}) {
		t.Fatalf("zero step should clear delta, got %v", p.DeltaPosition())
	}
}
