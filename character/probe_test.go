package character

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestProbeCheckGround(t *testing.T) {
	cases := []struct {
		name     string
		env      Environment
		height   float64
		distance float64
		grounded bool
	}{
		{"on_floor", newFlatWorld(0), 0, 0.2, true},
		{"just_above_floor", newFlatWorld(0), 0.05, 0.2, true},
		{"too_high", newFlatWorld(0), 0.5, 0.2, false},
		{"short_ray_while_rising", newFlatWorld(0), 0.05, 0.01, false},
		{"no_environment", nil, 0, 0.2, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := NewBody(mgl64.Vec3{0, c.height, 0}, 0)
			p := NewProbe(body, standingCapsule(), c.env)
			got := p.CheckGround(c.distance)
			if got.Grounded != c.grounded {
				t.Fatalf("grounded = %v, want %v", got.Grounded, c.grounded)
			}
			if !got.Grounded && got.Normal != (mgl64.Vec3{0, 1, 0}) {
				t.Fatalf("airborne normal = %v, want world up", got.Normal)
			}
		})
	}
}

func TestProbeReportsSurfaceNormal(t *testing.T) {
	w := newFlatWorld(0)
	w.groundNorm = mgl64.Vec3{0, 2, -2}
	p := NewProbe(NewBody(mgl64.Vec3{}, 0), standingCapsule(), w)
	got := p.CheckGround(0.2)
	if !got.Normal.ApproxEqual(mgl64.Vec3{0, 2, -2}.Normalize()) {
		t.Fatalf("normal = %v", got.Normal)
	}
}

func TestProbeCrouchIsIdempotent(t *testing.T) {
	p := NewProbe(NewBody(mgl64.Vec3{}, 0), standingCapsule(), newFlatWorld(0))

	first := p.ResolveCrouchShape(true, true)
	second := p.ResolveCrouchShape(true, true)

	if first.Height != 0.8 {
		t.Fatalf("crouched height = %v, want 0.8", first.Height)
	}
	if second.Height != first.Height || second.Center != first.Center {
		t.Fatalf("second crouch changed shape: %+v -> %+v", first, second)
	}
	if !p.Crouched() {
		t.Fatalf("probe should be crouched")
	}
}

func TestProbeCrouchRequiresGround(t *testing.T) {
	p := NewProbe(NewBody(mgl64.Vec3{0, 2, 0}, 0), standingCapsule(), newFlatWorld(0))
	got := p.ResolveCrouchShape(true, false)
	if p.Crouched() || got.Height != 1.6 {
		t.Fatalf("airborne crouch request should keep standing shape, got %+v", got)
	}
}

func TestProbeHeadroomBlocksStanding(t *testing.T) {
	w := newFlatWorld(0).withCeiling(1.2)
	p := NewProbe(NewBody(mgl64.Vec3{}, 0), standingCapsule(), w)

	p.ResolveCrouchShape(true, true)
	got := p.ResolveCrouchShape(false, true)
	if !p.Crouched() || got.Height != 0.8 {
		t.Fatalf("standing under a 1.2 ceiling should stay crouched, got %+v", got)
	}
}

func TestProbeHeadroomForcesCrouchWithoutRequest(t *testing.T) {
	w := newFlatWorld(0).withCeiling(1.2)
	p := NewProbe(NewBody(mgl64.Vec3{}, 0), standingCapsule(), w)

	got := p.ResolveCrouchShape(false, true)
	if !p.Crouched() {
		t.Fatalf("low headroom should force crouch")
	}
	if got.Height != 0.8 || got.Center != (mgl64.Vec3{0, 0.4, 0}) {
		t.Fatalf("forced crouch shape = %+v", got)
	}
}

func TestProbeStandsWhenClear(t *testing.T) {
	w := newFlatWorld(0).withCeiling(3)
	p := NewProbe(NewBody(mgl64.Vec3{}, 0), standingCapsule(), w)

	p.ResolveCrouchShape(true, true)
	got := p.ResolveCrouchShape(false, true)
	if p.Crouched() {
		t.Fatalf("clear headroom should restore standing")
	}
	if got != standingCapsule() {
		t.Fatalf("standing shape = %+v, want %+v", got, standingCapsule())
	}
}

func TestProbeWithoutEnvironmentStands(t *testing.T) {
	p := NewProbe(NewBody(mgl64.Vec3{}, 0), standingCapsule(), nil)
	if p.HeadroomBlocked() {
		t.Fatalf("nil environment should never block headroom")
	}
	p.ResolveCrouchShape(true, true)
	p.ResolveCrouchShape(false, true)
	if p.Crouched() {
		t.Fatalf("nil environment should allow standing")
	}
}
