package character

import "github.com/go-gl/mathgl/mgl64"

// flatWorld is a horizontal floor with an optional ceiling, infinite in X/Z.
type flatWorld struct {
	ground      *float64
	groundNorm  mgl64.Vec3
	ceiling     *float64
	gravity     mgl64.Vec3
	raycasts    int
	sphereCasts int
}

func newFlatWorld(ground float64) *flatWorld {
	return &flatWorld{
		ground:     &ground,
		groundNorm: mgl64.Vec3{0, 1, 0},
		gravity:    DefaultGravity,
	}
}

func (w *flatWorld) withCeiling(h float64) *flatWorld {
	w.ceiling = &h
	return w
}

func (w *flatWorld) Raycast(origin, dir mgl64.Vec3, maxDistance float64) (Hit, bool) {
	w.raycasts++
	if w.ground == nil || dir.Y() >= 0 || origin.Y() < *w.ground {
		return Hit{}, false
	}
	d := (origin.Y() - *w.ground) / -dir.Y()
	if d > maxDistance {
		return Hit{}, false
	}
	return Hit{Point: origin.Add(dir.Mul(d)), Normal: w.groundNorm, Distance: d}, true
}

func (w *flatWorld) SphereCast(origin, dir mgl64.Vec3, radius, maxDistance float64) (Hit, bool) {
	w.sphereCasts++
	if w.ceiling == nil || dir.Y() <= 0 {
		return Hit{}, false
	}
	d := (*w.ceiling - radius - origin.Y()) / dir.Y()
	if d < 0 || d > maxDistance {
		return Hit{}, false
	}
	return Hit{Point: origin.Add(dir.Mul(d + radius)), Normal: mgl64.Vec3{0, -1, 0}, Distance: d}, true
}

func (w *flatWorld) Gravity() mgl64.Vec3 {
	return w.gravity
}

type recordingAnimator struct {
	floats     map[string]float64
	bools      map[string]bool
	rootMotion bool
	speed      float64
	normalized float64
	delta      mgl64.Vec3
}

func newRecordingAnimator() *recordingAnimator {
	return &recordingAnimator{
		floats: map[string]float64{},
		bools:  map[string]bool{},
		speed:  1,
	}
}

func (a *recordingAnimator) NormalizedTime() float64   { return a.normalized }
func (a *recordingAnimator) DeltaPosition() mgl64.Vec3 { return a.delta }
func (a *recordingAnimator) SetRootMotion(enabled bool) {
	a.rootMotion = enabled
}
func (a *recordingAnimator) SetFloat(name string, value, dampTime, dt float64) {
	a.floats[name] = value
}
func (a *recordingAnimator) SetBool(name string, value bool) { a.bools[name] = value }
func (a *recordingAnimator) SetSpeed(speed float64)          { a.speed = speed }

func standingCapsule() Capsule {
	return Capsule{Height: 1.6, Center: mgl64.Vec3{0, 0.8, 0}, Radius: 0.3}
}

const testStep = 0.02

func newTestController(env Environment, params Parameters) (*Controller, *recordingAnimator) {
	anim := newRecordingAnimator()
	body := NewBody(mgl64.Vec3{}, 0)
	return New(body, standingCapsule(), anim, env, FixedStep(testStep), params), anim
}
