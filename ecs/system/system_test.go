package system

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/animation"
	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const walkRight = `
update := func(engine, state) {
	engine.move(1, 0)
}
`

type testSim struct {
	w       *ecs.World
	scripts *IntentScriptSystem
	physics *PhysicsSystem
	sources map[string]string
	events  []ecs.StateChangedEvent
}

// newTestSim builds a world with a long floor at y=0 plus extra boxes given
// as {x, y, w, h}.
func newTestSim(boxes ...[4]float64) *testSim {
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(mgl64.Vec3{0, -9.81, 0})
	pw.AddBox("floor", -50, -1, 100, 1)
	for i, b := range boxes {
		pw.AddBox(fmt.Sprintf("box%d", i), b[0], b[1], b[2], b[3])
	}
	w.SetPhysicsWorld(pw)

	sim := &testSim{w: w, sources: map[string]string{}}
	sim.scripts = AddCharacterSystems(w)
	for _, sys := range w.Systems() {
		if ps, ok := sys.(*PhysicsSystem); ok {
			sim.physics = ps
		}
	}
	sim.scripts.LoadScript = func(path string) ([]byte, error) {
		src, ok := sim.sources[path]
		if !ok {
			return nil, fmt.Errorf("no script %s", path)
		}
		return []byte(src), nil
	}
	return sim
}

// spawn places a default character facing +X.
func (s *testSim) spawn(t *testing.T, pos mgl64.Vec3, script string) (ecs.Entity, *component.Character) {
	t.Helper()
	body := character.NewBody(pos, math.Pi/2)
	anim := animation.NewProcedural(animation.DefaultConfig(), body)
	capsule := character.Capsule{Height: 1.6, Center: mgl64.Vec3{0, 0.8, 0}, Radius: 0.3}
	ctrl := character.New(body, capsule, anim, s.w.PhysicsWorld(), s.w, character.DefaultParameters())

	ch := &component.Character{Controller: ctrl, Body: body, Animator: anim}
	e := ecs.CreateEntity(s.w)
	if err := ecs.Add(s.w, e, component.CharacterComponent.Kind(), ch); err != nil {
		t.Fatalf("add character: %v", err)
	}
	if script != "" {
		name := fmt.Sprintf("test_%d.tengo", len(s.sources))
		s.sources[name] = script
		if err := ecs.Add(s.w, e, component.IntentScriptComponent.Kind(), &component.IntentScript{Script: name}); err != nil {
			t.Fatalf("add script: %v", err)
		}
	}
	return e, ch
}

func (s *testSim) step(n int) {
	for i := 0; i < n; i++ {
		s.w.Update()
		s.events = append(s.events, s.w.Events().Drain()...)
	}
}

// stepUntil steps until done reports true, at most max times.
func (s *testSim) stepUntil(max int, done func() bool) bool {
	for i := 0; i < max; i++ {
		if done() {
			return true
		}
		s.step(1)
	}
	return done()
}

func TestCharacterLandsOnFloor(t *testing.T) {
	sim := newTestSim()
	e, ch := sim.spawn(t, mgl64.Vec3{0, 0.5, 0}, "")

	sim.step(60)

	if !ch.Controller.Grounded() {
		t.Fatalf("expected grounded after falling, state=%v pos=%v", ch.Controller.State(), ch.Body.Position)
	}
	if math.Abs(ch.Body.Position.Y()) > 0.01 {
		t.Fatalf("expected feet on the floor, got y=%v", ch.Body.Position.Y())
	}
	if math.Abs(ch.Body.Position.X()) > 1e-4 {
		t.Fatalf("idle character should not drift, got x=%v", ch.Body.Position.X())
	}
	if len(sim.events) != 1 {
		t.Fatalf("expected one state change, got %+v", sim.events)
	}
	evt := sim.events[0]
	if evt.Entity != e || evt.From != character.Airborne || evt.To != character.StandingGrounded {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestScriptedWalk(t *testing.T) {
	sim := newTestSim()
	_, ch := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, walkRight)

	sim.step(120)

	if ch.Controller.State() != character.StandingGrounded {
		t.Fatalf("expected standing, got %v", ch.Controller.State())
	}
	if x := ch.Body.Position.X(); x < 1 {
		t.Fatalf("expected to walk along +x, got x=%v", x)
	}
	if z := ch.Body.Position.Z(); math.Abs(z) > 1e-6 {
		t.Fatalf("expected no sideways drift, got z=%v", z)
	}
	if f := ch.Controller.ForwardAmount(); math.Abs(f-1) > 1e-6 {
		t.Fatalf("expected full forward amount, got %v", f)
	}
}

func TestWallStopsCharacter(t *testing.T) {
	sim := newTestSim([4]float64{3, 0, 1, 3})
	_, ch := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, walkRight)

	sim.step(300)

	// capsule radius 0.3 plus the solver's resting slop
	if x := ch.Body.Position.X(); x > 3-0.3+0.02 {
		t.Fatalf("expected to stop before the wall, got x=%v", x)
	}
	if x := ch.Body.Position.X(); x < 2 {
		t.Fatalf("expected to reach the wall, got x=%v", x)
	}
	if !ch.Controller.Grounded() {
		t.Fatalf("expected to stay grounded against the wall")
	}
}

func TestLowTunnelForcesCrouch(t *testing.T) {
	// roof from x=3 to x=8, 1.1 above the floor
	sim := newTestSim([4]float64{3, 1.1, 5, 2})
	_, ch := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, `
update := func(engine, state) {
	x := engine.position()[0]
	if x < 10 {
		engine.move(1, 0)
	}
	if x < 5 {
		engine.crouch()
	}
}
`)

	if !sim.stepUntil(1000, func() bool { return ch.Body.Position.X() > 6 }) {
		t.Fatalf("never reached the middle of the tunnel, x=%v", ch.Body.Position.X())
	}
	if !ch.Controller.Crouching() || ch.Controller.State() != character.CrouchedGrounded {
		t.Fatalf("expected to stay crouched under the roof, state=%v", ch.Controller.State())
	}
	if h := ch.Controller.Capsule().Height; math.Abs(h-0.8) > 1e-9 {
		t.Fatalf("expected half height capsule, got %v", h)
	}

	if !sim.stepUntil(1000, func() bool { return ch.Body.Position.X() > 9 }) {
		t.Fatalf("never left the tunnel, x=%v", ch.Body.Position.X())
	}
	if ch.Controller.Crouching() || ch.Controller.State() != character.StandingGrounded {
		t.Fatalf("expected to stand up in the open, state=%v", ch.Controller.State())
	}
}

func TestScriptedJump(t *testing.T) {
	sim := newTestSim()
	_, ch := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, `
update := func(engine, state) {
	if engine.tick() == 30 && engine.grounded() {
		engine.jump()
	}
}
`)

	apex := 0.0
	for i := 0; i < 200; i++ {
		sim.step(1)
		apex = math.Max(apex, ch.Body.Position.Y())
	}

	if apex < 1 {
		t.Fatalf("expected a real jump, apex=%v", apex)
	}
	if !ch.Controller.Grounded() {
		t.Fatalf("expected to land again, state=%v", ch.Controller.State())
	}

	var takeoff, landing bool
	for _, evt := range sim.events {
		if evt.From == character.StandingGrounded && evt.To == character.Airborne {
			takeoff = evt.Tick == 30
		}
		if takeoff && evt.From == character.Airborne && evt.To == character.StandingGrounded {
			landing = true
		}
	}
	if !takeoff || !landing {
		t.Fatalf("expected takeoff at tick 30 and a landing, got %+v", sim.events)
	}
}

func TestBrokenScriptLeavesCharacterIdle(t *testing.T) {
	sim := newTestSim()
	e, ch := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, `x := 1`)

	sim.step(30)
	intent, ok := ecs.Get(sim.w, e, component.IntentComponent.Kind())
	if !ok {
		t.Fatalf("expected an intent to be attached")
	}
	if intent.Direction != (mgl64.Vec3{}) {
		t.Fatalf("expected idle intent, got %+v", intent.MotionIntent)
	}

	script, _ := ecs.Get(sim.w, e, component.IntentScriptComponent.Kind())
	sim.sources[script.Script] = walkRight
	sim.scripts.Invalidate(script.Script)
	sim.step(60)

	if x := ch.Body.Position.X(); x < 0.1 {
		t.Fatalf("expected the fixed script to walk, got x=%v", x)
	}
}

func TestScriptStatePersists(t *testing.T) {
	sim := newTestSim()
	e, _ := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, `
update := func(engine, state) {
	if is_undefined(state.count) {
		state.count = 0
	}
	state.count += 1
	if state.count > 5 {
		engine.move(0, 1)
		engine.crouch(true)
	}
}
`)

	sim.step(5)
	intent, _ := ecs.Get(sim.w, e, component.IntentComponent.Kind())
	if intent.Direction != (mgl64.Vec3{}) || intent.Crouch {
		t.Fatalf("expected idle for the first ticks, got %+v", intent.MotionIntent)
	}
	sim.step(1)
	if intent.Direction != (mgl64.Vec3{0, 0, 1}) || !intent.Crouch || intent.Jump {
		t.Fatalf("expected scripted intent, got %+v", intent.MotionIntent)
	}
}

func TestDisabledScriptKeepsIntent(t *testing.T) {
	sim := newTestSim()
	e, _ := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, walkRight)
	script, _ := ecs.Get(sim.w, e, component.IntentScriptComponent.Kind())
	script.Disabled = true

	manual := &component.Intent{MotionIntent: character.MotionIntent{Direction: mgl64.Vec3{0, 0, -1}}}
	if err := ecs.Add(sim.w, e, component.IntentComponent.Kind(), manual); err != nil {
		t.Fatal(err)
	}
	sim.step(3)
	if manual.Direction != (mgl64.Vec3{0, 0, -1}) {
		t.Fatalf("expected manual intent to survive, got %+v", manual.MotionIntent)
	}
}

func TestPhysicsSkipsZeroStep(t *testing.T) {
	sim := newTestSim()
	_, ch := sim.spawn(t, mgl64.Vec3{0, 2, 0}, "")
	sim.w.SetStep(0)

	sim.step(10)

	if y := ch.Body.Position.Y(); y != 2 {
		t.Fatalf("expected no integration with a zero step, got y=%v", y)
	}
}

func TestLandAndJumpInOneStep(t *testing.T) {
	sim := newTestSim()
	e, _ := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, `
update := func(engine, state) {
	engine.jump()
}
`)

	sim.step(1)

	want := []ecs.StateChangedEvent{
		{Entity: e, From: character.Airborne, To: character.StandingGrounded},
		{Entity: e, From: character.StandingGrounded, To: character.Airborne},
	}
	if len(sim.events) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), sim.events)
	}
	for i, evt := range sim.events {
		if evt.Entity != want[i].Entity || evt.From != want[i].From || evt.To != want[i].To {
			t.Fatalf("event %d: expected %+v, got %+v", i, want[i], evt)
		}
		if evt.Tick != sim.events[0].Tick {
			t.Fatalf("expected both transitions on one tick, got %+v", sim.events)
		}
	}
}

func TestWalkInDepth(t *testing.T) {
	sim := newTestSim()
	_, ch := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, `
update := func(engine, state) {
	engine.move(0, 1)
}
`)

	sim.step(180)

	if z := ch.Body.Position.Z(); z < 1 {
		t.Fatalf("expected to walk along +z, got z=%v", z)
	}
	if y := ch.Body.Position.Y(); math.Abs(y) > 0.01 {
		t.Fatalf("expected to stay on the floor, got y=%v", y)
	}
	if !ch.Controller.Grounded() {
		t.Fatalf("expected grounded, state=%v", ch.Controller.State())
	}
}

func TestPhysicsReleasesDestroyedCharacters(t *testing.T) {
	sim := newTestSim()
	e, _ := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, "")
	sim.step(1)
	if _, ok := sim.physics.Body(e); !ok {
		t.Fatalf("expected a body after the first step")
	}

	ecs.DestroyEntity(sim.w, e)
	sim.step(1)
	if _, ok := sim.physics.Body(e); ok {
		t.Fatalf("expected the body to be released")
	}
}

func TestCrouchShrinksBody(t *testing.T) {
	sim := newTestSim()
	e, ch := sim.spawn(t, mgl64.Vec3{0, 0.05, 0}, `
update := func(engine, state) {
	engine.crouch()
}
`)

	sim.step(10)

	if !ch.Controller.Crouching() {
		t.Fatalf("expected to crouch, state=%v", ch.Controller.State())
	}
	cb, ok := sim.physics.Body(e)
	if !ok {
		t.Fatalf("expected a body")
	}
	// a 0.8 tall crouch capsule stands on the floor in the space too
	if y := cb.Position().Y; math.Abs(y) > 0.01 {
		t.Fatalf("expected the body on the floor, got y=%v", y)
	}
}

func TestFreeFallWithoutLevel(t *testing.T) {
	w := ecs.NewWorld()
	AddCharacterSystems(w)
	body := character.NewBody(mgl64.Vec3{0, 10, 0}, 0)
	ctrl := character.New(body, character.Capsule{Height: 1.6, Center: mgl64.Vec3{0, 0.8, 0}, Radius: 0.3}, nil, nil, w, character.DefaultParameters())
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{Controller: ctrl, Body: body}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 30; i++ {
		w.Update()
	}

	if ctrl.Grounded() {
		t.Fatalf("nothing to stand on")
	}
	if y := body.Position.Y(); y >= 10 {
		t.Fatalf("expected to fall, got y=%v", y)
	}
	if body.Velocity.Y() >= 0 {
		t.Fatalf("expected downward velocity, got %v", body.Velocity)
	}
}
