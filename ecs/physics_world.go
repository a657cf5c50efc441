package ecs

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/thirdperson/character"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeCharacter
)

const (
	categorySolid uint = 1 << iota
	categoryCharacter
)

var (
	solidFilter = cp.NewShapeFilter(cp.NO_GROUP, categorySolid, cp.ALL_CATEGORIES)
	// characters collide with the level but not with each other
	characterFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryCharacter, categorySolid)
	// environment queries only see level geometry
	queryFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categorySolid)
)

const (
	// projected segments shorter than this never hit anything
	minQueryLength = 1e-9
	// resting penetration the solver leaves alone
	collisionSlop = 0.005
)

// Solid is a static collider outline in the side-view plane, kept for
// drawing and debugging.
type Solid struct {
	Name  string
	Verts []cp.Vector
}

// CharacterBody is the Chipmunk body that carries one character through the
// level. Its shape follows the character's current capsule.
type CharacterBody struct {
	body    *cp.Body
	shape   *cp.Shape
	capsule character.Capsule

	// contact normals from the last step, pointing from the character into
	// the solid it touched
	contacts []cp.Vector
}

// Position returns the body's feet position in the side-view plane.
func (cb *CharacterBody) Position() cp.Vector {
	return cb.body.Position()
}

// Contacts returns the solid contact normals recorded on the last step.
func (cb *CharacterBody) Contacts() []cp.Vector {
	return cb.contacts
}

// PhysicsWorld owns the Chipmunk space holding the static level and the
// character bodies moving through it. The level is a side view: X and Y map
// to the space, and every collider extends uniformly along Z. It implements
// character.Environment.
type PhysicsWorld struct {
	space         *cp.Space
	solids        []Solid
	handlersReady bool

	shapeToCharacter map[*cp.Shape]*CharacterBody
}

var _ character.Environment = (*PhysicsWorld)(nil)

// NewPhysicsWorld creates an empty world with the given gravity. A zero
// gravity vector falls back to character.DefaultGravity.
func NewPhysicsWorld(gravity mgl64.Vec3) *PhysicsWorld {
	if gravity.LenSqr() == 0 {
		gravity = character.DefaultGravity
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: gravity.X(), Y: gravity.Y()})
	space.SetCollisionSlop(collisionSlop)

	pw := &PhysicsWorld{
		space:            space,
		shapeToCharacter: make(map[*cp.Shape]*CharacterBody),
	}
	pw.setupHandlers()
	return pw
}

// Solids returns the outlines added so far.
func (pw *PhysicsWorld) Solids() []Solid {
	if pw == nil {
		return nil
	}
	return pw.solids
}

// AddBox adds an axis-aligned static box with its lower-left corner at
// (minX, minY).
func (pw *PhysicsWorld) AddBox(name string, minX, minY, w, h float64) {
	if pw == nil || pw.space == nil {
		return
	}
	if w <= 0 || h <= 0 {
		log.Printf("physics: skip box %q with size %.2fx%.2f", name, w, h)
		return
	}
	bb := cp.BB{L: minX, B: minY, R: minX + w, T: minY + h}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	pw.addStatic(name, shape, []cp.Vector{
		{X: bb.L, Y: bb.B},
		{X: bb.R, Y: bb.B},
		{X: bb.R, Y: bb.T},
		{X: bb.L, Y: bb.T},
	})
}

// AddPolygon adds a static convex polygon. Chipmunk takes the convex hull of
// verts, so winding does not matter.
func (pw *PhysicsWorld) AddPolygon(name string, verts []cp.Vector) {
	if pw == nil || pw.space == nil {
		return
	}
	if len(verts) < 3 {
		log.Printf("physics: skip polygon %q with %d verts", name, len(verts))
		return
	}
	shape := cp.NewPolyShape(pw.space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
	outline := append([]cp.Vector(nil), verts...)
	pw.addStatic(name, shape, outline)
}

func (pw *PhysicsWorld) addStatic(name string, shape *cp.Shape, outline []cp.Vector) {
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(solidFilter)
	shape.UserData = name
	pw.space.AddShape(shape)
	pw.solids = append(pw.solids, Solid{Name: name, Verts: outline})
}

// AddCharacter creates a dynamic body for a character at body's position.
// Rotation is locked; facing lives on the character body.
func (pw *PhysicsWorld) AddCharacter(body *character.Body, capsule character.Capsule) *CharacterBody {
	if pw == nil || pw.space == nil || body == nil {
		return nil
	}
	mass := body.Mass
	if mass <= 0 {
		mass = 1
	}
	cpBody := cp.NewBody(mass, math.Inf(1))
	cpBody.SetPosition(cp.Vector{X: body.Position.X(), Y: body.Position.Y()})
	cpBody.SetVelocity(body.Velocity.X(), body.Velocity.Y())
	pw.space.AddBody(cpBody)

	cb := &CharacterBody{body: cpBody}
	pw.SetCapsule(cb, capsule)
	return cb
}

// SetCapsule swaps the character's collision shape when the capsule
// changed, e.g. on crouch.
func (pw *PhysicsWorld) SetCapsule(cb *CharacterBody, capsule character.Capsule) {
	if pw == nil || cb == nil {
		return
	}
	if cb.shape != nil && cb.capsule == capsule {
		return
	}
	if cb.shape != nil {
		pw.space.RemoveShape(cb.shape)
		delete(pw.shapeToCharacter, cb.shape)
	}
	shape := capsuleShape(cb.body, capsule)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeCharacter)
	shape.SetFilter(characterFilter)
	pw.space.AddShape(shape)

	cb.shape = shape
	cb.capsule = capsule
	pw.shapeToCharacter[shape] = cb
}

// capsuleShape builds a rounded segment from the lower to the upper sphere
// center, relative to the feet. Capsules shorter than their diameter become
// a circle.
func capsuleShape(body *cp.Body, capsule character.Capsule) *cp.Shape {
	r := math.Max(capsule.Radius, 0.01)
	c := capsule.Center
	half := capsule.Height/2 - r
	if half <= 1e-6 {
		return cp.NewCircle(body, r, cp.Vector{X: c.X(), Y: c.Y()})
	}
	a := cp.Vector{X: c.X(), Y: c.Y() - half}
	b := cp.Vector{X: c.X(), Y: c.Y() + half}
	return cp.NewSegment(body, a, b, r)
}

// RemoveCharacter takes a character body out of the space.
func (pw *PhysicsWorld) RemoveCharacter(cb *CharacterBody) {
	if pw == nil || pw.space == nil || cb == nil {
		return
	}
	if cb.shape != nil {
		pw.space.RemoveShape(cb.shape)
		delete(pw.shapeToCharacter, cb.shape)
		cb.shape = nil
	}
	pw.space.RemoveBody(cb.body)
}

// PushCharacter copies the character's X/Y position and velocity into its
// Chipmunk body and queues force for the next step. Velocity pointing into a
// solid touched on the last step is dropped, so motion written by the
// controller slides along walls and floors instead of sinking into them.
func (pw *PhysicsWorld) PushCharacter(cb *CharacterBody, body *character.Body, force mgl64.Vec3) {
	if cb == nil || body == nil {
		return
	}
	v := cp.Vector{X: body.Velocity.X(), Y: body.Velocity.Y()}
	for _, n := range cb.contacts {
		if into := v.Dot(n); into > 0 {
			v = v.Sub(n.Mult(into))
		}
	}
	cb.body.SetPosition(cp.Vector{X: body.Position.X(), Y: body.Position.Y()})
	cb.body.SetVelocityVector(v)
	cb.body.SetForce(cp.Vector{X: force.X(), Y: force.Y()})
	cb.contacts = cb.contacts[:0]
}

// PullCharacter copies the solved X/Y position and velocity back onto the
// character.
func (pw *PhysicsWorld) PullCharacter(cb *CharacterBody, body *character.Body) {
	if cb == nil || body == nil {
		return
	}
	p, v := cb.body.Position(), cb.body.Velocity()
	body.Position[0], body.Position[1] = p.X, p.Y
	body.Velocity[0], body.Velocity[1] = v.X, v.Y
}

// Step advances the simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	handler := pw.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeSolid)
	handler.UserData = pw
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, _ := arb.Shapes()
		cb, ok := world.shapeToCharacter[shapeA]
		if !ok {
			return true
		}
		cb.contacts = append(cb.contacts, arb.Normal())
		return true
	}

	pw.handlersReady = true
}

// Gravity implements character.Environment.
func (pw *PhysicsWorld) Gravity() mgl64.Vec3 {
	if pw == nil || pw.space == nil {
		return character.DefaultGravity
	}
	g := pw.space.Gravity()
	return mgl64.Vec3{g.X, g.Y, 0}
}

// Raycast implements character.Environment.
func (pw *PhysicsWorld) Raycast(origin, dir mgl64.Vec3, maxDistance float64) (character.Hit, bool) {
	return pw.cast(origin, dir, 0, maxDistance)
}

// SphereCast implements character.Environment. The sphere becomes a circle
// of the same radius in the side-view plane.
func (pw *PhysicsWorld) SphereCast(origin, dir mgl64.Vec3, radius, maxDistance float64) (character.Hit, bool) {
	if radius < 0 {
		radius = 0
	}
	return pw.cast(origin, dir, radius, maxDistance)
}

// cast returns the nearest level hit along the segment. Candidates come
// from the segment's bounds grown by radius, since the space's segment query
// only visits shapes the bare segment touches. Colliders the shape already
// overlaps at the start report alpha 0 and are skipped.
func (pw *PhysicsWorld) cast(origin, dir mgl64.Vec3, radius, maxDistance float64) (character.Hit, bool) {
	if pw == nil || pw.space == nil || maxDistance <= 0 || dir.LenSqr() < 1e-12 {
		return character.Hit{}, false
	}
	dir = dir.Normalize()
	end := origin.Add(dir.Mul(maxDistance))
	a := cp.Vector{X: origin.X(), Y: origin.Y()}
	b := cp.Vector{X: end.X(), Y: end.Y()}
	if a.Distance(b) < minQueryLength {
		return character.Hit{}, false
	}

	bb := cp.NewBBForCircle(a, radius).Merge(cp.NewBBForCircle(b, radius))
	best := cp.SegmentQueryInfo{Alpha: math.Inf(1)}
	pw.space.BBQuery(bb, queryFilter, func(shape *cp.Shape, _ interface{}) {
		var info cp.SegmentQueryInfo
		if !shape.SegmentQuery(a, b, radius, &info) {
			return
		}
		if info.Alpha <= 0 || info.Alpha >= best.Alpha {
			return
		}
		best = info
	}, nil)
	if best.Shape == nil {
		return character.Hit{}, false
	}

	dist := best.Alpha * maxDistance
	return character.Hit{
		Point:    mgl64.Vec3{best.Point.X, best.Point.Y, origin.Z() + dir.Z()*dist},
		Normal:   mgl64.Vec3{best.Normal.X, best.Normal.Y, 0},
		Distance: dist,
	}, true
}
