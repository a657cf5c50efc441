package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// PhysicsSystem moves character bodies. In the side-view plane each
// character rides a Chipmunk body stepped with the world's space; depth (Z)
// has no geometry and is integrated directly. Without a physics world
// bodies fall freely.
type PhysicsSystem struct {
	world  *ecs.PhysicsWorld
	bodies map[ecs.Entity]*ecs.CharacterBody
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{bodies: make(map[ecs.Entity]*ecs.CharacterBody)}
}

// Body returns the Chipmunk body carrying e, if one was created.
func (p *PhysicsSystem) Body(e ecs.Entity) (*ecs.CharacterBody, bool) {
	cb, ok := p.bodies[e]
	return cb, ok
}

func (p *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}

	pw := w.PhysicsWorld()
	if pw != p.world {
		// a new level brings a new space
		p.world = pw
		clear(p.bodies)
	}
	p.cleanupEntities(w)

	if pw == nil {
		ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
			if ch.Body != nil {
				fall(ch.Body, character.DefaultGravity, dt)
			}
		})
		return
	}

	p.syncEntities(w, dt)
	pw.Step(dt)
	p.syncBodies(w)
}

func (p *PhysicsSystem) syncEntities(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if ch.Body == nil || ch.Controller == nil {
			return
		}
		cb := p.bodies[e]
		if cb == nil {
			cb = p.world.AddCharacter(ch.Body, ch.Controller.Capsule())
			if cb == nil {
				return
			}
			p.bodies[e] = cb
		}
		p.world.SetCapsule(cb, ch.Controller.Capsule())

		force := ch.Body.TakeForce()
		mass := ch.Body.Mass
		if mass <= 0 {
			mass = 1
		}
		ch.Body.Position[2] += ch.Body.Velocity.Z() * dt
		ch.Body.Velocity[2] += force.Z() / mass * dt

		p.world.PushCharacter(cb, ch.Body, force)
	})
}

func (p *PhysicsSystem) syncBodies(w *ecs.World) {
	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if cb, ok := p.bodies[e]; ok {
			p.world.PullCharacter(cb, ch.Body)
		}
	})
}

func (p *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, cb := range p.bodies {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.CharacterComponent.Kind()) {
			continue
		}
		p.world.RemoveCharacter(cb)
		delete(p.bodies, e)
	}
}

// fall integrates a body with no level to collide against.
func fall(body *character.Body, gravity mgl64.Vec3, dt float64) {
	mass := body.Mass
	if mass <= 0 {
		mass = 1
	}
	accel := gravity.Add(body.TakeForce().Mul(1 / mass))
	body.Position = body.Position.Add(body.Velocity.Mul(dt))
	body.Velocity = body.Velocity.Add(accel.Mul(dt))
}
