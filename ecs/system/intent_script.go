package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

// A driver script defines update(engine, state). state is a map that
// persists between ticks; engine exposes the character and collects the
// intent for this tick.
const intentDispatchScript = `
if __phase == "update" {
	update(__engine, __state)
}
`

type intentScriptRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
	stateData  *tengo.Map
	err        error
}

// IntentScriptSystem produces each scripted character's MotionIntent by
// running its tengo driver once per tick.
type IntentScriptSystem struct {
	// LoadScript defaults to prefabs.LoadScript.
	LoadScript func(path string) ([]byte, error)

	cache map[ecs.Entity]*intentScriptRuntime
}

func NewIntentScriptSystem() *IntentScriptSystem {
	return &IntentScriptSystem{
		LoadScript: prefabs.LoadScript,
		cache:      map[ecs.Entity]*intentScriptRuntime{},
	}
}

// Invalidate drops compiled runtimes for script so the next tick recompiles
// it. Script state is reset.
func (s *IntentScriptSystem) Invalidate(script string) {
	if s == nil {
		return
	}
	name := prefabs.ScriptName(script)
	for e, rt := range s.cache {
		if rt == nil || prefabs.ScriptName(rt.scriptPath) == name {
			delete(s.cache, e)
		}
	}
}

func (s *IntentScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if s.cache == nil {
		s.cache = map[ecs.Entity]*intentScriptRuntime{}
	}
	for e := range s.cache {
		if !ecs.IsAlive(w, e) {
			delete(s.cache, e)
		}
	}

	ecs.ForEach2(w, component.IntentScriptComponent.Kind(), component.CharacterComponent.Kind(), func(e ecs.Entity, script *component.IntentScript, ch *component.Character) {
		if script.Disabled || strings.TrimSpace(script.Script) == "" {
			return
		}
		intent, ok := ecs.Get(w, e, component.IntentComponent.Kind())
		if !ok {
			intent = &component.Intent{}
			if err := ecs.Add(w, e, component.IntentComponent.Kind(), intent); err != nil {
				return
			}
		}
		// a failing script leaves the character idle
		intent.MotionIntent = character.MotionIntent{}

		rt := s.runtime(e, script.Script)
		if rt.err != nil {
			return
		}
		engine := buildIntentEngine(w, ch, &intent.MotionIntent)
		if err := rt.run("update", engine); err != nil {
			log.Printf("intent: entity=%v script %s update error: %v", e, rt.scriptPath, err)
			rt.err = err
		}
	})
}

func (s *IntentScriptSystem) runtime(e ecs.Entity, path string) *intentScriptRuntime {
	if rt, ok := s.cache[e]; ok && rt != nil && rt.scriptPath == path {
		return rt
	}
	rt, err := s.compile(path)
	if err != nil {
		log.Printf("intent: entity=%v load script %s error: %v", e, path, err)
		rt = &intentScriptRuntime{scriptPath: path, err: err}
	}
	s.cache[e] = rt
	return rt
}

func (s *IntentScriptSystem) compile(path string) (*intentScriptRuntime, error) {
	load := s.LoadScript
	if load == nil {
		load = prefabs.LoadScript
	}
	scriptBytes, err := load(path)
	if err != nil {
		return nil, err
	}

	src := string(scriptBytes) + "\n" + intentDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	rt := &intentScriptRuntime{
		scriptPath: path,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
	}
	// run top-level declarations once
	if err := rt.run("noop", nil); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *intentScriptRuntime) run(phase string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildIntentEngine(w *ecs.World, ch *component.Character, out *character.MotionIntent) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	// move(x, z) sets the world-space direction; move(x, y, z) is also
	// accepted.
	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var dir mgl64.Vec3
		switch len(args) {
		case 2:
			dir[0] = objectAsFloat(args[0])
			dir[2] = objectAsFloat(args[1])
		case 3:
			dir[0] = objectAsFloat(args[0])
			dir[1] = objectAsFloat(args[1])
			dir[2] = objectAsFloat(args[2])
		default:
			return nil, tengo.ErrWrongNumArguments
		}
		out.Direction = dir
		return tengo.UndefinedValue, nil
	}}

	values["crouch"] = &tengo.UserFunction{Name: "crouch", Value: func(args ...tengo.Object) (tengo.Object, error) {
		out.Crouch = len(args) == 0 || !args[0].IsFalsy()
		return tengo.UndefinedValue, nil
	}}

	values["jump"] = &tengo.UserFunction{Name: "jump", Value: func(args ...tengo.Object) (tengo.Object, error) {
		out.Jump = len(args) == 0 || !args[0].IsFalsy()
		return tengo.UndefinedValue, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil || ch.Body == nil {
			return vecObject(mgl64.Vec3{}), nil
		}
		return vecObject(ch.Body.Position), nil
	}}

	values["velocity"] = &tengo.UserFunction{Name: "velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil || ch.Body == nil {
			return vecObject(mgl64.Vec3{}), nil
		}
		return vecObject(ch.Body.Velocity), nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil || ch.Controller == nil {
			return &tengo.String{Value: character.Airborne.String()}, nil
		}
		return &tengo.String{Value: ch.Controller.State().String()}, nil
	}}

	values["grounded"] = &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ch != nil && ch.Controller != nil && ch.Controller.Grounded()), nil
	}}

	values["crouching"] = &tengo.UserFunction{Name: "crouching", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ch != nil && ch.Controller != nil && ch.Controller.Crouching()), nil
	}}

	values["headroom_blocked"] = &tengo.UserFunction{Name: "headroom_blocked", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ch != nil && ch.Controller != nil && ch.Controller.Probe().HeadroomBlocked()), nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(w.Tick())}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vecObject(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsFloat(obj tengo.Object) float64 {
	if obj == nil {
		return 0
	}
	f, _ := tengo.ToFloat64(obj)
	return f
}
