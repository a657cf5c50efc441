package main

import (
	"flag"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
	"github.com/milk9111/thirdperson/ecs/system"
)

func main() {
	levelName := flag.String("level", "course.yaml", "level prefab (embedded name or path under prefabs/)")
	ticks := flag.Int("ticks", 1200, "number of fixed steps to simulate")
	hz := flag.Float64("hz", 60, "simulation rate in steps per second")
	every := flag.Int("every", 60, "log a summary every N steps (0 disables)")
	debug := flag.Bool("debug", false, "log controller transitions as they happen")
	flag.Parse()

	if *hz <= 0 {
		log.Fatalf("locosim: -hz must be positive, got %v", *hz)
	}

	w := ecs.NewWorld()
	w.SetStep(1 / *hz)
	system.AddCharacterSystems(w)

	level, ents, err := entity.LoadLevel(w, *levelName)
	if err != nil {
		log.Fatalf("locosim: %v", err)
	}
	names := make(map[ecs.Entity]string, len(ents))
	for _, e := range ents {
		names[e] = characterName(w, e)
		if ch, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok && *debug {
			ch.Controller.Debug = true
		}
	}
	log.Printf("locosim: level %q, %d characters, %d steps at %.0f Hz", level.Name, len(ents), *ticks, *hz)

	transitions := 0
	for i := 0; i < *ticks; i++ {
		w.Update()
		for _, evt := range w.Events().Drain() {
			transitions++
			log.Printf("locosim: tick=%d %s %s -> %s", evt.Tick, names[evt.Entity], evt.From, evt.To)
		}
		if *every > 0 && (i+1)%*every == 0 {
			summarize(w, ents, names)
		}
	}
	log.Printf("locosim: done after %d steps, %d state changes", *ticks, transitions)
}

func summarize(w *ecs.World, ents []ecs.Entity, names map[ecs.Entity]string) {
	for _, e := range ents {
		ch, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
		if !ok {
			continue
		}
		p := ch.Body.Position
		out := ch.Controller.Output()
		log.Printf("locosim: tick=%d %-8s %-9s pos=(%6.2f %5.2f %5.2f) yaw=%6.1f fwd=%.2f turn=%.2f capsule=%.2f",
			w.Tick(), names[e], ch.Controller.State(), p.X(), p.Y(), p.Z(),
			mgl64.RadToDeg(ch.Body.Yaw()), out.Forward, out.Turn, ch.Controller.Capsule().Height)
	}
}

func characterName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n.Value != "" {
		return n.Value
	}
	return e.String()
}
