package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
	"github.com/milk9111/thirdperson/ecs/system"
	"github.com/milk9111/thirdperson/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	maxRecentEvents = 6
)

type Game struct {
	levelName string
	debug     bool

	world   *ecs.World
	scripts *system.IntentScriptSystem
	level   *prefabs.LevelSpec
	chars   []ecs.Entity
	// index into chars of the keyboard-driven character, -1 when every
	// character follows its script
	driven int

	camera  *Camera
	input   *Input
	watcher *prefabs.Watcher
	recent  []string

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
}

func NewGame(levelName string, debug, watch bool, scale float64) (*Game, error) {
	g := &Game{
		levelName: levelName,
		debug:     debug,
		driven:    -1,
		camera:    NewCamera(baseWidth, baseHeight, scale),
		input:     &Input{},
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("game: prefab hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load rebuilds the world from the level prefab.
func (g *Game) load() error {
	world := ecs.NewWorld()
	world.SetStep(1.0 / float64(ebiten.DefaultTPS))
	scripts := system.AddCharacterSystems(world)

	level, chars, err := entity.LoadLevel(world, g.levelName)
	if err != nil {
		return err
	}
	if g.debug {
		for _, e := range chars {
			if ch, ok := ecs.Get(world, e, component.CharacterComponent.Kind()); ok {
				ch.Controller.Debug = true
			}
		}
	}

	g.world, g.scripts, g.level, g.chars = world, scripts, level, chars
	g.driven = -1
	g.recent = nil
	if target, ok := g.focus(); ok {
		g.camera.Snap(target.Body.Position.X(), target.Body.Position.Y()+1)
	}
	return nil
}

// Reload rebuilds the level. A broken prefab keeps the old world running.
func (g *Game) Reload() {
	if err := g.load(); err != nil {
		log.Printf("game: reload %s: %v", g.levelName, err)
		return
	}
	log.Printf("game: reloaded %s", g.levelName)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	g.input.Update()
	if g.input.Pause {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollWatcher()
	g.handleDriving()

	g.world.Update()
	for _, evt := range g.world.Events().Drain() {
		g.pushRecent(fmt.Sprintf("%6d %-8s %s -> %s", evt.Tick, g.nameOf(evt.Entity), evt.From, evt.To))
	}

	if target, ok := g.focus(); ok {
		g.camera.Update(target.Body.Position.X(), target.Body.Position.Y()+1)
	}
	return nil
}

func (g *Game) handleDriving() {
	if len(g.chars) == 0 {
		return
	}
	if g.input.NextCharacter {
		g.setDriven((g.driven+2)%(len(g.chars)+1) - 1)
	}
	if g.input.Release {
		g.setDriven(-1)
	}
	if g.driven < 0 {
		return
	}
	e := g.chars[g.driven]
	if intent, ok := ecs.Get(g.world, e, component.IntentComponent.Kind()); ok {
		intent.MotionIntent = g.input.Intent
	}
}

// setDriven hands character i to the keyboard; -1 gives every character
// back to its script.
func (g *Game) setDriven(i int) {
	if g.driven >= 0 && g.driven < len(g.chars) && g.driven != i {
		if intent, ok := ecs.Get(g.world, g.chars[g.driven], component.IntentComponent.Kind()); ok {
			intent.MotionIntent = character.MotionIntent{}
		}
	}
	for idx, e := range g.chars {
		if script, ok := ecs.Get(g.world, e, component.IntentScriptComponent.Kind()); ok {
			script.Disabled = idx == i
		}
	}
	g.driven = i
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("game: watcher: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ScriptChanged:
		log.Printf("game: script %s changed", change.Name)
		g.scripts.Invalidate(change.Name)
	case prefabs.SpecChanged:
		if change.Name == filepath.Base(g.levelName) {
			g.Reload()
			return
		}
		for i, e := range g.chars {
			ch, ok := ecs.Get(g.world, e, component.CharacterComponent.Kind())
			if !ok || filepath.Base(ch.Spec) != change.Name {
				continue
			}
			g.rebuildCharacter(i, ch)
		}
	}
}

// rebuildCharacter swaps in a controller built from the edited prefab at
// the old body's pose.
func (g *Game) rebuildCharacter(i int, old *component.Character) {
	pos, rot := old.Body.Position, old.Body.Rotation
	e, err := entity.NewCharacter(g.world, old.Spec, g.level)
	if err != nil {
		log.Printf("game: rebuild %s: %v", old.Spec, err)
		return
	}
	ch, _ := ecs.Get(g.world, e, component.CharacterComponent.Kind())
	ch.Body.Position, ch.Body.Rotation = pos, rot
	ch.Controller.Debug = g.debug

	ecs.DestroyEntity(g.world, g.chars[i])
	g.chars[i] = e
	g.setDriven(g.driven)
	log.Printf("game: rebuilt %s", old.Spec)
}

func (g *Game) focus() (*component.Character, bool) {
	if len(g.chars) == 0 {
		return nil, false
	}
	e := g.chars[0]
	if g.driven >= 0 {
		e = g.chars[g.driven]
	}
	return ecs.Get(g.world, e, component.CharacterComponent.Kind())
}

func (g *Game) nameOf(e ecs.Entity) string {
	if n, ok := ecs.Get(g.world, e, component.NameComponent.Kind()); ok && n.Value != "" {
		return n.Value
	}
	return e.String()
}

func (g *Game) pushRecent(line string) {
	if g.debug {
		log.Printf("game: %s", line)
	}
	g.recent = append(g.recent, line)
	if len(g.recent) > maxRecentEvents {
		g.recent = g.recent[len(g.recent)-maxRecentEvents:]
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g)
	drawHUD(screen, g)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
