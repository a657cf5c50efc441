package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const helpText = "A/D move  W/S depth  Shift walk  C crouch  Space jump  Tab take control  Backspace release  Esc pause"

func stateColor(s character.State) color.RGBA {
	switch s {
	case character.StandingGrounded:
		return colornames.Mediumseagreen
	case character.CrouchedGrounded:
		return colornames.Goldenrod
	default:
		return colornames.Crimson
	}
}

func drawWorld(screen *ebiten.Image, g *Game) {
	screen.Fill(colornames.Midnightblue)

	if pw := g.world.PhysicsWorld(); pw != nil {
		for _, solid := range pw.Solids() {
			n := len(solid.Verts)
			for i := range n {
				a, b := solid.Verts[i], solid.Verts[(i+1)%n]
				x1, y1 := g.camera.ToScreen(a.X, a.Y)
				x2, y2 := g.camera.ToScreen(b.X, b.Y)
				vector.StrokeLine(screen, x1, y1, x2, y2, 2, colornames.Lightgrey, true)
			}
		}
	}

	for i, e := range g.chars {
		ch, ok := ecs.Get(g.world, e, component.CharacterComponent.Kind())
		if !ok {
			continue
		}
		drawCharacter(screen, g, ch, i == g.driven)
	}
}

func drawCharacter(screen *ebiten.Image, g *Game, ch *component.Character, driven bool) {
	body := ch.Body
	capsule := ch.Controller.Capsule()
	pos := body.Position

	left := pos.X() + capsule.Center.X() - capsule.Radius
	top := pos.Y() + capsule.Top()
	x, y := g.camera.ToScreen(left, top)
	w := g.camera.Length(capsule.Radius * 2)
	h := g.camera.Length(capsule.Height)

	c := stateColor(ch.Controller.State())
	fill := c
	fill.A = 96
	vector.FillRect(screen, x, y, w, h, fill, false)
	vector.StrokeRect(screen, x, y, w, h, 2, c, false)
	if driven {
		vector.StrokeRect(screen, x-3, y-3, w+6, h+6, 1, colornames.White, false)
	}

	// facing, projected onto the side-view plane
	chest := pos.Y() + capsule.Center.Y()
	fx, fy := g.camera.ToScreen(pos.X(), chest)
	fwd := body.Forward()
	tx, _ := g.camera.ToScreen(pos.X()+fwd.X()*capsule.Radius*2, chest)
	vector.StrokeLine(screen, fx, fy, tx, fy, 2, colornames.White, true)

	if g.debug {
		gx, gy := g.camera.ToScreen(pos.X(), pos.Y()+0.1)
		ex, ey := g.camera.ToScreen(pos.X(), pos.Y()+0.1-ch.Controller.GroundCheckDistance())
		vector.StrokeLine(screen, gx, gy, ex, ey, 1, colornames.Yellow, false)
	}
}

func drawHUD(screen *ebiten.Image, g *Game) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "level %s  tick %d  TPS %0.1f\n", g.levelName, g.world.Tick(), ebiten.ActualTPS())
	for i, e := range g.chars {
		ch, ok := ecs.Get(g.world, e, component.CharacterComponent.Kind())
		if !ok {
			continue
		}
		marker := " "
		if i == g.driven {
			marker = ">"
		}
		out := ch.Controller.Output()
		p := ch.Body.Position
		fmt.Fprintf(&sb, "%s %-8s %-8s pos (%5.2f, %5.2f, %5.2f)  fwd %4.2f  turn %5.2f  leg %5.2f\n",
			marker, g.nameOf(e), ch.Controller.State(), p.X(), p.Y(), p.Z(), out.Forward, out.Turn, out.JumpLeg)
	}
	if len(g.recent) > 0 {
		sb.WriteString("\nrecent:\n")
		for _, line := range g.recent {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	ebitenutil.DebugPrint(screen, sb.String())
	ebitenutil.DebugPrintAt(screen, helpText, 10, baseHeight-20)
}
