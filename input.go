package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/thirdperson/character"
)

const stickDeadzone = 0.2

// Input polls keyboard and the first gamepad once per tick.
type Input struct {
	Intent character.MotionIntent

	NextCharacter bool
	Release       bool
	Pause         bool
}

// Update reads this tick's state. A/D move along the course, W/S move in
// depth, Shift walks, C or Ctrl crouches and Space jumps.
func (i *Input) Update() {
	var move mgl64.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move[0] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move[0] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move[2] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move[2] -= 1
	}
	crouch := ebiten.IsKeyPressed(ebiten.KeyC) || ebiten.IsKeyPressed(ebiten.KeyControlLeft)
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	walk := ebiten.IsKeyPressed(ebiten.KeyShiftLeft)

	i.NextCharacter = inpututil.IsKeyJustPressed(ebiten.KeyTab)
	i.Release = inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	i.Pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			move = mgl64.Vec3{lx, 0, -ly}
		}
		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		crouch = crouch || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
		i.NextCharacter = i.NextCharacter || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
		i.Pause = i.Pause || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	if walk {
		move = move.Mul(0.5)
	}
	i.Intent = character.MotionIntent{Direction: move, Crouch: crouch, Jump: jump}
}
