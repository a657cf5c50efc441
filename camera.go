package main

import "math"

// Camera maps side-view world coordinates (meters, Y up) to screen pixels
// (Y down) and follows a target smoothly.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	// pixels per meter
	scale float64
	// smoothing factor (0..1). higher -> faster follow.
	smooth float64
}

func NewCamera(screenW, screenH int, scale float64) *Camera {
	if scale <= 0 {
		scale = 48
	}
	return &Camera{screenW: screenW, screenH: screenH, scale: scale, smooth: 0.15}
}

func (c *Camera) Scale() float64 {
	return c.scale
}

// SetScale changes pixels per meter, ignoring non-positive values.
func (c *Camera) SetScale(s float64) {
	if s <= 0 {
		return
	}
	c.scale = s
}

// Snap jumps straight to the target.
func (c *Camera) Snap(targetX, targetY float64) {
	c.PosX = targetX
	c.PosY = targetY
}

// Update moves the camera toward the target world coordinate. Call from the
// fixed-rate Update loop to get consistent smoothing.
func (c *Camera) Update(targetX, targetY float64) {
	if c.smooth <= 0 {
		c.Snap(targetX, targetY)
		return
	}
	c.PosX += (targetX - c.PosX) * c.smooth
	c.PosY += (targetY - c.PosY) * c.smooth

	// snap to the pixel grid so static geometry does not shimmer
	c.PosX = math.Round(c.PosX*c.scale) / c.scale
	c.PosY = math.Round(c.PosY*c.scale) / c.scale
}

// ToScreen converts a world point to screen pixels.
func (c *Camera) ToScreen(x, y float64) (float32, float32) {
	sx := (x-c.PosX)*c.scale + float64(c.screenW)/2
	sy := float64(c.screenH)/2 - (y-c.PosY)*c.scale
	return float32(sx), float32(sy)
}

// Length converts a world distance to pixels.
func (c *Camera) Length(d float64) float32 {
	return float32(d * c.scale)
}
