package component

import "github.com/milk9111/thirdperson/character"

// Intent stores the motion request for the current tick. Whoever drives the
// character overwrites it every tick.
type Intent struct {
	character.MotionIntent
}

var IntentComponent = NewComponent[Intent]()
