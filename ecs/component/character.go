package component

import (
	"github.com/milk9111/thirdperson/animation"
	"github.com/milk9111/thirdperson/character"
)

// Character bundles one locomotion controller with the body it drives and
// the animator feeding it root motion.
type Character struct {
	Controller *character.Controller
	Body       *character.Body
	Animator   *animation.Procedural
	// Spec is the prefab path the character was built from.
	Spec string
}

var CharacterComponent = NewComponent[Character]()
