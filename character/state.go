package character

// State is the locomotion state of a character. Crouching while airborne is
// tracked only by the collider shape, so a crouched character can never be
// jump-eligible in the air.
type State int

const (
	Airborne State = iota
	StandingGrounded
	CrouchedGrounded
)

func (s State) String() string {
	switch s {
	case Airborne:
		return "airborne"
	case StandingGrounded:
		return "standing"
	case CrouchedGrounded:
		return "crouched"
	default:
		return "unknown"
	}
}

func (s State) Grounded() bool {
	return s == StandingGrounded || s == CrouchedGrounded
}

func groundedState(crouched bool) State {
	if crouched {
		return CrouchedGrounded
	}
	return StandingGrounded
}
