package character

// Clock reports the duration of the current simulation step in seconds.
type Clock interface {
	DeltaTime() float64
}

// FixedStep is a constant step duration.
type FixedStep float64

func (f FixedStep) DeltaTime() float64 {
	return float64(f)
}
