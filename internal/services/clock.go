package services

import "time"

// Clock abstracts "now" so the timing rules are testable with a fixed time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock Clock used in production wiring.
func SystemClock() Clock { return systemClock{} }
