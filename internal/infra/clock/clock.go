// Package clock provides the system implementation of the domain Clock.
package clock

import (
	"time"

	"riskctl/internal/domain/service"
)

type systemClock struct{}

// New returns a Clock backed by the system time.
func New() service.Clock {
	return systemClock{}
}

// Now returns the current unix time in seconds.
func (systemClock) Now() int64 {
	return time.Now().Unix()
}
