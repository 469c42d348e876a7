package service

import (
	"time"

	"github.com/dm9/collections-engine/pkg/utils"
)

// Clock supplies the current instant and the current calendar date. The rule
// evaluators take it injected so day-boundary behavior is testable.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) Today() time.Time {
	return utils.DateOnly(time.Now().UTC())
}
