package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Stepper performs one cooperative iteration of a poll loop.
// busy reports whether any work was done, so the loop can
// step again immediately instead of waiting for the next tick.
type Stepper interface {
	Step(context.Context) (busy bool, err error)
}

// StepFunc is the func form of Stepper.
type StepFunc func(context.Context) (bool, error)

// Step implements Stepper.
func (f StepFunc) Step(ctx context.Context) (bool, error) {
	return f(ctx)
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Time() time.Time
}

// TimeFunc is the func form of TimeSource.
type TimeFunc func() time.Time

// Time implements TimeSource.
func (f TimeFunc) Time() time.Time {
	return f()
}

// SystemClock is the TimeSource backed by the wall clock.
var SystemClock TimeSource = TimeFunc(time.Now)
