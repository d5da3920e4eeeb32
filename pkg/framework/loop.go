package framework

import (
	"context"
	"log"
	"time"

	"github.com/golang/glog"
)

// DefaultLoopInterval is the idle wait between iterations.
const DefaultLoopInterval = time.Millisecond

// Loop drives Steppers cooperatively in a single goroutine.
// When no Stepper reports work, the loop waits Interval before
// the next iteration; otherwise it iterates immediately.
type Loop struct {
	Interval time.Duration

	steppers []Stepper
	runners  []Runnable
	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultLoopInterval}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddStepper registers steppers, in the order they are serviced.
func (l *Loop) AddStepper(steppers ...Stepper) *Loop {
	l.steppers = append(l.steppers, steppers...)
	for _, s := range steppers {
		if runner, ok := s.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions started along with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// TriggerNext schedules the next iteration immediately.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable.
// It returns the first error reported by a Stepper, or ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	var runner *Runner
	if len(l.runners) > 0 {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		runner = NewRunnerWith(runCtx)
		runner.Go(l.runners...)
		defer func() {
			cancel()
			if err := runner.Wait(); err != nil {
				glog.Warningf("loop runners: %v", err)
			}
		}()
	}

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultLoopInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		busy, err := l.runIteration(ctx)
		if err != nil {
			return err
		}
		if busy {
			continue
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-l.wakeUpCh:
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.TODO()); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}

func (l *Loop) runIteration(ctx context.Context) (busy bool, err error) {
	for _, s := range l.steppers {
		b, err := s.Step(ctx)
		if err != nil {
			return busy, err
		}
		busy = busy || b
	}
	return busy, nil
}
