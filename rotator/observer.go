package rotator

import "time"

// Observer is told about everything the rename loop does. Calls happen on
// the loop goroutine and on the goroutine calling Start, sometimes with the
// rotator's lock held: implementations must be safe for concurrent use,
// must not block and must not call back into the Rotator.
type Observer interface {
	AttemptFinished(a Attempt)
	IntervalChanged(d time.Duration)
	LoopStateChanged(running bool)
}

type nopObserver struct{}

func (nopObserver) AttemptFinished(Attempt)       {}
func (nopObserver) IntervalChanged(time.Duration) {}
func (nopObserver) LoopStateChanged(bool)         {}
