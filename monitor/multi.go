package monitor

import (
	"time"

	"github.com/noon-labs/namecycler/rotator"
)

// Multi fans observer calls out to each member in order.
type Multi []rotator.Observer

func (m Multi) AttemptFinished(a rotator.Attempt) {
	for _, o := range m {
		o.AttemptFinished(a)
	}
}

func (m Multi) IntervalChanged(d time.Duration) {
	for _, o := range m {
		o.IntervalChanged(d)
	}
}

func (m Multi) LoopStateChanged(running bool) {
	for _, o := range m {
		o.LoopStateChanged(running)
	}
}
