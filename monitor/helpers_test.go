package monitor

import (
	"time"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/rotator"
)

func attemptWith(primary common.Outcome, secondary *common.Outcome) rotator.Attempt {
	return rotator.Attempt{
		ID:           "attempt-1",
		ConnectionID: "conn-1",
		Name:         "n○○n",
		Primary:      primary,
		Secondary:    secondary,
		StartedAt:    time.Now(),
		Duration:     120 * time.Millisecond,
	}
}

func outcomePtr(o common.Outcome) *common.Outcome {
	return &o
}

type fakeStatus struct {
	running  bool
	interval time.Duration
	connID   string
}

func (f fakeStatus) Running() bool           { return f.running }
func (f fakeStatus) Interval() time.Duration { return f.interval }
func (f fakeStatus) ConnectionID() string    { return f.connID }
