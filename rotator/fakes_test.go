package rotator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/telegram"
)

type fakePrimary struct {
	calls  atomic.Int64
	ok     bool
	err    error
	panics bool

	mu     sync.Mutex
	params []telegram.SetBusinessAccountNameParams
}

func (f *fakePrimary) SetBusinessAccountName(ctx context.Context, p telegram.SetBusinessAccountNameParams) (bool, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.params = append(f.params, p)
	f.mu.Unlock()

	if f.panics {
		panic("primary exploded")
	}
	return f.ok, f.err
}

type fakeSecondary struct {
	calls atomic.Int64
	body  string
	err   error
}

func (f *fakeSecondary) PostSetBusinessAccountName(ctx context.Context, connectionID, name string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

type recordingObserver struct {
	mu        sync.Mutex
	attempts  []Attempt
	intervals []time.Duration
	states    []bool
}

func (o *recordingObserver) AttemptFinished(a Attempt) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempts = append(o.attempts, a)
}

func (o *recordingObserver) IntervalChanged(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.intervals = append(o.intervals, d)
}

func (o *recordingObserver) LoopStateChanged(running bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, running)
}

func (o *recordingObserver) attemptCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.attempts)
}

func (o *recordingObserver) lastState() (bool, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.states) == 0 {
		return false, false
	}
	return o.states[len(o.states)-1], true
}

var fastPolicy = common.IntervalPolicy{
	Min:  5 * time.Millisecond,
	Max:  25 * time.Millisecond,
	Step: 5 * time.Millisecond,
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
