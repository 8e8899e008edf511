package common

import (
	"sync"
	"time"
)

// IntervalPolicy bounds and quantizes an Interval.
type IntervalPolicy struct {
	Min  time.Duration
	Max  time.Duration
	Step time.Duration
}

func DefaultIntervalPolicy() IntervalPolicy {
	return IntervalPolicy{
		Min:  MinInterval,
		Max:  MaxInterval,
		Step: IntervalStep,
	}
}

// Interval is the adaptive wait between rename attempts. It only grows by
// Step up to Max, and only Reset brings it back to Min.
type Interval struct {
	mu      sync.RWMutex
	policy  IntervalPolicy
	current time.Duration
}

func NewInterval(policy IntervalPolicy) *Interval {
	if policy.Min <= 0 || policy.Max < policy.Min || policy.Step <= 0 {
		policy = DefaultIntervalPolicy()
	}
	return &Interval{
		policy:  policy,
		current: policy.Min,
	}
}

// Increase moves the interval one step up, saturating at Max. It returns
// the previous and new values; they are equal at the ceiling.
func (i *Interval) Increase() (old, cur time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()

	old = i.current
	i.current = min(i.current+i.policy.Step, i.policy.Max)
	return old, i.current
}

func (i *Interval) Reset() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.current = i.policy.Min
	return i.current
}

func (i *Interval) Current() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.current
}

func (i *Interval) Policy() IntervalPolicy {
	return i.policy
}

// Progress is how far the interval has moved from Min towards Max, in percent.
func (i *Interval) Progress() float64 {
	i.mu.RLock()
	defer i.mu.RUnlock()

	span := i.policy.Max - i.policy.Min
	if span <= 0 {
		return 100
	}
	return float64(i.current-i.policy.Min) / float64(span) * 100
}
