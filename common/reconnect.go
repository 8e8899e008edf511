package common

import (
	"context"
	"time"
)

// ReconnectConfig describes the capped exponential delays used after
// failed polls.
type ReconnectConfig struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		InitialBackoff: initialReconnectDelay * time.Second,
		MaxBackoff:     maxReconnectDelay * time.Second,
		Multiplier:     reconnectBackoffMultiplier,
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
