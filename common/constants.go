package common

import "time"

// Rename pacing. Not externally configurable.
const (
	MinInterval  = 2 * time.Second
	MaxInterval  = 15 * time.Second
	IntervalStep = 200 * time.Millisecond
)

const (
	DefaultBaseName     = "noon"
	DefaultVariantCount = 100
)

const (
	initialReconnectDelay      = 1  // seconds
	maxReconnectDelay          = 32 // seconds
	reconnectBackoffMultiplier = 2
)
