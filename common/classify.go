package common

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var rateLimitKeywords = []string{
	"too many requests",
	"rate limit",
	"flood",
	"429",
	"retry after",
}

// IsRateLimited reports whether text mentions any of the platform's
// throttling phrases, ignoring case.
func IsRateLimited(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range rateLimitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RateLimitSignal is implemented by errors that carry a structured
// platform error code.
type RateLimitSignal interface {
	error
	StatusCode() int
	RetryAfterSeconds() int
}

// ClassifyError maps an error from a remote call onto a Cause. An error is
// rate limited if its structured code says so or its text does.
func ClassifyError(err error) Cause {
	if err == nil {
		return CauseNone
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CauseOther
	}

	var sig RateLimitSignal
	if errors.As(err, &sig) && (sig.StatusCode() == http.StatusTooManyRequests || sig.RetryAfterSeconds() > 0) {
		return CauseRateLimited
	}

	if IsRateLimited(err.Error()) {
		return CauseRateLimited
	}
	return CauseOther
}

// ClassifyText is the fallback used where only raw response text exists.
func ClassifyText(text string) Cause {
	if IsRateLimited(text) {
		return CauseRateLimited
	}
	return CauseOther
}
