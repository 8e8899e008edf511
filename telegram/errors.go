package telegram

import (
	"fmt"
	"net/http"
)

// APIError is a non-ok reply from the Bot API.
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram %s: %d %s (retry after %d)", e.Method, e.Code, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

func (e *APIError) StatusCode() int {
	return e.Code
}

func (e *APIError) RetryAfterSeconds() int {
	return e.RetryAfter
}

func (e *APIError) IsRateLimit() bool {
	return e.Code == http.StatusTooManyRequests || e.RetryAfter > 0
}

func newAPIError(method string, resp *apiResponse) *APIError {
	apiErr := &APIError{
		Method:      method,
		Code:        resp.ErrorCode,
		Description: resp.Description,
	}
	if resp.Parameters != nil {
		apiErr.RetryAfter = resp.Parameters.RetryAfter
	}
	return apiErr
}
