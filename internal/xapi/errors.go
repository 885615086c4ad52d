package xapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cognicore/postsent/pkg/postsent/internalerr"
)

// APIError is a non-200 response from the API.
type APIError struct {
	StatusCode int
	Body       string
	// Reset is when the rate-limit window reopens, from x-rate-limit-reset.
	Reset time.Time
}

func (e *APIError) Error() string {
	return fmt.Sprintf("x api error (status %d): %s", e.StatusCode, e.Body)
}

// Is maps rate-limit and not-found responses onto the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case internalerr.ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case internalerr.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// RetryAfter is the time left until Reset, or zero when unknown.
func (e *APIError) RetryAfter() time.Duration {
	if e.Reset.IsZero() {
		return 0
	}
	return time.Until(e.Reset)
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	e := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	if v := resp.Header.Get("x-rate-limit-reset"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			e.Reset = time.Unix(secs, 0)
		}
	}
	return e
}
