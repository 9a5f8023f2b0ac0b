package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"golang.org/x/time/rate"
)

// CircuitBreaker runs fn under the breaker registered for service.
type CircuitBreaker interface {
	Execute(service string, fn func() (interface{}, error)) (interface{}, error)
}

type feedRequester struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     CircuitBreaker
	service     string
}

// getJSON performs a single GET and decodes the body into target. Every
// failure wraps fantasy.ErrFeedUnavailable. There is no retry.
func (r *feedRequester) getJSON(ctx context.Context, url string, target interface{}) error {
	if r.rateLimiter != nil {
		if err := r.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", fantasy.ErrFeedUnavailable, err)
		}
	}

	call := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	}

	var (
		result interface{}
		err    error
	)
	if r.breaker != nil {
		result, err = r.breaker.Execute(r.service, call)
	} else {
		result, err = call()
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", fantasy.ErrFeedUnavailable, r.service, err)
	}

	if err := json.Unmarshal(result.([]byte), target); err != nil {
		return fmt.Errorf("%w: %s: malformed response: %v", fantasy.ErrFeedUnavailable, r.service, err)
	}
	return nil
}
