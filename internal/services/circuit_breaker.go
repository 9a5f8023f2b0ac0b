package services

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
)

// Feed names with a dedicated breaker.
const (
	BreakerESPN       = "espn"
	BreakerSalaryFeed = "salary_feed"
)

// FeedBreakerStatus is one feed's breaker as reported by /health.
type FeedBreakerStatus struct {
	Feed                string `json:"feed"`
	State               string `json:"state"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// CircuitBreakerService holds one breaker per upstream feed. A feed trips
// after threshold consecutive failures and is retried once timeout passes.
type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	log      *logrus.Entry
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, log *logrus.Logger) *CircuitBreakerService {
	if threshold <= 0 {
		threshold = 5
	}

	cb := &CircuitBreakerService{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		log:      logger.ForComponent(log, "circuit_breaker"),
	}
	for _, feed := range []string{BreakerESPN, BreakerSalaryFeed} {
		cb.breakers[feed] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        feed,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold)
			},
			OnStateChange: cb.stateChanged,
		})
	}
	return cb
}

func (cb *CircuitBreakerService) stateChanged(feed string, from, to gobreaker.State) {
	entry := cb.log.WithFields(logrus.Fields{"feed": feed, "from": from.String(), "to": to.String()})
	if to == gobreaker.StateOpen {
		entry.Warn("Feed breaker opened")
		return
	}
	entry.Info("Feed breaker state changed")
}

// Execute runs fn behind the feed's breaker. Feeds without a breaker run
// unprotected.
func (cb *CircuitBreakerService) Execute(feed string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, ok := cb.breakers[feed]
	if !ok {
		cb.log.WithField("feed", feed).Warn("No breaker for feed")
		return fn()
	}
	return breaker.Execute(fn)
}

func (cb *CircuitBreakerService) GetState(feed string) gobreaker.State {
	if breaker, ok := cb.breakers[feed]; ok {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// States lists every feed breaker, sorted by feed name.
func (cb *CircuitBreakerService) States() []FeedBreakerStatus {
	statuses := make([]FeedBreakerStatus, 0, len(cb.breakers))
	for feed, breaker := range cb.breakers {
		statuses = append(statuses, FeedBreakerStatus{
			Feed:                feed,
			State:               breaker.State().String(),
			ConsecutiveFailures: breaker.Counts().ConsecutiveFailures,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Feed < statuses[j].Feed })
	return statuses
}
