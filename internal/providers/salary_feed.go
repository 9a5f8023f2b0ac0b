package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
)

const (
	salaryService  = "salary_feed"
	salaryCacheTTL = 30 * time.Minute
)

// SalaryFeedClient reads DraftKings salaries from the fantasy percentages
// feed and scales them into league units.
type SalaryFeedClient struct {
	requester *feedRequester
	cache     fantasy.FeedCache
	logger    *logrus.Logger
	feedURL   string
	divisor   float64
}

func NewSalaryFeedClient(feedURL string, divisor float64, timeout time.Duration, cache fantasy.FeedCache, breaker CircuitBreaker, logger *logrus.Logger) *SalaryFeedClient {
	if divisor <= 0 {
		divisor = 500
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SalaryFeedClient{
		requester: &feedRequester{
			httpClient: &http.Client{Timeout: timeout},
			breaker:    breaker,
			service:    salaryService,
		},
		cache:   cache,
		logger:  logger,
		feedURL: feedURL,
		divisor: divisor,
	}
}

type salaryFeedResponse struct {
	Rows []struct {
		Name string      `json:"Name"`
		DK   interface{} `json:"DK $"`
	} `json:"rows"`
}

// GetSalaries returns one row per named player. A row without a DK price
// carries a salary of 0.
func (c *SalaryFeedClient) GetSalaries(ctx context.Context) ([]fantasy.SalaryRow, error) {
	var cached []fantasy.SalaryRow
	if c.cache != nil {
		hit, err := c.cache.Load(ctx, fantasy.SalaryCacheKey, &cached)
		if err != nil {
			c.logger.WithError(err).Warn("Failed to read cached salaries")
		}
		if hit && len(cached) > 0 {
			return cached, nil
		}
	}

	var resp salaryFeedResponse
	if err := c.requester.getJSON(ctx, c.feedURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch salaries: %w", err)
	}

	rows := make([]fantasy.SalaryRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		rows = append(rows, fantasy.SalaryRow{
			Name:   name,
			Salary: c.scale(r.DK),
		})
	}

	if c.cache != nil && len(rows) > 0 {
		if err := c.cache.Store(ctx, fantasy.SalaryCacheKey, rows, salaryCacheTTL); err != nil {
			c.logger.WithError(err).Warn("Failed to cache salaries")
		}
	}

	c.logger.WithFields(logrus.Fields{
		"component": "salary_feed",
		"rows":      len(rows),
	}).Debug("Fetched salaries")

	return rows, nil
}

func (c *SalaryFeedClient) scale(raw interface{}) float64 {
	var dollars float64
	switch v := raw.(type) {
	case string:
		dollars = parseSalary(v)
	case float64:
		dollars = v
	default:
		return 0
	}
	return dollars / c.divisor
}
