package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"golang.org/x/time/rate"
)

const (
	DefaultESPNBaseURL = "https://site.web.api.espn.com/apis/site/v2/sports/golf"
	espnService        = "espn"
	scheduleCacheTTL   = time.Hour
)

// ESPNGolfClient reads the ESPN golf leaderboard and tour schedule.
type ESPNGolfClient struct {
	requester *feedRequester
	cache     fantasy.FeedCache
	logger    *logrus.Logger
	baseURL   string
}

type ESPNOptions struct {
	BaseURL   string
	RateLimit int // requests per second
	Timeout   time.Duration
}

// NewESPNGolfClient creates a new ESPN Golf API client. cache and breaker may
// be nil.
func NewESPNGolfClient(opts ESPNOptions, cache fantasy.FeedCache, breaker CircuitBreaker, logger *logrus.Logger) *ESPNGolfClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultESPNBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &ESPNGolfClient{
		requester: &feedRequester{
			httpClient:  &http.Client{Timeout: opts.Timeout},
			rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
			breaker:     breaker,
			service:     espnService,
		},
		cache:   cache,
		logger:  logger,
		baseURL: opts.BaseURL,
	}
}

// ESPN Golf API response structures
type espnLeaderboardResponse struct {
	Events []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Competitions []struct {
			ID          string           `json:"id"`
			Competitors []espnCompetitor `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

type espnCompetitor struct {
	ID      string `json:"id"`
	Athlete struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Headshot    struct {
			Href string `json:"href"`
		} `json:"headshot"`
	} `json:"athlete"`
	Status struct {
		Period int `json:"period"`
		Thru   int `json:"thru"`
		Type   struct {
			Name      string `json:"name"`
			Completed bool   `json:"completed"`
		} `json:"type"`
	} `json:"status"`
	Linescores []espnLineScore `json:"linescores"`
}

type espnLineScore struct {
	Period       int     `json:"period"`
	Value        float64 `json:"value"`
	DisplayValue string  `json:"displayValue"`
	TeeTime      string  `json:"teeTime"`
}

type espnScheduleResponse struct {
	Seasons []struct {
		Year   int `json:"year"`
		Events []struct {
			ID        string `json:"id"`
			Label     string `json:"label"`
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
			Status    string `json:"status"`
		} `json:"events"`
	} `json:"seasons"`
}

// GetLeaderboard fetches the live leaderboard for one event. It is never
// served from cache.
func (c *ESPNGolfClient) GetLeaderboard(ctx context.Context, eventExternalID, season string) ([]fantasy.Competitor, error) {
	query := url.Values{}
	query.Set("league", "pga")
	query.Set("event", eventExternalID)
	if season != "" {
		query.Set("season", season)
	}
	endpoint := fmt.Sprintf("%s/leaderboard?%s", c.baseURL, query.Encode())

	var resp espnLeaderboardResponse
	if err := c.requester.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard for event %s: %w", eventExternalID, err)
	}

	if len(resp.Events) == 0 || len(resp.Events[0].Competitions) == 0 {
		return nil, fmt.Errorf("%w: leaderboard for event %s has no competitions", fantasy.ErrFeedUnavailable, eventExternalID)
	}

	raw := resp.Events[0].Competitions[0].Competitors
	competitors := make([]fantasy.Competitor, 0, len(raw))
	for _, rc := range raw {
		competitors = append(competitors, c.normalizeCompetitor(rc))
	}

	c.logger.WithFields(logrus.Fields{
		"component":   "espn_golf",
		"event_id":    eventExternalID,
		"competitors": len(competitors),
	}).Debug("Fetched leaderboard")

	return competitors, nil
}

func (c *ESPNGolfClient) normalizeCompetitor(rc espnCompetitor) fantasy.Competitor {
	externalID := rc.Athlete.ID
	if externalID == "" {
		externalID = rc.ID
	}

	liveStatus := rc.Status.Type.Name
	if liveStatus == "" {
		liveStatus = fantasy.StatusScheduled
	}

	rounds := make([]fantasy.LineScore, 0, len(rc.Linescores))
	for _, ls := range rc.Linescores {
		if ls.Period <= 0 {
			continue
		}
		status, holes := RoundStatus(ls.Period, rc.Status.Period, liveStatus, rc.Status.Thru)
		rounds = append(rounds, fantasy.LineScore{
			Round:       ls.Period,
			Score:       ParseScore(ls.DisplayValue),
			TeeTime:     parseTeeTime(ls.TeeTime),
			Status:      status,
			HolesPlayed: holes,
		})
	}

	return fantasy.Competitor{
		ExternalID: externalID,
		Name:       rc.Athlete.DisplayName,
		ImageURL:   rc.Athlete.Headshot.Href,
		Rounds:     rounds,
	}
}

// GetSchedule fetches the PGA tour schedule for a season ("" for current).
func (c *ESPNGolfClient) GetSchedule(ctx context.Context, season string) ([]fantasy.ScheduledEvent, error) {
	cacheKey := fantasy.ScheduleCacheKey(season)

	var cached []fantasy.ScheduledEvent
	if c.cache != nil {
		hit, err := c.cache.Load(ctx, cacheKey, &cached)
		if err != nil {
			c.logger.WithError(err).Warn("Failed to read cached tour schedule")
		}
		if hit && len(cached) > 0 {
			return cached, nil
		}
	}

	query := url.Values{}
	if season != "" {
		query.Set("season", season)
	}
	endpoint := fmt.Sprintf("%s/pga/tourschedule", c.baseURL)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var resp espnScheduleResponse
	if err := c.requester.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tour schedule: %w", err)
	}
	if len(resp.Seasons) == 0 {
		return nil, fmt.Errorf("%w: tour schedule has no seasons", fantasy.ErrFeedUnavailable)
	}

	events := make([]fantasy.ScheduledEvent, 0, len(resp.Seasons[0].Events))
	for _, e := range resp.Seasons[0].Events {
		if e.ID == "" {
			continue
		}
		events = append(events, fantasy.ScheduledEvent{
			ExternalID: e.ID,
			Name:       e.Label,
			Start:      parseDate(e.StartDate),
			End:        parseDate(e.EndDate),
			Status:     mapEventStatus(e.Status),
		})
	}

	if c.cache != nil && len(events) > 0 {
		if err := c.cache.Store(ctx, cacheKey, events, scheduleCacheTTL); err != nil {
			c.logger.WithError(err).Warn("Failed to cache tour schedule")
		}
	}

	return events, nil
}

func mapEventStatus(state string) string {
	switch state {
	case "pre":
		return "scheduled"
	case "in":
		return "in_progress"
	case "post":
		return "completed"
	default:
		return "scheduled"
	}
}

// CurrentSeason is the season the feed reports when none is requested.
func CurrentSeason(now time.Time) string {
	return strconv.Itoa(now.Year())
}
