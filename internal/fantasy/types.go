package fantasy

import (
	"context"
	"time"
)

// Round status names as reported by the leaderboard feed.
const (
	StatusScheduled  = "STATUS_SCHEDULED"
	StatusInProgress = "STATUS_IN_PROGRESS"
	StatusFinish     = "STATUS_FINISH"
)

// Seat identifies one of a team's two seat classes.
type Seat string

const (
	SeatTeam  Seat = "team"
	SeatBench Seat = "bench"
)

func (s Seat) Valid() bool {
	return s == SeatTeam || s == SeatBench
}

// Competitor is one normalized leaderboard row.
type Competitor struct {
	ExternalID string      `json:"external_id"`
	Name       string      `json:"name"`
	ImageURL   string      `json:"image_url,omitempty"`
	Rounds     []LineScore `json:"rounds"`
}

// LineScore is a single round for one competitor, already parsed.
type LineScore struct {
	Round       int        `json:"round"`
	Score       int        `json:"score"`
	TeeTime     *time.Time `json:"tee_time,omitempty"`
	Status      string     `json:"status"`
	HolesPlayed int        `json:"holes_played"`
}

// ScheduledEvent is a tour-schedule entry.
type ScheduledEvent struct {
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
}

// SalaryRow is a salary-feed entry keyed by display name.
type SalaryRow struct {
	Name   string  `json:"name"`
	Salary float64 `json:"salary"`
}

// LeaderboardFeed returns the current standings for an event.
type LeaderboardFeed interface {
	GetLeaderboard(ctx context.Context, eventExternalID, season string) ([]Competitor, error)
}

type ScheduleFeed interface {
	GetSchedule(ctx context.Context, season string) ([]ScheduledEvent, error)
}

type SalaryFeed interface {
	GetSalaries(ctx context.Context) ([]SalaryRow, error)
}

// FeedCache keeps decoded feed responses between refreshes.
type FeedCache interface {
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
	Store(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// SalaryCacheKey holds the last salary feed pull.
const SalaryCacheKey = "salaries:pga:dk"

// ScheduleCacheKey is the cache key of a season's tour schedule; "" is the
// current season.
func ScheduleCacheKey(season string) string {
	if season == "" {
		season = "current"
	}
	return "schedule:pga:" + season
}
