package providers

import (
	"strconv"
	"strings"
	"time"

	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
)

const holesPerRound = 18

// ParseScore reads a leaderboard display score relative to par. "E" is even,
// "+n" and "-n" are signed, a bare number is non-negative. Anything else
// reads as 0 so one bad cell never fails a refresh.
func ParseScore(display string) int {
	s := strings.TrimSpace(display)
	if s == "" || strings.EqualFold(s, "E") {
		return 0
	}

	sign := 1
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return sign * n
}

// RoundStatus derives a round's status and holes played. Only the
// competitor's active round carries the live status and hole count; any
// other round is reported finished with a full 18.
func RoundStatus(round, activeRound int, liveStatus string, thru int) (string, int) {
	if round != activeRound {
		return fantasy.StatusFinish, holesPerRound
	}
	if thru < 0 {
		thru = 0
	}
	if thru > holesPerRound {
		thru = holesPerRound
	}
	return liveStatus, thru
}

// parseTeeTime accepts RFC3339 and the feed's minute-precision form.
func parseTeeTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z", "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

func parseDate(raw string) time.Time {
	if t := parseTeeTime(raw); t != nil {
		return *t
	}
	return time.Time{}
}

// parseSalary strips currency formatting from a salary cell.
func parseSalary(raw string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$")), ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}
