package models

import (
	"sort"

	"github.com/google/uuid"
)

// UsedPlayersDay lists the golfers that counted toward a team's score on one
// day of an event.
type UsedPlayersDay struct {
	Day     int         `json:"day"`
	Golfers []uuid.UUID `json:"golfers"`
}

// UsedPlayersLedger is kept ordered by day.
type UsedPlayersLedger []UsedPlayersDay

func NewUsedPlayersLedger(rounds int) UsedPlayersLedger {
	ledger := make(UsedPlayersLedger, 0, rounds)
	for day := 1; day <= rounds; day++ {
		ledger = append(ledger, UsedPlayersDay{Day: day, Golfers: []uuid.UUID{}})
	}
	return ledger
}

// Golfers returns the golfers recorded for a day, or nil.
func (l UsedPlayersLedger) Golfers(day int) []uuid.UUID {
	for _, d := range l {
		if d.Day == day {
			return d.Golfers
		}
	}
	return nil
}

func (l UsedPlayersLedger) Contains(day int, golferID uuid.UUID) bool {
	for _, id := range l.Golfers(day) {
		if id == golferID {
			return true
		}
	}
	return false
}

// Record adds a golfer to a day unless already present or the day holds
// limit golfers. It reports whether the ledger changed.
func (l *UsedPlayersLedger) Record(day int, golferID uuid.UUID, limit int) bool {
	idx := -1
	for i, d := range *l {
		if d.Day == day {
			idx = i
			break
		}
	}
	if idx < 0 {
		*l = append(*l, UsedPlayersDay{Day: day, Golfers: []uuid.UUID{}})
		sort.SliceStable(*l, func(i, j int) bool { return (*l)[i].Day < (*l)[j].Day })
		for i, d := range *l {
			if d.Day == day {
				idx = i
				break
			}
		}
	}

	entry := &(*l)[idx]
	if len(entry.Golfers) >= limit {
		return false
	}
	for _, id := range entry.Golfers {
		if id == golferID {
			return false
		}
	}
	entry.Golfers = append(entry.Golfers, golferID)
	return true
}

func (l UsedPlayersLedger) Days() []int {
	days := make([]int, 0, len(l))
	for _, d := range l {
		days = append(days, d.Day)
	}
	return days
}
