package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Team is one user's entry for one event.
type Team struct {
	ID          uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex:idx_team_owner_event,priority:1" json:"user_id"`
	EventID     uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex:idx_team_owner_event,priority:2;index" json:"event_id"`
	SeasonID    *uuid.UUID                            `gorm:"type:uuid;index" json:"season_id,omitempty"`
	Score       int                                   `gorm:"not null;default:0" json:"score"`
	UsedPlayers datatypes.JSONType[UsedPlayersLedger] `json:"used_players"`
	CreatedAt   time.Time                             `json:"created_at"`
	UpdatedAt   time.Time                             `json:"updated_at"`

	Seats []TeamGolfer `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// TeamGolfer is a golfer's seat on a team. The composite primary key keeps a
// golfer in at most one seat per team.
type TeamGolfer struct {
	TeamID    uuid.UUID    `gorm:"type:uuid;primaryKey" json:"team_id"`
	GolferID  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"golfer_id"`
	Seat      fantasy.Seat `gorm:"type:varchar(10);not null;index" json:"seat"`
	CreatedAt time.Time    `json:"created_at"`

	Golfer Golfer `gorm:"foreignKey:GolferID" json:"golfer"`
}

func (TeamGolfer) TableName() string {
	return "team_golfers"
}

// SeatGolfers returns the golfers in a seat class in the order they joined.
func (t *Team) SeatGolfers(seat fantasy.Seat) []Golfer {
	seats := make([]TeamGolfer, 0, len(t.Seats))
	for _, s := range t.Seats {
		if s.Seat == seat {
			seats = append(seats, s)
		}
	}
	sort.SliceStable(seats, func(i, j int) bool {
		return seats[i].CreatedAt.Before(seats[j].CreatedAt)
	})

	golfers := make([]Golfer, 0, len(seats))
	for _, s := range seats {
		golfers = append(golfers, s.Golfer)
	}
	return golfers
}

func (t *Team) SeatCount(seat fantasy.Seat) int {
	count := 0
	for _, s := range t.Seats {
		if s.Seat == seat {
			count++
		}
	}
	return count
}

// SeatOf reports which seat, if any, a golfer occupies on this team.
func (t *Team) SeatOf(golferID uuid.UUID) (fantasy.Seat, bool) {
	for _, s := range t.Seats {
		if s.GolferID == golferID {
			return s.Seat, true
		}
	}
	return "", false
}

// SalaryCents sums salaries across both seat classes in hundredths so cap
// comparisons are exact.
func (t *Team) SalaryCents() int64 {
	var total int64
	for _, s := range t.Seats {
		total += ToCents(s.Golfer.Salary)
	}
	return total
}

func (t *Team) ActiveGolferIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Seats))
	for _, g := range t.SeatGolfers(fantasy.SeatTeam) {
		ids = append(ids, g.ID)
	}
	return ids
}

func (t *Team) Ledger() UsedPlayersLedger {
	return t.UsedPlayers.Data()
}

func (t *Team) SetLedger(ledger UsedPlayersLedger) {
	t.UsedPlayers = NewLedgerValue(ledger)
}

// NewLedgerValue wraps a ledger for the JSON column.
func NewLedgerValue(ledger UsedPlayersLedger) datatypes.JSONType[UsedPlayersLedger] {
	return datatypes.NewJSONType(ledger)
}

func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
