package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

// RejectReason explains why a roster change was refused.
type RejectReason string

const (
	ReasonSeatFull          RejectReason = "SEAT_FULL"
	ReasonAlreadyOnTeam     RejectReason = "ALREADY_ON_TEAM"
	ReasonSalaryCapExceeded RejectReason = "SALARY_CAP_EXCEEDED"
	ReasonNotOnTeam         RejectReason = "NOT_ON_TEAM"
)

// Roster intents accepted by Apply.
const (
	IntentAddGolfer    = "addGolfer"
	IntentRemoveGolfer = "removeGolfer"
	IntentMoveGolfer   = "moveGolfer"
)

// RosterIntent is one requested roster change. For moves Seat is the target.
type RosterIntent struct {
	TeamID   uuid.UUID    `json:"-"`
	Intent   string       `json:"intent"`
	Seat     fantasy.Seat `json:"seat"`
	GolferID uuid.UUID    `json:"golfer"`
}

// MutationResult reports the outcome of a roster change. A rejected change
// leaves the roster untouched and Roster shows its current state.
type MutationResult struct {
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`
	Message  string       `json:"message,omitempty"`
	Roster   RosterView   `json:"roster"`
}

// RosterService enforces seat limits and the salary cap.
type RosterService struct {
	store  *RosterStore
	rules  config.RosterRules
	logger *logrus.Logger
}

func NewRosterService(db *database.DB, rules config.RosterRules, logger *logrus.Logger) *RosterService {
	return &RosterService{
		store:  NewRosterStore(db.DB),
		rules:  rules,
		logger: logger,
	}
}

func (s *RosterService) Rules() config.RosterRules {
	return s.rules
}

func (s *RosterService) capacity(seat fantasy.Seat) int {
	if seat == fantasy.SeatBench {
		return s.rules.MaxBench
	}
	return s.rules.MaxActive
}

// Apply dispatches an intent to Add, Remove or Move.
func (s *RosterService) Apply(ctx context.Context, intent RosterIntent) (*MutationResult, error) {
	switch intent.Intent {
	case IntentAddGolfer:
		return s.Add(ctx, intent.TeamID, intent.GolferID, intent.Seat)
	case IntentRemoveGolfer:
		return s.Remove(ctx, intent.TeamID, intent.GolferID, intent.Seat)
	case IntentMoveGolfer:
		return s.Move(ctx, intent.TeamID, intent.GolferID, intent.Seat)
	default:
		return nil, fmt.Errorf("%w: %q", fantasy.ErrInvalidIntent, intent.Intent)
	}
}

// Roster returns the current roster view for a team.
func (s *RosterService) Roster(ctx context.Context, teamID uuid.UUID) (*RosterView, error) {
	team, err := s.store.LoadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	view := NewRosterView(team, s.rules.SalaryCap)
	return &view, nil
}

// Add seats a golfer. Checks run in order: seat capacity, existing
// membership in either seat, then the cap across both seats.
func (s *RosterService) Add(ctx context.Context, teamID, golferID uuid.UUID, seat fantasy.Seat) (*MutationResult, error) {
	if !seat.Valid() {
		return nil, fmt.Errorf("%w: %q", fantasy.ErrInvalidSeat, seat)
	}

	var result *MutationResult
	err := s.store.Transaction(ctx, func(store *RosterStore) error {
		team, err := store.LoadTeam(ctx, teamID)
		if err != nil {
			return err
		}
		golfer, err := store.LoadGolfer(ctx, golferID)
		if err != nil {
			return err
		}

		if team.SeatCount(seat) >= s.capacity(seat) {
			result = s.reject(team, ReasonSeatFull, fmt.Sprintf("%s seat is full (%d of %d)", seat, team.SeatCount(seat), s.capacity(seat)))
			return nil
		}

		if current, ok := team.SeatOf(golferID); ok {
			result = s.reject(team, ReasonAlreadyOnTeam, fmt.Sprintf("%s is already on this team (%s)", golfer.Name, current))
			return nil
		}

		capCents := models.ToCents(s.rules.SalaryCap)
		total := team.SalaryCents() + models.ToCents(golfer.Salary)
		if total > capCents {
			result = s.reject(team, ReasonSalaryCapExceeded, fmt.Sprintf(
				"adding %s would bring salary to %.2f, over the cap of %.2f",
				golfer.Name, models.FromCents(total), s.rules.SalaryCap))
			return nil
		}

		row, err := store.InsertSeat(ctx, teamID, golferID, seat)
		if err != nil {
			return err
		}
		row.Golfer = *golfer
		team.Seats = append(team.Seats, *row)

		result = &MutationResult{Accepted: true, Roster: NewRosterView(team, s.rules.SalaryCap)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logMutation(IntentAddGolfer, teamID, golferID, seat, result)
	return result, nil
}

// Remove unseats a golfer. Removing a golfer that is not in that seat is a
// no-op and still accepted.
func (s *RosterService) Remove(ctx context.Context, teamID, golferID uuid.UUID, seat fantasy.Seat) (*MutationResult, error) {
	if !seat.Valid() {
		return nil, fmt.Errorf("%w: %q", fantasy.ErrInvalidSeat, seat)
	}

	var result *MutationResult
	err := s.store.Transaction(ctx, func(store *RosterStore) error {
		team, err := store.LoadTeam(ctx, teamID)
		if err != nil {
			return err
		}

		if current, ok := team.SeatOf(golferID); ok && current == seat {
			if _, err := store.DeleteSeat(ctx, teamID, golferID, seat); err != nil {
				return err
			}
			kept := team.Seats[:0]
			for _, row := range team.Seats {
				if row.GolferID != golferID {
					kept = append(kept, row)
				}
			}
			team.Seats = kept
		}

		result = &MutationResult{Accepted: true, Roster: NewRosterView(team, s.rules.SalaryCap)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logMutation(IntentRemoveGolfer, teamID, golferID, seat, result)
	return result, nil
}

// Move swaps a golfer between the team and the bench. The cap is unaffected;
// only the target seat's capacity is checked.
func (s *RosterService) Move(ctx context.Context, teamID, golferID uuid.UUID, to fantasy.Seat) (*MutationResult, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", fantasy.ErrInvalidSeat, to)
	}

	var result *MutationResult
	err := s.store.Transaction(ctx, func(store *RosterStore) error {
		team, err := store.LoadTeam(ctx, teamID)
		if err != nil {
			return err
		}

		current, ok := team.SeatOf(golferID)
		if !ok {
			result = s.reject(team, ReasonNotOnTeam, "golfer is not on this team")
			return nil
		}
		if current == to {
			result = &MutationResult{Accepted: true, Roster: NewRosterView(team, s.rules.SalaryCap)}
			return nil
		}
		if team.SeatCount(to) >= s.capacity(to) {
			result = s.reject(team, ReasonSeatFull, fmt.Sprintf("%s seat is full (%d of %d)", to, team.SeatCount(to), s.capacity(to)))
			return nil
		}

		if err := store.MoveSeat(ctx, teamID, golferID, to); err != nil {
			return err
		}
		for i := range team.Seats {
			if team.Seats[i].GolferID == golferID {
				team.Seats[i].Seat = to
			}
		}

		result = &MutationResult{Accepted: true, Roster: NewRosterView(team, s.rules.SalaryCap)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logMutation(IntentMoveGolfer, teamID, golferID, to, result)
	return result, nil
}

func (s *RosterService) reject(team *models.Team, reason RejectReason, message string) *MutationResult {
	return &MutationResult{
		Accepted: false,
		Reason:   reason,
		Message:  message,
		Roster:   NewRosterView(team, s.rules.SalaryCap),
	}
}

func (s *RosterService) logMutation(intent string, teamID, golferID uuid.UUID, seat fantasy.Seat, result *MutationResult) {
	entry := s.logger.WithFields(logrus.Fields{
		"component": "roster",
		"intent":    intent,
		"team_id":   teamID,
		"golfer_id": golferID,
		"seat":      seat,
	})
	if result.Accepted {
		entry.Debug("Roster change applied")
		return
	}
	entry.WithField("reason", result.Reason).Info("Roster change rejected")
}
