package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stretchr/testify/suite"
)

type RosterServiceSuite struct {
	suite.Suite
	db      *database.DB
	service *RosterService
	event   models.Event
	team    models.Team
	ctx     context.Context
}

func (s *RosterServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = newTestDB(s.T())
	s.service = NewRosterService(s.db, testRules(), newTestLogger())

	user := createUser(s.T(), s.db, "owner@example.com")
	s.event = createEvent(s.T(), s.db, "401580351", models.EventScheduled)
	s.team = createTeam(s.T(), s.db, user, s.event)
}

func (s *RosterServiceSuite) seatFullTeam(salaries ...float64) []models.Golfer {
	golfers := make([]models.Golfer, 0, len(salaries))
	for i, salary := range salaries {
		g := createGolfer(s.T(), s.db, "Active "+string(rune('A'+i)), salary, "")
		seatGolfer(s.T(), s.db, s.team, g, fantasy.SeatTeam)
		golfers = append(golfers, g)
	}
	return golfers
}

func (s *RosterServiceSuite) TestAddRespectsSalaryCap() {
	s.seatFullTeam(30, 25, 20, 10)
	pricey := createGolfer(s.T(), s.db, "Pricey", 20, "")
	fits := createGolfer(s.T(), s.db, "Fits", 15, "")

	result, err := s.service.Add(s.ctx, s.team.ID, pricey.ID, fantasy.SeatBench)
	s.Require().NoError(err)
	s.False(result.Accepted)
	s.Equal(ReasonSalaryCapExceeded, result.Reason)
	s.Empty(result.Roster.Bench)
	s.Equal(85.0, result.Roster.SalaryUsed)

	result, err = s.service.Add(s.ctx, s.team.ID, fits.ID, fantasy.SeatBench)
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Equal(100.0, result.Roster.SalaryUsed)
	s.Equal(0.0, result.Roster.SalaryRemaining)
	s.Require().Len(result.Roster.Bench, 1)
	s.Equal(fits.ID, result.Roster.Bench[0].ID)

	stored := reloadTeam(s.T(), s.db, s.team.ID)
	s.Equal(int64(10000), stored.SalaryCents())
}

func (s *RosterServiceSuite) TestAddAcceptsExactFractionalCap() {
	a := createGolfer(s.T(), s.db, "A", 33.33, "")
	b := createGolfer(s.T(), s.db, "B", 33.33, "")
	c := createGolfer(s.T(), s.db, "C", 33.34, "")
	penny := createGolfer(s.T(), s.db, "Penny", 0.01, "")

	for _, g := range []models.Golfer{a, b, c} {
		result, err := s.service.Add(s.ctx, s.team.ID, g.ID, fantasy.SeatTeam)
		s.Require().NoError(err)
		s.True(result.Accepted, "golfer %s", g.Name)
	}

	result, err := s.service.Add(s.ctx, s.team.ID, penny.ID, fantasy.SeatTeam)
	s.Require().NoError(err)
	s.False(result.Accepted)
	s.Equal(ReasonSalaryCapExceeded, result.Reason)
}

func (s *RosterServiceSuite) TestAddChecksSeatBeforeMembershipAndCap() {
	active := s.seatFullTeam(5, 5, 5, 5)

	// full seat wins over already-on-team
	result, err := s.service.Add(s.ctx, s.team.ID, active[0].ID, fantasy.SeatTeam)
	s.Require().NoError(err)
	s.Equal(ReasonSeatFull, result.Reason)

	result, err = s.service.Add(s.ctx, s.team.ID, active[0].ID, fantasy.SeatBench)
	s.Require().NoError(err)
	s.Equal(ReasonAlreadyOnTeam, result.Reason)

	b1 := createGolfer(s.T(), s.db, "Bench One", 1, "")
	b2 := createGolfer(s.T(), s.db, "Bench Two", 1, "")
	seatGolfer(s.T(), s.db, s.team, b1, fantasy.SeatBench)
	seatGolfer(s.T(), s.db, s.team, b2, fantasy.SeatBench)

	// full bench wins over the cap
	whale := createGolfer(s.T(), s.db, "Whale", 500, "")
	result, err = s.service.Add(s.ctx, s.team.ID, whale.ID, fantasy.SeatBench)
	s.Require().NoError(err)
	s.Equal(ReasonSeatFull, result.Reason)

	stored := reloadTeam(s.T(), s.db, s.team.ID)
	s.Equal(4, stored.SeatCount(fantasy.SeatTeam))
	s.Equal(2, stored.SeatCount(fantasy.SeatBench))
}

func (s *RosterServiceSuite) TestAddErrors() {
	golfer := createGolfer(s.T(), s.db, "Someone", 10, "")

	_, err := s.service.Add(s.ctx, uuid.New(), golfer.ID, fantasy.SeatTeam)
	s.ErrorIs(err, fantasy.ErrTeamNotFound)

	_, err = s.service.Add(s.ctx, s.team.ID, uuid.New(), fantasy.SeatTeam)
	s.ErrorIs(err, fantasy.ErrGolferNotFound)

	_, err = s.service.Add(s.ctx, s.team.ID, golfer.ID, fantasy.Seat("captain"))
	s.ErrorIs(err, fantasy.ErrInvalidSeat)
}

func (s *RosterServiceSuite) TestRemove() {
	active := s.seatFullTeam(30, 25)

	result, err := s.service.Remove(s.ctx, s.team.ID, active[0].ID, fantasy.SeatTeam)
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Require().Len(result.Roster.Golfers, 1)
	s.Equal(active[1].ID, result.Roster.Golfers[0].ID)
	s.Equal(25.0, result.Roster.SalaryUsed)

	// not in that seat: accepted, nothing changes
	result, err = s.service.Remove(s.ctx, s.team.ID, active[1].ID, fantasy.SeatBench)
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Len(result.Roster.Golfers, 1)

	result, err = s.service.Remove(s.ctx, s.team.ID, uuid.New(), fantasy.SeatTeam)
	s.Require().NoError(err)
	s.True(result.Accepted)

	s.Equal(int64(1), countRows(s.T(), s.db, &models.TeamGolfer{}))
}

func (s *RosterServiceSuite) TestMove() {
	active := s.seatFullTeam(10, 10, 10, 10)

	result, err := s.service.Move(s.ctx, s.team.ID, active[0].ID, fantasy.SeatBench)
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Len(result.Roster.Golfers, 3)
	s.Require().Len(result.Roster.Bench, 1)
	s.Equal(40.0, result.Roster.SalaryUsed)

	stored := reloadTeam(s.T(), s.db, s.team.ID)
	seat, ok := stored.SeatOf(active[0].ID)
	s.True(ok)
	s.Equal(fantasy.SeatBench, seat)

	s.Require().NoError(s.moveOrFail(active[1].ID, fantasy.SeatBench))

	result, err = s.service.Move(s.ctx, s.team.ID, active[2].ID, fantasy.SeatBench)
	s.Require().NoError(err)
	s.False(result.Accepted)
	s.Equal(ReasonSeatFull, result.Reason)

	result, err = s.service.Move(s.ctx, s.team.ID, uuid.New(), fantasy.SeatTeam)
	s.Require().NoError(err)
	s.Equal(ReasonNotOnTeam, result.Reason)
}

func (s *RosterServiceSuite) moveOrFail(golferID uuid.UUID, to fantasy.Seat) error {
	result, err := s.service.Move(s.ctx, s.team.ID, golferID, to)
	if err != nil {
		return err
	}
	s.True(result.Accepted)
	return nil
}

func (s *RosterServiceSuite) TestApplyDispatchesIntents() {
	golfer := createGolfer(s.T(), s.db, "Dispatch", 12.5, "")

	result, err := s.service.Apply(s.ctx, RosterIntent{TeamID: s.team.ID, Intent: IntentAddGolfer, Seat: fantasy.SeatTeam, GolferID: golfer.ID})
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Len(result.Roster.Golfers, 1)

	result, err = s.service.Apply(s.ctx, RosterIntent{TeamID: s.team.ID, Intent: IntentMoveGolfer, Seat: fantasy.SeatBench, GolferID: golfer.ID})
	s.Require().NoError(err)
	s.Len(result.Roster.Bench, 1)

	result, err = s.service.Apply(s.ctx, RosterIntent{TeamID: s.team.ID, Intent: IntentRemoveGolfer, Seat: fantasy.SeatBench, GolferID: golfer.ID})
	s.Require().NoError(err)
	s.Empty(result.Roster.Bench)

	_, err = s.service.Apply(s.ctx, RosterIntent{TeamID: s.team.ID, Intent: "tradeGolfer"})
	s.ErrorIs(err, fantasy.ErrInvalidIntent)
}

func (s *RosterServiceSuite) TestRosterInvariantsHoldAcrossMutations() {
	golfers := make([]models.Golfer, 0, 8)
	for i := 0; i < 8; i++ {
		golfers = append(golfers, createGolfer(s.T(), s.db, "G"+string(rune('A'+i)), float64(10+i*3), ""))
	}

	seats := []fantasy.Seat{fantasy.SeatTeam, fantasy.SeatBench}
	for i, g := range golfers {
		_, err := s.service.Add(s.ctx, s.team.ID, g.ID, seats[i%2])
		s.Require().NoError(err)
		_, err = s.service.Add(s.ctx, s.team.ID, g.ID, seats[(i+1)%2])
		s.Require().NoError(err)
	}

	stored := reloadTeam(s.T(), s.db, s.team.ID)
	s.LessOrEqual(stored.SeatCount(fantasy.SeatTeam), 4)
	s.LessOrEqual(stored.SeatCount(fantasy.SeatBench), 2)
	s.LessOrEqual(stored.SalaryCents(), models.ToCents(100))

	seen := make(map[uuid.UUID]bool)
	for _, row := range stored.Seats {
		s.False(seen[row.GolferID], "golfer seated twice")
		seen[row.GolferID] = true
	}
}

func (s *RosterServiceSuite) TestRosterView() {
	s.seatFullTeam(30)

	view, err := s.service.Roster(s.ctx, s.team.ID)
	s.Require().NoError(err)
	s.Equal(s.event.ID, view.EventID)
	s.Equal(100.0, view.SalaryCap)
	s.Equal(70.0, view.SalaryRemaining)
	s.Len(view.UsedPlayers, 4)

	_, err = s.service.Roster(s.ctx, uuid.New())
	s.ErrorIs(err, fantasy.ErrTeamNotFound)
}

func TestRosterServiceSuite(t *testing.T) {
	suite.Run(t, new(RosterServiceSuite))
}
