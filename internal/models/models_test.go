package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsedPlayersLedger_Record(t *testing.T) {
	ledger := NewUsedPlayersLedger(4)
	require.Equal(t, []int{1, 2, 3, 4}, ledger.Days())

	a, b := uuid.New(), uuid.New()

	assert.True(t, ledger.Record(2, a, 4))
	assert.False(t, ledger.Record(2, a, 4), "duplicate golfer is not recorded twice")
	assert.True(t, ledger.Record(2, b, 4))
	assert.Equal(t, []uuid.UUID{a, b}, ledger.Golfers(2))
	assert.Empty(t, ledger.Golfers(1))
	assert.True(t, ledger.Contains(2, b))
	assert.False(t, ledger.Contains(3, b))
}

func TestUsedPlayersLedger_RecordRespectsLimit(t *testing.T) {
	ledger := NewUsedPlayersLedger(1)
	for i := 0; i < 4; i++ {
		require.True(t, ledger.Record(1, uuid.New(), 4))
	}
	assert.False(t, ledger.Record(1, uuid.New(), 4))
	assert.Len(t, ledger.Golfers(1), 4)
}

func TestUsedPlayersLedger_RecordMissingDayKeepsOrder(t *testing.T) {
	golferID := uuid.New()
	ledger := UsedPlayersLedger{{Day: 1}, {Day: 3}}
	require.True(t, ledger.Record(2, golferID, 4))

	want := UsedPlayersLedger{{Day: 1}, {Day: 2, Golfers: []uuid.UUID{golferID}}, {Day: 3}}
	if diff := cmp.Diff(want, ledger); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestTeam_SeatHelpers(t *testing.T) {
	now := time.Now()
	first := Golfer{ID: uuid.New(), Name: "First", Salary: 30.5}
	second := Golfer{ID: uuid.New(), Name: "Second", Salary: 20.25}
	bench := Golfer{ID: uuid.New(), Name: "Bench", Salary: 9.25}

	team := Team{
		ID: uuid.New(),
		Seats: []TeamGolfer{
			{GolferID: second.ID, Seat: fantasy.SeatTeam, CreatedAt: now.Add(time.Second), Golfer: second},
			{GolferID: bench.ID, Seat: fantasy.SeatBench, CreatedAt: now, Golfer: bench},
			{GolferID: first.ID, Seat: fantasy.SeatTeam, CreatedAt: now, Golfer: first},
		},
	}

	assert.Equal(t, []Golfer{first, second}, team.SeatGolfers(fantasy.SeatTeam))
	assert.Equal(t, 2, team.SeatCount(fantasy.SeatTeam))
	assert.Equal(t, 1, team.SeatCount(fantasy.SeatBench))
	assert.Equal(t, int64(6000), team.SalaryCents())
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, team.ActiveGolferIDs())

	seat, ok := team.SeatOf(bench.ID)
	assert.True(t, ok)
	assert.Equal(t, fantasy.SeatBench, seat)

	_, ok = team.SeatOf(uuid.New())
	assert.False(t, ok)
}

func TestTeam_LedgerJSON(t *testing.T) {
	golferID := uuid.New()
	team := Team{}
	ledger := NewUsedPlayersLedger(2)
	ledger.Record(1, golferID, 4)
	team.SetLedger(ledger)

	data, err := json.Marshal(team)
	require.NoError(t, err)
	assert.Contains(t, string(data), golferID.String())
	assert.Equal(t, []uuid.UUID{golferID}, team.Ledger().Golfers(1))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(10000), ToCents(33.33+33.33+33.34))
	assert.Equal(t, 12.5, FromCents(1250))
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
}
