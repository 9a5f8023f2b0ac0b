package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type RefreshOptions struct {
	// TournamentID overrides the event's stored external id.
	TournamentID string
	// Sweep runs the used-players tracker after reconciling.
	Sweep bool
}

type RefreshResult struct {
	Reconcile *ReconcileResult  `json:"reconcile"`
	Sweep     []TeamSweepResult `json:"sweep,omitempty"`
}

// EventRefresher pulls an event's leaderboard and reconciles it, optionally
// followed by a used-players sweep.
type EventRefresher struct {
	db         *database.DB
	feed       fantasy.LeaderboardFeed
	reconciler *Reconciler
	tracker    *UsedPlayersTracker
	season     string
	logger     *logrus.Logger

	inflight singleflight.Group
}

// NewEventRefresher builds a refresher. season overrides the season derived
// from each event's start date when non-empty.
func NewEventRefresher(db *database.DB, feed fantasy.LeaderboardFeed, reconciler *Reconciler, tracker *UsedPlayersTracker, season string, logger *logrus.Logger) *EventRefresher {
	return &EventRefresher{
		db:         db,
		feed:       feed,
		reconciler: reconciler,
		tracker:    tracker,
		season:     season,
		logger:     logger,
	}
}

// RefreshEvent fetches then reconciles. A feed failure aborts before any
// write. Concurrent calls with the same event and options share one run; the
// run keeps the first caller's deadline but not its cancellation, and a
// caller that gives up returns its own context error.
func (r *EventRefresher) RefreshEvent(ctx context.Context, eventID uuid.UUID, opts RefreshOptions) (*RefreshResult, error) {
	key := fmt.Sprintf("%s/%s/%t", eventID, opts.TournamentID, opts.Sweep)
	ch := r.inflight.DoChan(key, func() (interface{}, error) {
		runCtx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithDeadline(runCtx, deadline)
			defer cancel()
		}
		return r.refreshEvent(runCtx, eventID, opts)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			logger.ForEvent(r.logger, "refresh", eventID).Debug("Joined in-flight event refresh")
		}
		result, _ := res.Val.(*RefreshResult)
		return result, res.Err
	}
}

func (r *EventRefresher) refreshEvent(ctx context.Context, eventID uuid.UUID, opts RefreshOptions) (*RefreshResult, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fantasy.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	externalID := event.ExternalID
	if opts.TournamentID != "" {
		externalID = opts.TournamentID
	}
	season := r.season
	if season == "" {
		season = event.SeasonYear()
	}

	competitors, err := r.feed.GetLeaderboard(ctx, externalID, season)
	if err != nil {
		return nil, err
	}

	reconciled, err := r.reconciler.Reconcile(ctx, eventID, competitors)
	if err != nil {
		return &RefreshResult{Reconcile: reconciled}, err
	}

	result := &RefreshResult{Reconcile: reconciled}
	if opts.Sweep {
		sweeps, err := r.tracker.SweepEvent(ctx, eventID, nil)
		if err != nil {
			return result, err
		}
		result.Sweep = sweeps
	}
	return result, nil
}

// RefreshActiveEvents refreshes and sweeps every in-progress event. One
// event's failure is logged and the rest still run.
func (r *EventRefresher) RefreshActiveEvents(ctx context.Context) (int, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Where("status = ?", models.EventInProgress).Find(&events).Error; err != nil {
		return 0, fmt.Errorf("failed to list active events: %w", err)
	}

	var errs []error
	refreshed := 0
	for _, event := range events {
		if _, err := r.RefreshEvent(ctx, event.ID, RefreshOptions{Sweep: true}); err != nil {
			logger.ForEvent(r.logger, "refresh", event.ID).WithError(err).Error("Scheduled event refresh failed")
			errs = append(errs, err)
			continue
		}
		refreshed++
	}
	return refreshed, errors.Join(errs...)
}
