package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const performanceBatchSize = 100

// SkippedCompetitor is a feed row that matched no golfer.
type SkippedCompetitor struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	EventID     uuid.UUID           `json:"event_id"`
	Created     int                 `json:"created"`
	Updated     int                 `json:"updated"`
	Unchanged   int                 `json:"unchanged"`
	NameMatched int                 `json:"name_matched"`
	Skipped     []SkippedCompetitor `json:"skipped"`
}

// Reconciler upserts leaderboard rounds into performance rows keyed by
// (golfer, event, day).
type Reconciler struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewReconciler(db *database.DB, logger *logrus.Logger) *Reconciler {
	return &Reconciler{db: db, logger: logger}
}

type golferIndex struct {
	byExternalID map[string]uuid.UUID
	byName       map[string]uuid.UUID
	ambiguous    map[string]bool
}

// Reconcile diffs competitors against the event's stored performances and
// commits the difference. Updates go row by row; creates go in one batch
// that ignores conflicts on the natural key. A failure mid-commit leaves
// earlier writes in place.
func (r *Reconciler) Reconcile(ctx context.Context, eventID uuid.UUID, competitors []fantasy.Competitor) (*ReconcileResult, error) {
	db := r.db.WithContext(ctx)
	log := logger.ForEvent(r.logger, "reconciler", eventID)

	var event models.Event
	if err := db.Select("id").First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fantasy.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	index, err := loadGolferIndex(db, competitors)
	if err != nil {
		return nil, err
	}

	existing, err := r.loadExisting(db, eventID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{EventID: eventID, Skipped: []SkippedCompetitor{}}
	var (
		updates []models.Performance
		creates []models.Performance
		staged  = make(map[models.PerformanceKey]bool)
	)

	for _, competitor := range competitors {
		golferID, matchedByName, ok := index.match(competitor)
		if !ok {
			result.Skipped = append(result.Skipped, SkippedCompetitor{ExternalID: competitor.ExternalID, Name: competitor.Name})
			continue
		}
		if matchedByName {
			result.NameMatched++
			log.WithFields(logrus.Fields{
				"golfer_id":   golferID,
				"external_id": competitor.ExternalID,
				"name":        competitor.Name,
			}).Warn("Matched competitor by name; recording external id")
			if err := backfillExternalID(db, golferID, competitor.ExternalID); err != nil {
				return result, err
			}
		}

		for _, round := range competitor.Rounds {
			key := models.PerformanceKey{GolferID: golferID, Day: round.Round}
			if staged[key] {
				continue
			}
			staged[key] = true

			incoming := models.Performance{
				GolferID:    golferID,
				EventID:     eventID,
				Day:         round.Round,
				Status:      round.Status,
				TeeTime:     round.TeeTime,
				Score:       round.Score,
				HolesPlayed: round.HolesPlayed,
			}

			current, found := existing[key]
			switch {
			case !found:
				creates = append(creates, incoming)
			case performanceChanged(current, incoming):
				updates = append(updates, incoming)
			default:
				result.Unchanged++
			}
		}
	}

	for _, perf := range updates {
		err := db.Model(&models.Performance{}).
			Where("golfer_id = ? AND event_id = ? AND day = ?", perf.GolferID, perf.EventID, perf.Day).
			Updates(map[string]interface{}{
				"status":       perf.Status,
				"tee_time":     perf.TeeTime,
				"score":        perf.Score,
				"holes_played": perf.HolesPlayed,
			}).Error
		if err != nil {
			return result, fmt.Errorf("failed to update performance for golfer %s day %d: %w", perf.GolferID, perf.Day, err)
		}
		result.Updated++
	}

	if len(creates) > 0 {
		// rows written since the diff was taken are dropped here
		fresh, err := r.loadExisting(db, eventID)
		if err != nil {
			return result, err
		}
		pending := creates[:0]
		for _, perf := range creates {
			if _, taken := fresh[perf.Key()]; !taken {
				pending = append(pending, perf)
			}
		}

		if len(pending) > 0 {
			tx := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&pending, performanceBatchSize)
			if tx.Error != nil {
				return result, fmt.Errorf("failed to create performances: %w", tx.Error)
			}
			result.Created = int(tx.RowsAffected)
		}
	}

	log.WithFields(logrus.Fields{
		"created":   result.Created,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
		"skipped":   len(result.Skipped),
	}).Info("Reconciled leaderboard")

	return result, nil
}

func (r *Reconciler) loadExisting(db *gorm.DB, eventID uuid.UUID) (map[models.PerformanceKey]models.Performance, error) {
	var rows []models.Performance
	if err := db.Where("event_id = ?", eventID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load performances: %w", err)
	}
	existing := make(map[models.PerformanceKey]models.Performance, len(rows))
	for _, row := range rows {
		existing[row.Key()] = row
	}
	return existing, nil
}

// loadGolferIndex maps feed ids to golfers, plus folded names for golfers
// that have no external id yet.
func loadGolferIndex(db *gorm.DB, competitors []fantasy.Competitor) (*golferIndex, error) {
	ids := make([]string, 0, len(competitors))
	for _, c := range competitors {
		if c.ExternalID != "" {
			ids = append(ids, c.ExternalID)
		}
	}

	index := &golferIndex{
		byExternalID: make(map[string]uuid.UUID),
		byName:       make(map[string]uuid.UUID),
		ambiguous:    make(map[string]bool),
	}

	if len(ids) > 0 {
		var mapped []models.Golfer
		if err := db.Select("id", "external_id").Where("external_id IN ?", ids).Find(&mapped).Error; err != nil {
			return nil, fmt.Errorf("failed to load golfers: %w", err)
		}
		for _, g := range mapped {
			index.byExternalID[g.ExternalID] = g.ID
		}
	}

	var unmapped []models.Golfer
	if err := db.Select("id", "name").Where("external_id = '' OR external_id IS NULL").Find(&unmapped).Error; err != nil {
		return nil, fmt.Errorf("failed to load unmapped golfers: %w", err)
	}
	for _, g := range unmapped {
		name := fantasy.NormalizeName(g.Name)
		if _, dup := index.byName[name]; dup {
			index.ambiguous[name] = true
			continue
		}
		index.byName[name] = g.ID
	}

	return index, nil
}

func (idx *golferIndex) match(c fantasy.Competitor) (uuid.UUID, bool, bool) {
	if id, ok := idx.byExternalID[c.ExternalID]; ok && c.ExternalID != "" {
		return id, false, true
	}
	name := fantasy.NormalizeName(c.Name)
	if name == "" || idx.ambiguous[name] {
		return uuid.Nil, false, false
	}
	if id, ok := idx.byName[name]; ok {
		// claimed: a second competitor with the same folded name must not reuse it
		delete(idx.byName, name)
		if c.ExternalID != "" {
			idx.byExternalID[c.ExternalID] = id
		}
		return id, true, true
	}
	return uuid.Nil, false, false
}

func backfillExternalID(db *gorm.DB, golferID uuid.UUID, externalID string) error {
	if externalID == "" {
		return nil
	}
	if err := db.Model(&models.Golfer{}).Where("id = ?", golferID).Update("external_id", externalID).Error; err != nil {
		return fmt.Errorf("failed to record external id for golfer %s: %w", golferID, err)
	}
	return nil
}

func performanceChanged(current, incoming models.Performance) bool {
	return current.Status != incoming.Status ||
		current.Score != incoming.Score ||
		current.HolesPlayed != incoming.HolesPlayed ||
		!sameTime(current.TeeTime, incoming.TeeTime)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
