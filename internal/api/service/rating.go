package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"

	"gorm.io/gorm"
)

// ScoreAggregator supplies the mean score and review count for a title.
// ReviewRepository satisfies it.
type ScoreAggregator interface {
	ScoreStats(ctx context.Context, titleID int64) (avg float64, count int64, err error)
}

// RatingStore reads and writes the derived rating column on a title.
// TitleRepository satisfies it.
type RatingStore interface {
	GetRating(ctx context.Context, titleID int64) (*int, error)
	SetRating(ctx context.Context, titleID int64, rating *int) error
}

// RatingEngine keeps titles.rating consistent with the current set of review
// scores. The review service calls Recompute after every committed review
// create, score update or delete, so the engine always observes storage
// state from after the triggering write.
type RatingEngine struct {
	reviews ScoreAggregator
	titles  RatingStore
	logger  *slog.Logger

	// one lock per title id; serializes the read-compute-write cycle so
	// concurrent review writes to the same title cannot interleave their
	// recomputations and lose an update
	locks sync.Map
}

func NewRatingEngine(reviews ScoreAggregator, titles RatingStore, logger *slog.Logger) *RatingEngine {
	return &RatingEngine{
		reviews: reviews,
		titles:  titles,
		logger:  logger,
	}
}

// Recompute recalculates the aggregate rating for a title: the mean of all
// its review scores rounded half-to-even, or NULL when no reviews remain.
// A vanished title is a no-op so the triggering review mutation still
// succeeds.
func (e *RatingEngine) Recompute(ctx context.Context, titleID int64) error {
	lock := e.lockFor(titleID)
	lock.Lock()
	defer lock.Unlock()

	avg, count, err := e.reviews.ScoreStats(ctx, titleID)
	if err != nil {
		return err
	}

	var rating *int
	if count > 0 {
		rounded := int(math.RoundToEven(avg))
		rating = &rounded
	}

	current, err := e.titles.GetRating(ctx, titleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Warn("rating recompute skipped, title gone", "title_id", titleID)
			return nil
		}
		return err
	}

	if ratingEqual(current, rating) {
		return nil
	}

	if err := e.titles.SetRating(ctx, titleID, rating); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	e.logger.Debug("title rating updated",
		"title_id", titleID,
		"rating", ratingValue(rating),
		"reviews", count,
	)
	return nil
}

func (e *RatingEngine) lockFor(titleID int64) *sync.Mutex {
	actual, _ := e.locks.LoadOrStore(titleID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func ratingEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func ratingValue(r *int) any {
	if r == nil {
		return nil
	}
	return *r
}
