package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeScores serves review scores per title from memory.
type fakeScores struct {
	mu     sync.Mutex
	scores map[int64][]int
}

func (f *fakeScores) ScoreStats(_ context.Context, titleID int64) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.scores[titleID]
	if len(s) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, v := range s {
		sum += v
	}
	return float64(sum) / float64(len(s)), int64(len(s)), nil
}

// fakeTitles stores ratings per title and counts writes.
type fakeTitles struct {
	mu      sync.Mutex
	ratings map[int64]*int
	writes  int
}

func (f *fakeTitles) GetRating(_ context.Context, titleID int64) (*int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.ratings[titleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeTitles) SetRating(_ context.Context, titleID int64, rating *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ratings[titleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.ratings[titleID] = rating
	f.writes++
	return nil
}

func newEngineFixture(t *testing.T) (*RatingEngine, *fakeScores, *fakeTitles) {
	t.Helper()
	scores := &fakeScores{scores: map[int64][]int{}}
	titles := &fakeTitles{ratings: map[int64]*int{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRatingEngine(scores, titles, logger), scores, titles
}

func ratingOf(t *testing.T, titles *fakeTitles, id int64) *int {
	t.Helper()
	titles.mu.Lock()
	defer titles.mu.Unlock()
	return titles.ratings[id]
}

func TestRecomputeScenario(t *testing.T) {
	engine, scores, titles := newEngineFixture(t)
	ctx := context.Background()
	titles.ratings[1] = nil

	// no reviews yet: rating stays absent
	require.NoError(t, engine.Recompute(ctx, 1))
	assert.Nil(t, ratingOf(t, titles, 1))

	// author A scores 8
	scores.scores[1] = []int{8}
	require.NoError(t, engine.Recompute(ctx, 1))
	require.NotNil(t, ratingOf(t, titles, 1))
	assert.Equal(t, 8, *ratingOf(t, titles, 1))

	// author B scores 5: mean 6.5 rounds half-to-even down to 6
	scores.scores[1] = []int{8, 5}
	require.NoError(t, engine.Recompute(ctx, 1))
	require.NotNil(t, ratingOf(t, titles, 1))
	assert.Equal(t, 6, *ratingOf(t, titles, 1))

	// author A deletes their review
	scores.scores[1] = []int{5}
	require.NoError(t, engine.Recompute(ctx, 1))
	require.NotNil(t, ratingOf(t, titles, 1))
	assert.Equal(t, 5, *ratingOf(t, titles, 1))
}

func TestRecomputeTiesToEven(t *testing.T) {
	engine, scores, titles := newEngineFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{"6.5 rounds down to 6", []int{8, 5}, 6},
		{"7.5 rounds up to 8", []int{8, 7}, 8},
		{"plain mean", []int{10, 10, 1}, 7},
		{"single review", []int{3}, 3},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := int64(i + 1)
			titles.ratings[id] = nil
			scores.scores[id] = tt.scores

			require.NoError(t, engine.Recompute(ctx, id))
			got := ratingOf(t, titles, id)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestRecomputeLastReviewDeletedClearsRating(t *testing.T) {
	engine, scores, titles := newEngineFixture(t)
	ctx := context.Background()

	seven := 7
	titles.ratings[1] = &seven
	scores.scores[1] = nil

	require.NoError(t, engine.Recompute(ctx, 1))
	// absent, not zero
	assert.Nil(t, ratingOf(t, titles, 1))
}

func TestRecomputeIdempotent(t *testing.T) {
	engine, scores, titles := newEngineFixture(t)
	ctx := context.Background()

	titles.ratings[1] = nil
	scores.scores[1] = []int{4, 9}

	require.NoError(t, engine.Recompute(ctx, 1))
	require.NotNil(t, ratingOf(t, titles, 1))
	first := *ratingOf(t, titles, 1)
	writesAfterFirst := titles.writes

	require.NoError(t, engine.Recompute(ctx, 1))
	require.NotNil(t, ratingOf(t, titles, 1))
	assert.Equal(t, first, *ratingOf(t, titles, 1))
	// unchanged value is not rewritten
	assert.Equal(t, writesAfterFirst, titles.writes)
}

func TestRecomputeTitleGoneIsNoop(t *testing.T) {
	engine, scores, _ := newEngineFixture(t)
	ctx := context.Background()

	scores.scores[42] = []int{5}
	// title 42 does not exist in the store; the triggering review mutation
	// must not be aborted
	assert.NoError(t, engine.Recompute(ctx, 42))
}

func TestRecomputeConcurrentSameTitle(t *testing.T) {
	engine, scores, titles := newEngineFixture(t)
	ctx := context.Background()

	titles.ratings[1] = nil
	scores.scores[1] = []int{2, 4, 6, 8, 10}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, engine.Recompute(ctx, 1))
		}()
	}
	wg.Wait()

	got := ratingOf(t, titles, 1)
	require.NotNil(t, got)
	assert.Equal(t, 6, *got)
}
