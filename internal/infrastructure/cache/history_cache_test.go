package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/infrastructure/cache"
)

type countingRepository struct {
	claims  []*model.PersistedClaim
	reads   int
	failAll bool
}

func (r *countingRepository) Insert(_ context.Context, claim *model.PersistedClaim) error {
	if r.failAll {
		return model.NewPersistenceError("insert", errors.New("down"))
	}
	r.claims = append([]*model.PersistedClaim{claim}, r.claims...)
	return nil
}

func (r *countingRepository) FindAllByRecency(context.Context) ([]*model.PersistedClaim, error) {
	r.reads++
	if r.failAll {
		return nil, model.NewPersistenceError("list", errors.New("down"))
	}
	out := make([]*model.PersistedClaim, len(r.claims))
	copy(out, r.claims)
	return out, nil
}

func newClaim() *model.PersistedClaim {
	return model.MergeClaim(model.CanonicalClaim{}, model.PredictionVerdict{RiskScore: 5, Probability: 0.05}, time.Now())
}

func TestHistoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated reads from memory", func(t *testing.T) {
		repo := &countingRepository{}
		c := cache.NewHistoryCache(repo, time.Minute)
		require.NoError(t, c.Insert(ctx, newClaim()))

		first, err := c.FindAllByRecency(ctx)
		require.NoError(t, err)
		second, err := c.FindAllByRecency(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, repo.reads)
		assert.Equal(t, first, second)
	})

	t.Run("insert invalidates the cached history", func(t *testing.T) {
		repo := &countingRepository{}
		c := cache.NewHistoryCache(repo, time.Minute)

		_, err := c.FindAllByRecency(ctx)
		require.NoError(t, err)

		added := newClaim()
		require.NoError(t, c.Insert(ctx, added))

		claims, err := c.FindAllByRecency(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.reads)
		require.Len(t, claims, 1)
		assert.Equal(t, added.ID(), claims[0].ID())
	})

	t.Run("callers cannot mutate the cached slice", func(t *testing.T) {
		repo := &countingRepository{}
		c := cache.NewHistoryCache(repo, time.Minute)
		require.NoError(t, c.Insert(ctx, newClaim()))

		claims, err := c.FindAllByRecency(ctx)
		require.NoError(t, err)
		claims[0] = nil

		again, err := c.FindAllByRecency(ctx)
		require.NoError(t, err)
		assert.NotNil(t, again[0])
	})

	t.Run("errors are not cached", func(t *testing.T) {
		repo := &countingRepository{failAll: true}
		c := cache.NewHistoryCache(repo, time.Minute)

		_, err := c.FindAllByRecency(ctx)
		require.Error(t, err)
		_, err = c.FindAllByRecency(ctx)
		require.Error(t, err)
		assert.Equal(t, 2, repo.reads)

		var pe *model.PersistenceError
		assert.ErrorAs(t, c.Insert(ctx, newClaim()), &pe)
	})
}
