package draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/draft"
	"github.com/halljared/triviadesk/internal/errors"
)

func TestStore_SaveLoadDiscard(t *testing.T) {
	s := makeStore(t)
	ctx := context.Background()

	ev := domain.Event{
		ID:     "e1",
		Name:   "Pub night",
		Status: domain.EventStatusUpcoming,
		Rounds: []domain.Round{
			{ID: "r1", Name: "Round 1", RoundNumber: 1, Questions: []domain.Question{
				{ID: "q1", QuestionText: "Capital of France?", AnswerText: "Paris", Type: domain.QuestionOpenEnded, Difficulty: domain.DifficultyEasy},
			}},
		},
	}

	require.NoError(t, s.Save(ctx, ev))

	got, err := s.Load(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, ev, got)

	require.NoError(t, s.Discard(ctx, "e1"))

	_, err = s.Load(ctx, "e1")
	require.Equal(t, errors.CodeNotFound, errors.Convert(err).Code)

	// Discarding again is a no-op.
	require.NoError(t, s.Discard(ctx, "e1"))
}

func TestStore_UnsavedEventUsesSharedKey(t *testing.T) {
	s := makeStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, domain.Event{Name: "first attempt"}))
	require.NoError(t, s.Save(ctx, domain.Event{Name: "second attempt"}))

	got, err := s.Load(ctx, draft.KeyUnsaved)
	require.NoError(t, err)
	require.Equal(t, "second attempt", got.Name)
}

func TestStore_DraftExpires(t *testing.T) {
	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{rs.Addr()}})

	s := draft.NewStore(draft.Config{
		Redis:  rc,
		Prefix: "test",
		TTL:    time.Minute,
	})

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, domain.Event{ID: "e1", Name: "expiring"}))

	rs.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "e1")
	require.Equal(t, errors.CodeNotFound, errors.Convert(err).Code)
}

func makeStore(t *testing.T) *draft.Store {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{rs.Addr()},
	})
	require.NoError(t, rc.Ping(ctx).Err(), "should be able to ping redis")

	return draft.NewStore(draft.Config{
		Redis:  rc,
		Prefix: "test",
	})
}
