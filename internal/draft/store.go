// Package draft persists in-progress event edits so they survive a
// restart. A draft is written through on every local mutation and
// discarded when the event is committed to the backend.
package draft

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/errors"
	"github.com/halljared/triviadesk/internal/telemetry"
)

const (
	// KeyUnsaved keys the draft of an event that has no server-assigned
	// identity yet. There is at most one such draft per author.
	KeyUnsaved = "new"

	defaultTTL = 7 * 24 * time.Hour
)

type Config struct {
	Redis  redis.UniversalClient
	Prefix string
	TTL    time.Duration
}

type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Connect dials Redis for the draft store, instruments the client, and
// verifies the connection.
func Connect(addrs []string, pass string) (redis.UniversalClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    addrs,
		Password: pass,
	})

	if err := telemetry.MonitorRedis(r); err != nil {
		return nil, err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return r, nil
}

func NewStore(c Config) *Store {
	ttl := c.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &Store{
		redis:  c.Redis,
		prefix: c.Prefix,
		ttl:    ttl,
	}
}

// Save writes the event as the draft for its id, replacing any previous
// draft.
func (s *Store) Save(ctx context.Context, ev domain.Event) error {
	encoded, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("draft: encode event: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(keyFor(ev)), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("draft: save: %w", err)
	}
	return nil
}

// Load returns the draft stored for eventID, or a NotFound error when
// there is none.
func (s *Store) Load(ctx context.Context, eventID string) (domain.Event, error) {
	raw, err := s.redis.Get(ctx, s.key(eventID)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return domain.Event{}, errors.New(errors.CodeNotFound,
			errors.WithMessagef("no draft for event %s", eventID))
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("draft: load: %w", err)
	}

	var ev domain.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return domain.Event{}, fmt.Errorf("draft: decode event: %w", err)
	}
	return ev, nil
}

// Discard removes the draft for eventID. Discarding a missing draft is
// not an error.
func (s *Store) Discard(ctx context.Context, eventID string) error {
	if err := s.redis.Del(ctx, s.key(eventID)).Err(); err != nil {
		return fmt.Errorf("draft: discard: %w", err)
	}
	return nil
}

func (s *Store) key(eventID string) string {
	return fmt.Sprintf("%s:draft:%s", s.prefix, eventID)
}

func keyFor(ev domain.Event) string {
	if !ev.Persisted() {
		return KeyUnsaved
	}
	return ev.ID
}
