// Package store is the single source of truth for the event being
// edited, the round currently open for question editing, and the
// category list. All mutation entry points used by the presentation
// layer live here; network I/O goes through the gateway, raw payloads
// through the normalizer.
package store

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/halljared/triviadesk/internal/category"
	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/draft"
	"github.com/halljared/triviadesk/internal/errors"
	"github.com/halljared/triviadesk/internal/event"
	"github.com/halljared/triviadesk/internal/gateway"
	"github.com/halljared/triviadesk/internal/normalize"
)

// Gateway is the backend surface the store depends on. *gateway.Client
// satisfies it.
type Gateway interface {
	ListMyEvents(ctx context.Context) ([]domain.ListEvent, error)
	SaveEvent(ctx context.Context, ev domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	QuestionsByCategory(ctx context.Context, categoryID, count int) ([]gateway.CategoryQuestion, error)
	CreateRound(ctx context.Context, eventID string) (gateway.RoundDetail, error)
	GetRound(ctx context.Context, roundID string) (gateway.RoundDetail, error)
	DeleteRound(ctx context.Context, roundID string) error
}

// Flags are the per-operation loading indicators. Each transitions
// false -> true on call start and true -> false on settle, independently
// of the other flags.
type Flags struct {
	LoadingEvent     bool
	SavingEvent      bool
	LoadingEvents    bool
	DeletingEvent    bool
	LoadingRound     bool
	DeletingRound    bool
	LoadingQuestions bool
}

type Config struct {
	Gateway    Gateway
	Bus        *event.Bus
	Drafts     *draft.Store
	Categories *category.Cache
}

type Store struct {
	gw         Gateway
	eb         *event.Bus
	drafts     *draft.Store
	categories *category.Cache

	mu             sync.Mutex
	event          *domain.Event
	currentRoundID string
	events         []domain.ListEvent
	flags          Flags
	gens           map[string]uint64
}

func NewStore(c Config) *Store {
	cache := c.Categories
	if cache == nil {
		cache = category.NewCache()
	}

	return &Store{
		gw:         c.Gateway,
		eb:         c.Bus,
		drafts:     c.Drafts,
		categories: cache,
		gens:       make(map[string]uint64),
	}
}

// Event returns a snapshot of the loaded event, or nil.
func (s *Store) Event() *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.event == nil {
		return nil
	}
	snap := cloneEvent(*s.event)
	return &snap
}

// CurrentRound materializes the round selected for editing from the
// loaded event's rounds. It is a projection: it can never disagree with
// Event().Rounds.
func (s *Store) CurrentRound() *domain.Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRoundSnapshotLocked()
}

// Events returns a snapshot of the event index list.
func (s *Store) Events() []domain.ListEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ListEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Categories exposes the category cache. Its views return copies.
func (s *Store) Categories() *category.Cache {
	return s.categories
}

func (s *Store) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

// NewEvent starts a fresh transient event with no server identity and
// makes it the loaded event. The event stays local until SaveEvent.
func (s *Store) NewEvent(ctx context.Context) *domain.Event {
	ev := domain.Event{
		Status: domain.EventStatusDraft,
		Rounds: []domain.Round{},
	}

	s.mu.Lock()
	s.event = &ev
	s.currentRoundID = ""
	snap := cloneEvent(ev)
	s.mu.Unlock()

	s.persistDraft(ctx, snap)
	s.publish(ctx, domain.EventEventReplaced{Event: snap})
	return &snap
}

// LoadEvent fetches the event and replaces the loaded event wholesale.
// Failures are logged and leave prior state untouched; callers must
// check for a nil result. A response that has been superseded by a newer
// load for the same id is discarded.
func (s *Store) LoadEvent(ctx context.Context, eventID string) *domain.Event {
	s.mu.Lock()
	s.flags.LoadingEvent = true
	gen := s.nextGenLocked("event:" + eventID)
	s.mu.Unlock()

	ev, err := s.gw.GetEvent(ctx, eventID)

	s.mu.Lock()
	s.flags.LoadingEvent = false
	if err != nil {
		s.mu.Unlock()
		slog.ErrorContext(ctx, "store: load event failed", "event_id", eventID, "error", err)
		return nil
	}
	if s.staleLocked("event:"+eventID, gen) {
		s.mu.Unlock()
		return nil
	}

	if ev.Rounds == nil {
		ev.Rounds = []domain.Round{}
	}
	s.event = &ev
	snap := cloneEvent(ev)
	s.mu.Unlock()

	s.publish(ctx, domain.EventEventReplaced{Event: snap})
	return &snap
}

// SaveEvent sends a create-or-update request and merges the server
// response over the local event; server-assigned fields win. Failures
// reset the saving flag and propagate to the caller.
func (s *Store) SaveEvent(ctx context.Context, ev domain.Event) (*domain.Event, error) {
	s.mu.Lock()
	s.flags.SavingEvent = true
	s.mu.Unlock()

	saved, err := s.gw.SaveEvent(ctx, ev)

	s.mu.Lock()
	s.flags.SavingEvent = false
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	merged := mergeSaved(ev, saved)
	s.event = &merged
	snap := cloneEvent(merged)
	s.mu.Unlock()

	s.discardDraft(ctx, ev)
	s.publish(ctx, domain.EventEventReplaced{Event: snap})
	return &snap, nil
}

// LoadEvents refreshes the event index list. Failures are logged and
// leave the prior list untouched.
func (s *Store) LoadEvents(ctx context.Context) []domain.ListEvent {
	events, err := s.loadEvents(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "store: load events failed", "error", err)
		return nil
	}
	return events
}

func (s *Store) loadEvents(ctx context.Context) ([]domain.ListEvent, error) {
	s.mu.Lock()
	s.flags.LoadingEvents = true
	gen := s.nextGenLocked("events")
	s.mu.Unlock()

	events, err := s.gw.ListMyEvents(ctx)

	s.mu.Lock()
	s.flags.LoadingEvents = false
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.staleLocked("events", gen) {
		s.mu.Unlock()
		return nil, nil
	}

	s.events = events
	out := make([]domain.ListEvent, len(events))
	copy(out, events)
	s.mu.Unlock()

	s.publish(ctx, domain.EventEventsUpdated{Events: out})
	return out, nil
}

// DeleteEvent removes the event on the backend and drops it from the
// index list. Failures propagate.
func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	s.mu.Lock()
	s.flags.DeletingEvent = true
	s.mu.Unlock()

	err := s.gw.DeleteEvent(ctx, eventID)

	s.mu.Lock()
	s.flags.DeletingEvent = false
	if err != nil {
		s.mu.Unlock()
		return err
	}

	kept := s.events[:0]
	for _, e := range s.events {
		if e.ID != eventID {
			kept = append(kept, e)
		}
	}
	s.events = kept
	out := make([]domain.ListEvent, len(kept))
	copy(out, kept)
	s.mu.Unlock()

	s.publish(ctx, domain.EventEventsUpdated{Events: out})
	return nil
}

// SetCurrentRound selects a round of the loaded event by id. An unknown
// id, an empty id, or no loaded event clears the selection.
func (s *Store) SetCurrentRound(roundID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentRoundID = ""
	if s.event == nil || roundID == "" {
		return
	}
	for i := range s.event.Rounds {
		if s.event.Rounds[i].ID == roundID {
			s.currentRoundID = roundID
			return
		}
	}
}

// AddRound creates a round attached to the loaded event, appends it,
// and selects it for editing. It requires a loaded, persisted event;
// that is a precondition error, not recoverable locally.
func (s *Store) AddRound(ctx context.Context) (*domain.Round, error) {
	s.mu.Lock()
	if s.event == nil {
		s.mu.Unlock()
		return nil, errors.FailedPrecondition("no event loaded")
	}
	if !s.event.Persisted() {
		s.mu.Unlock()
		return nil, errors.FailedPrecondition("event has not been saved yet")
	}
	eventID := s.event.ID
	s.mu.Unlock()

	detail, err := s.gw.CreateRound(ctx, eventID)
	if err != nil {
		return nil, err
	}
	round := normalize.Round(detail)

	s.mu.Lock()
	if s.event == nil || s.event.ID != eventID {
		// The event was switched while the create was in flight.
		s.mu.Unlock()
		slog.InfoContext(ctx, "store: discarding round created for a replaced event", "round_id", round.ID)
		return nil, nil
	}
	if round.RoundNumber == 0 {
		round.RoundNumber = len(s.event.Rounds) + 1
	}
	s.event.Rounds = append(s.event.Rounds, round)
	s.currentRoundID = round.ID
	snapEvent := cloneEvent(*s.event)
	snapRound := cloneRound(round)
	s.mu.Unlock()

	s.persistDraft(ctx, snapEvent)
	s.publish(ctx, domain.EventRoundUpdated{Round: snapRound})
	return &snapRound, nil
}

// UpdateRound replaces the round matching round.ID inside the loaded
// event. Local-only: callers persist round contents separately. A round
// that does not exist in the event, or no loaded event, is a no-op.
func (s *Store) UpdateRound(ctx context.Context, round domain.Round) {
	s.mu.Lock()
	if !s.replaceRoundLocked(cloneRound(round)) {
		s.mu.Unlock()
		return
	}
	snapEvent := cloneEvent(*s.event)
	snapRound := cloneRound(round)
	s.mu.Unlock()

	s.persistDraft(ctx, snapEvent)
	s.publish(ctx, domain.EventRoundUpdated{Round: snapRound})
}

// DeleteRound removes the round on the backend, then locally. Failure
// leaves state untouched and propagates.
func (s *Store) DeleteRound(ctx context.Context, roundID string) error {
	s.mu.Lock()
	s.flags.DeletingRound = true
	s.mu.Unlock()

	err := s.gw.DeleteRound(ctx, roundID)

	s.mu.Lock()
	s.flags.DeletingRound = false
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var snapEvent *domain.Event
	if s.event != nil {
		kept := s.event.Rounds[:0]
		for _, r := range s.event.Rounds {
			if r.ID != roundID {
				kept = append(kept, r)
			}
		}
		s.event.Rounds = kept
		snap := cloneEvent(*s.event)
		snapEvent = &snap
	}
	if s.currentRoundID == roundID {
		s.currentRoundID = ""
	}
	s.mu.Unlock()

	if snapEvent != nil {
		s.persistDraft(ctx, *snapEvent)
	}
	s.publish(ctx, domain.EventRoundDeleted{RoundID: roundID})
	return nil
}

// LoadRound fetches round detail including questions, normalizes them,
// places the round inside the loaded event (replace or append), and
// selects it for editing. Requires an event to be loaded already.
// Network failures are logged and yield a nil round.
func (s *Store) LoadRound(ctx context.Context, roundID string) (*domain.Round, error) {
	s.mu.Lock()
	if s.event == nil {
		s.mu.Unlock()
		return nil, errors.FailedPrecondition("no event loaded")
	}
	s.flags.LoadingRound = true
	gen := s.nextGenLocked("round:" + roundID)
	s.mu.Unlock()

	detail, err := s.gw.GetRound(ctx, roundID)

	s.mu.Lock()
	s.flags.LoadingRound = false
	if err != nil {
		s.mu.Unlock()
		slog.ErrorContext(ctx, "store: load round failed", "round_id", roundID, "error", err)
		return nil, nil
	}
	if s.staleLocked("round:"+roundID, gen) || s.event == nil {
		s.mu.Unlock()
		return nil, nil
	}
	if detail.EventID != "" && detail.EventID != s.event.ID {
		// The event was switched while the fetch was in flight.
		s.mu.Unlock()
		slog.InfoContext(ctx, "store: discarding round loaded for a replaced event", "round_id", roundID)
		return nil, nil
	}

	round := normalize.Round(detail)
	if !s.replaceRoundLocked(round) {
		s.event.Rounds = append(s.event.Rounds, round)
	}
	s.currentRoundID = round.ID
	snapEvent := cloneEvent(*s.event)
	snapRound := cloneRound(round)
	s.mu.Unlock()

	s.persistDraft(ctx, snapEvent)
	s.publish(ctx, domain.EventRoundUpdated{Round: snapRound})
	return &snapRound, nil
}

// UpdateQuestion replaces the matching question inside the current
// round, then propagates the round into the event, so the two can never
// diverge. No current round is a no-op.
func (s *Store) UpdateQuestion(ctx context.Context, q domain.Question) {
	s.mutateCurrentRound(ctx, func(r *domain.Round) {
		for i := range r.Questions {
			if r.Questions[i].ID == q.ID {
				r.Questions[i] = cloneQuestion(q)
			}
		}
	})
}

// DeleteQuestion removes the question by id from the current round.
// Deleting an id that is not present is a no-op, so the operation is
// idempotent.
func (s *Store) DeleteQuestion(ctx context.Context, questionID string) {
	s.mutateCurrentRound(ctx, func(r *domain.Round) {
		kept := r.Questions[:0]
		for _, q := range r.Questions {
			if q.ID != questionID {
				kept = append(kept, q)
			}
		}
		r.Questions = kept
	})
}

// SetCategoryID assigns the category on the current round and syncs the
// change into the event like any other round edit.
func (s *Store) SetCategoryID(ctx context.Context, categoryID int) {
	s.mutateCurrentRound(ctx, func(r *domain.Round) {
		r.CategoryID = categoryID
	})
}

// AddQuestions fetches count questions for the current round's category
// and replaces the round's questions with the normalized result. The
// round must be selected and have a category assigned.
func (s *Store) AddQuestions(ctx context.Context, count int) error {
	s.mu.Lock()
	cur := s.currentRoundRefLocked()
	if cur == nil {
		s.mu.Unlock()
		return errors.FailedPrecondition("no round selected")
	}
	if cur.CategoryID == 0 {
		s.mu.Unlock()
		return errors.FailedPrecondition("round has no category assigned")
	}
	roundID, categoryID := cur.ID, cur.CategoryID
	s.flags.LoadingQuestions = true
	gen := s.nextGenLocked("questions:" + roundID)
	s.mu.Unlock()

	raws, err := s.gw.QuestionsByCategory(ctx, categoryID, count)

	s.mu.Lock()
	s.flags.LoadingQuestions = false
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if s.staleLocked("questions:"+roundID, gen) || s.currentRoundID != roundID {
		s.mu.Unlock()
		return nil
	}

	cur = s.currentRoundRefLocked()
	if cur == nil {
		s.mu.Unlock()
		return nil
	}

	questions := make([]domain.Question, 0, len(raws))
	for _, raw := range raws {
		questions = append(questions, normalize.CategoryQuestion(raw))
	}
	updated := cloneRound(*cur)
	updated.Questions = questions
	s.replaceRoundLocked(updated)
	snapEvent := cloneEvent(*s.event)
	snapRound := cloneRound(updated)
	s.mu.Unlock()

	s.persistDraft(ctx, snapEvent)
	s.publish(ctx, domain.EventRoundUpdated{Round: snapRound})
	return nil
}

// FetchCategories replaces the category list wholesale. Failures are
// logged and leave the prior list untouched.
func (s *Store) FetchCategories(ctx context.Context) {
	if _, err := s.fetchCategories(ctx); err != nil {
		slog.ErrorContext(ctx, "store: fetch categories failed", "error", err)
	}
}

func (s *Store) fetchCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	gen := s.nextGenLocked("categories")
	s.mu.Unlock()

	categories, err := s.gw.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.staleLocked("categories", gen) {
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	s.categories.Replace(categories)
	s.publish(ctx, domain.EventCategoriesUpdated{Categories: categories})
	return categories, nil
}

// Bootstrap loads the event index and the category list concurrently.
// Unlike the individual refreshes this propagates the first failure, so
// startup code can surface it.
func (s *Store) Bootstrap(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.loadEvents(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.fetchCategories(ctx)
		return err
	})

	return g.Wait()
}

// RestoreDraft loads a persisted draft and makes it the loaded event.
// Use draft.KeyUnsaved for the draft of a never-saved event.
func (s *Store) RestoreDraft(ctx context.Context, eventID string) (*domain.Event, error) {
	if s.drafts == nil {
		return nil, errors.FailedPrecondition("draft persistence is not configured")
	}

	ev, err := s.drafts.Load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Rounds == nil {
		ev.Rounds = []domain.Round{}
	}

	s.mu.Lock()
	s.event = &ev
	s.currentRoundID = ""
	snap := cloneEvent(ev)
	s.mu.Unlock()

	s.publish(ctx, domain.EventEventReplaced{Event: snap})
	return &snap, nil
}

// DiscardDraft drops the persisted draft of the loaded event without
// touching in-memory state.
func (s *Store) DiscardDraft(ctx context.Context) error {
	if s.drafts == nil {
		return errors.FailedPrecondition("draft persistence is not configured")
	}

	s.mu.Lock()
	key := draft.KeyUnsaved
	if s.event != nil && s.event.Persisted() {
		key = s.event.ID
	}
	s.mu.Unlock()

	return s.drafts.Discard(ctx, key)
}

// mutateCurrentRound applies fn to a copy of the current round, then
// pushes the result through the same replace path as UpdateRound.
func (s *Store) mutateCurrentRound(ctx context.Context, fn func(r *domain.Round)) {
	s.mu.Lock()
	cur := s.currentRoundRefLocked()
	if cur == nil {
		s.mu.Unlock()
		return
	}

	updated := cloneRound(*cur)
	fn(&updated)
	s.replaceRoundLocked(updated)
	snapEvent := cloneEvent(*s.event)
	snapRound := cloneRound(updated)
	s.mu.Unlock()

	s.persistDraft(ctx, snapEvent)
	s.publish(ctx, domain.EventRoundUpdated{Round: snapRound})
}

// currentRoundRefLocked returns a pointer into event.Rounds, valid only
// while the lock is held.
func (s *Store) currentRoundRefLocked() *domain.Round {
	if s.event == nil || s.currentRoundID == "" {
		return nil
	}
	for i := range s.event.Rounds {
		if s.event.Rounds[i].ID == s.currentRoundID {
			return &s.event.Rounds[i]
		}
	}
	return nil
}

func (s *Store) currentRoundSnapshotLocked() *domain.Round {
	ref := s.currentRoundRefLocked()
	if ref == nil {
		return nil
	}
	snap := cloneRound(*ref)
	return &snap
}

func (s *Store) replaceRoundLocked(r domain.Round) bool {
	if s.event == nil {
		return false
	}
	for i := range s.event.Rounds {
		if s.event.Rounds[i].ID == r.ID {
			s.event.Rounds[i] = r
			return true
		}
	}
	return false
}

func (s *Store) nextGenLocked(key string) uint64 {
	s.gens[key]++
	return s.gens[key]
}

func (s *Store) staleLocked(key string, gen uint64) bool {
	return s.gens[key] != gen
}

func (s *Store) publish(ctx context.Context, e event.Event) {
	if s.eb == nil {
		return
	}
	s.eb.Publish(ctx, e)
}

func (s *Store) persistDraft(ctx context.Context, snap domain.Event) {
	if s.drafts == nil {
		return
	}
	if err := s.drafts.Save(ctx, snap); err != nil {
		slog.ErrorContext(ctx, "store: persist draft failed", "error", err)
	}
}

func (s *Store) discardDraft(ctx context.Context, preSave domain.Event) {
	if s.drafts == nil {
		return
	}

	key := draft.KeyUnsaved
	if preSave.Persisted() {
		key = preSave.ID
	}
	if err := s.drafts.Discard(ctx, key); err != nil {
		slog.ErrorContext(ctx, "store: discard draft failed", "error", err)
	}
}

// mergeSaved overlays the server response on the locally edited event.
// Server-assigned fields win; the local value only fills fields the
// response left empty (event-save responses usually omit rounds).
func mergeSaved(local, saved domain.Event) domain.Event {
	merged := saved
	if merged.ID == "" {
		merged.ID = local.ID
	}
	if merged.Name == "" {
		merged.Name = local.Name
	}
	if merged.Status == "" {
		merged.Status = local.Status
	}
	if merged.Description == "" {
		merged.Description = local.Description
	}
	if merged.EventDate.IsZero() {
		merged.EventDate = local.EventDate
	}
	if len(merged.Rounds) == 0 {
		merged.Rounds = local.Rounds
	}
	if merged.Rounds == nil {
		merged.Rounds = []domain.Round{}
	}
	return merged
}

func cloneEvent(ev domain.Event) domain.Event {
	out := ev
	out.Rounds = make([]domain.Round, len(ev.Rounds))
	for i, r := range ev.Rounds {
		out.Rounds[i] = cloneRound(r)
	}
	return out
}

func cloneRound(r domain.Round) domain.Round {
	out := r
	out.Questions = make([]domain.Question, len(r.Questions))
	for i, q := range r.Questions {
		out.Questions[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	out := q
	if q.Options != nil {
		out.Options = make([]string, len(q.Options))
		copy(out.Options, q.Options)
	}
	return out
}
