package store_test

import (
	"context"
	"time"

	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/errors"
	"github.com/halljared/triviadesk/internal/gateway"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// fakeGateway implements store.Gateway with overridable behavior per
// route. Unset routes fail, so tests only pass when they stub what they
// actually use.
type fakeGateway struct {
	listMyEvents         func(ctx context.Context) ([]domain.ListEvent, error)
	saveEvent            func(ctx context.Context, ev domain.Event) (domain.Event, error)
	getEvent             func(ctx context.Context, eventID string) (domain.Event, error)
	deleteEvent          func(ctx context.Context, eventID string) error
	listActiveCategories func(ctx context.Context) ([]domain.Category, error)
	questionsByCategory  func(ctx context.Context, categoryID, count int) ([]gateway.CategoryQuestion, error)
	createRound          func(ctx context.Context, eventID string) (gateway.RoundDetail, error)
	getRound             func(ctx context.Context, roundID string) (gateway.RoundDetail, error)
	deleteRound          func(ctx context.Context, roundID string) error

	createRoundCalls         int
	questionsByCategoryCalls int
}

func (f *fakeGateway) ListMyEvents(ctx context.Context) ([]domain.ListEvent, error) {
	if f.listMyEvents == nil {
		return nil, errUnstubbed
	}
	return f.listMyEvents(ctx)
}

func (f *fakeGateway) SaveEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	if f.saveEvent == nil {
		return domain.Event{}, errUnstubbed
	}
	return f.saveEvent(ctx, ev)
}

func (f *fakeGateway) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if f.getEvent == nil {
		return domain.Event{}, errUnstubbed
	}
	return f.getEvent(ctx, eventID)
}

func (f *fakeGateway) DeleteEvent(ctx context.Context, eventID string) error {
	if f.deleteEvent == nil {
		return nil
	}
	return f.deleteEvent(ctx, eventID)
}

func (f *fakeGateway) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	if f.listActiveCategories == nil {
		return nil, errUnstubbed
	}
	return f.listActiveCategories(ctx)
}

func (f *fakeGateway) QuestionsByCategory(ctx context.Context, categoryID, count int) ([]gateway.CategoryQuestion, error) {
	f.questionsByCategoryCalls++
	if f.questionsByCategory == nil {
		return nil, errUnstubbed
	}
	return f.questionsByCategory(ctx, categoryID, count)
}

func (f *fakeGateway) CreateRound(ctx context.Context, eventID string) (gateway.RoundDetail, error) {
	f.createRoundCalls++
	if f.createRound == nil {
		return gateway.RoundDetail{}, errUnstubbed
	}
	return f.createRound(ctx, eventID)
}

func (f *fakeGateway) GetRound(ctx context.Context, roundID string) (gateway.RoundDetail, error) {
	if f.getRound == nil {
		return gateway.RoundDetail{}, errUnstubbed
	}
	return f.getRound(ctx, roundID)
}

func (f *fakeGateway) DeleteRound(ctx context.Context, roundID string) error {
	if f.deleteRound == nil {
		return nil
	}
	return f.deleteRound(ctx, roundID)
}

var errUnstubbed = errors.New(errors.CodeInternal, errors.WithMessagef("route not stubbed"))
