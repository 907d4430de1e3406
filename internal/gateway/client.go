package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/errors"
	"github.com/halljared/triviadesk/internal/telemetry"
)

// TokenSource supplies the session token attached to authenticated
// requests. An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource holding a fixed session token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

type Config struct {
	BaseURL string
	Token   TokenSource
	HTTP    *http.Client
}

// Client is the only component that talks to the backend. One typed
// method per route; no caching, no retries, no batching.
type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
}

func NewClient(c Config) *Client {
	h := c.HTTP
	if h == nil {
		h = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(c.BaseURL, "/"),
		token:   c.Token,
		http:    h,
	}
}

func (c *Client) ListMyEvents(ctx context.Context) ([]domain.ListEvent, error) {
	var payload []listEventPayload
	if err := c.do(ctx, "list_my_events", http.MethodGet, "/events/my", nil, nil, &payload); err != nil {
		return nil, err
	}

	events := make([]domain.ListEvent, 0, len(payload))
	for _, p := range payload {
		events = append(events, domain.ListEvent{
			ID:         p.ID,
			Name:       p.Name,
			EventDate:  p.EventDate,
			CreatedAt:  p.CreatedAt,
			Status:     p.Status,
			RoundCount: p.RoundsCount,
		})
	}
	return events, nil
}

// SaveEvent creates or updates an event; the backend distinguishes by
// the presence of an id in the body.
func (c *Client) SaveEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	body := saveEventRequest{
		ID:          ev.ID,
		Name:        ev.Name,
		EventDate:   ev.EventDate.Format(time.RFC3339),
		Description: ev.Description,
		Status:      string(ev.Status),
	}

	var payload eventPayload
	if err := c.do(ctx, "save_event", http.MethodPost, "/events", nil, body, &payload); err != nil {
		return domain.Event{}, err
	}
	return toDomainEvent(payload), nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	var payload eventPayload
	if err := c.do(ctx, "get_event", http.MethodGet, "/events/"+url.PathEscape(eventID), nil, nil, &payload); err != nil {
		return domain.Event{}, err
	}
	return toDomainEvent(payload), nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, "delete_event", http.MethodDelete, "/events/"+url.PathEscape(eventID), nil, nil, nil)
}

func (c *Client) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	var payload []categoryPayload
	if err := c.do(ctx, "list_active_categories", http.MethodGet, "/categories/active", nil, nil, &payload); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(payload))
	for _, p := range payload {
		categories = append(categories, domain.Category{
			ID:            p.ID,
			Name:          p.Name,
			QuestionCount: p.QuestionCount,
		})
	}
	return categories, nil
}

func (c *Client) QuestionsByCategory(ctx context.Context, categoryID, count int) ([]CategoryQuestion, error) {
	q := url.Values{"count": {strconv.Itoa(count)}}
	path := fmt.Sprintf("/category/%d/questions", categoryID)

	var questions []CategoryQuestion
	if err := c.do(ctx, "questions_by_category", http.MethodGet, path, q, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Client) RandomQuestion(ctx context.Context) (CategoryQuestion, error) {
	var question CategoryQuestion
	if err := c.do(ctx, "random_question", http.MethodGet, "/question", nil, nil, &question); err != nil {
		return CategoryQuestion{}, err
	}
	return question, nil
}

func (c *Client) CheckAnswer(ctx context.Context, req CheckAnswerRequest) (CheckAnswerResponse, error) {
	var resp CheckAnswerResponse
	if err := c.do(ctx, "check_answer", http.MethodPost, "/check-answer", nil, req, &resp); err != nil {
		return CheckAnswerResponse{}, err
	}
	return resp, nil
}

func (c *Client) CreateRound(ctx context.Context, eventID string) (RoundDetail, error) {
	var round RoundDetail
	if err := c.do(ctx, "create_round", http.MethodPost, "/rounds", nil, createRoundRequest{EventID: eventID}, &round); err != nil {
		return RoundDetail{}, err
	}
	return round, nil
}

func (c *Client) GetRound(ctx context.Context, roundID string) (RoundDetail, error) {
	var round RoundDetail
	if err := c.do(ctx, "get_round", http.MethodGet, "/rounds/"+url.PathEscape(roundID), nil, nil, &round); err != nil {
		return RoundDetail{}, err
	}
	return round, nil
}

func (c *Client) DeleteRound(ctx context.Context, roundID string) error {
	return c.do(ctx, "delete_round", http.MethodDelete, "/rounds/"+url.PathEscape(roundID), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: %s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("gateway: %s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if t := c.token.Token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.ObserveGatewayRequest(op, 0, started)
		return errors.New(errors.CodeUnavailable,
			errors.WithMessagef("%s: %s %s failed", op, method, path),
			errors.WithCause(err),
		)
	}
	defer resp.Body.Close()

	telemetry.ObserveGatewayRequest(op, resp.StatusCode, started)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.New(errors.FromHTTPStatus(resp.StatusCode),
			errors.WithMessagef("%s: %s %s: status %d: %s", op, method, path, resp.StatusCode, strings.TrimSpace(string(detail))),
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: %s: decode response: %w", op, err)
	}
	return nil
}

func toDomainEvent(p eventPayload) domain.Event {
	ev := domain.Event{
		ID:          p.ID,
		Name:        p.Name,
		EventDate:   parseTime(p.EventDate),
		Status:      domain.EventStatus(p.Status),
		Description: p.Description,
		Rounds:      make([]domain.Round, 0, len(p.Rounds)),
	}

	for _, r := range p.Rounds {
		ev.Rounds = append(ev.Rounds, toDomainRoundSummary(r))
	}
	return ev
}

// toDomainRoundSummary maps an embedded round summary to a canonical
// Round with no questions.
func toDomainRoundSummary(r RoundSummary) domain.Round {
	round := domain.Round{
		ID:          r.ID,
		Name:        r.Name,
		RoundNumber: r.RoundNumber,
		Questions:   []domain.Question{},
		CreatedAt:   parseTime(r.CreatedAt),
	}
	if r.CategoryID != nil {
		round.CategoryID = *r.CategoryID
	}
	return round
}

// parseTime tolerates absent or malformed timestamps; the zero time
// stands in for "not set".
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
