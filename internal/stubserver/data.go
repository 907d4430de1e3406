package stubserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/gateway"
)

var difficulties = []string{"easy", "medium", "hard"}

// dataset is the in-memory stand-in for the production database. Events
// and rounds are created through the API; categories and pool questions
// are generated fixtures. All accessors return copies.
type dataset struct {
	mu         sync.Mutex
	faker      *gofakeit.Faker
	events     map[string]*eventRecord
	rounds     map[string]*gateway.RoundDetail
	categories []domain.Category
	pool       map[int]gateway.CategoryQuestion
	nextPoolID int
}

type eventRecord struct {
	ID          string
	Name        string
	EventDate   string
	Status      string
	Description string
	CreatedAt   time.Time
	RoundIDs    []string
}

func newDataset(seed uint64, categories int) *dataset {
	d := &dataset{
		faker:      gofakeit.New(seed),
		events:     make(map[string]*eventRecord),
		rounds:     make(map[string]*gateway.RoundDetail),
		pool:       make(map[int]gateway.CategoryQuestion),
		nextPoolID: 1,
	}

	for i := 0; i < categories; i++ {
		d.categories = append(d.categories, domain.Category{
			ID:            i + 1,
			Name:          d.faker.Noun(),
			QuestionCount: d.faker.Number(5, 50),
		})
	}
	return d
}

func (d *dataset) listCategories() []domain.Category {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.Category, len(d.categories))
	copy(out, d.categories)
	return out
}

func (d *dataset) categoryByID(id int) (domain.Category, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (d *dataset) randomCategory() (domain.Category, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.categories) == 0 {
		return domain.Category{}, false
	}
	return d.categories[d.faker.Number(0, len(d.categories)-1)], true
}

// generateQuestions fabricates count pool questions for a category and
// remembers them so check-answer can verify submissions later.
func (d *dataset) generateQuestions(category domain.Category, count int) []gateway.CategoryQuestion {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]gateway.CategoryQuestion, 0, count)
	for i := 0; i < count; i++ {
		q := gateway.CategoryQuestion{
			ID:         d.nextPoolID,
			Question:   d.faker.Question(),
			Answer:     d.faker.Word(),
			Category:   category.Name,
			Difficulty: d.faker.RandomString(difficulties),
		}
		d.nextPoolID++
		d.pool[q.ID] = q
		out = append(out, q)
	}
	return out
}

func (d *dataset) poolQuestion(id int) (gateway.CategoryQuestion, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.pool[id]
	return q, ok
}

func (d *dataset) saveEvent(id, name, eventDate, description, status string) (eventRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == "" {
		ev := &eventRecord{
			ID:          uuid.NewString(),
			Name:        name,
			EventDate:   eventDate,
			Status:      status,
			Description: description,
			CreatedAt:   time.Now().UTC(),
		}
		d.events[ev.ID] = ev
		return *ev, true
	}

	ev, ok := d.events[id]
	if !ok {
		return eventRecord{}, false
	}
	ev.Name = name
	ev.EventDate = eventDate
	ev.Status = status
	ev.Description = description
	return *ev, true
}

func (d *dataset) event(id string) (eventRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev, ok := d.events[id]
	if !ok {
		return eventRecord{}, false
	}
	return *ev, true
}

func (d *dataset) listEvents() []eventRecord {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]eventRecord, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, *ev)
	}
	return out
}

// deleteEvent cascades to the event's rounds, matching the production
// backend's ownership semantics.
func (d *dataset) deleteEvent(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev, ok := d.events[id]
	if !ok {
		return false
	}
	for _, roundID := range ev.RoundIDs {
		delete(d.rounds, roundID)
	}
	delete(d.events, id)
	return true
}

func (d *dataset) createRound(eventID string) (gateway.RoundDetail, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev, ok := d.events[eventID]
	if !ok {
		return gateway.RoundDetail{}, false
	}

	round := &gateway.RoundDetail{
		ID:          uuid.NewString(),
		Name:        fmt.Sprintf("Round %d", len(ev.RoundIDs)+1),
		RoundNumber: len(ev.RoundIDs) + 1,
		EventID:     eventID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Questions:   []gateway.RoundQuestion{},
	}
	d.rounds[round.ID] = round
	ev.RoundIDs = append(ev.RoundIDs, round.ID)
	return *round, true
}

func (d *dataset) round(id string) (gateway.RoundDetail, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rounds[id]
	if !ok {
		return gateway.RoundDetail{}, false
	}
	return *r, true
}

func (d *dataset) deleteRound(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rounds[id]
	if !ok {
		return false
	}
	if ev, ok := d.events[r.EventID]; ok {
		kept := ev.RoundIDs[:0]
		for _, roundID := range ev.RoundIDs {
			if roundID != id {
				kept = append(kept, roundID)
			}
		}
		ev.RoundIDs = kept
		d.renumberLocked(ev)
	}
	delete(d.rounds, id)
	return true
}

// renumberLocked keeps roundNumber sequential after a deletion.
func (d *dataset) renumberLocked(ev *eventRecord) {
	for i, roundID := range ev.RoundIDs {
		if r, ok := d.rounds[roundID]; ok {
			r.RoundNumber = i + 1
		}
	}
}

func (d *dataset) roundSummaries(ev eventRecord) []gateway.RoundSummary {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]gateway.RoundSummary, 0, len(ev.RoundIDs))
	for _, roundID := range ev.RoundIDs {
		r, ok := d.rounds[roundID]
		if !ok {
			continue
		}
		out = append(out, gateway.RoundSummary{
			ID:          r.ID,
			Name:        r.Name,
			RoundNumber: r.RoundNumber,
			CategoryID:  r.CategoryID,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}
