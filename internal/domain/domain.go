package domain

import "time"

type EventStatus string

const (
	EventStatusDraft      EventStatus = "draft"
	EventStatusUpcoming   EventStatus = "upcoming"
	EventStatusInProgress EventStatus = "in-progress"
	EventStatusCompleted  EventStatus = "completed"
)

// Event is a trivia event being authored. ID is empty until the backend
// persists the event and assigns one.
type Event struct {
	ID          string
	Name        string
	EventDate   time.Time
	Status      EventStatus
	Description string
	Rounds      []Round
}

// Persisted reports whether the event has a server-assigned identity.
// Rounds cannot be created for an event that is not persisted yet.
func (e *Event) Persisted() bool { return e.ID != "" }

// ListEvent is the summary shape used by the event index view. Dates are
// kept as the backend sent them; the list is advisory only.
type ListEvent struct {
	ID         string
	Name       string
	EventDate  string
	CreatedAt  string
	Status     string
	RoundCount int
}

// Round is a named group of questions within an event. CategoryID zero
// means no category has been assigned yet; such a round can still hold
// manually authored questions.
type Round struct {
	ID          string
	Name        string
	RoundNumber int
	CategoryID  int
	Questions   []Question
	CreatedAt   time.Time
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionOpenEnded      QuestionType = "open-ended"
)

// Difficulty is the canonical numeric difficulty level.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	}
	return "medium"
}

// Question is a single trivia prompt/answer pair. An empty QuestionText
// marks a draft question awaiting fill-in, not an error. Options only
// apply to multiple-choice questions.
type Question struct {
	ID           string
	QuestionText string
	AnswerText   string
	Type         QuestionType
	Difficulty   Difficulty
	Options      []string
}

// Category groups backend question content. QuestionCount is advisory,
// used for sorting and search, not authoritative at fetch time.
type Category struct {
	ID            int
	Name          string
	QuestionCount int
}
