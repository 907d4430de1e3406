// Package normalize maps heterogeneous raw question payloads into the
// canonical domain shapes. Every function here is total: unknown input
// falls back to a defined default rather than failing.
package normalize

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/gateway"
)

// legacyTypes maps question type spellings used by older backend
// versions, including the preset/user distinction, onto the canonical
// enum.
var legacyTypes = map[string]domain.QuestionType{
	"multiple choice": domain.QuestionMultipleChoice,
	"true/false":      domain.QuestionTrueFalse,
	"open ended":      domain.QuestionOpenEnded,
	"preset":          domain.QuestionOpenEnded,
	"user":            domain.QuestionOpenEnded,
}

// Type maps a raw question type string to the canonical enum. Unknown
// values fall back to open-ended.
func Type(raw string) domain.QuestionType {
	switch t := domain.QuestionType(raw); t {
	case domain.QuestionMultipleChoice, domain.QuestionTrueFalse, domain.QuestionOpenEnded:
		return t
	}

	if t, ok := legacyTypes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return domain.QuestionOpenEnded
}

// Level passes a numeric difficulty level through when it is already
// canonical, and clamps anything else to medium.
func Level(level int) domain.Difficulty {
	switch d := domain.Difficulty(level); d {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		return d
	}
	return domain.DifficultyMedium
}

// Label maps a string difficulty label (easy/medium/hard) to the
// canonical level. Unknown labels fall back to medium.
func Label(raw string) domain.Difficulty {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return domain.DifficultyEasy
	case "medium":
		return domain.DifficultyMedium
	case "hard":
		return domain.DifficultyHard
	}
	return domain.DifficultyMedium
}

// RoundQuestion converts a question from a round detail response.
func RoundQuestion(raw gateway.RoundQuestion) domain.Question {
	id := raw.QuestionID
	if id == "" {
		id = uuid.NewString()
	}

	return domain.Question{
		ID:           id,
		QuestionText: raw.Question,
		AnswerText:   raw.Answer,
		Type:         Type(raw.QuestionType),
		Difficulty:   Level(raw.Difficulty),
	}
}

// CategoryQuestion converts a question from the category pool into a
// fresh draft question. Pool questions always get a client-generated
// identity so repeated fetches never collide.
func CategoryQuestion(raw gateway.CategoryQuestion) domain.Question {
	return domain.Question{
		ID:           uuid.NewString(),
		QuestionText: raw.Question,
		AnswerText:   raw.Answer,
		Type:         domain.QuestionOpenEnded,
		Difficulty:   Label(raw.Difficulty),
	}
}

// Round builds a canonical Round from a round detail response.
func Round(raw gateway.RoundDetail) domain.Round {
	questions := make([]domain.Question, 0, len(raw.Questions))
	for _, q := range raw.Questions {
		questions = append(questions, RoundQuestion(q))
	}

	round := domain.Round{
		ID:          raw.ID,
		Name:        raw.Name,
		RoundNumber: raw.RoundNumber,
		Questions:   questions,
	}
	if raw.CategoryID != nil {
		round.CategoryID = *raw.CategoryID
	}
	if t, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
		round.CreatedAt = t
	}
	return round
}
