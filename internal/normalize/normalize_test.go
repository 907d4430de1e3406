package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halljared/triviadesk/internal/domain"
	"github.com/halljared/triviadesk/internal/gateway"
	"github.com/halljared/triviadesk/internal/normalize"
)

func TestType(t *testing.T) {
	tests := map[string]domain.QuestionType{
		// Canonical values pass through unchanged.
		"multiple-choice": domain.QuestionMultipleChoice,
		"true-false":      domain.QuestionTrueFalse,
		"open-ended":      domain.QuestionOpenEnded,

		// Legacy spellings from older backend versions.
		"Multiple Choice": domain.QuestionMultipleChoice,
		"True/False":      domain.QuestionTrueFalse,
		"Open Ended":      domain.QuestionOpenEnded,
		"preset":          domain.QuestionOpenEnded,
		"USER":            domain.QuestionOpenEnded,

		// Anything unknown falls back, never fails.
		"":           domain.QuestionOpenEnded,
		"???":        domain.QuestionOpenEnded,
		"essay":      domain.QuestionOpenEnded,
		"TRUE-false": domain.QuestionOpenEnded,
	}

	for raw, want := range tests {
		assert.Equal(t, want, normalize.Type(raw), "raw=%q", raw)
	}
}

func TestType_IsTotal(t *testing.T) {
	canonical := []domain.QuestionType{
		domain.QuestionMultipleChoice,
		domain.QuestionTrueFalse,
		domain.QuestionOpenEnded,
	}

	for _, raw := range []string{"", " ", "0", "\x00", "multiple-choice ", "true/FALSE", "open ended"} {
		assert.Contains(t, canonical, normalize.Type(raw), "raw=%q", raw)
	}
}

func TestLevelAndLabel(t *testing.T) {
	assert.Equal(t, domain.DifficultyEasy, normalize.Level(1))
	assert.Equal(t, domain.DifficultyHard, normalize.Level(3))
	assert.Equal(t, domain.DifficultyMedium, normalize.Level(0))
	assert.Equal(t, domain.DifficultyMedium, normalize.Level(42))

	assert.Equal(t, domain.DifficultyEasy, normalize.Label("easy"))
	assert.Equal(t, domain.DifficultyHard, normalize.Label("Hard"))
	assert.Equal(t, domain.DifficultyMedium, normalize.Label("unknown"))
	assert.Equal(t, domain.DifficultyMedium, normalize.Label(""))
}

func TestRoundQuestion(t *testing.T) {
	q := normalize.RoundQuestion(gateway.RoundQuestion{
		QuestionID:   "q1",
		Question:     "Capital of France?",
		Answer:       "Paris",
		QuestionType: "Open Ended",
		Difficulty:   2,
	})

	require.Equal(t, domain.Question{
		ID:           "q1",
		QuestionText: "Capital of France?",
		AnswerText:   "Paris",
		Type:         domain.QuestionOpenEnded,
		Difficulty:   domain.DifficultyMedium,
	}, q)
}

func TestRoundQuestion_FreshIdentityWhenMissing(t *testing.T) {
	q := normalize.RoundQuestion(gateway.RoundQuestion{Question: "Draft?"})
	require.NotEmpty(t, q.ID)
}

func TestCategoryQuestion(t *testing.T) {
	a := normalize.CategoryQuestion(gateway.CategoryQuestion{
		ID:         7,
		Question:   "H2O?",
		Answer:     "Water",
		Difficulty: "easy",
	})
	b := normalize.CategoryQuestion(gateway.CategoryQuestion{
		ID:         7,
		Question:   "H2O?",
		Answer:     "Water",
		Difficulty: "easy",
	})

	require.Equal(t, domain.QuestionOpenEnded, a.Type)
	require.Equal(t, domain.DifficultyEasy, a.Difficulty)
	require.NotEqual(t, a.ID, b.ID, "pool questions always get fresh identities")
}

func TestRound(t *testing.T) {
	categoryID := 5
	r := normalize.Round(gateway.RoundDetail{
		ID:          "r1",
		Name:        "Science",
		RoundNumber: 2,
		CategoryID:  &categoryID,
		CreatedAt:   "2025-04-01T12:00:00Z",
		Questions: []gateway.RoundQuestion{
			{QuestionID: "q1", Question: "H2O?", Answer: "Water", QuestionType: "open-ended", Difficulty: 1},
		},
	})

	require.Equal(t, "r1", r.ID)
	require.Equal(t, 2, r.RoundNumber)
	require.Equal(t, 5, r.CategoryID)
	require.False(t, r.CreatedAt.IsZero())
	require.Len(t, r.Questions, 1)

	// Absent category stays unassigned, questions default to empty.
	bare := normalize.Round(gateway.RoundDetail{ID: "r2"})
	require.Zero(t, bare.CategoryID)
	require.NotNil(t, bare.Questions)
	require.Empty(t, bare.Questions)
}
