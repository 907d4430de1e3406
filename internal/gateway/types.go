package gateway

// Raw wire shapes as the backend sends them. Field names and encodings
// vary between backend versions; normalization into the canonical domain
// shapes happens in the normalize package, not here.

type eventPayload struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	EventDate   string         `json:"eventDate"`
	Status      string         `json:"status"`
	Description string         `json:"description"`
	Rounds      []RoundSummary `json:"rounds"`
}

type saveEventRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	EventDate   string `json:"event_date"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type listEventPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EventDate   string `json:"eventDate"`
	CreatedAt   string `json:"createdAt"`
	Status      string `json:"status"`
	RoundsCount int    `json:"roundsCount"`
}

type categoryPayload struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

// RoundSummary is a round as embedded in an event response, without
// questions.
type RoundSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RoundNumber int    `json:"roundNumber"`
	CategoryID  *int   `json:"categoryId"`
	CreatedAt   string `json:"createdAt"`
}

// RoundDetail is the full round response, including its questions.
type RoundDetail struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	RoundNumber int             `json:"roundNumber"`
	EventID     string          `json:"eventId"`
	CategoryID  *int            `json:"categoryId"`
	CreatedAt   string          `json:"createdAt"`
	Questions   []RoundQuestion `json:"questions"`
}

// RoundQuestion is a question as returned inside a round detail
// response. Difficulty is a numeric level here.
type RoundQuestion struct {
	RoundQuestionID string `json:"roundQuestionId"`
	RoundID         string `json:"roundId"`
	QuestionNumber  int    `json:"questionNumber"`
	QuestionID      string `json:"questionId"`
	QuestionType    string `json:"questionType"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	Difficulty      int    `json:"difficulty"`
	CategoryID      int    `json:"categoryId"`
	CategoryName    string `json:"categoryName"`
}

// CategoryQuestion is a question as returned by the category question
// pool. Difficulty is a string label here.
type CategoryQuestion struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type createRoundRequest struct {
	EventID string `json:"event_id"`
}

type CheckAnswerRequest struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

type CheckAnswerResponse struct {
	Correct bool `json:"correct"`
}
