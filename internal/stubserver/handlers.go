package stubserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/halljared/triviadesk/internal/errors"
	"github.com/halljared/triviadesk/internal/gateway"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string `json:"session_token"`
}

type saveEventRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EventDate   string `json:"event_date"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type eventResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	EventDate   string                 `json:"eventDate"`
	Status      string                 `json:"status"`
	Description string                 `json:"description"`
	Rounds      []gateway.RoundSummary `json:"rounds"`
}

type listEventResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EventDate   string `json:"eventDate"`
	CreatedAt   string `json:"createdAt"`
	Status      string `json:"status"`
	RoundsCount int    `json:"roundsCount"`
}

type categoryResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

type createRoundRequest struct {
	EventID string `json:"event_id"`
}

type checkAnswerRequest struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

type checkAnswerResponse struct {
	Correct bool `json:"correct"`
}

// handleLogin accepts any credentials and issues a short-lived session
// token. Dev convenience only.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	claims := jwt.MapClaims{
		"sub": req.Email,
		"exp": time.Now().Add(s.c.Auth.TokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.c.Auth.Secret))
	if err != nil {
		abort(c, errors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, loginResponse{SessionToken: token})
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abort(c, errors.New(errors.CodeUnauthenticated, errors.WithMessagef("missing bearer token")))
			c.Abort()
			return
		}

		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return []byte(s.c.Auth.Secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			abort(c, errors.New(errors.CodeUnauthenticated, errors.WithCause(err)))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories := s.data.listCategories()

	out := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryResponse{
			ID:            cat.ID,
			Name:          cat.Name,
			QuestionCount: cat.QuestionCount,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleQuestionsByCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("categoryID"))
	if err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("invalid category id")))
		return
	}

	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count < 1 {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("invalid count")))
		return
	}

	cat, ok := s.data.categoryByID(categoryID)
	if !ok {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("category %d not found", categoryID)))
		return
	}

	c.JSON(http.StatusOK, s.data.generateQuestions(cat, count))
}

func (s *Server) handleRandomQuestion(c *gin.Context) {
	cat, ok := s.data.randomCategory()
	if !ok {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("no categories available")))
		return
	}

	c.JSON(http.StatusOK, s.data.generateQuestions(cat, 1)[0])
}

func (s *Server) handleCheckAnswer(c *gin.Context) {
	var req checkAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	q, ok := s.data.poolQuestion(req.QuestionID)
	if !ok {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("question %d not found", req.QuestionID)))
		return
	}

	c.JSON(http.StatusOK, checkAnswerResponse{
		Correct: strings.EqualFold(strings.TrimSpace(req.Answer), q.Answer),
	})
}

func (s *Server) handleListEvents(c *gin.Context) {
	events := s.data.listEvents()
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	out := make([]listEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, listEventResponse{
			ID:          ev.ID,
			Name:        ev.Name,
			EventDate:   ev.EventDate,
			CreatedAt:   ev.CreatedAt.Format(time.RFC3339),
			Status:      ev.Status,
			RoundsCount: len(ev.RoundIDs),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSaveEvent(c *gin.Context) {
	var req saveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	status := req.Status
	if status == "" {
		status = "upcoming"
	}

	ev, ok := s.data.saveEvent(req.ID, req.Name, req.EventDate, req.Description, status)
	if !ok {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("event %s not found", req.ID)))
		return
	}

	c.JSON(http.StatusOK, s.renderEvent(ev))
}

func (s *Server) handleGetEvent(c *gin.Context) {
	ev, ok := s.data.event(c.Param("eventID"))
	if !ok {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("event %s not found", c.Param("eventID"))))
		return
	}

	c.JSON(http.StatusOK, s.renderEvent(ev))
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	if !s.data.deleteEvent(c.Param("eventID")) {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("event %s not found", c.Param("eventID"))))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateRound(c *gin.Context) {
	var req createRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}
	if req.EventID == "" {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("event_id is required")))
		return
	}

	round, ok := s.data.createRound(req.EventID)
	if !ok {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("event %s not found", req.EventID)))
		return
	}
	c.JSON(http.StatusOK, round)
}

func (s *Server) handleGetRound(c *gin.Context) {
	round, ok := s.data.round(c.Param("roundID"))
	if !ok {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("round %s not found", c.Param("roundID"))))
		return
	}
	c.JSON(http.StatusOK, round)
}

func (s *Server) handleDeleteRound(c *gin.Context) {
	if !s.data.deleteRound(c.Param("roundID")) {
		abort(c, errors.New(errors.CodeNotFound, errors.WithMessagef("round %s not found", c.Param("roundID"))))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) renderEvent(ev eventRecord) eventResponse {
	return eventResponse{
		ID:          ev.ID,
		Name:        ev.Name,
		EventDate:   ev.EventDate,
		Status:      ev.Status,
		Description: ev.Description,
		Rounds:      s.data.roundSummaries(ev),
	}
}

func abort(c *gin.Context, e *errors.Error) {
	c.JSON(e.HTTPStatusCode(), e)
}
