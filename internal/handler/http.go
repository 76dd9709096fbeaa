package handler

import (
	"errors"
	"fmt"
	"net/http"

	"deckswipe-server/internal/cards"
	"deckswipe-server/internal/game"
	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

type cardEventRequest struct {
	CardID   *int   `json:"cardId"`
	CardName string `json:"cardName"`
}

func (r cardEventRequest) ref() (game.CardRef, error) {
	if r.CardID == nil && r.CardName == "" {
		return game.CardRef{}, fmt.Errorf("%w: cardId or cardName is required", models.ErrBadRequest)
	}
	ref := game.CardRef{Name: r.CardName}
	if r.CardID != nil {
		ref.ID = *r.CardID
	}
	return ref, nil
}

type decisionRequest struct {
	cardEventRequest
	Side string `json:"side"`
}

// decisionResponse is returned after a decision.
type decisionResponse struct {
	GameOver bool       `json:"gameOver"`
	State    game.State `json:"state"`
}

// GameHandler serves the gameplay API.
type GameHandler struct {
	sessions *SessionManager
	hub      *StreamHub
	logger   *zap.Logger
}

func NewGameHandler(sessions *SessionManager, hub *StreamHub, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		sessions: sessions,
		hub:      hub,
		logger:   logger.Named("GameHandler"),
	}
}

// RegisterRoutes регистрирует маршруты игрового API.
func (h *GameHandler) RegisterRoutes(e *echo.Echo) {
	games := e.Group("/games/:playerID")
	{
		games.POST("", h.startGame)
		games.GET("", h.getGame)
		games.DELETE("", h.closeGame)
		games.POST("/shown", h.cardShown)
		games.POST("/decisions", h.decide)
		games.POST("/restart", h.restart)
		games.GET("/ws", h.serveWS)
	}
}

func playerIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("playerID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid player ID %q", models.ErrBadRequest, c.Param("playerID"))
	}
	return id, nil
}

// startGame opens (or resumes) the session; a session without a card in play starts a run.
func (h *GameHandler) startGame(c echo.Context) error {
	playerID, err := playerIDParam(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	g, created, err := h.sessions.Open(c.Request().Context(), playerID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	if created || g.State().Card == nil {
		if _, err := g.Start(); err != nil {
			return h.handleServiceError(c, err)
		}
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, g.State())
}

func (h *GameHandler) getGame(c echo.Context) error {
	playerID, err := playerIDParam(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	g, err := h.sessions.Get(playerID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, g.State())
}

func (h *GameHandler) closeGame(c echo.Context) error {
	playerID, err := playerIDParam(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	if err := h.sessions.Close(c.Request().Context(), playerID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GameHandler) cardShown(c echo.Context) error {
	playerID, err := playerIDParam(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	var req cardEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}
	ref, err := req.ref()
	if err != nil {
		return h.handleServiceError(c, err)
	}
	g, err := h.sessions.Get(playerID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	if err := g.OnCardShown(ref); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GameHandler) decide(c echo.Context) error {
	playerID, err := playerIDParam(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}
	ref, err := req.ref()
	if err != nil {
		return h.handleServiceError(c, err)
	}
	side, err := cards.ParseSide(req.Side)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	g, err := h.sessions.Get(playerID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	result, err := g.OnDecision(ref, side)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, decisionResponse{GameOver: result.GameOver, State: g.State()})
}

func (h *GameHandler) restart(c echo.Context) error {
	playerID, err := playerIDParam(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	g, err := h.sessions.Get(playerID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	if _, err := g.Restart(); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, g.State())
}

// handleServiceError maps domain errors to HTTP responses.
func (h *GameHandler) handleServiceError(c echo.Context, err error) error {
	var statusCode int
	var apiErr APIError

	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrCardNotFound):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrNotCurrentCard), errors.Is(err, models.ErrAlreadyResolved):
		statusCode = http.StatusConflict
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrNotReady), errors.Is(err, models.ErrSessionClosed):
		statusCode = http.StatusServiceUnavailable
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrInvalidSide), errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	default:
		h.logger.Error("Unhandled service error", zap.String("path", c.Path()), zap.Error(err))
		statusCode = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}
	return c.JSON(statusCode, apiErr)
}
