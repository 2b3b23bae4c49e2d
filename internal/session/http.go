package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/auth"
	"github.com/gokatarajesh/quiz-session/internal/catalog"
	"github.com/gokatarajesh/quiz-session/internal/logging"
	httperrors "github.com/gokatarajesh/quiz-session/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for a quiz session.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for session endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "session_http").Logger(),
	}
}

// SessionResponse is the body of every successful session call.
type SessionResponse struct {
	SessionID        string    `json:"session_id"`
	View             ViewState `json:"view"`
	State            State     `json:"state"`
	CatalogAvailable bool      `json:"catalog_available"`
	Correct          *bool     `json:"correct,omitempty"`
}

// maxRequestBytes bounds command bodies; they carry a single short string.
const maxRequestBytes = 4 << 10

type selectCategoryRequest struct {
	Title string `json:"title"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

// Catalog handles GET /v1/catalog
func (h *HTTPHandlers) Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w, http.MethodGet)
		return
	}

	cat, err := h.service.Catalog()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": cat.Summaries(),
	})
}

// Session handles GET /v1/session (snapshot) and DELETE /v1/session (reset).
func (h *HTTPHandlers) Session(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		h.service.Reset(r.Context(), id)
	default:
		httperrors.RespondMethodNotAllowed(w, http.MethodGet, http.MethodDelete)
		return
	}
	h.respondSession(w, r, id, nil)
}

// SelectCategory handles POST /v1/session/category
func (h *HTTPHandlers) SelectCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req selectCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.SelectCategory(r.Context(), id, req.Title); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondSession(w, r, id, nil)
}

// SubmitAnswer handles POST /v1/session/answer
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	correct, err := h.service.SubmitAnswer(r.Context(), id, req.Answer)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondSession(w, r, id, &correct)
}

// Advance handles POST /v1/session/advance
func (h *HTTPHandlers) Advance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Advance(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondSession(w, r, id, nil)
}

// decodeBody reads a size-limited JSON body into v, answering the request itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httperrors.RespondError(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodeInvalidRequest, "Request body too large")
		return false
	}
	httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
	return false
}

func (h *HTTPHandlers) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.SessionIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Session token required")
	}
	return id, ok
}

func (h *HTTPHandlers) respondSession(w http.ResponseWriter, r *http.Request, id uuid.UUID, correct *bool) {
	state, view := h.service.Snapshot(r.Context(), id)
	httperrors.RespondJSON(w, http.StatusOK, SessionResponse{
		SessionID:        id.String(),
		View:             view,
		State:            state,
		CatalogAvailable: h.service.CatalogAvailable(),
		Correct:          correct,
	})
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorCode(err)
	if status == http.StatusInternalServerError {
		log := logging.FromContext(r.Context(), h.logger)
		log.Error().Err(err).Str("path", r.URL.Path).Msg("session request failed")
	}
	httperrors.RespondError(w, status, code, errorMessage(code, err))
}

func errorMessage(code string, err error) string {
	if code == httperrors.ErrCodeDataUnavailable {
		return "Quiz data is unavailable"
	}
	return err.Error()
}

// errorCode maps engine and catalog errors onto HTTP status and envelope code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrUnavailable):
		return http.StatusServiceUnavailable, httperrors.ErrCodeDataUnavailable
	case errors.Is(err, ErrCategoryNotFound):
		return http.StatusNotFound, httperrors.ErrCodeCategoryNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, httperrors.ErrCodeInvalidInput
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict, httperrors.ErrCodeInvalidState
	default:
		return http.StatusInternalServerError, httperrors.ErrCodeInternalError
	}
}
