package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/auth"
	httperrors "github.com/gokatarajesh/quiz-session/pkg/http/errors"
	"github.com/gokatarajesh/quiz-session/pkg/http/ws"
)

// WSHandler streams a session's state and view over WebSocket and accepts
// commands from the client.
type WSHandler struct {
	service *Service
	hub     *ws.Hub
	authSvc *auth.Service
	logger  zerolog.Logger
}

// NewWSHandler creates a session WebSocket handler.
func NewWSHandler(service *Service, hub *ws.Hub, authSvc *auth.Service, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		authSvc: authSvc,
		logger:  logger.With().Str("component", "session_ws").Logger(),
	}
}

// HandleWebSocket handles GET /ws/session?token=
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Missing token")
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	conn, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.serve(r.Context(), ws.NewConnection(conn, h.logger), claims.SessionID)
}

// serve pumps one connection until the client goes away.
func (h *WSHandler) serve(ctx context.Context, conn *ws.Connection, sessionID uuid.UUID) {
	h.hub.RegisterConnection(sessionID, conn)
	go conn.WritePump()

	engine, release := h.service.Acquire(ctx, sessionID)
	defer release()
	log := h.logger.With().Str("session_id", sessionID.String()).Logger()

	unsubscribeState := engine.SubscribeState(func(s State) {
		h.push(conn, log, ws.TypeSessionState, s)
	})
	unsubscribeView := engine.SubscribeView(func(v ViewState) {
		h.push(conn, log, ws.TypeViewState, ws.ViewStatePayload{View: string(v)})
	})

	conn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(ctx, sessionID, conn, msg)
	})

	unsubscribeState()
	unsubscribeView()
	h.hub.UnregisterConnection(sessionID, conn)
}

// push runs under the engine lock, so it only queues.
func (h *WSHandler) push(conn *ws.Connection, log zerolog.Logger, msgType string, payload any) {
	msg, err := ws.NewMessage(msgType, payload, "")
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("encode push failed")
		return
	}
	if err := conn.Send(msg); err != nil {
		log.Debug().Err(err).Str("type", msgType).Msg("push dropped")
	}
}

// handleMessage routes incoming WebSocket messages.
func (h *WSHandler) handleMessage(ctx context.Context, sessionID uuid.UUID, conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeSelectCategory:
		var req ws.SelectCategoryPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid select_category payload")
		}
		return h.replyErr(conn, msg.RequestID, h.service.SelectCategory(ctx, sessionID, req.Title))
	case ws.TypeSubmitAnswer:
		var req ws.SubmitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid submit_answer payload")
		}
		correct, err := h.service.SubmitAnswer(ctx, sessionID, req.Answer)
		if err != nil {
			return h.replyErr(conn, msg.RequestID, err)
		}
		state, _ := h.service.Snapshot(ctx, sessionID)
		ack, err := ws.NewMessage(ws.TypeAnswerAck, ws.AnswerAckPayload{Correct: correct, Score: state.Score}, msg.RequestID)
		if err != nil {
			return err
		}
		return conn.Send(ack)
	case ws.TypeAdvance:
		return h.replyErr(conn, msg.RequestID, h.service.Advance(ctx, sessionID))
	case ws.TypeReset:
		h.service.Reset(ctx, sessionID)
		return nil
	default:
		return h.sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// replyErr reports a failed command to the client. Successful commands are
// acknowledged by the state push they trigger.
func (h *WSHandler) replyErr(conn *ws.Connection, requestID string, err error) error {
	if err == nil {
		return nil
	}
	_, code := errorCode(err)
	return h.sendError(conn, requestID, code, errorMessage(code, err))
}

func (h *WSHandler) sendError(conn *ws.Connection, requestID, code, message string) error {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message}, requestID)
	if err != nil {
		return err
	}
	return conn.Send(msg)
}
