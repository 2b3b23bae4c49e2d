package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSelectCategory = "select_category"
	TypeSubmitAnswer   = "submit_answer"
	TypeAdvance        = "advance"
	TypeReset          = "reset"

	// Server -> Client
	TypeSessionState = "session_state"
	TypeViewState    = "view_state"
	TypeAnswerAck    = "answer_ack"
	TypeError        = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a Message of the given type.
func NewMessage(msgType string, payload any, requestID string) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw, RequestID: requestID}, nil
}

// Client Messages (incoming)

type SelectCategoryPayload struct {
	Title string `json:"title"`
}

type SubmitAnswerPayload struct {
	Answer string `json:"answer"`
}

// Server Messages (outgoing)

type ViewStatePayload struct {
	View string `json:"view"`
}

type AnswerAckPayload struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
