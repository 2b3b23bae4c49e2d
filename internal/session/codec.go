package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gokatarajesh/quiz-session/internal/catalog"
)

// DefaultKeyPrefix namespaces snapshot keys in shared stores.
const DefaultKeyPrefix = "quiz"

// Keys are the two store keys one session is persisted under.
type Keys struct {
	State string
	View  string
}

// KeysFor builds the keys for a session ID.
func KeysFor(prefix string, id uuid.UUID) Keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	base := prefix + ":" + id.String()
	return Keys{
		State: base + ":state",
		View:  base + ":view",
	}
}

// stateRecord mirrors State with pointers so absent fields can be told apart from zero values.
type stateRecord struct {
	CurrentCategory      *catalog.Category `json:"currentCategory"`
	CurrentQuestionIndex *int              `json:"currentQuestionIndex"`
	SelectedAnswers      map[int]string    `json:"selectedAnswers"`
	Score                *int              `json:"score"`
	TotalQuestions       *int              `json:"totalQuestions"`
	IsCompleted          *bool             `json:"isCompleted"`
}

func encodeState(s State) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(data), nil
}

// decodeState parses a snapshot and rejects anything violating the state invariants.
// Out-of-range values are reported as corrupt, never clamped.
func decodeState(raw string) (State, error) {
	var rec stateRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	switch {
	case rec.CurrentQuestionIndex == nil:
		return State{}, fmt.Errorf("%w: currentQuestionIndex missing", ErrCorruptSnapshot)
	case rec.Score == nil:
		return State{}, fmt.Errorf("%w: score missing", ErrCorruptSnapshot)
	case rec.TotalQuestions == nil:
		return State{}, fmt.Errorf("%w: totalQuestions missing", ErrCorruptSnapshot)
	case rec.IsCompleted == nil:
		return State{}, fmt.Errorf("%w: isCompleted missing", ErrCorruptSnapshot)
	}

	s := State{
		CurrentCategory:      rec.CurrentCategory,
		CurrentQuestionIndex: *rec.CurrentQuestionIndex,
		SelectedAnswers:      rec.SelectedAnswers,
		Score:                *rec.Score,
		TotalQuestions:       *rec.TotalQuestions,
		IsCompleted:          *rec.IsCompleted,
	}
	if s.SelectedAnswers == nil {
		s.SelectedAnswers = map[int]string{}
	}
	if err := s.validate(); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return s, nil
}

func encodeView(v ViewState) string {
	return string(v)
}

// decodeView maps unknown values to the start menu; ok reports whether raw was recognised.
func decodeView(raw string) (v ViewState, ok bool) {
	v = ViewState(strings.TrimSpace(raw))
	if !v.Valid() {
		return ViewStartMenu, false
	}
	return v, true
}
