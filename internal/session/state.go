package session

import (
	"fmt"
	"maps"

	"github.com/gokatarajesh/quiz-session/internal/catalog"
)

// ViewState is the coarse mode the presentation layer renders.
type ViewState string

const (
	ViewStartMenu  ViewState = "START_MENU"
	ViewInProgress ViewState = "IN_PROGRESS"
	ViewResult     ViewState = "RESULT"
)

// Valid reports whether v is one of the known views.
func (v ViewState) Valid() bool {
	switch v {
	case ViewStartMenu, ViewInProgress, ViewResult:
		return true
	}
	return false
}

// State is the per-session quiz progress.
// SelectedAnswers is keyed by question index and stays sparse until answered.
type State struct {
	CurrentCategory      *catalog.Category `json:"currentCategory"`
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
	SelectedAnswers      map[int]string    `json:"selectedAnswers"`
	Score                int               `json:"score"`
	TotalQuestions       int               `json:"totalQuestions"`
	IsCompleted          bool              `json:"isCompleted"`
}

func emptyState() State {
	return State{SelectedAnswers: map[int]string{}}
}

func freshState(cat catalog.Category) State {
	c := cat.Clone()
	return State{
		CurrentCategory: &c,
		SelectedAnswers: map[int]string{},
		TotalQuestions:  len(c.Questions),
	}
}

// Clone deep-copies the state so callers never alias engine memory.
func (s State) Clone() State {
	out := s
	if s.CurrentCategory != nil {
		c := s.CurrentCategory.Clone()
		out.CurrentCategory = &c
	}
	out.SelectedAnswers = maps.Clone(s.SelectedAnswers)
	if out.SelectedAnswers == nil {
		out.SelectedAnswers = map[int]string{}
	}
	return out
}

// CurrentQuestion returns the question at the current index, if a quiz is active.
func (s State) CurrentQuestion() (catalog.Question, bool) {
	if s.CurrentCategory == nil || s.CurrentQuestionIndex >= len(s.CurrentCategory.Questions) {
		return catalog.Question{}, false
	}
	return s.CurrentCategory.Questions[s.CurrentQuestionIndex], true
}

// viewFor derives the only view consistent with s.
func viewFor(s State) ViewState {
	switch {
	case s.CurrentCategory == nil:
		return ViewStartMenu
	case s.IsCompleted:
		return ViewResult
	default:
		return ViewInProgress
	}
}

// validate checks every invariant a restored snapshot must satisfy.
func (s State) validate() error {
	if s.CurrentQuestionIndex < 0 || s.Score < 0 || s.TotalQuestions < 0 {
		return fmt.Errorf("negative counter")
	}

	if s.CurrentCategory == nil {
		if s.TotalQuestions != 0 || s.CurrentQuestionIndex != 0 || s.Score != 0 || s.IsCompleted || len(s.SelectedAnswers) != 0 {
			return fmt.Errorf("progress recorded without a category")
		}
		return nil
	}

	if err := catalog.ValidateCategory(*s.CurrentCategory); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	if s.TotalQuestions != len(s.CurrentCategory.Questions) {
		return fmt.Errorf("totalQuestions %d does not match %d questions", s.TotalQuestions, len(s.CurrentCategory.Questions))
	}
	if s.CurrentQuestionIndex > s.TotalQuestions {
		return fmt.Errorf("currentQuestionIndex %d exceeds totalQuestions %d", s.CurrentQuestionIndex, s.TotalQuestions)
	}
	if s.CurrentQuestionIndex == s.TotalQuestions && !s.IsCompleted {
		return fmt.Errorf("currentQuestionIndex at end of an uncompleted quiz")
	}

	correct := 0
	for idx, answer := range s.SelectedAnswers {
		if idx < 0 || idx > s.CurrentQuestionIndex || idx >= s.TotalQuestions {
			return fmt.Errorf("answer recorded for question %d beyond progress", idx)
		}
		if answer == s.CurrentCategory.Questions[idx].Answer {
			correct++
		}
	}
	if s.Score != correct {
		return fmt.Errorf("score %d does not match %d correct answers", s.Score, correct)
	}
	return nil
}
