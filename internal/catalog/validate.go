package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Validation failures. They are wrapped with the offending location.
var (
	ErrNoQuizzes       = errors.New("quizzes list missing")
	ErrMissingTitle    = errors.New("category title missing")
	ErrMissingIcon     = errors.New("category icon missing")
	ErrNoQuestions     = errors.New("category has no questions")
	ErrDuplicateTitle  = errors.New("duplicate category title")
	ErrBlankQuestion   = errors.New("question text blank")
	ErrTooFewOptions   = errors.New("question needs at least two options")
	ErrDuplicateOption = errors.New("question options not unique")
	ErrBlankAnswer     = errors.New("answer blank")
	ErrAnswerNotOption = errors.New("answer not among options")
)

// Validate checks the full catalog document.
func Validate(c Catalog) error {
	if len(c.Categories) == 0 {
		return ErrNoQuizzes
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		if err := ValidateCategory(cat); err != nil {
			return fmt.Errorf("category %d: %w", i, err)
		}
		if _, dup := seen[cat.Title]; dup {
			return fmt.Errorf("category %d %q: %w", i, cat.Title, ErrDuplicateTitle)
		}
		seen[cat.Title] = struct{}{}
	}
	return nil
}

// ValidateCategory checks one category and all of its questions.
func ValidateCategory(cat Category) error {
	if strings.TrimSpace(cat.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(cat.Icon) == "" {
		return ErrMissingIcon
	}
	if len(cat.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range cat.Questions {
		if err := ValidateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// ValidateQuestion checks text, options and answer membership.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrBlankQuestion
	}
	if len(q.Options) < 2 {
		return ErrTooFewOptions
	}
	opts := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := opts[opt]; dup {
			return ErrDuplicateOption
		}
		opts[opt] = struct{}{}
	}
	if strings.TrimSpace(q.Answer) == "" {
		return ErrBlankAnswer
	}
	if _, ok := opts[q.Answer]; !ok {
		return ErrAnswerNotOption
	}
	return nil
}
