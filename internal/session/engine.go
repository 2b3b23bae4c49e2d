package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/catalog"
	"github.com/gokatarajesh/quiz-session/internal/metrics"
	"github.com/gokatarajesh/quiz-session/internal/store"
)

// RestoreOutcome describes what Initialize found in the store.
type RestoreOutcome string

const (
	RestoreEmpty       RestoreOutcome = "empty"
	RestoreRestored    RestoreOutcome = "restored"
	RestoreRepaired    RestoreOutcome = "repaired"
	RestoreDiscarded   RestoreOutcome = "discarded"
	RestoreUnavailable RestoreOutcome = "unavailable"
)

// Engine owns one quiz session: its progress, its view and its persisted snapshot.
//
// Mutations are serialized; each one finishes its store write and observer
// notification before returning. Store failures are logged and counted but
// never undo an in-memory change.
type Engine struct {
	mu     sync.RWMutex
	store  store.Store
	keys   Keys
	logger zerolog.Logger

	state State
	view  ViewState

	states *feed[State]
	views  *feed[ViewState]
}

// NewEngine creates an engine in the start menu. Call Initialize to restore a saved session.
func NewEngine(st store.Store, keys Keys, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  st,
		keys:   keys,
		logger: logger.With().Str("component", "quiz_session").Str("state_key", keys.State).Logger(),
		state:  emptyState(),
		view:   ViewStartMenu,
		states: newFeed(emptyState(), State.Clone),
		views:  newFeed(ViewStartMenu, identity[ViewState]),
	}
}

// Initialize loads the persisted snapshot. It never fails: absent, unreadable or
// corrupt data leaves the engine in the start menu.
func (e *Engine) Initialize(ctx context.Context) RestoreOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, view, outcome := e.restore(ctx)
	e.state = state
	e.view = view
	e.states.publish(e.state)
	e.views.publish(e.view)

	metrics.Restores.WithLabelValues(string(outcome)).Inc()
	e.logger.Debug().Str("outcome", string(outcome)).Str("view", string(view)).Msg("session initialized")
	return outcome
}

func (e *Engine) restore(ctx context.Context) (State, ViewState, RestoreOutcome) {
	rawState, hasState, err := e.store.Get(ctx, e.keys.State)
	if err != nil {
		e.reportPersistence("get", e.keys.State, err)
		return emptyState(), ViewStartMenu, RestoreUnavailable
	}
	rawView, hasView, err := e.store.Get(ctx, e.keys.View)
	if err != nil {
		e.reportPersistence("get", e.keys.View, err)
		hasView = false
	}

	if !hasState {
		if hasView {
			// a view without a session is stale
			e.deleteKey(ctx, e.keys.View)
			return emptyState(), ViewStartMenu, RestoreRepaired
		}
		return emptyState(), ViewStartMenu, RestoreEmpty
	}

	state, err := decodeState(rawState)
	if err != nil {
		e.logger.Warn().Err(err).Msg("discarding persisted session")
		e.deleteKey(ctx, e.keys.State)
		e.deleteKey(ctx, e.keys.View)
		return emptyState(), ViewStartMenu, RestoreDiscarded
	}

	want := viewFor(state)
	got, ok := decodeView(rawView)
	if !hasView || !ok || got != want {
		e.logger.Info().Str("stored_view", rawView).Str("view", string(want)).Msg("repairing persisted view")
		e.setKey(ctx, e.keys.View, encodeView(want))
		return state, want, RestoreRepaired
	}
	return state, want, RestoreRestored
}

// SelectCategory starts a fresh quiz in cat, discarding any progress.
func (e *Engine) SelectCategory(ctx context.Context, cat catalog.Category) error {
	if err := catalog.ValidateCategory(cat); err != nil {
		return fmt.Errorf("select category: %w: %w", ErrInvalidInput, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.commit(ctx, freshState(cat), ViewInProgress, true)
	metrics.CategoriesSelected.WithLabelValues(cat.Title).Inc()
	return nil
}

// SubmitAnswer scores answer against the current question and records it.
// It does not move to the next question.
func (e *Engine) SubmitAnswer(ctx context.Context, answer string) (bool, error) {
	if strings.TrimSpace(answer) == "" {
		return false, fmt.Errorf("submit answer: %w: answer is blank", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CurrentCategory == nil {
		return false, fmt.Errorf("submit answer: %w: no category selected", ErrInvalidState)
	}
	if e.state.IsCompleted {
		return false, fmt.Errorf("submit answer: %w: quiz already completed", ErrInvalidState)
	}
	idx := e.state.CurrentQuestionIndex
	if _, answered := e.state.SelectedAnswers[idx]; answered {
		return false, fmt.Errorf("submit answer: %w: question %d already answered", ErrInvalidState, idx)
	}

	question, _ := e.state.CurrentQuestion()
	correct := answer == question.Answer

	next := e.state.Clone()
	next.SelectedAnswers[idx] = answer
	if correct {
		next.Score++
	}
	e.commit(ctx, next, e.view, false)

	metrics.AnswersSubmitted.WithLabelValues(metrics.AnswerResult(correct)).Inc()
	return correct, nil
}

// Advance moves to the next question, or to the result view after the last one.
func (e *Engine) Advance(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CurrentCategory == nil {
		return fmt.Errorf("advance: %w: no category selected", ErrInvalidState)
	}
	if e.state.IsCompleted {
		return fmt.Errorf("advance: %w: quiz already completed", ErrInvalidState)
	}

	next := e.state.Clone()
	if next.CurrentQuestionIndex+1 < next.TotalQuestions {
		next.CurrentQuestionIndex++
		e.commit(ctx, next, ViewInProgress, false)
		return nil
	}

	next.IsCompleted = true
	e.commit(ctx, next, ViewResult, false)
	metrics.QuizzesCompleted.Inc()
	return nil
}

// Reset returns to the start menu and removes the persisted snapshot.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prevView := e.view
	e.state = emptyState()
	e.view = ViewStartMenu
	e.deleteKey(ctx, e.keys.State)
	e.deleteKey(ctx, e.keys.View)

	e.states.publish(e.state)
	if prevView != e.view {
		e.views.publish(e.view)
	}
	metrics.Resets.Inc()
}

// State returns a deep copy of the current progress.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// ViewState returns the current view.
func (e *Engine) ViewState() ViewState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view
}

// Snapshot returns state and view read together.
func (e *Engine) Snapshot() (State, ViewState) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone(), e.view
}

// SubscribeState calls fn with the current state now and after every mutation.
// fn runs while the engine is locked and must not call back into it.
func (e *Engine) SubscribeState(fn func(State)) (unsubscribe func()) {
	return e.states.subscribe(fn)
}

// SubscribeView calls fn with the current view now and whenever it changes
// (and on every category selection).
func (e *Engine) SubscribeView(fn func(ViewState)) (unsubscribe func()) {
	return e.views.subscribe(fn)
}

// Watchers reports how many observers are subscribed to either feed.
func (e *Engine) Watchers() int {
	return e.states.len() + e.views.len()
}

// commit installs next, persists it and notifies observers. Callers hold e.mu.
func (e *Engine) commit(ctx context.Context, next State, view ViewState, forceView bool) {
	viewChanged := view != e.view
	e.state = next
	e.view = view

	e.persist(ctx)

	e.states.publish(e.state)
	if viewChanged || forceView {
		e.views.publish(e.view)
	}
}

func (e *Engine) persist(ctx context.Context) {
	raw, err := encodeState(e.state)
	if err != nil {
		e.reportPersistence("encode", e.keys.State, err)
		return
	}
	e.setKey(ctx, e.keys.State, raw)
	e.setKey(ctx, e.keys.View, encodeView(e.view))
}

func (e *Engine) setKey(ctx context.Context, key, value string) {
	if err := e.store.Set(ctx, key, value); err != nil {
		e.reportPersistence("set", key, err)
	}
}

func (e *Engine) deleteKey(ctx context.Context, key string) {
	if err := e.store.Delete(ctx, key); err != nil {
		e.reportPersistence("delete", key, err)
	}
}

func (e *Engine) reportPersistence(op, key string, err error) {
	perr := &PersistenceError{Op: op, Key: key, Err: err}
	metrics.PersistenceFailures.WithLabelValues(op).Inc()

	ev := e.logger.Warn()
	if errors.Is(err, context.Canceled) {
		ev = e.logger.Debug()
	}
	ev.Err(perr).Msg("session persistence unavailable")
}
