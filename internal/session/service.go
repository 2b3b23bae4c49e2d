package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/catalog"
)

// Service resolves catalog titles and routes commands to per-session engines.
// HTTP and WebSocket transports share it.
type Service struct {
	manager *Manager
	catalog *catalog.Holder
	logger  zerolog.Logger
}

func NewService(manager *Manager, holder *catalog.Holder, logger zerolog.Logger) *Service {
	return &Service{
		manager: manager,
		catalog: holder,
		logger:  logger.With().Str("component", "session_service").Logger(),
	}
}

// Acquire returns the live engine for a session, pinned until release is called.
func (s *Service) Acquire(ctx context.Context, id uuid.UUID) (*Engine, func()) {
	return s.manager.Acquire(ctx, id)
}

// Catalog returns the loaded catalog or catalog.ErrUnavailable.
func (s *Service) Catalog() (catalog.Catalog, error) {
	return s.catalog.Get()
}

// CatalogAvailable reports whether categories can be selected.
func (s *Service) CatalogAvailable() bool {
	return s.catalog.Available()
}

// SelectCategory starts the category titled title for session id.
func (s *Service) SelectCategory(ctx context.Context, id uuid.UUID, title string) error {
	cat, err := s.catalog.Get()
	if err != nil {
		return err
	}
	category, ok := cat.Find(title)
	if !ok {
		return fmt.Errorf("select %q: %w", title, ErrCategoryNotFound)
	}
	engine, release := s.manager.Acquire(ctx, id)
	defer release()
	return engine.SelectCategory(ctx, category)
}

func (s *Service) SubmitAnswer(ctx context.Context, id uuid.UUID, answer string) (bool, error) {
	engine, release := s.manager.Acquire(ctx, id)
	defer release()
	return engine.SubmitAnswer(ctx, answer)
}

func (s *Service) Advance(ctx context.Context, id uuid.UUID) error {
	engine, release := s.manager.Acquire(ctx, id)
	defer release()
	return engine.Advance(ctx)
}

func (s *Service) Reset(ctx context.Context, id uuid.UUID) {
	engine, release := s.manager.Acquire(ctx, id)
	defer release()
	engine.Reset(ctx)
}

// Snapshot returns the session's state and view read together.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (State, ViewState) {
	engine, release := s.manager.Acquire(ctx, id)
	defer release()
	return engine.Snapshot()
}
