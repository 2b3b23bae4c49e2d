package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/metrics"
	"github.com/gokatarajesh/quiz-session/internal/store"
)

type managedEngine struct {
	once     sync.Once
	engine   *Engine
	lastUsed time.Time
	inFlight int
}

// Manager hosts one engine per session ID, all persisting into the same store.
type Manager struct {
	mu      sync.Mutex
	store   store.Store
	prefix  string
	logger  zerolog.Logger
	engines map[uuid.UUID]*managedEngine
	now     func() time.Time
}

func NewManager(st store.Store, keyPrefix string, logger zerolog.Logger) *Manager {
	return &Manager{
		store:   st,
		prefix:  keyPrefix,
		logger:  logger,
		engines: make(map[uuid.UUID]*managedEngine),
		now:     time.Now,
	}
}

// Get returns the engine for id, creating and initializing it on first use.
// Concurrent callers for the same id wait for a single initialization.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) *Engine {
	return m.load(ctx, id, 0).engine
}

// Acquire is Get for callers that keep using the engine. It is not evicted
// until release is called; release is safe to call more than once.
func (m *Manager) Acquire(ctx context.Context, id uuid.UUID) (*Engine, func()) {
	entry := m.load(ctx, id, 1)

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			entry.inFlight--
			entry.lastUsed = m.now()
			m.mu.Unlock()
		})
	}
	return entry.engine, release
}

func (m *Manager) load(ctx context.Context, id uuid.UUID, users int) *managedEngine {
	m.mu.Lock()
	entry, ok := m.engines[id]
	if !ok {
		entry = &managedEngine{
			engine: NewEngine(m.store, KeysFor(m.prefix, id), m.logger.With().Str("session_id", id.String()).Logger()),
		}
		m.engines[id] = entry
		metrics.SessionsHosted.Set(float64(len(m.engines)))
	}
	entry.lastUsed = m.now()
	entry.inFlight += users
	m.mu.Unlock()

	entry.once.Do(func() {
		// the restored session outlives the request that first touched it
		entry.engine.Initialize(context.WithoutCancel(ctx))
	})
	return entry
}

// Forget drops the in-memory engine for id. The persisted snapshot is kept.
func (m *Manager) Forget(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, id)
	metrics.SessionsHosted.Set(float64(len(m.engines)))
}

// EvictIdle forgets engines untouched for longer than idle that have no
// observers attached and no acquired users. It returns how many were dropped.
func (m *Manager) EvictIdle(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	evicted := 0
	for id, entry := range m.engines {
		if entry.inFlight > 0 || entry.lastUsed.After(cutoff) || entry.engine.Watchers() > 0 {
			continue
		}
		delete(m.engines, id)
		evicted++
	}
	metrics.SessionsHosted.Set(float64(len(m.engines)))
	return evicted
}

// Len reports the number of hosted engines.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.engines)
}
