package session

import (
	"time"

	"github.com/rs/zerolog"
)

// Janitor periodically drops idle engines from a Manager so memory tracks
// active sessions only. Evicted sessions restore from the store on next use.
type Janitor struct {
	manager   *Manager
	idle      time.Duration
	interval  time.Duration
	logger    zerolog.Logger
	shutdownC chan struct{}
	doneC     chan struct{}
}

func NewJanitor(manager *Manager, idle, interval time.Duration, logger zerolog.Logger) *Janitor {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		manager:   manager,
		idle:      idle,
		interval:  interval,
		logger:    logger.With().Str("component", "session_janitor").Logger(),
		shutdownC: make(chan struct{}),
		doneC:     make(chan struct{}),
	}
}

func (j *Janitor) Run() {
	defer close(j.doneC)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.shutdownC:
			j.logger.Info().Msg("session janitor stopping")
			return
		case <-ticker.C:
			if n := j.manager.EvictIdle(j.idle); n > 0 {
				j.logger.Debug().Int("evicted", n).Int("hosted", j.manager.Len()).Msg("idle sessions evicted")
			}
		}
	}
}

// Stop signals Run to return and waits for it.
func (j *Janitor) Stop() {
	close(j.shutdownC)
	<-j.doneC
}
