package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher reloads a Holder on a fixed interval so a catalog that failed at
// startup, or changed upstream, is picked up without a restart.
type Refresher struct {
	holder    *Holder
	provider  Provider
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
	shutdownC chan struct{}
	doneC     chan struct{}
}

func NewRefresher(holder *Holder, provider Provider, interval, timeout time.Duration, logger zerolog.Logger) *Refresher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Refresher{
		holder:    holder,
		provider:  provider,
		interval:  interval,
		timeout:   timeout,
		logger:    logger.With().Str("component", "catalog_refresher").Logger(),
		shutdownC: make(chan struct{}),
		doneC:     make(chan struct{}),
	}
}

func (r *Refresher) Run() {
	defer close(r.doneC)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.shutdownC:
			r.logger.Info().Msg("catalog refresher stopping")
			return
		case <-ticker.C:
			r.refresh()
		}
	}
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	wasAvailable := r.holder.Available()
	if err := r.holder.Reload(ctx, r.provider); err != nil {
		r.logger.Warn().Err(err).Bool("serving_previous", wasAvailable).Msg("catalog refresh failed")
		return
	}
	if !wasAvailable {
		r.logger.Info().Msg("catalog became available")
	}
}

// Stop signals Run to return and waits for it.
func (r *Refresher) Stop() {
	close(r.shutdownC)
	<-r.doneC
}
