// Package watcher drives the poll cycle: fetch each tracked search page,
// extract listings, dedup against the store, and notify for new ones.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mkazlouski/adwatch/internal/config"
	"github.com/mkazlouski/adwatch/internal/extract"
	"github.com/mkazlouski/adwatch/internal/fetch"
	"github.com/mkazlouski/adwatch/internal/logging"
	"github.com/mkazlouski/adwatch/internal/notify"
	"github.com/mkazlouski/adwatch/internal/store"
)

// Watcher manages the main polling loop.
type Watcher struct {
	cfg      config.Config
	store    store.Store
	fetcher  fetch.Fetcher
	notifier notify.Notifier
	logger   logging.Logger
	stopChan chan struct{}
}

// NewWatcher creates a new Watcher. All collaborators are injected; the
// watcher owns no global state.
func NewWatcher(cfg config.Config, st store.Store, fetcher fetch.Fetcher, notifier notify.Notifier, logger logging.Logger) *Watcher {
	return &Watcher{
		cfg:      cfg,
		store:    st,
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger.Named("watcher"),
		stopChan: make(chan struct{}),
	}
}

// Run starts the polling loop and blocks until Shutdown is called. A cycle
// runs immediately at startup, then once per poll interval.
func (w *Watcher) Run() {
	w.logger.Info("Starting watcher", "interval", w.cfg.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopChan
		cancel()
	}()

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.runPollCycle(ctx)

Loop:
	for {
		select {
		case <-ticker.C:
			w.runPollCycle(ctx)
		case <-w.stopChan:
			w.logger.Info("Shutdown signal received, stopping watcher loop.")
			break Loop
		}
	}

	w.logger.Info("Watcher loop stopped.")
}

// Shutdown gracefully stops the watcher. In-flight fetch and notify calls
// are cancelled; the store's atomic commit point means the worst case is one
// missed notification, never a duplicate.
func (w *Watcher) Shutdown() {
	w.logger.Info("Initiating watcher shutdown...")

	close(w.stopChan)

	if err := w.store.Close(); err != nil {
		w.logger.Error("Error closing store", "error", err)
	}

	w.logger.Info("Watcher shutdown complete.")
}

// runPollCycle performs one full pass over all tracked targets. Failures are
// contained at the smallest scope: a bad listing doesn't stop its target, a
// bad target doesn't stop the cycle, and a bad cycle doesn't stop the loop.
func (w *Watcher) runPollCycle(ctx context.Context) {
	cycleLogger := w.logger.With("cycle_id", uuid.New().String()[:8])
	cycleLogger.Debug("Starting poll cycle...")

	targets, err := w.store.ListTargets(ctx)
	if err != nil {
		cycleLogger.Error("Failed to list targets, skipping cycle", "error", err)
		return
	}
	if len(targets) == 0 {
		cycleLogger.Debug("No targets configured, nothing to poll.")
		return
	}

	notified := 0
	for _, target := range targets {
		select {
		case <-ctx.Done():
			cycleLogger.Info("Poll cycle cancelled.")
			return
		default:
		}
		notified += w.pollTarget(ctx, cycleLogger, target)
	}

	cycleLogger.Info("Poll cycle finished", "targets", len(targets), "new_listings", notified)
}

// pollTarget runs fetch → extract → dedup-filter → notify for one target and
// returns the number of notifications dispatched.
func (w *Watcher) pollTarget(ctx context.Context, cycleLogger logging.Logger, target store.Target) int {
	targetLogger := cycleLogger.With("target_id", target.ID, "url", target.URL)
	targetLogger.Debug("Checking target...")

	fetchCtx, cancel := context.WithTimeout(ctx, w.cfg.FetchTimeout)
	page, err := w.fetcher.Fetch(fetchCtx, target.URL)
	cancel()
	if err != nil {
		// This target's cycle ends here; no partial state was written.
		targetLogger.Warn("Failed to fetch target page", "error", err)
		return 0
	}

	listings := extract.Listings(page, target.URL)
	targetLogger.Debug("Extracted listings", "count", len(listings))

	notified := 0
	for _, listing := range listings {
		err := w.store.MarkSeen(ctx, listing.ID, listing.Link, time.Now())
		if errors.Is(err, store.ErrAlreadySeen) {
			continue
		}
		if err != nil {
			targetLogger.Error("Failed to record seen listing", "listing_id", listing.ID, "error", err)
			continue
		}

		// The seen record is committed at this point. A failed send is
		// logged and lost rather than retried: at-most-once delivery, so a
		// flaky transport can never cause duplicate spam.
		notifyCtx, cancel := context.WithTimeout(ctx, w.cfg.NotifyTimeout)
		err = w.notifier.Send(notifyCtx, fmt.Sprintf("%s\n%s", listing.Title, listing.Link))
		cancel()
		if err != nil {
			targetLogger.Error("Failed to send notification", "listing_id", listing.ID, "error", err)
		} else {
			targetLogger.Info("Notified new listing", "listing_id", listing.ID, "title", listing.Title)
		}
		notified++

		if !w.pace(ctx) {
			return notified
		}
	}

	return notified
}

// pace sleeps for a randomized delay between consecutive notifications to
// avoid bursting the transport. Returns false if the watcher was stopped
// while waiting.
func (w *Watcher) pace(ctx context.Context) bool {
	delay := w.cfg.PaceMin
	if spread := w.cfg.PaceMax - w.cfg.PaceMin; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}
	if delay <= 0 {
		return true
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
