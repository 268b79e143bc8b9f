package cartstore

import (
	"context"

	"github.com/velocityparts/storefront/pkg/enums"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
)

type syncFlight struct {
	done chan struct{}
}

// SyncFromAPI refreshes the store from the authoritative cart, best-effort.
// It is throttled (at most one real fetch per throttle window; calls inside
// the window are skipped, not queued) and de-duplicated (a call while a fetch
// is in flight waits for it instead of starting another). The returned
// outcome says exactly what happened; no failure here ever propagates as an
// error into UI flows. A backend 429 means the client itself is over-polling
// and is swallowed silently.
func (s *Store) SyncFromAPI(ctx context.Context, token string) enums.SyncOutcome {
	outcome := s.syncFromAPI(ctx, token)
	s.metrics.ObserveSyncOutcome(outcome.String())
	return outcome
}

func (s *Store) syncFromAPI(ctx context.Context, token string) enums.SyncOutcome {
	if token == "" {
		return enums.SyncOutcomeSkippedNoToken
	}

	s.mu.Lock()
	if flight := s.syncFlight; flight != nil {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			// The caller gave up before the shared flight settled, so it
			// never observed the applied result.
			return enums.SyncOutcomeCancelled
		case <-flight.done:
			return enums.SyncOutcomeCoalesced
		}
	}

	now := s.now()
	if !s.lastSyncAt.IsZero() && now.Sub(s.lastSyncAt) < s.throttle {
		s.mu.Unlock()
		return enums.SyncOutcomeThrottled
	}

	flight := &syncFlight{done: make(chan struct{})}
	s.syncFlight = flight
	s.lastSyncAt = now
	epoch := s.mutationEpoch
	s.mu.Unlock()

	cart, err := s.fetcher.GetCart(ctx, token)

	s.mu.Lock()
	s.syncFlight = nil

	var outcome enums.SyncOutcome
	switch {
	case err != nil && pkgerrors.IsRateLimited(err):
		outcome = enums.SyncOutcomeRateLimited
	case err != nil && pkgerrors.IsAuthExpired(err):
		outcome = enums.SyncOutcomeAuthExpired
	case err != nil:
		outcome = enums.SyncOutcomeFailed
	case s.mutationEpoch != epoch:
		// A local mutation landed while the fetch was in the air; applying
		// this payload would overwrite state newer than it.
		outcome = enums.SyncOutcomeStaleDiscarded
	default:
		s.applyCartLocked(ctx, cart)
		outcome = enums.SyncOutcomeSynced
	}

	var persisted State
	if outcome == enums.SyncOutcomeSynced {
		persisted = s.stateLocked()
	}
	s.mu.Unlock()
	close(flight.done)

	switch outcome {
	case enums.SyncOutcomeSynced:
		s.persistState(ctx, persisted)
	case enums.SyncOutcomeRateLimited:
		if s.logg != nil {
			s.logg.Debug(ctx, "cart.sync_rate_limited")
		}
	case enums.SyncOutcomeAuthExpired:
		if s.logg != nil {
			s.logg.Warn(ctx, "cart.sync_auth_expired")
		}
	case enums.SyncOutcomeStaleDiscarded:
		if s.logg != nil {
			s.logg.Debug(ctx, "cart.sync_discarded_stale")
		}
	case enums.SyncOutcomeFailed:
		if s.logg != nil {
			s.logg.Error(ctx, "cart.sync_failed", err)
		}
	}
	return outcome
}
