package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/velocityparts/storefront/internal/backend"
	"github.com/velocityparts/storefront/internal/cartstore"
	"github.com/velocityparts/storefront/internal/persist"
	"github.com/velocityparts/storefront/internal/session"
	"github.com/velocityparts/storefront/internal/wishliststore"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/metrics"
)

const (
	defaultSessionIdleTTL = 30 * time.Minute
	defaultMaxSessions    = 10000
)

// Manager hands out a per-session orchestrator: the same token always maps to
// the same store instances, so optimistic state and throttling survive across
// requests. Entries idle past the TTL are evicted on the next lookup, and the
// map is capped so a flood of distinct tokens cannot grow it without bound;
// persisted snapshots outlive an eviction, only the in-memory stores are
// rebuilt.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*managedSession

	client      *backend.Client
	snapshots   persist.SnapshotStore
	logg        *logger.Logger
	metrics     *metrics.StorefrontMetrics
	throttle    time.Duration
	debounce    time.Duration
	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time
}

type managedSession struct {
	svc      Service
	sess     *session.Session
	lastSeen time.Time
}

// ManagerDeps wires shared infrastructure into every managed session.
type ManagerDeps struct {
	Client    *backend.Client
	Snapshots persist.SnapshotStore
	Logger    *logger.Logger
	Metrics   *metrics.StorefrontMetrics
	Throttle  time.Duration
	Debounce  time.Duration

	// IdleTTL evicts sessions not seen for this long; MaxSessions caps the
	// map, evicting the least recently seen entry when full. Zero values take
	// the defaults.
	IdleTTL     time.Duration
	MaxSessions int
	Now         func() time.Time
}

// NewManager builds a session manager.
func NewManager(deps ManagerDeps) (*Manager, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if deps.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if deps.IdleTTL <= 0 {
		deps.IdleTTL = defaultSessionIdleTTL
	}
	if deps.MaxSessions <= 0 {
		deps.MaxSessions = defaultMaxSessions
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Manager{
		entries:     map[string]*managedSession{},
		client:      deps.Client,
		snapshots:   deps.Snapshots,
		logg:        deps.Logger,
		metrics:     deps.Metrics,
		throttle:    deps.Throttle,
		debounce:    deps.Debounce,
		idleTTL:     deps.IdleTTL,
		maxSessions: deps.MaxSessions,
		now:         deps.Now,
	}, nil
}

// ForToken returns the orchestrator bound to the token's session, creating it
// on first sight. An empty token yields an anonymous session whose mutations
// fail with an unauthorized error.
func (m *Manager) ForToken(ctx context.Context, token string) (Service, *session.Session, error) {
	sess := session.New(session.Options{Snapshots: m.snapshots, Logger: m.logg})
	sess.SetToken(ctx, token)
	id := sess.ID()

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()

	if entry, ok := m.entries[id]; ok {
		// Reinstall the token: the previous request may have cleared it after
		// an expiry signal.
		entry.sess.SetToken(ctx, token)
		entry.lastSeen = now
		return entry.svc, entry.sess, nil
	}

	m.evictLocked(ctx, now)

	cart, err := cartstore.New(ctx, cartstore.Options{
		Session:   id,
		Fetcher:   m.client,
		Snapshots: m.snapshots,
		Logger:    m.logg,
		Metrics:   m.metrics,
		Throttle:  m.throttle,
	})
	if err != nil {
		return nil, nil, err
	}
	wishlist := wishliststore.New(ctx, wishliststore.Options{
		Session:   id,
		Snapshots: m.snapshots,
		Logger:    m.logg,
	})

	svc, err := NewService(Deps{
		CartAPI:     m.client,
		WishlistAPI: m.client,
		CheckoutAPI: m.client,
		Session:     sess,
		Cart:        cart,
		Wishlist:    wishlist,
		Logger:      m.logg,
		Metrics:     m.metrics,
		Debounce:    m.debounce,
	})
	if err != nil {
		return nil, nil, err
	}

	m.entries[id] = &managedSession{svc: svc, sess: sess, lastSeen: now}
	return svc, sess, nil
}

// evictLocked drops idle entries and, when the map is still full, the least
// recently seen one, so an insert never pushes the map past maxSessions.
// Evicted orchestrators close off the lock path; their Close flushes pending
// debounced calls.
func (m *Manager) evictLocked(ctx context.Context, now time.Time) {
	for id, entry := range m.entries {
		if now.Sub(entry.lastSeen) > m.idleTTL {
			delete(m.entries, id)
			go entry.svc.Close()
			if m.logg != nil {
				m.logg.Debug(ctx, "session.evicted_idle")
			}
		}
	}
	for len(m.entries) >= m.maxSessions {
		var oldestID string
		var oldest *managedSession
		for id, entry := range m.entries {
			if oldest == nil || entry.lastSeen.Before(oldest.lastSeen) {
				oldestID, oldest = id, entry
			}
		}
		delete(m.entries, oldestID)
		go oldest.svc.Close()
		if m.logg != nil {
			m.logg.Warn(ctx, "session.evicted_over_capacity")
		}
	}
}

// Close flushes every managed orchestrator. Call on shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		entry.svc.Close()
	}
	m.entries = map[string]*managedSession{}
}
