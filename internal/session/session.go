// Package session tracks the storefront's view of the authenticated user: the
// backend-issued access token, its expiry as read from the JWT claims, and the
// persisted logged-in flag. Token issuance and refresh belong to the identity
// provider; this package only reads tokens and reacts to expiry signals.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/velocityparts/storefront/internal/persist"
	"github.com/velocityparts/storefront/pkg/logger"
)

const loginFlagName = "user_logged_in"

// Session holds one user's access token and derived identity fields.
type Session struct {
	mu        sync.Mutex
	snapshots persist.SnapshotStore
	logg      *logger.Logger

	id        string
	token     string
	subject   string
	expiresAt time.Time
}

// Options groups dependencies for a session.
type Options struct {
	Snapshots persist.SnapshotStore
	Logger    *logger.Logger
}

// New builds an anonymous session.
func New(opts Options) *Session {
	return &Session{snapshots: opts.Snapshots, logg: opts.Logger}
}

// SetToken installs a new access token. Claims are read without signature
// verification: the backend verifies tokens, the storefront only needs the
// subject and expiry for proactive UX decisions.
func (s *Session) SetToken(ctx context.Context, token string) {
	token = strings.TrimSpace(token)

	s.mu.Lock()
	s.token = token
	s.subject = ""
	s.expiresAt = time.Time{}
	s.id = deriveSessionID(token)

	if token != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
			if sub, err := claims.GetSubject(); err == nil {
				s.subject = sub
				s.id = sub
			}
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				s.expiresAt = exp.Time
			}
		} else if s.logg != nil {
			s.logg.Debug(ctx, "session.token_claims_unreadable")
		}
	}
	id := s.id
	loggedIn := token != ""
	s.mu.Unlock()

	s.persistLoginFlag(ctx, id, loggedIn)
}

// Token returns the current access token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// ID returns the stable session identifier used to namespace persisted state.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Subject returns the JWT subject, empty when unknown.
func (s *Session) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject
}

// IsExpired reports whether the token's exp claim has passed. Tokens without
// a readable expiry are treated as live; the backend remains the judge.
func (s *Session) IsExpired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return true
	}
	if s.expiresAt.IsZero() {
		return false
	}
	return now.After(s.expiresAt)
}

// Clear drops the token and the persisted login flag, used on logout or when
// the backend signals expiry.
func (s *Session) Clear(ctx context.Context) {
	s.mu.Lock()
	id := s.id
	s.token = ""
	s.subject = ""
	s.expiresAt = time.Time{}
	s.id = ""
	s.mu.Unlock()

	if s.snapshots != nil && id != "" {
		if err := s.snapshots.Delete(ctx, id, loginFlagName); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "session.login_flag_delete_failed")
		}
	}
}

// LoginRedirect builds the login URL with a callback back to the page the
// user was on when their session expired.
func LoginRedirect(loginURL, callback string) string {
	if loginURL == "" {
		loginURL = "/login"
	}
	if callback == "" {
		return loginURL
	}
	return loginURL + "?callbackUrl=" + url.QueryEscape(callback)
}

func (s *Session) persistLoginFlag(ctx context.Context, id string, loggedIn bool) {
	if s.snapshots == nil || id == "" {
		return
	}
	value := []byte("false")
	if loggedIn {
		value = []byte("true")
	}
	if err := s.snapshots.Save(ctx, id, loginFlagName, value); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "session.login_flag_save_failed")
	}
}

// deriveSessionID gives opaque (non-JWT) tokens a stable namespace without
// persisting the raw credential anywhere.
func deriveSessionID(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
