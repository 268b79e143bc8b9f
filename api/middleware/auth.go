package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/velocityparts/storefront/api/responses"
	"github.com/velocityparts/storefront/internal/orchestrator"
	"github.com/velocityparts/storefront/internal/session"
	"github.com/velocityparts/storefront/pkg/logger"
)

type ctxKey int

const (
	serviceKey ctxKey = iota
	sessionKey
)

// SessionScope resolves the request's bearer token to its per-session
// orchestrator and exposes both through the request context. Anonymous
// requests pass through with an anonymous session; handlers decide whether
// that is acceptable.
func SessionScope(mgr *orchestrator.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := bearerToken(r)

			svc, sess, err := mgr.ForToken(ctx, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			if logg != nil && sess.ID() != "" {
				ctx = logg.WithSessionID(ctx, sess.ID())
			}
			ctx = context.WithValue(ctx, serviceKey, svc)
			ctx = context.WithValue(ctx, sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ServiceFrom returns the session-scoped orchestrator installed by
// SessionScope, nil when the middleware did not run.
func ServiceFrom(ctx context.Context) orchestrator.Service {
	svc, _ := ctx.Value(serviceKey).(orchestrator.Service)
	return svc
}

// SessionFrom returns the request's session, nil when SessionScope did not run.
func SessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
