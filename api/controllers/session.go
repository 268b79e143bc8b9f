package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/velocityparts/storefront/api/middleware"
	"github.com/velocityparts/storefront/api/responses"
	"github.com/velocityparts/storefront/internal/session"
	"github.com/velocityparts/storefront/pkg/config"
	"github.com/velocityparts/storefront/pkg/logger"
)

type sessionStatus struct {
	LoggedIn bool   `json:"logged_in"`
	Expired  bool   `json:"expired"`
	Subject  string `json:"subject,omitempty"`
	LoginURL string `json:"login_url,omitempty"`
}

// SessionStatus reports whether the caller's token is live and, when it is
// not, where to send the user to sign in again.
func SessionStatus(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := middleware.SessionFrom(ctx)

		status := sessionStatus{}
		if sess != nil && sess.Token() != "" {
			status.LoggedIn = true
			status.Subject = sess.Subject()
			status.Expired = sess.IsExpired(time.Now())
		}
		if !status.LoggedIn || status.Expired {
			callback := strings.TrimSpace(r.URL.Query().Get("callback"))
			status.LoginURL = session.LoginRedirect(cfg.App.LoginURL, callback)
		}
		responses.WriteSuccess(w, status)
	}
}

// SessionLogout clears the caller's local session state.
func SessionLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sess := middleware.SessionFrom(ctx); sess != nil {
			sess.Clear(ctx)
		}
		responses.WriteSuccess(w, map[string]bool{"logged_out": true})
	}
}
