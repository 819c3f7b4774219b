package app

import (
	"net/http"
	"time"
)

type homeModel struct {
	Authenticated bool
	ExpiresAt     time.Time
}

// Home shows the admin view to an authenticated visitor and the public
// read-only view to everyone else.
func (a *App) Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expiresAt, ok := a.session(r)
		w.Header().Set("Cache-Control", "no-store")
		a.render(w, r, "home.html", homeModel{
			Authenticated: ok,
			ExpiresAt:     expiresAt,
		})
	}
}
