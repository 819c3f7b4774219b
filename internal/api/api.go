// Package api serves the dashboard's authentication endpoints.
package api

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"

	"github.com/deauport/deauport/internal/service"
)

// API adapts the session service to HTTP.
type API struct {
	service  *service.Service
	throttle *Throttle
}

func New(
	svc *service.Service,
	throttle *Throttle,
) *API {
	return &API{
		service:  svc,
		throttle: throttle,
	}
}

func (a *API) cookies(w http.ResponseWriter, r *http.Request) service.CookieStore {
	return service.NewHTTPCookieStore(w, r, a.service.Config().Production)
}

// Authenticated is the check every protected route goes through.
func (a *API) Authenticated(r *http.Request) bool {
	return a.service.IsAuthenticated(service.NewHTTPCookieStore(nil, r, false))
}

// RequireSession answers 401 to requests without a valid session.
func (a *API) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticated(r) {
			noStore(w)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func returnJson(data any, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

func redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/login?e="+url.QueryEscape(msg), http.StatusSeeOther)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func logApiErr(r *http.Request, msg string) {
	log.Printf("%s %s: %s\n", r.Method, r.URL.Path, msg)
}
