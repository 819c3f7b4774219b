package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// BuildRouter mounts the auth endpoints on r, normally a subrouter for
// /api/auth.
func (a *API) BuildRouter(r *mux.Router) {
	handle(r, "/login", a.Login(), http.MethodPost)
	handle(r, "/logout", a.Logout(), http.MethodPost, http.MethodGet)
	handle(r, "/session", a.Session(), http.MethodGet)
	handle(r, "/events", a.RequireSession(a.Events()), http.MethodGet)
}

// handle registers h for methods on path, and a 405 for any other method.
// A subrouter would otherwise answer a method mismatch with 404.
func handle(r *mux.Router, path string, h http.Handler, methods ...string) {
	r.Handle(path, h).
		Methods(methods...)
	r.Handle(path, methodNotAllowed(methods))
}

func methodNotAllowed(allowed []string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		logApiErr(r, "method not allowed")
		w.Header().Set("Allow", allow)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
