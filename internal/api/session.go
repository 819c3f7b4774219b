package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/deauport/deauport/internal/service"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

type EventsResponse struct {
	Events []service.AuthEvent `json:"events"`
}

func (a *API) Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)
		resp := SessionResponse{}
		if claims, ok := a.service.Session(a.cookies(w, r)); ok {
			resp.Authenticated = true
			resp.ExpiresAt = &claims.ExpiresAt
		}
		returnJson(resp, w)
	}
}

func (a *API) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)

		limit := defaultEventLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				logApiErr(r, fmt.Sprintf("bad limit %q", v))
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			limit = min(n, maxEventLimit)
		}

		events, err := a.service.Audit().RecentEvents(limit)
		if err != nil {
			logApiErr(r, fmt.Sprintf("couldn't read events: %v", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []service.AuthEvent{}
		}
		returnJson(EventsResponse{Events: events}, w)
	}
}
