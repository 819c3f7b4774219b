// Package routing assembles the dashboard's HTTP routes.
package routing

import (
	"net/http"

	"github.com/deauport/deauport/internal/api"
	"github.com/deauport/deauport/internal/app"
	"github.com/gorilla/mux"
)

func BuildRouter(a *api.API, p *app.App) *mux.Router {
	r := mux.NewRouter()

	// pages
	r.HandleFunc("/", p.Home()).
		Methods(http.MethodGet)
	r.HandleFunc("/login", p.Login()).
		Methods(http.MethodGet)

	// auth api
	a.BuildRouter(r.PathPrefix("/api/auth").Subrouter())

	return r
}
