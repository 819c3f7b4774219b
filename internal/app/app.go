// Package app renders the dashboard's server-side pages.
package app

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/deauport/deauport/internal/resources"
	"github.com/deauport/deauport/internal/service"
)

const serverErrorHTML = `<!doctype html><title>Error</title><p>Something went wrong.</p>`

type App struct {
	service   *service.Service
	templates *resources.Templates
}

func New(
	svc *service.Service,
	templates *resources.Templates,
) *App {
	return &App{
		service:   svc,
		templates: templates,
	}
}

func (a *App) session(r *http.Request) (time.Time, bool) {
	claims, ok := a.service.Session(service.NewHTTPCookieStore(nil, r, false))
	if !ok {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

func (a *App) render(w http.ResponseWriter, r *http.Request, name string, model any) {
	page, err := a.templates.Render(name, model)
	if err != nil {
		logAppErr(r, fmt.Sprintf("couldn't render template: %v", err))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(serverErrorHTML))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func logAppErr(r *http.Request, msg string) {
	log.Printf("%s %s: %s\n", r.Method, r.URL.Path, msg)
}
