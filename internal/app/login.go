package app

import "net/http"

type loginModel struct {
	Error string
}

func (a *App) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.session(r); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		a.render(w, r, "login.html", loginModel{
			Error: r.URL.Query().Get("e"),
		})
	}
}
