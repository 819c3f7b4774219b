package api

import "net/http"

func (a *API) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)
		a.service.Logout(a.cookies(w, r), remoteHost(r))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
