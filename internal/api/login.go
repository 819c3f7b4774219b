package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/deauport/deauport/internal/service"
)

const (
	msgWrongPassword    = "Password salah."
	msgNoPasswordDigest = "Server belum dikonfigurasi (AUTH_PASS_SHA256)."
	msgNoSecret         = "Server belum dikonfigurasi (AUTH_SECRET)."
	msgThrottled        = "Terlalu banyak percobaan. Coba lagi nanti."
	msgInternal         = "Terjadi kesalahan di server."
)

type loginRequest struct {
	Password string
	Remember bool
}

func (a *API) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)
		remote := remoteHost(r)

		if !a.throttle.Allow(remote) {
			logApiErr(r, fmt.Sprintf("login throttled for %s", remote))
			redirectWithError(w, r, msgThrottled)
			return
		}

		req := loginRequest{
			Password: r.PostFormValue("password"),
			Remember: r.PostFormValue("remember") == "on",
		}

		err := a.service.Login(a.cookies(w, r), remote, req.Password, req.Remember)
		if err != nil {
			logApiErr(r, fmt.Sprintf("login from %s failed: %v", remote, err))
			redirectWithError(w, r, loginErrorMessage(err))
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// loginErrorMessage maps a login error to the text shown on the login
// page. Anything that isn't a configuration problem reads the same.
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNoSigningSecret):
		return msgNoSecret
	case errors.Is(err, service.ErrNotConfigured):
		return msgNoPasswordDigest
	case errors.Is(err, service.ErrInternal):
		return msgInternal
	default:
		return msgWrongPassword
	}
}
