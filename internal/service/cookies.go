package service

import (
	"net/http"
	"time"
)

// CookieAttributes are the options written alongside a cookie value.
type CookieAttributes struct {
	MaxAge   time.Duration
	Path     string
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
}

// CookieStore is the only client-side state the service touches.
type CookieStore interface {
	Get(name string) (string, bool)
	Set(name string, value string, attrs CookieAttributes)
	Delete(name string)
}

// HTTPCookieStore reads cookies from a request and writes them to the
// matching response.
type HTTPCookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

func NewHTTPCookieStore(
	w http.ResponseWriter,
	r *http.Request,
	secure bool,
) *HTTPCookieStore {
	return &HTTPCookieStore{w: w, r: r, secure: secure}
}

func (c *HTTPCookieStore) Get(name string) (string, bool) {
	cookie, err := c.r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *HTTPCookieStore) Set(name string, value string, attrs CookieAttributes) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     attrs.Path,
		MaxAge:   int(attrs.MaxAge / time.Second),
		HttpOnly: attrs.HTTPOnly,
		Secure:   attrs.Secure,
		SameSite: attrs.SameSite,
	})
}

// Delete overwrites the cookie with an empty, already expired value.
func (c *HTTPCookieStore) Delete(name string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
