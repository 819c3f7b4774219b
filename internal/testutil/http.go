package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// HTTPResult captures HTTP response details for test assertions
type HTTPResult struct {
	Code    int
	Error   error
	Headers http.Header
	Cookies []*http.Cookie
	Body    []byte
}

// Cookie returns the named Set-Cookie of the response, or nil
func (r HTTPResult) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Header represents an HTTP header key-value pair
type Header struct {
	Key   string
	Value string
}

// ContentTypeForm returns a header for form-urlencoded content type
func ContentTypeForm() Header {
	return Header{
		Key:   "Content-Type",
		Value: "application/x-www-form-urlencoded",
	}
}

// Jar carries cookies from one response to the next request, like a browser
type Jar struct {
	cookies map[string]*http.Cookie
}

func NewJar() *Jar {
	return &Jar{cookies: make(map[string]*http.Cookie)}
}

// Store applies the Set-Cookie headers of result. Expired or empty cookies
// are dropped.
func (j *Jar) Store(result HTTPResult) {
	for _, c := range result.Cookies {
		if c.MaxAge < 0 || c.Value == "" {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = c
	}
}

// Set places a cookie in the jar directly
func (j *Jar) Set(name string, value string) {
	j.cookies[name] = &http.Cookie{Name: name, Value: value}
}

func (j *Jar) Value(name string) string {
	if c, ok := j.cookies[name]; ok {
		return c.Value
	}
	return ""
}

func (j *Jar) apply(req *http.Request) {
	if j == nil {
		return
	}
	for _, c := range j.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

// ExpectStatus validates the HTTP status code and fails the test if it doesn't match
func ExpectStatus(
	t *testing.T,
	expected int,
	result HTTPResult,
) {
	t.Helper()
	if result.Error != nil {
		t.Fatalf("request error: %v", result.Error)
	}
	if result.Code != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, result.Code, string(result.Body))
	}
}

// ExpectRedirect validates a redirect response and returns the Location header
func ExpectRedirect(
	t *testing.T,
	result HTTPResult,
) *url.URL {
	t.Helper()
	if result.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect (303), got %d. Body: %s", result.Code, string(result.Body))
	}
	location := result.Headers.Get("Location")
	if location == "" {
		t.Fatal("expected Location header in redirect")
	}
	u, err := url.Parse(location)
	if err != nil {
		t.Fatalf("invalid Location header %q: %v", location, err)
	}
	return u
}

// Do performs a request through router and optionally decodes a JSON response
func Do(
	router http.Handler,
	method string,
	target string,
	body string,
	jar *Jar,
	response any,
	headers ...Header,
) HTTPResult {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:40000"
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}
	jar.apply(req)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	result := HTTPResult{
		Code:    res.Code,
		Headers: res.Header(),
		Cookies: res.Result().Cookies(),
		Body:    res.Body.Bytes(),
	}
	if response != nil && res.Body.Len() > 0 {
		if err := json.Unmarshal(res.Body.Bytes(), response); err != nil {
			result.Error = fmt.Errorf("failed to decode JSON: %v\n%s", err, res.Body.String())
		}
	}
	return result
}

// Get performs a GET request
func Get(
	router http.Handler,
	target string,
	jar *Jar,
	response any,
) HTTPResult {
	return Do(router, http.MethodGet, target, "", jar, response)
}

// PostForm performs a POST with form-urlencoded body
func PostForm(
	router http.Handler,
	target string,
	values url.Values,
	jar *Jar,
) HTTPResult {
	return Do(router, http.MethodPost, target, values.Encode(), jar, nil, ContentTypeForm())
}

// Login posts the login form and stores the resulting cookies in jar
func Login(
	t *testing.T,
	router http.Handler,
	jar *Jar,
	password string,
	remember bool,
) HTTPResult {
	t.Helper()
	values := url.Values{"password": {password}}
	if remember {
		values.Set("remember", "on")
	}
	result := PostForm(router, "/api/auth/login", values, jar)
	jar.Store(result)
	return result
}
