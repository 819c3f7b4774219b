package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/deauport/deauport/internal/api"
	"github.com/deauport/deauport/internal/service"
	"github.com/deauport/deauport/internal/testutil"
)

type SessionBody = api.SessionResponse

func TestSession_Anonymous(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)

	var body SessionBody
	result := testutil.Get(env.Router, "/api/auth/session", nil, &body)
	testutil.ExpectStatus(t, http.StatusOK, result)
	if body.Authenticated || body.ExpiresAt != nil {
		t.Errorf("unexpected session: %+v", body)
	}
}

func TestSession_AfterLogin(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)
	jar := testutil.NewJar()
	testutil.Login(t, env.Router, jar, testutil.TestPassword, false)

	var body SessionBody
	result := testutil.Get(env.Router, "/api/auth/session", jar, &body)
	testutil.ExpectStatus(t, http.StatusOK, result)
	if !body.Authenticated || body.ExpiresAt == nil {
		t.Fatalf("expected session, got %+v", body)
	}
	want := env.Clock.Now().Add(7 * 24 * time.Hour)
	if body.ExpiresAt.UnixMilli() != want.UnixMilli() {
		t.Errorf("ExpiresAt = %v, want %v", body.ExpiresAt, want)
	}
}

func TestSession_Expired(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)
	jar := testutil.NewJar()
	testutil.Login(t, env.Router, jar, testutil.TestPassword, false)

	// once the clock passes the expiry the cookie stops working
	env.Clock.Advance(7*24*time.Hour + time.Second)
	var body SessionBody
	testutil.Get(env.Router, "/api/auth/session", jar, &body)
	if body.Authenticated {
		t.Error("expired session still authenticated")
	}
}

func TestSession_Tampered(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)
	jar := testutil.NewJar()
	testutil.Login(t, env.Router, jar, testutil.TestPassword, false)

	// changing one character of the cookie invalidates it
	token := []byte(jar.Value(service.CookieName))
	token[0] ^= 1
	jar.Set(service.CookieName, string(token))

	var body SessionBody
	testutil.Get(env.Router, "/api/auth/session", jar, &body)
	if body.Authenticated {
		t.Error("tampered session authenticated")
	}
}

func TestEvents_RequiresSession(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)

	result := testutil.Get(env.Router, "/api/auth/events", nil, nil)
	testutil.ExpectStatus(t, http.StatusUnauthorized, result)
}

func TestEvents_ListsAttempts(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)
	jar := testutil.NewJar()
	testutil.Login(t, env.Router, testutil.NewJar(), "wrong", false)
	testutil.Login(t, env.Router, jar, testutil.TestPassword, false)

	var body api.EventsResponse
	result := testutil.Get(env.Router, "/api/auth/events", jar, &body)
	testutil.ExpectStatus(t, http.StatusOK, result)
	if len(body.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(body.Events))
	}
	if body.Events[0].Kind != service.EventLogin || body.Events[1].Kind != service.EventLoginFailed {
		t.Errorf("unexpected events: %+v", body.Events)
	}
	if body.Events[0].Remote != "192.0.2.1" {
		t.Errorf("Remote = %s, want 192.0.2.1", body.Events[0].Remote)
	}
}

func TestEvents_Limit(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)
	jar := testutil.NewJar()
	for i := 0; i < 3; i++ {
		testutil.Login(t, env.Router, testutil.NewJar(), "wrong", false)
	}
	testutil.Login(t, env.Router, jar, testutil.TestPassword, false)

	var body api.EventsResponse
	testutil.Get(env.Router, "/api/auth/events?limit=2", jar, &body)
	if len(body.Events) != 2 {
		t.Errorf("got %d events, want 2", len(body.Events))
	}

	// invalid limits are rejected
	for _, limit := range []string{"0", "-1", "ten"} {
		result := testutil.Get(env.Router, "/api/auth/events?limit="+limit, jar, nil)
		testutil.ExpectStatus(t, http.StatusBadRequest, result)
	}
}
