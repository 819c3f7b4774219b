// Package testutil provides test environment setup and utilities for internal package tests.
package testutil

import (
	"net/http"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/deauport/deauport/internal/api"
	"github.com/deauport/deauport/internal/app"
	"github.com/deauport/deauport/internal/config"
	"github.com/deauport/deauport/internal/database"
	"github.com/deauport/deauport/internal/resources"
	"github.com/deauport/deauport/internal/routing"
	"github.com/deauport/deauport/internal/service"
	"github.com/deauport/deauport/pkg/tokens"
)

const (
	// TestPassword is the admin password every test env accepts.
	TestPassword = "s3cr3t"
	TestSecret   = "test-secret-0123456789abcdef-0123456789"
)

// Clock is a manually advanced time source shared by a test env.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestEnv provides all dependencies needed for testing
type TestEnv struct {
	Config  *config.Config
	DB      *database.SQLiteStore
	Service *service.Service
	API     *api.API
	Router  http.Handler
	Clock   *Clock
}

// TestConfig returns a complete configuration for the test password.
func TestConfig() *config.Config {
	return &config.Config{
		Secret:         []byte(TestSecret),
		PasswordDigest: service.DigestSHA256(TestPassword),
		SessionTTL:     tokens.ParseTTL("7d"),
		RememberTTL:    tokens.ParseTTL("30d"),
		TemplatesDir:   getTemplatesPath(),
	}
}

// SetupTestEnv creates an isolated test environment with in-memory SQLite.
// mutate may adjust the config before anything is built from it.
func SetupTestEnv(
	t *testing.T,
	mutate ...func(*config.Config),
) *TestEnv {
	t.Helper()

	cfg := TestConfig()
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	clock := NewClock(time.Now())
	svc := service.New(
		cfg,
		service.WithAudit(db.AuditLog()),
		service.WithClock(clock.Now),
	)

	return &TestEnv{
		Config:  cfg,
		DB:      db,
		Service: svc,
		Clock:   clock,
	}
}

// SetupTestEnvWithRouter creates TestEnv and configures the full router
func SetupTestEnvWithRouter(
	t *testing.T,
	mutate ...func(*config.Config),
) *TestEnv {
	t.Helper()
	env := SetupTestEnv(t, mutate...)

	templates, err := resources.LoadTemplates(env.Config.TemplatesDir)
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	env.API = api.New(env.Service, api.NewThrottle(env.Config.LoginRate, env.Config.LoginBurst))
	env.Router = routing.BuildRouter(env.API, app.New(env.Service, templates))
	return env
}

// getTemplatesPath returns the path to the repo's templates directory
func getTemplatesPath() string {
	_, filename, _, _ := runtime.Caller(0)
	// Go up from internal/testutil to repo root
	return filepath.Join(filepath.Dir(filename), "..", "..", "templates")
}

// MemoryCookies is a CookieStore backed by a map, for service tests.
type MemoryCookies struct {
	Values     map[string]string
	Attributes map[string]service.CookieAttributes
	Deleted    []string
}

func NewMemoryCookies() *MemoryCookies {
	return &MemoryCookies{
		Values:     make(map[string]string),
		Attributes: make(map[string]service.CookieAttributes),
	}
}

func (c *MemoryCookies) Get(name string) (string, bool) {
	v, ok := c.Values[name]
	return v, ok && v != ""
}

func (c *MemoryCookies) Set(name string, value string, attrs service.CookieAttributes) {
	c.Values[name] = value
	c.Attributes[name] = attrs
}

func (c *MemoryCookies) Delete(name string) {
	delete(c.Values, name)
	delete(c.Attributes, name)
	c.Deleted = append(c.Deleted, name)
}
