// Package config builds the process-wide, read-only configuration for the
// dashboard from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/deauport/deauport/pkg/tokens"
)

// MinSecretLength is the length below which AUTH_SECRET is considered
// weak. Short secrets are accepted but logged.
const MinSecretLength = 32

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Secret         []byte
	PasswordDigest string
	SessionTTL     time.Duration
	RememberTTL    time.Duration
	Production     bool

	ListenAddr   string
	DBPath       string
	TemplatesDir string

	LoginRate  int
	LoginBurst int

	// TrustProxy honours X-Forwarded-For and friends for the client
	// address. Only enable behind a proxy that sets them.
	TrustProxy     bool
	AuditRetention time.Duration
}

// Lookup matches os.LookupEnv so tests can supply their own environment.
type Lookup func(string) (string, bool)

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

func LoadFrom(lookup Lookup) (*Config, error) {
	env := func(name string, fallback string) string {
		if v, ok := lookup(name); ok {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	loginRate, err := readInt(env("LOGIN_RATE", "6"), "LOGIN_RATE")
	if err != nil {
		return nil, err
	}
	loginBurst, err := readInt(env("LOGIN_BURST", "5"), "LOGIN_BURST")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Secret:         []byte(env("AUTH_SECRET", "")),
		PasswordDigest: env("AUTH_PASS_SHA256", ""),
		SessionTTL:     tokens.ParseTTL(env("AUTH_SESSION_TTL", "7d")),
		RememberTTL:    tokens.ParseTTL(env("AUTH_REMEMBER_TTL", "30d")),
		Production:     strings.EqualFold(env("APP_ENV", ""), "production"),
		ListenAddr:     listenAddr(env("PORT", "3000")),
		DBPath:         env("DB_PATH", ""),
		TemplatesDir:   env("TEMPLATES_DIR", "templates"),
		LoginRate:      loginRate,
		LoginBurst:     loginBurst,
		TrustProxy:     readBool(env("TRUST_PROXY", "")),
		AuditRetention: tokens.ParseTTL(env("AUDIT_RETENTION", "90d")),
	}
	cfg.warn()
	return cfg, nil
}

// Problems lists what keeps the login flow from working. An empty result
// means the config is complete.
func (c *Config) Problems() []string {
	var problems []string
	if len(c.Secret) == 0 {
		problems = append(problems, "AUTH_SECRET is not set")
	}
	if c.PasswordDigest == "" {
		problems = append(problems, "AUTH_PASS_SHA256 is not set")
	}
	return problems
}

func (c *Config) warn() {
	for _, p := range c.Problems() {
		log.Printf("config: %s; logins will be refused\n", p)
	}
	if n := len(c.Secret); n > 0 && n < MinSecretLength {
		log.Printf("config: AUTH_SECRET is only %d bytes; use at least %d\n", n, MinSecretLength)
	}
	if !c.Production {
		log.Printf("config: APP_ENV is not 'production'; session cookie will not be marked Secure\n")
	}
}

func readInt(v string, name string) (int, error) {
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("env var '%s' could not be parsed as a non-negative integer (%q)", name, v)
	}
	return i, nil
}

func readBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
