// Package policy loads and validates the operator-facing configuration
// surface for the DNS interpreter: the question-count ceiling, the
// authority/additional section skip filters, and the per-connection idle
// timeout. It is read at startup and handed to the session and dnsproto
// layers by reference; nothing in this repository mutates a Config after
// Load returns it.
package policy

import (
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full policy surface. Grounded on the teacher's
// internal/config package: a plain struct with yaml tags plus a
// Validate() pass, rather than a builder or options pattern.
type Config struct {
	// MaxQueries is the per-message question-count ceiling
	// (dns_max_queries). A message whose header claims more questions
	// than this is flagged and its sections are not walked.
	MaxQueries int `yaml:"max_queries"`

	// SkipAllAuth/SkipAllAddl disable authority/additional section
	// decoding for every session, regardless of responder.
	SkipAllAuth bool `yaml:"skip_all_auth"`
	SkipAllAddl bool `yaml:"skip_all_addl"`

	// SkipAuth/SkipAddl name specific responder addresses whose
	// authority/additional sections should be skipped even when the
	// corresponding SkipAll flag is false.
	SkipAuth []string `yaml:"skip_auth,omitempty"`
	SkipAddl []string `yaml:"skip_addl,omitempty"`

	// SessionTimeoutSeconds is the UDP flow idle timeout
	// (dns_session_timeout). A UDP flow with no traffic for this long is
	// torn down; the grace period applied before expiry matches the
	// wire analyzer's timeout-minus-one-second convention.
	SessionTimeoutSeconds float64 `yaml:"session_timeout_seconds"`

	// Logging and Listen mirror the ambient concerns every teacher
	// binary carries even though they are not part of the interpreter
	// contract itself.
	Logging LoggingConfig `yaml:"logging"`
	Listen  ListenConfig  `yaml:"listen"`
	Store   StoreConfig   `yaml:"store"`
	API     APIConfig     `yaml:"api"`

	skipAuthSet map[string]struct{}
	skipAddlSet map[string]struct{}
}

// LoggingConfig mirrors internal/logging.Config's shape so a policy file
// can configure logging without importing internal/logging directly.
type LoggingConfig struct {
	Level            string            `yaml:"level"`
	Structured       bool              `yaml:"structured"`
	StructuredFormat string            `yaml:"structured_format"`
	IncludePID       bool              `yaml:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields,omitempty"`
}

// ListenConfig names the addresses the session shell binds.
type ListenConfig struct {
	UDPAddr string `yaml:"udp_addr"`
	TCPAddr string `yaml:"tcp_addr"`

	// TCPUpstreamAddr, when set, makes the TCP session shell relay each
	// accepted connection to a real DNS server at this address instead
	// of only observing the querying side. Both legs of the relay are
	// mirrored through their own Framer, so responses are decoded the
	// same way requests are. Left empty, the shell still accepts
	// connections and decodes the originator's queries, but never sees
	// a response leg.
	TCPUpstreamAddr string `yaml:"tcp_upstream_addr,omitempty"`
}

// StoreConfig configures the persisted event/weird-notice log.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// APIConfig configures the read-only admin/introspection HTTP API.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Default returns a Config with the same conservative defaults the wire
// analyzer ships with: 25 questions per message, no section skipping, a
// 3600-second (1 hour) session timeout.
func Default() Config {
	return Config{
		MaxQueries:            25,
		SessionTimeoutSeconds: 3600,
		Logging: LoggingConfig{
			Level:      "info",
			Structured: false,
		},
		Listen: ListenConfig{
			UDPAddr: ":53",
			TCPAddr: ":53",
		},
		Store: StoreConfig{
			Path: "dnsvigil.db",
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8080,
		},
	}
}

// Load reads and validates a policy file at path, layering it over
// Default().
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading policy file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing policy file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes defaults and rejects impossible values, following
// the teacher's config.Config.Validate() convention of correcting what it
// can and erroring on what it can't.
func (c *Config) Validate() error {
	if c.MaxQueries <= 0 {
		c.MaxQueries = 25
	}
	if c.SessionTimeoutSeconds <= 0 {
		c.SessionTimeoutSeconds = 3600
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("policy: invalid api port %d", c.API.Port)
	}

	c.skipAuthSet = toSet(c.SkipAuth)
	c.skipAddlSet = toSet(c.SkipAddl)
	return nil
}

func toSet(addrs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil {
			set[ip.String()] = struct{}{}
			continue
		}
		set[a] = struct{}{}
	}
	return set
}

// SkipAuthResponder reports whether the authority section should be
// skipped for messages from responder.
func (c *Config) SkipAuthResponder(responder string) bool {
	if c.skipAuthSet == nil {
		return false
	}
	_, ok := c.skipAuthSet[responder]
	return ok
}

// SkipAddlResponder reports whether the additional section should be
// skipped for messages from responder.
func (c *Config) SkipAddlResponder(responder string) bool {
	if c.skipAddlSet == nil {
		return false
	}
	_, ok := c.skipAddlSet[responder]
	return ok
}

// SessionTimeout returns the configured idle timeout as a time.Duration.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutSeconds * float64(time.Second))
}
