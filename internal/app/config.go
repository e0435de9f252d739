package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"sealrpc/internal/domain"
)

// TrustBackend selects where confirmed server keys are pinned.
type TrustBackend string

const (
	TrustFile   TrustBackend = "file"   // known_servers.json under Home
	TrustSealed TrustBackend = "sealed" // passphrase-sealed known_servers.json.enc
	TrustRedis  TrustBackend = "redis"
	TrustMemory TrustBackend = "memory"
	TrustNone   TrustBackend = "none" // confirm every time
)

// Config holds runtime wiring options for building the client.
type Config struct {
	Home         string // config directory, e.g. $HOME/.sealrpc
	ServerURL    string // server base URL, e.g. http://127.0.0.1:8545
	Curve        domain.CurveName
	Cipher       domain.CipherName
	TrustBackend TrustBackend
	Passphrase   string // required by TrustSealed

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	Timeout  time.Duration // per HTTP request; 0 disables
	LogLevel string
	LogDev   bool

	// StaticID, when non-zero, is sent as the id of every request.
	StaticID uint64
}

// DevServerConfig configures cmd/sealrpc-devserver.
type DevServerConfig struct {
	ListenAddr string
	Curve      domain.CurveName
	Cipher     domain.CipherName
	LogLevel   string
	LogDev     bool
}

// FromEnv reads SEALRPC_* variables, falling back to defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Home:          getenv("SEALRPC_HOME", ""),
		ServerURL:     getenv("SEALRPC_URL", ""),
		Curve:         domain.CurveName(getenv("SEALRPC_CURVE", string(domain.CurveP256))),
		Cipher:        domain.CipherName(getenv("SEALRPC_CIPHER", string(domain.CipherAESGCM))),
		TrustBackend:  TrustBackend(getenv("SEALRPC_TRUST", string(TrustFile))),
		Passphrase:    os.Getenv("SEALRPC_PASSPHRASE"),
		RedisAddr:     getenv("SEALRPC_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("SEALRPC_REDIS_PASSWORD"),
		RedisPrefix:   getenv("SEALRPC_REDIS_PREFIX", ""),
		LogLevel:      getenv("SEALRPC_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getenv("SEALRPC_REDIS_DB", "0")); err != nil || cfg.RedisDB < 0 {
		return cfg, fmt.Errorf("SEALRPC_REDIS_DB must be a non-negative integer, got %q", os.Getenv("SEALRPC_REDIS_DB"))
	}
	if cfg.Timeout, err = time.ParseDuration(getenv("SEALRPC_TIMEOUT", "30s")); err != nil || cfg.Timeout < 0 {
		return cfg, fmt.Errorf("SEALRPC_TIMEOUT must be a duration like 30s, got %q", os.Getenv("SEALRPC_TIMEOUT"))
	}
	if cfg.LogDev, err = strconv.ParseBool(getenv("SEALRPC_LOG_DEV", "false")); err != nil {
		return cfg, fmt.Errorf("SEALRPC_LOG_DEV must be a boolean, got %q", os.Getenv("SEALRPC_LOG_DEV"))
	}
	if cfg.StaticID, err = strconv.ParseUint(getenv("SEALRPC_STATIC_ID", "0"), 10, 64); err != nil {
		return cfg, fmt.Errorf("SEALRPC_STATIC_ID must be an unsigned integer, got %q", os.Getenv("SEALRPC_STATIC_ID"))
	}
	return cfg, nil
}

// Validate checks names and required fields. ServerURL is checked only when
// set, since some commands run without a server.
func (c Config) Validate() error {
	switch c.Curve {
	case domain.CurveP256, domain.CurveSecp256k1:
	default:
		return fmt.Errorf("invalid curve %q (expected p256|secp256k1)", c.Curve)
	}
	switch c.Cipher {
	case domain.CipherAESGCM, domain.CipherChaCha20Poly1305:
	default:
		return fmt.Errorf("invalid cipher %q (expected aes-256-gcm|chacha20-poly1305)", c.Cipher)
	}
	switch c.TrustBackend {
	case TrustFile, TrustMemory, TrustNone:
	case TrustSealed:
		if c.Passphrase == "" {
			return errors.New("sealed trust store needs a passphrase (SEALRPC_PASSPHRASE or -p)")
		}
	case TrustRedis:
		if c.RedisAddr == "" {
			return errors.New("redis trust store needs SEALRPC_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("invalid trust backend %q (expected file|sealed|redis|memory|none)", c.TrustBackend)
	}
	if c.ServerURL != "" {
		if err := validateURL(c.ServerURL); err != nil {
			return err
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// DevServerFromEnv reads the dev server settings.
func DevServerFromEnv() (DevServerConfig, error) {
	cfg := DevServerConfig{
		ListenAddr: getenv("SEALRPC_LISTEN_ADDR", "127.0.0.1:8545"),
		Curve:      domain.CurveName(getenv("SEALRPC_CURVE", string(domain.CurveP256))),
		Cipher:     domain.CipherName(getenv("SEALRPC_CIPHER", string(domain.CipherAESGCM))),
		LogLevel:   getenv("SEALRPC_LOG_LEVEL", "info"),
	}
	var err error
	if cfg.LogDev, err = strconv.ParseBool(getenv("SEALRPC_LOG_DEV", "true")); err != nil {
		return cfg, fmt.Errorf("SEALRPC_LOG_DEV must be a boolean, got %q", os.Getenv("SEALRPC_LOG_DEV"))
	}
	check := Config{Curve: cfg.Curve, Cipher: cfg.Cipher, TrustBackend: TrustNone, LogLevel: cfg.LogLevel}
	if err := check.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultHome is $HOME/.sealrpc.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".sealrpc"), nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url must be http(s), got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server url %q has no host", raw)
	}
	return nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
