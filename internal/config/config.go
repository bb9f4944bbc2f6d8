package config

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/example/court-booker/internal/crypto"
)

// Config is the runtime environment configuration. Account data lives in the
// accounts file, loaded separately.
type Config struct {
	WebDriverURL string
	Headless     bool

	AccountsFile string
	ResultsDir   string
	ArtifactDir  string

	// DatabaseURL is optional; when empty, run records only go to ResultsDir.
	DatabaseURL string

	Timezone  string
	DaysAhead int

	StepTimeout    time.Duration
	AttemptTimeout time.Duration
	Retries        int
	Backoff        time.Duration
	RunDeadline    time.Duration

	// Credential sealing. Either a raw base64 key or a passphrase+salt pair.
	CredKey        []byte
	CredPassphrase string
	CredSalt       []byte
}

func FromEnv() (Config, error) {
	cfg := Config{
		WebDriverURL: getenv("WEBDRIVER_URL", "http://localhost:9515"),
		Headless:     getenv("HEADLESS", "1") != "0",
		AccountsFile: getenv("ACCOUNTS_FILE", "accounts.toml"),
		ResultsDir:   getenv("RESULTS_DIR", "results"),
		ArtifactDir:  getenv("ARTIFACT_DIR", "screenshots"),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Timezone:     getenv("BOOKING_TIMEZONE", "America/St_Johns"),
	}

	var err error
	if cfg.DaysAhead, err = getint("BOOKING_DAYS_AHEAD", 6); err != nil {
		return Config{}, err
	}
	if cfg.Retries, err = getint("BOOKING_RETRIES", 1); err != nil {
		return Config{}, err
	}
	if cfg.StepTimeout, err = getseconds("STEP_TIMEOUT_SECONDS", 15); err != nil {
		return Config{}, err
	}
	if cfg.AttemptTimeout, err = getseconds("ATTEMPT_TIMEOUT_SECONDS", 120); err != nil {
		return Config{}, err
	}
	if cfg.Backoff, err = getseconds("RETRY_BACKOFF_SECONDS", 2); err != nil {
		return Config{}, err
	}
	if cfg.RunDeadline, err = getseconds("RUN_DEADLINE_SECONDS", 480); err != nil {
		return Config{}, err
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, errors.Wrapf(err, "invalid BOOKING_TIMEZONE %q", cfg.Timezone)
	}

	if v := strings.TrimSpace(os.Getenv("CRED_ENC_KEY")); v != "" {
		cfg.CredKey, err = decodeB64(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "CRED_ENC_KEY")
		}
	}
	cfg.CredPassphrase = strings.TrimSpace(os.Getenv("CRED_ENC_PASSPHRASE"))
	if v := strings.TrimSpace(os.Getenv("CRED_ENC_SALT")); v != "" {
		cfg.CredSalt, err = decodeB64(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "CRED_ENC_SALT")
		}
	}
	if cfg.CredPassphrase != "" && len(cfg.CredSalt) == 0 {
		return Config{}, errors.New("CRED_ENC_PASSPHRASE requires CRED_ENC_SALT")
	}

	return cfg, nil
}

// Location returns the reference timezone used for target-date math.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		// Validated in FromEnv; fall back rather than crash mid-run.
		return time.UTC
	}
	return loc
}

// Sealer builds the credential AEAD when key material is configured. Returns
// (nil, nil) when it is not; sealed passwords then fail at load with a clear
// message.
func (c Config) Sealer() (*crypto.AEAD, error) {
	switch {
	case len(c.CredKey) > 0:
		return crypto.New(c.CredKey)
	case c.CredPassphrase != "":
		return crypto.NewFromPassphrase(c.CredPassphrase, c.CredSalt)
	default:
		return nil, nil
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getint(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Newf("invalid %s: %q", k, v)
	}
	return n, nil
}

func getseconds(k string, def int) (time.Duration, error) {
	n, err := getint(k, def)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.Newf("%s must be >= 1", k)
	}
	return time.Duration(n) * time.Second, nil
}

func decodeB64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
