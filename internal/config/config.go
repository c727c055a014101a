package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Challenge modes accepted by the challenge-mode setting.
const (
	ChallengeModeLink = "link"
	ChallengeModeOTP  = "otp"
)

// Config is the full configuration of the PayPay client and CLI.
type Config struct {
	SDKConfig `yaml:",inline"`

	// DeviceUUID is sent as Device-Uuid. Generated per client when empty.
	DeviceUUID string `yaml:"device-uuid" json:"device-uuid"`

	// ClientUUID is sent as Client-Uuid. Generated per client when empty.
	ClientUUID string `yaml:"client-uuid" json:"client-uuid"`

	// AccessToken skips the login flow when set.
	AccessToken string `yaml:"access-token" json:"access-token"`

	// ClientVersion pins the app version instead of resolving it from the App Store.
	ClientVersion string `yaml:"client-version" json:"client-version"`

	// ChallengeMode selects how the second factor is delivered: "link" or "otp".
	ChallengeMode string `yaml:"challenge-mode" json:"challenge-mode"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile writes logs to a rotating file instead of stderr.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogDir is the directory for log files. Defaults to "logs".
	LogDir string `yaml:"log-dir" json:"log-dir"`

	// LogsMaxTotalSizeMB caps the total size of the log directory. 0 disables the cap.
	LogsMaxTotalSizeMB int `yaml:"logs-max-total-size-mb" json:"logs-max-total-size-mb"`
}

// LoadConfig reads and parses the YAML configuration file at configFile.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional reads the configuration file. When optional is true, a missing or
// empty path yields the default configuration instead of an error.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := &Config{ChallengeMode: ChallengeModeLink}
	if strings.TrimSpace(configFile) == "" {
		if optional {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: no configuration file given")
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration and reports invalid values.
func (c *Config) Validate() error {
	mode := strings.ToLower(strings.TrimSpace(c.ChallengeMode))
	switch mode {
	case "":
		mode = ChallengeModeLink
	case ChallengeModeLink, ChallengeModeOTP:
	default:
		return fmt.Errorf("config: unknown challenge-mode %q (want %q or %q)", c.ChallengeMode, ChallengeModeLink, ChallengeModeOTP)
	}
	c.ChallengeMode = mode
	c.ProxyURL = strings.TrimSpace(c.ProxyURL)
	c.AccessToken = strings.TrimSpace(c.AccessToken)
	return nil
}

// ApplyEnv overrides configuration values with PAYPAY_* variables found through lookup.
// lookup is usually os.LookupEnv; it is a parameter so callers can merge .env sources.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		if !ok {
			return "", false
		}
		value = strings.TrimSpace(value)
		return value, value != ""
	}

	if v, ok := get("PAYPAY_PROXY_URL"); ok {
		c.ProxyURL = v
	}
	if v, ok := get("PAYPAY_DEVICE_UUID"); ok {
		c.DeviceUUID = v
	}
	if v, ok := get("PAYPAY_CLIENT_UUID"); ok {
		c.ClientUUID = v
	}
	if v, ok := get("PAYPAY_ACCESS_TOKEN"); ok {
		c.AccessToken = v
	}
	if v, ok := get("PAYPAY_CLIENT_VERSION"); ok {
		c.ClientVersion = v
	}
	if v, ok := get("PAYPAY_CHALLENGE_MODE"); ok {
		c.ChallengeMode = v
	}
	if v, ok := get("PAYPAY_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: PAYPAY_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v, ok := get("PAYPAY_REQUEST_LOG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: PAYPAY_REQUEST_LOG: %w", err)
		}
		c.RequestLog = b
	}
	return c.Validate()
}
