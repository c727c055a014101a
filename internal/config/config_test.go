package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_ParsesFields(t *testing.T) {
	path := writeConfig(t, `
proxy-url: " socks5://127.0.0.1:1080 "
request-log: true
tls-fingerprint: true
device-uuid: dev-1
client-uuid: cli-1
access-token: tok
client-version: "4.80.0"
challenge-mode: OTP
debug: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ProxyURL != "socks5://127.0.0.1:1080" {
		t.Fatalf("ProxyURL = %q", cfg.ProxyURL)
	}
	if !cfg.RequestLog || !cfg.TLSFingerprint || !cfg.Debug {
		t.Fatalf("bool fields not parsed: %+v", cfg)
	}
	if cfg.DeviceUUID != "dev-1" || cfg.ClientUUID != "cli-1" || cfg.AccessToken != "tok" {
		t.Fatalf("identity fields not parsed: %+v", cfg)
	}
	if cfg.ChallengeMode != ChallengeModeOTP {
		t.Fatalf("ChallengeMode = %q, want %q", cfg.ChallengeMode, ChallengeModeOTP)
	}
}

func TestLoadConfigOptional_MissingFile(t *testing.T) {
	cfg, err := LoadConfigOptional(filepath.Join(t.TempDir(), "nope.yaml"), true)
	if err != nil {
		t.Fatalf("LoadConfigOptional() error = %v", err)
	}
	if cfg.ChallengeMode != ChallengeModeLink {
		t.Fatalf("default ChallengeMode = %q", cfg.ChallengeMode)
	}

	if _, err = LoadConfigOptional(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Fatal("expected error for missing required config")
	}
}

func TestLoadConfig_RejectsUnknownChallengeMode(t *testing.T) {
	path := writeConfig(t, "challenge-mode: carrier-pigeon\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown challenge-mode")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PAYPAY_PROXY_URL":      "http://proxy:8080",
		"PAYPAY_ACCESS_TOKEN":   "  env-token ",
		"PAYPAY_CHALLENGE_MODE": "otp",
		"PAYPAY_DEBUG":          "true",
		"PAYPAY_DEVICE_UUID":    "   ",
	}
	cfg := &Config{DeviceUUID: "keep"}
	err := cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.ProxyURL != "http://proxy:8080" || cfg.AccessToken != "env-token" || !cfg.Debug {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.DeviceUUID != "keep" {
		t.Fatalf("blank env value overwrote DeviceUUID: %q", cfg.DeviceUUID)
	}
	if cfg.ChallengeMode != ChallengeModeOTP {
		t.Fatalf("ChallengeMode = %q", cfg.ChallengeMode)
	}

	bad := &Config{}
	if err = bad.ApplyEnv(func(key string) (string, bool) {
		if key == "PAYPAY_DEBUG" {
			return "maybe", true
		}
		return "", false
	}); err == nil {
		t.Fatal("expected error for invalid PAYPAY_DEBUG")
	}
}
