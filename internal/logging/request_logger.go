// Package logging provides logging setup and request logging for the PayPay client.
// It configures the shared logrus instance and, when enabled, records decoded request
// and response bodies of every outbound call with credentials masked.
package logging

import (
	"context"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maskedValue replaces sensitive values in logged bodies.
const maskedValue = "******"

// maxLoggedBody truncates logged bodies.
const maxLoggedBody = 4096

// sensitivePaths lists JSON paths and form keys that must never reach the logs.
var sensitivePaths = []string{
	"password",
	"passcode",
	"otp",
	"code",
	"codeVerifier",
	"payload.accessToken",
	"payload.refreshToken",
	"payload.otp",
	"payload.otlCode",
	"params.data.payload.otp",
}

// RequestLogEntry is one outbound request/response cycle.
type RequestLogEntry struct {
	Method          string
	URL             string
	RequestBody     []byte
	StatusCode      int
	ResponseBody    []byte
	Duration        time.Duration
	Err             error
	RequestHeaders  map[string][]string
	ResponseHeaders map[string][]string
}

// RequestLogger records outbound request/response cycles.
type RequestLogger interface {
	// LogRequest records a complete request/response cycle.
	LogRequest(ctx context.Context, entry *RequestLogEntry)

	// IsEnabled reports whether bodies are being recorded.
	IsEnabled() bool
}

// LogrusRequestLogger writes request logs through the shared logrus instance at debug level.
type LogrusRequestLogger struct {
	enabled bool
}

// NewRequestLogger creates a request logger. A disabled logger only records failures.
func NewRequestLogger(enabled bool) *LogrusRequestLogger {
	return &LogrusRequestLogger{enabled: enabled}
}

// IsEnabled reports whether bodies are being recorded.
func (l *LogrusRequestLogger) IsEnabled() bool {
	return l != nil && l.enabled
}

// LogRequest records a complete request/response cycle.
func (l *LogrusRequestLogger) LogRequest(ctx context.Context, entry *RequestLogEntry) {
	if l == nil || entry == nil {
		return
	}
	fields := log.Fields{
		"method":   entry.Method,
		"url":      redactQuery(entry.URL),
		"status":   entry.StatusCode,
		"duration": entry.Duration.Round(time.Millisecond),
	}
	if id := GetRequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	if code := gjson.GetBytes(entry.ResponseBody, "header.resultCode"); code.Exists() {
		fields["result_code"] = code.String()
	}
	logger := log.WithFields(fields)

	if entry.Err != nil {
		logger.WithError(entry.Err).Warn("request failed")
		return
	}
	if !l.enabled {
		logger.Debug("request completed")
		return
	}
	logger.Debugf("request completed\n>>> %s\n<<< %s", MaskBody(entry.RequestBody), MaskBody(entry.ResponseBody))
}

// MaskBody returns a printable copy of body with credentials replaced.
// JSON bodies are rewritten path by path; form bodies key by key.
func MaskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var out string
	if gjson.ValidBytes(body) {
		masked := body
		for _, path := range sensitivePaths {
			if !gjson.GetBytes(masked, path).Exists() {
				continue
			}
			updated, err := sjson.SetBytes(masked, path, maskedValue)
			if err != nil {
				continue
			}
			masked = updated
		}
		out = string(masked)
	} else if values, err := url.ParseQuery(string(body)); err == nil && strings.Contains(string(body), "=") {
		for _, key := range sensitivePaths {
			if values.Has(key) {
				values.Set(key, maskedValue)
			}
		}
		out = values.Encode()
	} else {
		out = string(body)
	}
	if len(out) > maxLoggedBody {
		out = out[:maxLoggedBody] + "...(truncated)"
	}
	return out
}

// redactQuery strips credential-bearing query parameters from a URL for logging.
func redactQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := u.Query()
	changed := false
	for _, key := range []string{"request_uri", "verificationCode"} {
		if query.Has(key) {
			query.Set(key, maskedValue)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
