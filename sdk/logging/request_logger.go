// Package logging re-exports request logging primitives for SDK consumers.
package logging

import internallogging "github.com/paypay-go/paypay/internal/logging"

// RequestLogger defines the interface for logging outbound requests and responses.
type RequestLogger = internallogging.RequestLogger

// RequestLogEntry is one outbound request/response cycle handed to a RequestLogger.
type RequestLogEntry = internallogging.RequestLogEntry

// LogrusRequestLogger implements RequestLogger on the shared logrus instance.
type LogrusRequestLogger = internallogging.LogrusRequestLogger

// NewRequestLogger creates the default logrus request logger.
func NewRequestLogger(enabled bool) *LogrusRequestLogger {
	return internallogging.NewRequestLogger(enabled)
}

// MaskBody returns body with passwords, one-time codes and tokens masked.
func MaskBody(body []byte) string { return internallogging.MaskBody(body) }
