// Package config provides configuration management for the PayPay client.
// It handles loading and parsing YAML configuration files, and provides structured
// access to client identity, proxy, logging, and login settings.
package config

// SDKConfig holds the settings shared by every outbound request the client makes.
type SDKConfig struct {
	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	// Supported schemes are http, https, and socks5.
	ProxyURL string `yaml:"proxy-url" json:"proxy-url"`

	// RequestLog enables or disables logging of decoded request and response bodies.
	RequestLog bool `yaml:"request-log" json:"request-log"`

	// TLSFingerprint switches HTTPS traffic to a utls transport that presents the
	// Android OkHttp ClientHello for app traffic and a Chrome one for the browser flow.
	TLSFingerprint bool `yaml:"tls-fingerprint" json:"tls-fingerprint"`

	// HTTPTimeoutSeconds bounds each request. <= 0 leaves the transport default (no timeout).
	HTTPTimeoutSeconds int `yaml:"http-timeout-seconds,omitempty" json:"http-timeout-seconds,omitempty"`
}
