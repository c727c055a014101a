package paypay

import (
	"time"

	auth "github.com/paypay-go/paypay/internal/auth/paypay"
	"github.com/paypay-go/paypay/sdk/logging"
	"github.com/paypay-go/paypay/sdk/config"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	sdk           config.SDKConfig
	accessToken   string
	deviceUUID    string
	clientUUID    string
	clientVersion string
	mode          ChallengeMode
	endpoints     Endpoints
	logger        logging.RequestLogger
	now           func() time.Time
}

func defaultOptions() *options {
	return &options{
		mode:      auth.ChallengeLink,
		endpoints: auth.DefaultEndpoints(),
		now:       time.Now,
	}
}

// WithAccessToken starts the client authenticated with an existing access token.
func WithAccessToken(token string) Option {
	return func(o *options) { o.accessToken = token }
}

// WithDeviceUUID fixes the Device-Uuid header. A random one is generated otherwise.
func WithDeviceUUID(id string) Option {
	return func(o *options) { o.deviceUUID = id }
}

// WithClientUUID fixes the Client-Uuid header. A random one is generated otherwise.
func WithClientUUID(id string) Option {
	return func(o *options) { o.clientUUID = id }
}

// WithProxyURL routes all traffic through an http, https or socks5 proxy.
func WithProxyURL(proxyURL string) Option {
	return func(o *options) { o.sdk.ProxyURL = proxyURL }
}

// WithClientVersion pins the app version and skips the App Store lookup.
func WithClientVersion(version string) Option {
	return func(o *options) { o.clientVersion = version }
}

// WithChallengeMode selects how the second factor is delivered.
func WithChallengeMode(mode ChallengeMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithTLSFingerprint makes HTTPS handshakes look like the Android app and WebView.
func WithTLSFingerprint(enabled bool) Option {
	return func(o *options) { o.sdk.TLSFingerprint = enabled }
}

// WithEndpoints overrides the service base URLs. Empty fields keep the production values.
func WithEndpoints(endpoints Endpoints) Option {
	return func(o *options) { o.endpoints = endpoints }
}

// WithHTTPTimeout bounds every request. Zero means no timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(o *options) {
		seconds := int(timeout / time.Second)
		if timeout > 0 && timeout%time.Second != 0 {
			seconds++
		}
		o.sdk.HTTPTimeoutSeconds = seconds
	}
}

// WithRequestLog logs decoded request and response bodies at debug level, credentials masked.
func WithRequestLog(enabled bool) Option {
	return func(o *options) { o.sdk.RequestLog = enabled }
}

// WithRequestLogger replaces the request logger.
func WithRequestLogger(logger logging.RequestLogger) Option {
	return func(o *options) { o.logger = logger }
}

// optionsFromConfig translates a loaded configuration into options.
func optionsFromConfig(cfg *config.Config) ([]Option, error) {
	if cfg == nil {
		return nil, nil
	}
	mode, err := auth.ParseChallengeMode(cfg.ChallengeMode)
	if err != nil {
		return nil, err
	}
	sdk := cfg.SDKConfig
	return []Option{
		func(o *options) { o.sdk = sdk },
		WithAccessToken(cfg.AccessToken),
		WithDeviceUUID(cfg.DeviceUUID),
		WithClientUUID(cfg.ClientUUID),
		WithClientVersion(cfg.ClientVersion),
		WithChallengeMode(mode),
	}, nil
}
