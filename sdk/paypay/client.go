package paypay

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	auth "github.com/paypay-go/paypay/internal/auth/paypay"
	"github.com/paypay-go/paypay/sdk/config"
)

// Client is a PayPay app API client.
type Client struct {
	session   *auth.Session
	headers   *auth.HeaderProfile
	auth      *auth.PayPayAuth
	endpoints Endpoints
	now       func() time.Time
}

// NewClient creates a client. Unless WithClientVersion is given, the current app
// version is read from the App Store, which is the only request made here.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	endpoints := o.endpoints.WithDefaults()

	session, err := auth.NewSession(&o.sdk, o.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	version := strings.TrimSpace(o.clientVersion)
	if version == "" {
		version, err = auth.NewVersionResolver(session, endpoints.VersionURL).Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve app version: %w", err)
		}
	}

	headers := auth.NewHeaderProfile(o.deviceUUID, o.clientUUID, version, endpoints)
	login := auth.NewPayPayAuth(session, headers, endpoints, o.mode)
	if o.accessToken != "" {
		login.SetToken(o.accessToken)
	}
	log.WithFields(log.Fields{"mode": o.mode.String()}).Debugf("paypay client ready (app version %s)", version)

	return &Client{
		session:   session,
		headers:   headers,
		auth:      login,
		endpoints: endpoints,
		now:       o.now,
	}, nil
}

// NewClientFromConfig creates a client from a loaded configuration. Extra options
// are applied after the configuration.
func NewClientFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	base, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, append(base, opts...)...)
}

// LoginStart submits the credentials and requests the second factor.
func (c *Client) LoginStart(ctx context.Context, phone, password string) error {
	return c.auth.Start(ctx, phone, password)
}

// LoginConfirm completes the login with the one-time-link URL, or the code in OTP mode.
func (c *Client) LoginConfirm(ctx context.Context, proof string) (*TokenResponse, error) {
	return c.auth.Confirm(ctx, proof)
}

// State returns the login state.
func (c *Client) State() LoginState { return c.auth.State() }

// ChallengeMode returns the second-factor delivery mode of the next LoginStart.
func (c *Client) ChallengeMode() ChallengeMode { return c.auth.Mode() }

// SetChallengeMode changes the second-factor delivery mode of the next LoginStart.
func (c *Client) SetChallengeMode(mode ChallengeMode) { c.auth.SetMode(mode) }

// AccessToken returns the current access token, or "" before login.
func (c *Client) AccessToken() string {
	if tok := c.auth.Token(); tok != nil {
		return tok.AccessToken
	}
	return ""
}

// SetAccessToken installs an access token. An empty token logs the client out.
func (c *Client) SetAccessToken(token string) { c.auth.SetToken(token) }

// ClientVersion returns the app version the client presents.
func (c *Client) ClientVersion() string { return c.headers.ClientVersion }

// DeviceUUID returns the Device-Uuid the client presents.
func (c *Client) DeviceUUID() string { return c.headers.DeviceUUID }

// ClientUUID returns the Client-Uuid the client presents.
func (c *Client) ClientUUID() string { return c.headers.ClientUUID }
