// Package paypay implements the sign-in flow of the PayPay mobile application.
// It emulates the app's OAuth2 PAR + PKCE authorization, the web portal password
// sign-in, the one-time-link / OTP second factor, and the final token exchange,
// and provides the HTTP sessions and result-envelope handling every API call shares.
package paypay

import (
	"fmt"
	"strings"
)

// OAuth and service constants of the PayPay Android app.
const (
	ClientID          = "pay2-mobile-app-client"
	RedirectURI       = "paypay://oauth2/callback"
	DefaultAppBaseURL = "https://app4.paypay.ne.jp"
	DefaultWebBaseURL = "https://www.paypay.ne.jp"
	DefaultVersionURL = "https://apps.apple.com/jp/app/paypay-%E3%83%9A%E3%82%A4%E3%83%9A%E3%82%A4/id1435783608"

	// SuccessCode is the result code of every successful response.
	SuccessCode = "S0000"

	// LoginVerifierLength is the PKCE verifier length the app uses.
	LoginVerifierLength = 43

	// DefaultLanguage is sent as payPayLang and uiLocales.
	DefaultLanguage = "ja"
)

// Cookies the authorize step must set before the flow can be confirmed.
const (
	langCookie       = "Lang"
	requestURICookie = "__Secure-request_uri"
)

// PKCECodes holds PKCE verification codes for the OAuth2 PKCE flow.
type PKCECodes struct {
	// CodeVerifier is the cryptographically random string used to correlate
	// the authorization request to the token request
	CodeVerifier string `json:"code_verifier"`
	// CodeChallenge is the SHA256 hash of the code verifier, base64url-encoded without padding
	CodeChallenge string `json:"code_challenge"`
}

// Endpoints holds the base URLs the client talks to.
type Endpoints struct {
	// AppBaseURL serves the app backend (BFF) API.
	AppBaseURL string
	// WebBaseURL serves the web portal used during sign-in.
	WebBaseURL string
	// VersionURL is the App Store page the app version is read from.
	VersionURL string
}

// DefaultEndpoints returns the production endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AppBaseURL: DefaultAppBaseURL,
		WebBaseURL: DefaultWebBaseURL,
		VersionURL: DefaultVersionURL,
	}
}

// WithDefaults fills empty fields with production values and trims trailing slashes.
func (e Endpoints) WithDefaults() Endpoints {
	def := DefaultEndpoints()
	if strings.TrimSpace(e.AppBaseURL) == "" {
		e.AppBaseURL = def.AppBaseURL
	}
	if strings.TrimSpace(e.WebBaseURL) == "" {
		e.WebBaseURL = def.WebBaseURL
	}
	if strings.TrimSpace(e.VersionURL) == "" {
		e.VersionURL = def.VersionURL
	}
	e.AppBaseURL = strings.TrimRight(strings.TrimSpace(e.AppBaseURL), "/")
	e.WebBaseURL = strings.TrimRight(strings.TrimSpace(e.WebBaseURL), "/")
	return e
}

// App returns an absolute app backend URL for path.
func (e Endpoints) App(path string) string { return e.AppBaseURL + path }

// Web returns an absolute web portal URL for path.
func (e Endpoints) Web(path string) string { return e.WebBaseURL + path }

// ChallengeMode selects how the second factor of the sign-in is delivered.
type ChallengeMode int

const (
	// ChallengeLink delivers a one-time link; the user confirms with the link URL.
	ChallengeLink ChallengeMode = iota
	// ChallengeOTP delivers a numeric one-time password; the user confirms with the digits.
	ChallengeOTP
)

// String returns the configuration name of the mode.
func (m ChallengeMode) String() string {
	switch m {
	case ChallengeLink:
		return "link"
	case ChallengeOTP:
		return "otp"
	default:
		return fmt.Sprintf("ChallengeMode(%d)", int(m))
	}
}

// flow returns the SELECT_FLOW flow name for the mode.
func (m ChallengeMode) flow() string {
	if m == ChallengeOTP {
		return "OTP"
	}
	return "OTL"
}

// ParseChallengeMode parses "link" or "otp". Empty input yields ChallengeLink.
func ParseChallengeMode(s string) (ChallengeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "link", "otl", "url":
		return ChallengeLink, nil
	case "otp":
		return ChallengeOTP, nil
	default:
		return ChallengeLink, NewError(ErrInvalidInput, fmt.Errorf("unknown challenge mode %q", s))
	}
}

// LoginState is the tag of the sign-in state machine.
type LoginState int

const (
	// StateIdle means no sign-in is in progress.
	StateIdle LoginState = iota
	// StateAwaitingConfirmation means Start succeeded and Confirm is expected.
	StateAwaitingConfirmation
	// StateAuthenticated means an access token is held.
	StateAuthenticated
)

// String returns a readable state name.
func (s LoginState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("LoginState(%d)", int(s))
	}
}

// TokenPayload is the payload of the token endpoint.
type TokenPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
}

// TokenResponse is the full envelope of the token exchange together with its decoded payload.
type TokenResponse struct {
	*Envelope
	Token TokenPayload
}
