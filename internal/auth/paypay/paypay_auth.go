package paypay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"
	"golang.org/x/oauth2"

	"github.com/paypay-go/paypay/internal/misc"
)

// Sign-in endpoint paths.
const (
	parPath          = "/bff/v2/oauth2/par"
	tokenPath        = "/bff/v2/oauth2/token"
	authorizePath    = "/portal/api/v2/oauth2/authorize"
	parCheckPath     = "/portal/api/v2/oauth2/par/check"
	passwordPath     = "/portal/api/v2/oauth2/sign-in/password"
	codeGrantPath    = "/portal/api/v2/oauth2/extension/code-grant/update"
	otlVerifyPath    = "/portal/api/v2/oauth2/extension/sign-in/2fa/otl/verify"
	selectOTPPath    = "/portal/oauth2/extension-select-otp"
	oneTimeLinkPath  = "/portal/oauth2/l"
	formContentType  = "application/x-www-form-urlencoded"
	jsonContentType  = "application/json"
	signInMethod     = "MOBILE"
	extensionPayload = "params.data.payload"
)

// pendingLogin is the data of StateAwaitingConfirmation.
type pendingLogin struct {
	mode        ChallengeMode
	pkce        *PKCECodes
	extensionID string
}

// PayPayAuth drives the sign-in state machine of one client.
// It is not safe for concurrent use.
type PayPayAuth struct {
	session   *Session
	headers   *HeaderProfile
	endpoints Endpoints
	mode      ChallengeMode

	state   LoginState
	pending *pendingLogin
	token   *oauth2.Token
}

// NewPayPayAuth creates the state machine in StateIdle.
func NewPayPayAuth(session *Session, headers *HeaderProfile, endpoints Endpoints, mode ChallengeMode) *PayPayAuth {
	return &PayPayAuth{
		session:   session,
		headers:   headers,
		endpoints: endpoints.WithDefaults(),
		mode:      mode,
		state:     StateIdle,
	}
}

// State returns the current state tag.
func (a *PayPayAuth) State() LoginState { return a.state }

// Mode returns the challenge mode used by the next Start.
func (a *PayPayAuth) Mode() ChallengeMode { return a.mode }

// SetMode changes the challenge mode used by the next Start.
func (a *PayPayAuth) SetMode(mode ChallengeMode) { a.mode = mode }

// Token returns the access token, or nil when not authenticated.
func (a *PayPayAuth) Token() *oauth2.Token { return a.token }

// SetToken installs an existing access token, as given, and moves to StateAuthenticated.
// An empty or all-whitespace token clears authentication.
func (a *PayPayAuth) SetToken(accessToken string) {
	if strings.TrimSpace(accessToken) == "" {
		a.token = nil
		if a.state == StateAuthenticated {
			a.state = StateIdle
		}
		return
	}
	a.token = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	a.pending = nil
	a.state = StateAuthenticated
}

// Start submits the credentials and requests the second-factor challenge.
// On success the machine is in StateAwaitingConfirmation. Calling Start again re-runs
// the whole flow with a fresh PKCE pair and fresh cookies.
func (a *PayPayAuth) Start(ctx context.Context, phone, password string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return NewError(ErrInvalidInput, fmt.Errorf("phone number and password are required"))
	}

	a.pending = nil
	if a.token == nil {
		a.state = StateIdle
	}
	if err := a.session.ResetCookies(); err != nil {
		return NewError(ErrTransport, err)
	}

	pkceCodes, err := GeneratePKCECodes(LoginVerifierLength)
	if err != nil {
		return fmt.Errorf("failed to generate PKCE codes: %w", err)
	}
	state, err := GenerateCodeVerifier(LoginVerifierLength)
	if err != nil {
		return fmt.Errorf("failed to generate state parameter: %w", err)
	}
	mode := a.mode
	logger := log.WithField("mode", mode.String())

	// Pushed authorization request.
	logger.WithField("step", "par").Debug("starting login")
	form := url.Values{
		"clientId":            {ClientID},
		"clientAppVersion":    {a.headers.ClientVersion},
		"clientOsVersion":     {osVersion},
		"clientOsType":        {"ANDROID"},
		"responseType":        {"code"},
		"redirectUri":         {RedirectURI},
		"state":               {state},
		"codeChallenge":       {pkceCodes.CodeChallenge},
		"codeChallengeMethod": {"S256"},
		"scope":               {"REGULAR"},
		"tokenVersion":        {"v2"},
		"prompt":              {""},
		"uiLocales":           {DefaultLanguage},
	}
	env, err := a.appForm(ctx, parPath, form)
	if err != nil {
		return fmt.Errorf("pushed authorization request failed: %w", err)
	}
	requestURI, err := env.requireString("requestUri")
	if err != nil {
		return err
	}

	// Authorize in the WebView; sets the portal cookies.
	logger.WithField("step", "authorize").Debug("opening authorization page")
	if _, err = a.session.Do(ctx, FlowApp, &Request{
		Method: http.MethodGet,
		URL:    a.endpoints.Web(authorizePath),
		Query:  url.Values{"client_id": {ClientID}, "request_uri": {requestURI}},
		Header: a.headers.NavigateHeaders(),
	}); err != nil {
		return fmt.Errorf("authorization page failed: %w", err)
	}

	logger.WithField("step", "par_check").Debug("checking authorization request")
	if err = a.parCheck(ctx); err != nil {
		return err
	}

	logger.WithField("step", "password").Debug("submitting password")
	body, _ := sjson.SetBytes([]byte(`{}`), "username", phone)
	body, _ = sjson.SetBytes(body, "password", password)
	body, _ = sjson.SetBytes(body, "signInAttemptCount", 1)
	if _, err = a.portalJSON(ctx, passwordPath, body); err != nil {
		return fmt.Errorf("password sign-in failed: %w", err)
	}

	logger.WithField("step", "extension").Debug("requesting sign-in extension")
	env, err = a.portalJSON(ctx, codeGrantPath, []byte(`{}`))
	if err != nil {
		return fmt.Errorf("sign-in extension request failed: %w", err)
	}
	extensionID, err := env.requireString("request.extension_id")
	if err != nil {
		return err
	}

	logger.WithField("step", "select_flow").Debug("selecting challenge flow")
	body = extensionRequest(extensionID, "SELECT_FLOW")
	body, _ = sjson.SetBytes(body, extensionPayload+".flow", mode.flow())
	body, _ = sjson.SetBytes(body, extensionPayload+".sign_in_method", signInMethod)
	body, _ = sjson.SetBytes(body, extensionPayload+".base_url", a.endpoints.Web(oneTimeLinkPath))
	if _, err = a.portalJSON(ctx, codeGrantPath, body); err != nil {
		return fmt.Errorf("challenge flow selection failed: %w", err)
	}

	a.pending = &pendingLogin{mode: mode, pkce: pkceCodes, extensionID: extensionID}
	a.state = StateAwaitingConfirmation
	logger.Info("login started, waiting for confirmation")
	return nil
}

// Confirm completes the sign-in with the second-factor proof: the one-time-link URL in
// link mode, the received code in OTP mode. It returns the token response envelope.
func (a *PayPayAuth) Confirm(ctx context.Context, proof string) (*TokenResponse, error) {
	if a.state != StateAwaitingConfirmation || a.pending == nil {
		return nil, ErrNotStarted
	}
	if !a.session.HasCookies(a.endpoints.Web("/portal/"), langCookie, requestURICookie) {
		return nil, ErrNotStarted
	}
	pending := a.pending
	logger := log.WithField("mode", pending.mode.String())

	code, referer, err := challengeCode(pending.mode, proof)
	if err != nil {
		return nil, err
	}

	logger.WithField("step", "otl_verify").Debug("verifying one-time link")
	env, err := a.browserJSON(ctx, referer, code)
	if err != nil {
		return nil, fmt.Errorf("one-time link verification failed: %w", err)
	}
	otlCode, err := env.requireString("otlCode")
	if err != nil {
		return nil, err
	}

	logger.WithField("step", "otl_exchange").Debug("exchanging one-time link code")
	env, err = a.browserJSON(ctx, referer, otlCode)
	if err != nil {
		return nil, fmt.Errorf("one-time link code exchange failed: %w", err)
	}
	otp, err := env.requireString("otp")
	if err != nil {
		return nil, err
	}

	logger.WithField("step", "select_otp").Debug("opening OTP page")
	if _, err = a.session.Do(ctx, FlowApp, &Request{
		Method: http.MethodGet,
		URL:    a.endpoints.Web(selectOTPPath),
		Header: a.headers.NavigateHeaders(),
	}); err != nil {
		return nil, fmt.Errorf("OTP page failed: %w", err)
	}
	if err = a.parCheck(ctx); err != nil {
		return nil, err
	}

	logger.WithField("step", "prepare_otp").Debug("preparing OTP verification")
	body := extensionRequest(pending.extensionID, "CANCEL_QR_VIA_OTL_AND_PREPARE_OTP")
	body, _ = sjson.SetRawBytes(body, extensionPayload, []byte("null"))
	if _, err = a.portalJSON(ctx, codeGrantPath, body); err != nil {
		return nil, fmt.Errorf("OTP preparation failed: %w", err)
	}

	logger.WithField("step", "verify_otp").Debug("verifying OTP")
	body = extensionRequest(pending.extensionID, "VERIFY_OTP")
	body, _ = sjson.SetBytes(body, extensionPayload+".otp", otp)
	env, err = a.portalJSON(ctx, codeGrantPath, body)
	if err != nil {
		return nil, fmt.Errorf("OTP verification failed: %w", err)
	}
	redirectURI, err := env.requireString("redirect_uri")
	if err != nil {
		return nil, err
	}
	authCode, err := authorizationCode(redirectURI)
	if err != nil {
		return nil, err
	}

	logger.WithField("step", "token").Debug("exchanging authorization code")
	tokenResp, err := a.exchangeCodeForTokens(ctx, authCode, pending.pkce)
	if err != nil {
		return nil, err
	}

	a.token = &oauth2.Token{
		AccessToken:  tokenResp.Token.AccessToken,
		RefreshToken: tokenResp.Token.RefreshToken,
		TokenType:    "Bearer",
	}
	if tokenResp.Token.ExpiresIn > 0 {
		a.token.Expiry = time.Now().Add(time.Duration(tokenResp.Token.ExpiresIn) * time.Second)
	}
	a.pending = nil
	a.state = StateAuthenticated
	logger.Info("login confirmed")
	return tokenResp, nil
}

// exchangeCodeForTokens trades the authorization code and PKCE verifier for an access token.
func (a *PayPayAuth) exchangeCodeForTokens(ctx context.Context, code string, pkceCodes *PKCECodes) (*TokenResponse, error) {
	if pkceCodes == nil {
		return nil, NewError(ErrInvalidInput, fmt.Errorf("PKCE codes are required for token exchange"))
	}
	env, err := a.appForm(ctx, tokenPath, url.Values{
		"clientId":     {ClientID},
		"redirectUri":  {RedirectURI},
		"code":         {code},
		"codeVerifier": {pkceCodes.CodeVerifier},
	})
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	var payload TokenPayload
	if err = env.Decode(&payload); err != nil {
		return nil, err
	}
	if payload.AccessToken == "" {
		return nil, newFormatError("token response has no accessToken")
	}
	return &TokenResponse{Envelope: env, Token: payload}, nil
}

func (a *PayPayAuth) appForm(ctx context.Context, path string, form url.Values) (*Envelope, error) {
	return a.session.Call(ctx, FlowApp, &Request{
		Method:      http.MethodPost,
		URL:         a.endpoints.App(path),
		Query:       url.Values{"payPayLang": {DefaultLanguage}},
		Header:      a.headers.AppHeaders(),
		Body:        []byte(form.Encode()),
		ContentType: formContentType,
	})
}

func (a *PayPayAuth) portalJSON(ctx context.Context, path string, body []byte) (*Envelope, error) {
	return a.session.Call(ctx, FlowApp, &Request{
		Method:      http.MethodPost,
		URL:         a.endpoints.Web(path),
		Header:      a.headers.PortalHeaders(),
		Body:        body,
		ContentType: jsonContentType,
	})
}

func (a *PayPayAuth) browserJSON(ctx context.Context, referer, code string) (*Envelope, error) {
	body, _ := sjson.SetBytes([]byte(`{}`), "code", code)
	return a.session.Call(ctx, FlowBrowser, &Request{
		Method:      http.MethodPost,
		URL:         a.endpoints.Web(otlVerifyPath),
		Header:      a.headers.BrowserHeaders(referer),
		Body:        body,
		ContentType: jsonContentType,
	})
}

func (a *PayPayAuth) parCheck(ctx context.Context) error {
	headers := a.headers.PortalHeaders()
	headers.Del("Origin")
	if _, err := a.session.Call(ctx, FlowApp, &Request{
		Method: http.MethodGet,
		URL:    a.endpoints.Web(parCheckPath),
		Header: headers,
	}); err != nil {
		return fmt.Errorf("authorization request check failed: %w", err)
	}
	return nil
}

// extensionRequest builds the code-grant/update body for an extension action.
func extensionRequest(extensionID, action string) []byte {
	body, _ := sjson.SetBytes([]byte(`{}`), "params.extension_id", extensionID)
	body, _ = sjson.SetBytes(body, "params.data.type", action)
	return body
}

// challengeCode extracts the value submitted to the one-time-link endpoint and the Referer
// the browser would send with it.
func challengeCode(mode ChallengeMode, proof string) (string, string, error) {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return "", "", NewError(ErrInvalidInput, fmt.Errorf("confirmation proof is empty"))
	}
	if mode == ChallengeOTP {
		return proof, "", nil
	}
	params, err := misc.ParseCallbackURL(proof)
	if err != nil {
		return "", "", NewError(ErrInvalidInput, err)
	}
	if params.Error != "" {
		return "", "", NewError(ErrInvalidInput, fmt.Errorf("confirmation link carries error %q", params.Error))
	}
	referer := ""
	if u, errParse := url.Parse(proof); errParse == nil && (u.Scheme == "http" || u.Scheme == "https") {
		referer = proof
	}
	return params.Value(), referer, nil
}

// authorizationCode reads the code query parameter of the final redirect URI.
func authorizationCode(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", NewError(ErrUpstreamFormat, fmt.Errorf("parse redirect_uri: %w", err))
	}
	code := u.Query().Get("code")
	if code == "" {
		return "", newFormatError("redirect_uri has no code parameter")
	}
	return code, nil
}
