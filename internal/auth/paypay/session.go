package paypay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/paypay-go/paypay/internal/config"
	"github.com/paypay-go/paypay/internal/logging"
	"github.com/paypay-go/paypay/internal/misc"
	"github.com/paypay-go/paypay/internal/util"
)

// Flow selects which of the two cookie-isolated HTTP clients carries a request.
type Flow int

const (
	// FlowApp is the app itself: backend calls and the sign-in WebView share its cookies.
	FlowApp Flow = iota
	// FlowBrowser is the phone browser that opens the one-time link.
	FlowBrowser
)

// String returns the flow name used in logs.
func (f Flow) String() string {
	if f == FlowBrowser {
		return "browser"
	}
	return "app"
}

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	Body   []byte
	// ContentType is set when Body is non-empty.
	ContentType string
	// Token, when set, is attached as the bearer Authorization header.
	Token *oauth2.Token
}

// Response is a completed call with its decoded body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Session owns the two HTTP clients of one client instance.
type Session struct {
	app     *http.Client
	browser *http.Client
	logger  logging.RequestLogger
}

// NewSession creates a session with two independent cookie jars. Proxy, TLS fingerprint and
// timeout settings are taken from cfg, which may be nil.
func NewSession(cfg *config.SDKConfig, logger logging.RequestLogger) (*Session, error) {
	if cfg == nil {
		cfg = &config.SDKConfig{}
	}
	if logger == nil {
		logger = logging.NewRequestLogger(cfg.RequestLog)
	}
	app, err := newFlowClient(cfg, FlowApp)
	if err != nil {
		return nil, err
	}
	browser, err := newFlowClient(cfg, FlowBrowser)
	if err != nil {
		return nil, err
	}
	return &Session{app: app, browser: browser, logger: logger}, nil
}

func newFlowClient(cfg *config.SDKConfig, flow Flow) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	base, err := util.ProxyTransport(cfg.ProxyURL)
	if err != nil {
		return nil, NewError(ErrInvalidInput, err)
	}
	var transport http.RoundTripper = base
	if cfg.TLSFingerprint {
		transport = newUtlsRoundTripper(cfg.ProxyURL, helloForFlow(flow), base)
	}
	client := &http.Client{Jar: jar, Transport: transport}
	if cfg.HTTPTimeoutSeconds > 0 {
		client.Timeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	}
	return client, nil
}

func (s *Session) client(flow Flow) *http.Client {
	if flow == FlowBrowser {
		return s.browser
	}
	return s.app
}

// HasCookies reports whether the app jar holds every named cookie for rawURL.
func (s *Session) HasCookies(rawURL string, names ...string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || s.app.Jar == nil {
		return false
	}
	present := make(map[string]bool)
	for _, c := range s.app.Jar.Cookies(u) {
		present[c.Name] = true
	}
	for _, name := range names {
		if !present[name] {
			return false
		}
	}
	return true
}

// ResetCookies discards every cookie of both flows.
func (s *Session) ResetCookies() error {
	for _, c := range []*http.Client{s.app, s.browser} {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return fmt.Errorf("create cookie jar: %w", err)
		}
		c.Jar = jar
	}
	return nil
}

// Do sends req on the client of flow and returns the decoded body. Network, read and
// decode failures are KindTransport errors; the status code is not interpreted.
func (s *Session) Do(ctx context.Context, flow Flow, req *Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = logging.EnsureRequestID(ctx)

	target := req.URL
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewError(ErrInvalidInput, fmt.Errorf("build request: %w", err))
	}
	misc.ApplyHeaders(httpReq.Header, req.Header)
	if len(req.Body) > 0 && req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.Token != nil {
		req.Token.SetAuthHeader(httpReq)
	}

	entry := &logging.RequestLogEntry{
		Method:         method,
		URL:            target,
		RequestBody:    req.Body,
		RequestHeaders: httpReq.Header,
	}
	start := time.Now()
	defer func() {
		entry.Duration = time.Since(start)
		s.logger.LogRequest(ctx, entry)
	}()

	resp, err := s.client(flow).Do(httpReq)
	if err != nil {
		entry.Err = err
		return nil, NewError(ErrTransport, err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("response body close error: %v", errClose)
		}
	}()

	entry.StatusCode = resp.StatusCode
	entry.ResponseHeaders = resp.Header

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.Err = err
		return nil, NewError(ErrTransport, fmt.Errorf("read response body: %w", err))
	}
	decoded, err := decodeBody(resp.Header, raw)
	if err != nil {
		entry.Err = err
		return nil, NewError(ErrTransport, err)
	}
	entry.ResponseBody = decoded

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: decoded}, nil
}

// Call sends req and parses the result envelope. On a non-success result code the
// envelope is returned together with a KindRemote error.
func (s *Session) Call(ctx context.Context, flow Flow, req *Request) (*Envelope, error) {
	resp, err := s.Do(ctx, flow, req)
	if err != nil {
		return nil, err
	}
	env, err := ParseEnvelope(resp.StatusCode, resp.Body)
	if err != nil {
		return nil, err
	}
	if err = env.Err(); err != nil {
		return env, err
	}
	return env, nil
}
