package paypay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	auth "github.com/paypay-go/paypay/internal/auth/paypay"
)

// App backend API paths.
const (
	balancePath       = "/bff/v1/getBalanceInfo"
	historyPath       = "/bff/v3/getPaymentHistory"
	profilePath       = "/bff/v2/getProfileDisplayInfo"
	p2pCodePath       = "/bff/v1/createP2PCode"
	linkInfoPath      = "/bff/v2/getP2PLinkInfo"
	createLinkPath    = "/bff/v2/executeP2PSendMoneyLink"
	acceptLinkPath    = "/bff/v2/acceptP2PSendMoneyLink"
	rejectLinkPath    = "/bff/v2/rejectP2PSendMoneyLink"
	defaultPageSize   = 20
	sendMoneyTheme    = "default-sendmoney"
	requestAtLayout   = "2006-01-02T15:04:05Z"
	jsonContentType   = "application/json"
	cashbackOrderType = "CASHBACK"
)

// requireToken fails with ErrNotAuthenticated before any input is looked at.
func (c *Client) requireToken() error {
	if c.auth.Token() == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// call performs one authenticated app backend request and checks its envelope.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	token := c.auth.Token()
	if token == nil {
		return nil, ErrNotAuthenticated
	}

	q := url.Values{"payPayLang": {auth.DefaultLanguage}}
	for key, values := range query {
		q[key] = values
	}
	req := &auth.Request{
		Method: method,
		URL:    c.endpoints.App(path),
		Query:  q,
		Header: c.headers.AppHeaders(),
		Token:  token,
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, auth.NewError(ErrInvalidInput, fmt.Errorf("failed to marshal request: %w", err))
		}
		req.Body = raw
		req.ContentType = jsonContentType
	}

	env, err := c.session.Call(ctx, auth.FlowApp, req)
	if err != nil {
		return nil, err
	}
	return &Response{Header: env.Header, Payload: env.Payload}, nil
}

// GetBalance returns the wallet balance including pending and pre-authorized amounts.
func (c *Client) GetBalance(ctx context.Context) (*Response, error) {
	return c.call(ctx, http.MethodGet, balancePath, url.Values{
		"includePendingBonusLite": {"false"},
		"includePending":          {"true"},
		"includePreAuth":          {"true"},
		"noCache":                 {"true"},
		"includeKycInfo":          {"true"},
	}, nil)
}

// GetHistory returns the most recent payment history entries.
func (c *Client) GetHistory(ctx context.Context, opts HistoryOptions) (*Response, error) {
	size := opts.Size
	if size <= 0 {
		size = defaultPageSize
	}
	query := url.Values{"pageSize": {strconv.Itoa(size)}}
	if opts.CashbackOnly {
		query.Set("orderTypes", cashbackOrderType)
	}
	return c.call(ctx, http.MethodGet, historyPath, query, nil)
}

// GetProfile returns the account profile.
func (c *Client) GetProfile(ctx context.Context) (*Response, error) {
	return c.call(ctx, http.MethodGet, profilePath, url.Values{"includeExternalProfileSync": {"true"}}, nil)
}

// CreateP2PCode creates a personal receive code. sessionID may be empty.
func (c *Client) CreateP2PCode(ctx context.Context, sessionID string) (*Response, error) {
	body := map[string]any{"amount": nil, "sessionId": nil}
	if sessionID != "" {
		body["sessionId"] = sessionID
	}
	return c.call(ctx, http.MethodPost, p2pCodePath, nil, body)
}

// GetLink returns the state of the P2P send-money link identified by code.
func (c *Client) GetLink(ctx context.Context, code string) (*LinkInfo, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	code, err := linkCode(code)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, http.MethodGet, linkInfoPath, url.Values{"verificationCode": {code}}, nil)
	if err != nil {
		return nil, err
	}
	return newLinkInfo(resp), nil
}

// CreateLink creates a send-money link for amount yen. A non-empty passcode protects it.
func (c *Client) CreateLink(ctx context.Context, amount int64, passcode string) (*Response, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, auth.NewError(ErrInvalidInput, fmt.Errorf("amount must be positive, got %d", amount))
	}
	body := map[string]any{
		"requestId": uuid.NewString(),
		"amount":    amount,
		"theme":     sendMoneyTheme,
		"requestAt": c.requestAt(),
	}
	if passcode != "" {
		body["passcode"] = passcode
	}
	return c.call(ctx, http.MethodPost, createLinkPath, nil, body)
}

// AcceptLink receives the money of a pending link. The passcode is only sent when
// the link requires one.
func (c *Client) AcceptLink(ctx context.Context, code, passcode string) (*Response, error) {
	info, err := c.pendingLink(ctx, code)
	if err != nil {
		return nil, err
	}
	if info.PasscodeRequired && passcode == "" {
		return nil, ErrPasscodeRequired
	}
	body := c.linkAction(info, code)
	if info.PasscodeRequired {
		body["passcode"] = passcode
	}
	log.WithField("order_id", info.OrderID).Debug("accepting link")
	return c.call(ctx, http.MethodPost, acceptLinkPath, nil, body)
}

// RejectLink declines a pending link so the money returns to the sender.
func (c *Client) RejectLink(ctx context.Context, code string) (*Response, error) {
	info, err := c.pendingLink(ctx, code)
	if err != nil {
		return nil, err
	}
	log.WithField("order_id", info.OrderID).Debug("rejecting link")
	return c.call(ctx, http.MethodPost, rejectLinkPath, nil, c.linkAction(info, code))
}

func (c *Client) pendingLink(ctx context.Context, code string) (*LinkInfo, error) {
	info, err := c.GetLink(ctx, code)
	if err != nil {
		return nil, err
	}
	if !info.Pending() {
		return nil, auth.NewError(ErrLinkNotPending, fmt.Errorf("order status %s", info.OrderStatus))
	}
	return info, nil
}

func (c *Client) linkAction(info *LinkInfo, code string) map[string]any {
	code, _ = linkCode(code)
	return map[string]any{
		"verificationCode": code,
		"requestId":        uuid.NewString(),
		"requestAt":        c.requestAt(),
		"orderId":          info.OrderID,
		"senderChannelUrl": info.ChatRoomID,
		"senderMessageId":  info.MessageID,
	}
}

func (c *Client) requestAt() string {
	return c.now().UTC().Format(requestAtLayout)
}

// linkCode accepts a bare verification code or a pay.paypay.ne.jp link URL.
func linkCode(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", auth.NewError(ErrInvalidInput, fmt.Errorf("link code is empty"))
	}
	if !strings.Contains(trimmed, "/") {
		return trimmed, nil
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", auth.NewError(ErrInvalidInput, fmt.Errorf("parse link: %w", err))
	}
	code := strings.TrimSpace(strings.TrimPrefix(u.Path, "/"))
	if idx := strings.LastIndex(code, "/"); idx >= 0 {
		code = code[idx+1:]
	}
	if code == "" {
		return "", auth.NewError(ErrInvalidInput, fmt.Errorf("link %q has no code", input))
	}
	return code, nil
}
