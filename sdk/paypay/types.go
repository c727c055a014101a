package paypay

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	auth "github.com/paypay-go/paypay/internal/auth/paypay"
)

// Types shared with the sign-in implementation.
type (
	Error         = auth.Error
	ErrorKind     = auth.ErrorKind
	ChallengeMode = auth.ChallengeMode
	LoginState    = auth.LoginState
	TokenResponse = auth.TokenResponse
	TokenPayload  = auth.TokenPayload
	Endpoints     = auth.Endpoints
	ResultHeader  = auth.ResultHeader
)

// Error kinds.
const (
	KindRemote            = auth.KindRemote
	KindSequence          = auth.KindSequence
	KindNotAuthenticated  = auth.KindNotAuthenticated
	KindState             = auth.KindState
	KindMissingCredential = auth.KindMissingCredential
	KindUpstreamFormat    = auth.KindUpstreamFormat
	KindInvalidInput      = auth.KindInvalidInput
	KindTransport         = auth.KindTransport
)

// Challenge modes and login states.
const (
	ChallengeLink = auth.ChallengeLink
	ChallengeOTP  = auth.ChallengeOTP

	StateIdle                 = auth.StateIdle
	StateAwaitingConfirmation = auth.StateAwaitingConfirmation
	StateAuthenticated        = auth.StateAuthenticated

	SuccessCode = auth.SuccessCode
)

// Sentinel errors for errors.Is.
var (
	ErrNotStarted       = auth.ErrNotStarted
	ErrNotAuthenticated = auth.ErrNotAuthenticated
	ErrLinkNotPending   = auth.ErrLinkNotPending
	ErrPasscodeRequired = auth.ErrPasscodeRequired
	ErrUpstreamFormat   = auth.ErrUpstreamFormat
	ErrInvalidInput     = auth.ErrInvalidInput
	ErrTransport        = auth.ErrTransport
)

// IsRemoteError reports whether err is a service rejection.
func IsRemoteError(err error) bool { return auth.IsRemoteError(err) }

// ResultCode returns the service result code carried by err, if any.
func ResultCode(err error) (string, bool) { return auth.ResultCode(err) }

// UserMessage returns a short, human-readable description of err.
func UserMessage(err error) string { return auth.GetUserFriendlyMessage(err) }

// ParseChallengeMode parses "link" or "otp".
func ParseChallengeMode(s string) (ChallengeMode, error) { return auth.ParseChallengeMode(s) }

// Response is a successful service response.
type Response struct {
	Header  ResultHeader    `json:"header"`
	Payload json.RawMessage `json:"payload"`
}

// Get reads a gjson path from the payload.
func (r *Response) Get(path string) gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Payload, path)
}

// Decode unmarshals the payload into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Payload) == 0 {
		return ErrUpstreamFormat
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return auth.NewError(ErrUpstreamFormat, err)
	}
	return nil
}

// Order statuses of a P2P link.
const (
	LinkStatusPending = "PENDING"
)

// LinkInfo is the state of a P2P send-money link.
type LinkInfo struct {
	*Response

	// OrderStatus is PENDING until the link is accepted, rejected or expires.
	OrderStatus string
	// PasscodeRequired reports whether accepting needs the sender's passcode.
	PasscodeRequired bool
	// Amount is the amount carried by the link.
	Amount     int64
	OrderID    string
	ChatRoomID string
	MessageID  string
}

// Pending reports whether the link can still be accepted or rejected.
func (l *LinkInfo) Pending() bool {
	return l != nil && l.OrderStatus == LinkStatusPending
}

func newLinkInfo(resp *Response) *LinkInfo {
	return &LinkInfo{
		Response:         resp,
		OrderStatus:      resp.Get("orderStatus").String(),
		PasscodeRequired: resp.Get("pendingP2PInfo.isSetPasscode").Bool(),
		Amount:           resp.Get("pendingP2PInfo.amount").Int(),
		OrderID:          resp.Get("message.data.orderId").String(),
		ChatRoomID:       resp.Get("message.chatRoomId").String(),
		MessageID:        resp.Get("message.messageId").String(),
	}
}

// HistoryOptions filters GetHistory.
type HistoryOptions struct {
	// Size is the page size. Defaults to 20.
	Size int
	// CashbackOnly restricts the history to cashback entries.
	CashbackOnly bool
}
