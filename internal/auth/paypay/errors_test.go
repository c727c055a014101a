package paypay

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_IsMatchesKindAndCode(t *testing.T) {
	err := fmt.Errorf("step failed: %w", NewRemoteError("E0001", "bad password"))

	if !errors.Is(err, &Error{Kind: KindRemote}) {
		t.Fatal("expected kind match")
	}
	if !errors.Is(err, &Error{Kind: KindRemote, Code: "E0001"}) {
		t.Fatal("expected code match")
	}
	if errors.Is(err, &Error{Kind: KindRemote, Code: "E0002"}) {
		t.Fatal("unexpected match on different code")
	}
	if errors.Is(err, ErrNotStarted) {
		t.Fatal("remote error matched sequence sentinel")
	}
	if code, ok := ResultCode(err); !ok || code != "E0001" {
		t.Fatalf("ResultCode() = %q, %t", code, ok)
	}
	if !IsRemoteError(err) {
		t.Fatal("IsRemoteError() = false")
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError(ErrTransport, cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "connection reset") || !strings.Contains(err.Error(), string(KindTransport)) {
		t.Fatalf("Error() = %q", err.Error())
	}
	if got := NewRemoteError("E1", "nope").Error(); got != "paypay remote_rejection: E1: nope" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestGetUserFriendlyMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotStarted, "Start the login"},
		{ErrNotAuthenticated, "log in"},
		{ErrLinkNotPending, "already been accepted"},
		{ErrPasscodeRequired, "passcode"},
		{NewRemoteError("E9", "denied"), "E9"},
		{errors.New("plain"), "unexpected error"},
	}
	for _, tt := range tests {
		if got := GetUserFriendlyMessage(tt.err); !strings.Contains(got, tt.want) {
			t.Fatalf("GetUserFriendlyMessage(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
