package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestMaskBody_JSON(t *testing.T) {
	body := []byte(`{"username":"09012345678","password":"hunter2","signInAttemptCount":1}`)
	out := MaskBody(body)

	if got := gjson.Get(out, "password").String(); got != maskedValue {
		t.Fatalf("password = %q, want masked", got)
	}
	if got := gjson.Get(out, "username").String(); got != "09012345678" {
		t.Fatalf("username = %q, want unchanged", got)
	}
	if got := gjson.Get(out, "signInAttemptCount").Int(); got != 1 {
		t.Fatalf("signInAttemptCount = %d", got)
	}
}

func TestMaskBody_NestedOTP(t *testing.T) {
	body := []byte(`{"params":{"extension_id":"ext","data":{"type":"VERIFY_OTP","payload":{"otp":"123456"}}}}`)
	out := MaskBody(body)
	if got := gjson.Get(out, "params.data.payload.otp").String(); got != maskedValue {
		t.Fatalf("otp = %q, want masked", got)
	}
	if got := gjson.Get(out, "params.extension_id").String(); got != "ext" {
		t.Fatalf("extension_id = %q", got)
	}
}

func TestMaskBody_TokenResponse(t *testing.T) {
	body := []byte(`{"header":{"resultCode":"S0000"},"payload":{"accessToken":"secret","refreshToken":"r"}}`)
	out := MaskBody(body)
	if strings.Contains(out, "secret") {
		t.Fatalf("access token leaked: %s", out)
	}
}

func TestMaskBody_Form(t *testing.T) {
	out := MaskBody([]byte("clientId=pay2&code=abc&codeVerifier=xyz"))
	if strings.Contains(out, "abc") || strings.Contains(out, "xyz") {
		t.Fatalf("form credentials leaked: %s", out)
	}
	if !strings.Contains(out, "clientId=pay2") {
		t.Fatalf("non-sensitive field lost: %s", out)
	}
}

func TestMaskBody_Truncates(t *testing.T) {
	out := MaskBody([]byte(strings.Repeat("x", maxLoggedBody+10)))
	if !strings.HasSuffix(out, "...(truncated)") {
		t.Fatalf("body not truncated, len=%d", len(out))
	}
}

func TestRedactQuery(t *testing.T) {
	got := redactQuery("https://www.paypay.ne.jp/portal/api/v2/oauth2/authorize?client_id=c&request_uri=urn%3Asecret")
	if strings.Contains(got, "secret") {
		t.Fatalf("request_uri leaked: %s", got)
	}
	if !strings.Contains(got, "client_id=c") {
		t.Fatalf("client_id lost: %s", got)
	}
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	if len(id) != 8 {
		t.Fatalf("id = %q", id)
	}
	again, sameID := EnsureRequestID(ctx)
	if sameID != id || GetRequestID(again) != id {
		t.Fatalf("request id not preserved: %q vs %q", sameID, id)
	}
}
