package misc

import (
	"net/http"
	"testing"
)

func TestParseCallbackURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantState string
		wantErr   bool
	}{
		{name: "one-time link", input: "https://www.paypay.ne.jp/portal/oauth2/l?id=abc123&client_id=x", wantValue: "abc123"},
		{name: "custom scheme redirect", input: "paypay://oauth2/callback?code=xyz&state=s1", wantValue: "xyz", wantState: "s1"},
		{name: "id wins over code", input: "https://example.com/l?code=c&id=i", wantValue: "i"},
		{name: "bare query", input: "?id=q1", wantValue: "q1"},
		{name: "bare params", input: "code=p1", wantValue: "p1"},
		{name: "fragment", input: "https://example.com/l#id=frag", wantValue: "frag"},
		{name: "surrounding spaces", input: "  https://example.com/l?id=sp  ", wantValue: "sp"},
		{name: "empty", input: "   ", wantErr: true},
		{name: "missing id", input: "https://example.com/l?foo=bar", wantErr: true},
		{name: "not a url", input: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCallbackURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCallbackURL(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCallbackURL(%q) error = %v", tt.input, err)
			}
			if got.Value() != tt.wantValue {
				t.Fatalf("Value() = %q, want %q", got.Value(), tt.wantValue)
			}
			if got.State != tt.wantState {
				t.Fatalf("State = %q, want %q", got.State, tt.wantState)
			}
		})
	}
}

func TestParseCallbackURL_ErrorOnly(t *testing.T) {
	got, err := ParseCallbackURL("https://example.com/cb?error_description=denied")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Error != "denied" || got.ErrorDescription != "" {
		t.Fatalf("error fields = %q / %q", got.Error, got.ErrorDescription)
	}
}

func TestApplyHeaders(t *testing.T) {
	dst := http.Header{}
	dst.Set("Accept", "old")
	dst.Set("Keep", "yes")
	src := http.Header{}
	src.Set("Accept", "new")
	src.Set("Host", "example.com")
	src.Add("X-Multi", "1")
	src.Add("X-Multi", "2")

	ApplyHeaders(dst, src)

	if dst.Get("Accept") != "new" || dst.Get("Keep") != "yes" {
		t.Fatalf("unexpected headers: %v", dst)
	}
	if dst.Get("Host") != "" {
		t.Fatal("Host header must not be copied")
	}
	if len(dst.Values("X-Multi")) != 2 {
		t.Fatalf("X-Multi = %v", dst.Values("X-Multi"))
	}
}

func TestEnsureHeader(t *testing.T) {
	target := http.Header{}
	EnsureHeader(target, nil, "User-Agent", "default")
	if target.Get("User-Agent") != "default" {
		t.Fatalf("default not applied: %v", target)
	}
	source := http.Header{}
	source.Set("User-Agent", "from-source")
	EnsureHeader(target, source, "User-Agent", "default")
	if target.Get("User-Agent") != "from-source" {
		t.Fatalf("source not preferred: %v", target)
	}
	EnsureHeader(target, nil, "User-Agent", "other")
	if target.Get("User-Agent") != "from-source" {
		t.Fatalf("existing value overwritten: %v", target)
	}
}
