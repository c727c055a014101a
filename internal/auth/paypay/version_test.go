package paypay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func storePage(version string) string {
	inner := `{"d":[{"attributes":{"platformAttributes":{"ios":{"versionHistory":[{"versionDisplay":"` + version + `"},{"versionDisplay":"4.0.0"}]}}}}]}`
	outer := `{"apps.apple.com/v1/catalog/jp/apps/1435783608":` + strconv.Quote(inner) + `}`
	return `<!DOCTYPE html><html><head><script type="fastboot/shoebox" id="shoebox-media-api-cache-apps">` + outer + `</script></head><body></body></html>`
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		want    string
		wantErr bool
	}{
		{name: "latest version", page: storePage("4.64.1"), want: "4.64.1"},
		{name: "empty page", page: "", wantErr: true},
		{name: "no script", page: `<html><script id="other">{}</script></html>`, wantErr: true},
		{name: "not json", page: `<script id="shoebox-media-api-cache-apps">nope</script>`, wantErr: true},
		{name: "missing key", page: `<script id="shoebox-media-api-cache-apps">{"k":"{\"d\":[]}"}</script>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVersion([]byte(tt.page))
			if tt.wantErr {
				if !errors.Is(err, ErrUpstreamFormat) {
					t.Fatalf("error = %v, want upstream format", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVersion() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ExtractVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersionResolver_Resolve(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(storePage("4.70.0")))
	}))
	defer server.Close()

	session, err := NewSession(nil, nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	got, err := NewVersionResolver(session, server.URL).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "4.70.0" || calls != 1 {
		t.Fatalf("Resolve() = %q after %d calls", got, calls)
	}
}
