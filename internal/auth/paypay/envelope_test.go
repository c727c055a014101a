package paypay

import (
	"errors"
	"testing"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind ErrorKind
		wantOK   bool
	}{
		{name: "success", body: `{"header":{"resultCode":"S0000","resultMessage":"Success"},"payload":{"a":1}}`, wantOK: true},
		{name: "rejection", body: `{"header":{"resultCode":"E0001","resultMessage":"ng"},"payload":null}`, wantKind: KindRemote},
		{name: "html", body: `<html>maintenance</html>`, wantKind: KindUpstreamFormat},
		{name: "no header", body: `{"payload":{}}`, wantKind: KindUpstreamFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope(200, []byte(tt.body))
			if err == nil {
				err = env.Err()
			}
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				if !env.OK() || env.Get("a").Int() != 1 {
					t.Fatalf("payload not readable: %+v", env)
				}
				return
			}
			e, ok := AsError(err)
			if !ok || e.Kind != tt.wantKind {
				t.Fatalf("error = %v, want kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestEnvelope_RemoteErrorCarriesCodeAndMessage(t *testing.T) {
	env, err := ParseEnvelope(400, []byte(`{"header":{"resultCode":"E0100","resultMessage":"invalid password"}}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	e, ok := AsError(env.Err())
	if !ok || e.Code != "E0100" || e.Message != "invalid password" {
		t.Fatalf("Err() = %+v", e)
	}
}

func TestEnvelope_Decode(t *testing.T) {
	env, err := ParseEnvelope(200, []byte(`{"header":{"resultCode":"S0000"},"payload":{"accessToken":"t"}}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	var payload TokenPayload
	if err = env.Decode(&payload); err != nil || payload.AccessToken != "t" {
		t.Fatalf("Decode() = %+v, %v", payload, err)
	}

	empty, _ := ParseEnvelope(200, []byte(`{"header":{"resultCode":"S0000"},"payload":null}`))
	if err = empty.Decode(&payload); !errors.Is(err, ErrUpstreamFormat) {
		t.Fatalf("Decode(null) error = %v", err)
	}
	if _, err = empty.requireString("requestUri"); !errors.Is(err, ErrUpstreamFormat) {
		t.Fatalf("requireString() error = %v", err)
	}
}
