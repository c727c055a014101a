package paypay

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestGeneratePKCECodes_AllLengths(t *testing.T) {
	for length := MinPKCEVerifierLength; length <= MaxPKCEVerifierLength; length++ {
		codes, err := GeneratePKCECodes(length)
		if err != nil {
			t.Fatalf("GeneratePKCECodes(%d) error = %v", length, err)
		}
		if len(codes.CodeVerifier) != length {
			t.Fatalf("verifier length = %d, want %d", len(codes.CodeVerifier), length)
		}
		for _, r := range codes.CodeVerifier {
			if !strings.ContainsRune(pkceCharset, r) {
				t.Fatalf("verifier contains %q outside the unreserved set", r)
			}
		}
		sum := sha256.Sum256([]byte(codes.CodeVerifier))
		if want := base64.RawURLEncoding.EncodeToString(sum[:]); codes.CodeChallenge != want {
			t.Fatalf("challenge = %q, want %q", codes.CodeChallenge, want)
		}
		if strings.Contains(codes.CodeChallenge, "=") {
			t.Fatalf("challenge is padded: %q", codes.CodeChallenge)
		}
	}
}

func TestGeneratePKCECodes_InvalidLength(t *testing.T) {
	for _, length := range []int{0, 42, 129, -1} {
		if _, err := GeneratePKCECodes(length); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("GeneratePKCECodes(%d) error = %v, want invalid input", length, err)
		}
	}
}

func TestGenerateCodeVerifier_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		v, err := GenerateCodeVerifier(LoginVerifierLength)
		if err != nil {
			t.Fatalf("GenerateCodeVerifier() error = %v", err)
		}
		if seen[v] {
			t.Fatalf("duplicate verifier %q", v)
		}
		seen[v] = true
	}
}
