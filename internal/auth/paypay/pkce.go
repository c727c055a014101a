package paypay

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/oauth2"
)

// PKCE verifier length bounds from RFC 7636 section 4.1.
const (
	MinPKCEVerifierLength = 43
	MaxPKCEVerifierLength = 128
)

// pkceCharset is the unreserved character set permitted in a code verifier.
const pkceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// GeneratePKCECodes generates a PKCE code verifier of the given length and its S256 challenge
// following RFC 7636.
//
// Parameters:
//   - length: The verifier length, between 43 and 128 inclusive
//
// Returns:
//   - *PKCECodes: A struct containing the code verifier and challenge
//   - error: An error if the length is out of range or randomness is unavailable
func GeneratePKCECodes(length int) (*PKCECodes, error) {
	codeVerifier, err := GenerateCodeVerifier(length)
	if err != nil {
		return nil, err
	}

	return &PKCECodes{
		CodeVerifier:  codeVerifier,
		CodeChallenge: oauth2.S256ChallengeFromVerifier(codeVerifier),
	}, nil
}

// GenerateCodeVerifier creates a cryptographically random string of length characters
// drawn from the PKCE unreserved character set.
func GenerateCodeVerifier(length int) (string, error) {
	if length < MinPKCEVerifierLength || length > MaxPKCEVerifierLength {
		return "", NewError(ErrInvalidInput, fmt.Errorf("PKCE verifier length %d outside [%d, %d]", length, MinPKCEVerifierLength, MaxPKCEVerifierLength))
	}

	limit := big.NewInt(int64(len(pkceCharset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		out[i] = pkceCharset[n.Int64()]
	}
	return string(out), nil
}
