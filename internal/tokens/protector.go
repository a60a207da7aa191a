package tokens

import (
	"encoding/base64"
	"fmt"
)

const encodingProtectorName = "base64-encoding"

// SecretProtector obscures secrets at rest.
type SecretProtector interface {
	Protect(plain []byte) ([]byte, error)
	Unprotect(protected []byte) ([]byte, error)
	// Name identifies the mechanism, for status output.
	Name() string
}

// EncodingProtector is the reversible fallback used where the platform offers no
// secret protection. It only keeps tokens from being stored as plain text.
type EncodingProtector struct{}

// Protect encodes plain.
func (EncodingProtector) Protect(plain []byte) ([]byte, error) {
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(plain)))
	base64.StdEncoding.Encode(encoded, plain)
	return encoded, nil
}

// Unprotect decodes data produced by Protect.
func (EncodingProtector) Unprotect(protected []byte) ([]byte, error) {
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(protected)))
	written, decodeError := base64.StdEncoding.Decode(decoded, protected)
	if decodeError != nil {
		return nil, fmt.Errorf("decode protected secret: %w", decodeError)
	}
	return decoded[:written], nil
}

// Name identifies the encoding fallback.
func (EncodingProtector) Name() string {
	return encodingProtectorName
}

var _ SecretProtector = EncodingProtector{}
