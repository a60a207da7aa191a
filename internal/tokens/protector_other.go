//go:build !windows

package tokens

// DefaultProtector returns the strongest protector available on this platform.
func DefaultProtector() SecretProtector {
	return EncodingProtector{}
}
