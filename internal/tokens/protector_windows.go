//go:build windows

package tokens

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const dpapiProtectorName = "windows-dpapi"

// DPAPIProtector encrypts secrets with the Windows Data Protection API, bound to the
// current user profile.
type DPAPIProtector struct{}

// DefaultProtector returns the strongest protector available on this platform.
func DefaultProtector() SecretProtector {
	return DPAPIProtector{}
}

// Protect encrypts plain for the current user.
func (DPAPIProtector) Protect(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	input := windows.DataBlob{Size: uint32(len(plain)), Data: &plain[0]}
	var output windows.DataBlob
	if protectError := windows.CryptProtectData(&input, nil, nil, 0, nil, windows.CRYPTPROTECT_UI_FORBIDDEN, &output); protectError != nil {
		return nil, fmt.Errorf("protect secret: %w", protectError)
	}
	return takeBlob(output), nil
}

// Unprotect decrypts data produced by Protect for the same user.
func (DPAPIProtector) Unprotect(protected []byte) ([]byte, error) {
	if len(protected) == 0 {
		return nil, nil
	}
	input := windows.DataBlob{Size: uint32(len(protected)), Data: &protected[0]}
	var output windows.DataBlob
	if unprotectError := windows.CryptUnprotectData(&input, nil, nil, 0, nil, windows.CRYPTPROTECT_UI_FORBIDDEN, &output); unprotectError != nil {
		return nil, fmt.Errorf("unprotect secret: %w", unprotectError)
	}
	return takeBlob(output), nil
}

// Name identifies DPAPI.
func (DPAPIProtector) Name() string {
	return dpapiProtectorName
}

// takeBlob copies a DPAPI output blob into Go memory and frees the original.
func takeBlob(blob windows.DataBlob) []byte {
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(blob.Data)))
	result := make([]byte, blob.Size)
	copy(result, unsafe.Slice(blob.Data, blob.Size))
	return result
}

var _ SecretProtector = DPAPIProtector{}
