package utils

import (
	"unicode/utf8"
)

// sniffLength bounds how much of a document is inspected for binary content.
const sniffLength = 8000

// IsBinary reports whether data looks like binary content rather than text.
// Only the first sniffLength bytes are inspected.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > sniffLength {
		sample = sample[:sniffLength]
		for cut := 0; cut < utf8.UTFMax && !utf8.Valid(sample); cut++ {
			sample = sample[:len(sample)-1]
		}
	}
	if !utf8.Valid(sample) {
		return true
	}
	for _, byteValue := range sample {
		if byteValue == 0 {
			return true
		}
	}
	return false
}
