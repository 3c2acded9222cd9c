package common

import "crypto/rand"

// GenerateRandByteArray returns size random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray zeroes buf in place.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
