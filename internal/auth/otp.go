package auth

import (
	"crypto/rand"
	"math/big"
)

// GenerateOTP returns a random numeric code of the given length.
func GenerateOTP(digits int) string {
	out := make([]byte, digits)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			out[i] = '0'
			continue
		}
		out[i] = byte('0' + n.Int64())
	}
	return string(out)
}
