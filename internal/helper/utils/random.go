package utils

import (
	"crypto/rand"
	"math/big"
)

const randomChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns n random characters drawn from letters and digits.
// Used for verification codes (6 chars) and reset tokens (20 chars).
func RandomString(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(randomChars)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = randomChars[idx.Int64()]
	}
	return string(out), nil
}
