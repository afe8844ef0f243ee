// Package code generates human facing identifiers and one time codes.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	digits       = "0123456789"
	alphanumeric = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	referenceLength = 6
	referenceDate   = "20060102"
)

// Numeric returns a random string of n digits.
func Numeric(n int) (string, error) {
	return random(digits, n)
}

// Reference returns an identifier shaped like PREFIX-YYYYMMDD-XXXXXX.
func Reference(prefix string, now time.Time) (string, error) {
	suffix, err := random(alphanumeric, referenceLength)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format(referenceDate), suffix), nil
}

func random(alphabet string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid code length %d", n)
	}

	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)

	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}

		out[i] = alphabet[idx.Int64()]
	}

	return string(out), nil
}
