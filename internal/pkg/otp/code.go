package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	// CodeLength is the number of digits in a generated code
	CodeLength = 6

	minCode = 100000
	maxCode = 999999
)

// Generator produces a fresh code
type Generator func() (string, error)

// GenerateCode returns a uniformly random code in [100000, 999999]. The
// lower bound rules out a leading zero, so every code is exactly six digits.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}
	return strconv.FormatInt(n.Int64()+minCode, 10), nil
}
