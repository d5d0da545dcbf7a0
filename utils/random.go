package utils

import (
	rndm "math/rand"
)

var digitRunes = []rune("0123456789")

// GenerateRandomDigitString creates a random numeric string of length n.
// Used for human-readable order suffixes, not for anything secret.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}
