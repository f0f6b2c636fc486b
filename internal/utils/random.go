package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	passwordAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateOTPCode returns a zero-padded 6-digit numeric code.
func GenerateOTPCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateReferenceCode returns an uppercase alphanumeric code of the given
// length. Uniqueness is the caller's concern.
func GenerateReferenceCode(length int) (string, error) {
	return randomString(referenceAlphabet, length)
}

// GeneratePassword returns a random plaintext password of the given length.
func GeneratePassword(length int) (string, error) {
	return randomString(passwordAlphabet, length)
}

// GenerateResetToken returns an opaque 256-bit hex token.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
