package security

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	digits = "0123456789"
	alnum  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func RandomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomToken returns an unguessable URL-safe string of the given length.
func RandomToken(size int) (string, error) {
	b, err := RandomBytes(size)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:size], nil
}

// RandomDigits returns n random decimal digits.
func RandomDigits(n int) (string, error) {
	return randomFrom(digits, n)
}

// RandomAlnum returns n random upper-case alphanumeric characters.
func RandomAlnum(n int) (string, error) {
	return randomFrom(alnum, n)
}

func randomFrom(alphabet string, n int) (string, error) {
	b, err := RandomBytes(n)
	if err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, v := range b {
		out[i] = alphabet[int(v)%len(alphabet)]
	}
	return string(out), nil
}
