package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// MakeRandHexString returns size random bytes encoded as hex (2*size chars).
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns n bytes from crypto/rand. It panics if the
// system random source fails, which only happens on a broken platform.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray zeroes b in place. Nil is allowed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// MakeReferralCode returns an 8 character upper-case referral code.
func MakeReferralCode() (string, error) {
	s, err := MakeRandHexString(4)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}
