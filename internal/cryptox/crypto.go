// Package cryptox holds the primitives tikbook uses for secrets: argon2id
// hashing of account passwords and AES-GCM sealing of verification evidence.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltLength  = 16
	keyLength   = 32
	timeCost    = 1
	memoryCost  = 64 * 1024
	parallelism = 4
)

var ErrMalformedHash = errors.New("malformed secret hash")

// HashSecret derives an argon2id hash of secret with a fresh random salt and
// returns it in PHC form: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func HashSecret(secret []byte) string {
	salt := common.GenerateRandByteArray(saltLength)
	key := argon2.IDKey(secret, salt, timeCost, memoryCost, parallelism, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memoryCost, timeCost, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// VerifySecret reports whether secret matches a hash produced by HashSecret.
// The parameters are read back from the hash so older hashes keep verifying
// if the constants change.
func VerifySecret(secret []byte, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var m uint32
	var t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey(secret, salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// Seal encrypts plaintext with AES-GCM under key (16, 24 or 32 bytes) and
// returns nonce||ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	ns := aesgcm.NonceSize()
	if len(sealed) < ns {
		return nil, errors.New("sealed data too short")
	}
	return aesgcm.Open(nil, sealed[:ns], sealed[ns:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
