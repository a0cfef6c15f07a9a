// Package evidence stores the identity images attached to verification
// requests. Requests keep only the blob keys; the bytes live here.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Store puts and gets opaque blobs by key. Keys are slash-separated
// relative paths such as "verifications/<user>/<request>/selfie".
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

var ErrInvalidKey = errors.New("invalid evidence key")

// Key builds the blob key for one image of a verification request.
func Key(userID, requestID, name string) string {
	return path.Join("verifications", userID, requestID, name)
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
