// Package session issues and validates the signed marker that tikbook keeps
// in the tikbook_session slot. A valid marker means "logged in".
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "tikbook"

// Claims are the registered claims plus the signed-in user and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
}

// Issue signs an HS256 marker for userID valid for ttl.
func Issue(userID string, role models.Role, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("session secret is empty")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return tokenString, nil
}

// Parse verifies signature, issuer and expiry. Every failure wraps
// common.ErrInvalidToken.
func Parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
