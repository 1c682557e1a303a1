package userservice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidToken = errors.New("token missing or invalid")
)

// newToken signs an HS256 token for u. The subject is the user id. A zero ttl
// issues a token without expiry.
func newToken(u *User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := tokenClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  u.ID.Hex(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	return signed, nil
}

// parseToken verifies the signature and returns the user id from the subject.
// Every failure wraps ErrInvalidToken, and expired tokens also match
// jwt.ErrTokenExpired.
func parseToken(token string, secret []byte) (primitive.ObjectID, error) {
	var claims tokenClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}

	return id, nil
}

// ExtractBearerToken returns the credential of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
