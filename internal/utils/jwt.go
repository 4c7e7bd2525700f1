// Package utils provides token signing and verification helpers.
package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every reason a token is rejected: bad signature,
// wrong algorithm, expiry or malformed input.
var ErrTokenInvalid = errors.New("invalid token")

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// SignClaims signs the caller-supplied claims with HS256 and an expiry of
// ttl from now.  The identity claims are trusted as given; exp and iat are
// always overwritten.
func SignClaims(secret string, claims map[string]any, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)

	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["exp"] = exp.Unix()
	mc["iat"] = now.Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies raw against secret and returns its claims.  A leading
// "Bearer " is tolerated so the full Authorization header value can be
// passed directly.
func ParseToken(secret, raw string) (jwt.MapClaims, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return nil, ErrTokenInvalid
	}
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return claims, nil
}

// EmailClaim returns the "email" claim or "" when it is absent.
func EmailClaim(claims jwt.MapClaims) string {
	email, _ := claims["email"].(string)
	return email
}
