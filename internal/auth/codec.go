// Package auth implements the signed-token codec: issuing bearer tokens for
// authenticated principals and verifying them on inbound requests.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// Claims is the claim set embedded in every issued token. The subject is the
// principal's email; id and role are custom claims.
type Claims struct {
	ID   int    `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed tokens. The signing secret and the
// token lifetime are fixed at construction; there is no rotation, revocation,
// or server-side session state: a token stands entirely on its own.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec with the given signing secret and token lifetime.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// Issue creates a signed token for the given principal identity.
func (c *Codec) Issue(id int, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the signature and decodes the claim set. Expiry is NOT
// checked here: expired tokens still decode so that individual claims can be
// extracted, and callers reject expiry explicitly via IsExpired. Signature
// and malformed-token failures keep their jwt sentinel identity.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ExtractEmail returns the subject claim.
func (c *Codec) ExtractEmail(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	return claims.Subject, nil
}

// ExtractRole returns the role claim.
func (c *Codec) ExtractRole(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	return claims.Role, nil
}

// ExtractID returns the numeric id claim.
func (c *Codec) ExtractID(tokenString string) (int, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	return claims.ID, nil
}

// ExtractExpiration returns the expiry timestamp.
func (c *Codec) ExtractExpiration(tokenString string) (time.Time, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing expiration", domain.ErrTokenInvalid)
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token's expiry lies in the past.
func (c *Codec) IsExpired(tokenString string) (bool, error) {
	exp, err := c.ExtractExpiration(tokenString)
	if err != nil {
		return false, err
	}
	return exp.Before(time.Now()), nil
}

// ValidateFor reports whether the token is signed, unexpired, and bound to
// the given email. Any decode failure yields false.
func (c *Codec) ValidateFor(tokenString, email string) bool {
	extracted, err := c.ExtractEmail(tokenString)
	if err != nil || extracted != email {
		return false
	}
	expired, err := c.IsExpired(tokenString)
	return err == nil && !expired
}

// Valid reports whether the token is signed and unexpired. Every error is
// swallowed and treated as false: validation fails closed, it never
// propagates a decode failure to the caller.
func (c *Codec) Valid(tokenString string) bool {
	expired, err := c.IsExpired(tokenString)
	return err == nil && !expired
}
