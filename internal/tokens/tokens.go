// Package tokens issues and verifies the service's own HS256 access
// tokens. The Verifier satisfies pkg/middleware so locally issued tokens
// and OIDC tokens plug into the same auth middleware.
package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mathplanner/mathplanner/internal/profile"
	"github.com/mathplanner/mathplanner/pkg/middleware"
)

// GenerateAccessToken creates a signed JWT access token for the profile.
func GenerateAccessToken(secret string, p *profile.Profile, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.Sub,
		"name":  p.FullName,
		"email": p.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func ParseAccessToken(secret, raw string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Verifier verifies locally issued access tokens.
type Verifier struct {
	Secret string
}

type verifiedToken struct {
	claims jwt.MapClaims
}

func (t verifiedToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (ver Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims, err := ParseAccessToken(ver.Secret, raw)
	if err != nil {
		return nil, err
	}
	return verifiedToken{claims: claims}, nil
}
