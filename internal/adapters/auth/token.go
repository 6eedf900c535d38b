package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"teamhub/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier returns a TokenVerifier that accepts HS256 JWTs signed with secret.
// The subject claim is the member id.
func NewJWTVerifier(secret string) domain.TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(token string) (string, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return "", domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
