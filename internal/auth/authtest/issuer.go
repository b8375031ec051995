// Package authtest signs back-office tokens for tests of token verification
package authtest

import (
	"crypto"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/umalmyha/rentals/internal/auth"
	"github.com/umalmyha/rentals/internal/model"
)

// Issuer signs tokens with the claims back-office identity provider issues
type Issuer struct {
	issuer     string
	method     jwt.SigningMethod
	timeToLive time.Duration
	privateKey crypto.PrivateKey
}

// NewIssuer builds Issuer
func NewIssuer(issuer string, method jwt.SigningMethod, ttl time.Duration, key crypto.PrivateKey) *Issuer {
	return &Issuer{
		issuer:     issuer,
		method:     method,
		timeToLive: ttl,
		privateKey: key,
	}
}

// Sign issues new token for user with role
func (i *Issuer) Sign(subj, email string, role model.Role, issuedAt time.Time) (string, error) {
	claims := auth.JwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   subj,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.timeToLive)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
		Email: email,
		Role:  role,
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.privateKey)
}
