package auth

import (
	"crypto"
	"errors"

	"github.com/golang-jwt/jwt/v4"
	"github.com/umalmyha/rentals/internal/model"
)

// JwtClaims represents back-office JWT claims
type JwtClaims struct {
	jwt.RegisteredClaims
	Email string     `json:"email,omitempty"`
	Role  model.Role `json:"role"`
}

// JwtValidator verifies jwt according to config
type JwtValidator struct {
	method    jwt.SigningMethod
	publicKey crypto.PublicKey
}

// NewJwtValidator builds new JwtValidator
func NewJwtValidator(method jwt.SigningMethod, key crypto.PublicKey) *JwtValidator {
	return &JwtValidator{publicKey: key, method: method}
}

// Verify checks if jwt valid and carries subject and known role
func (j *JwtValidator) Verify(rawToken string) (JwtClaims, error) {
	var claims JwtClaims
	if _, err := jwt.ParseWithClaims(rawToken, &claims, j.keyFunc); err != nil {
		return JwtClaims{}, err
	}

	if claims.Subject == "" {
		return JwtClaims{}, errors.New("token has no subject")
	}

	if !claims.Role.Valid() {
		return JwtClaims{}, errors.New("token carries unknown role")
	}
	return claims, nil
}

// Actor converts claims into actor of request
func (c JwtClaims) Actor() model.Actor {
	return model.Actor{ID: c.Subject, Email: c.Email, Role: c.Role}
}

func (j *JwtValidator) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != j.method.Alg() {
		return nil, errors.New("failed to verify signing algorithm")
	}
	return j.publicKey, nil
}
