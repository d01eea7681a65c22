package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Verifier checks RS256 access tokens issued by the identity service. This
// service never signs tokens.
type Verifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewVerifier reads the PEM public key at publicPath.
func NewVerifier(publicPath, issuer string) (*Verifier, error) {
	pubPem, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return NewVerifierFromKey(pubKey, issuer), nil
}

func NewVerifierFromKey(key *rsa.PublicKey, issuer string) *Verifier {
	return &Verifier{publicKey: key, issuer: issuer}
}

// VerifyToken checks the RS256 signature, expiry and issuer and returns the
// claims. Refresh tokens are rejected.
func (v *Verifier) VerifyToken(tokenStr string) (jwt.MapClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(5 * time.Second),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if typ, _ := claims["typ"].(string); typ != "" && TokenKind(typ) != AccessToken {
		return nil, fmt.Errorf("unexpected token type %q", typ)
	}
	return claims, nil
}
