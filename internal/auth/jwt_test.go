package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerifyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewVerifierFromKey(&key.PublicKey, "elecdesign")

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss": "elecdesign",
			"sub": "user-1",
			"typ": string(AccessToken),
			"exp": time.Now().Add(time.Minute).Unix(),
		}
	}

	claims, err := v.VerifyToken(sign(t, key, base()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])

	expired := base()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err = v.VerifyToken(sign(t, key, expired))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	wrongIssuer := base()
	wrongIssuer["iss"] = "someone-else"
	_, err = v.VerifyToken(sign(t, key, wrongIssuer))
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	refresh := base()
	refresh["typ"] = string(RefreshToken)
	_, err = v.VerifyToken(sign(t, key, refresh))
	assert.ErrorContains(t, err, "unexpected token type")

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	_, err = v.VerifyToken(sign(t, other, base()))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, base()).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.VerifyToken(hs)
	assert.Error(t, err)
}

func TestNewVerifierMissingKey(t *testing.T) {
	_, err := NewVerifier("/nonexistent/key.pem", "")
	assert.ErrorContains(t, err, "read public key")
}
