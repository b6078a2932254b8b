package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(userID uuid.UUID) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "alice@example.com",
	}
	c.UserMetadata.FullName = "Alice Andersen"
	return c
}

func TestVerify_ValidToken(t *testing.T) {
	userID := uuid.New()
	v := NewVerifier(testSecret)

	claims, err := v.Verify(signToken(t, testSecret, validClaims(userID)))
	require.NoError(t, err)

	parsed, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice Andersen", claims.FullName())
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify(signToken(t, "other-secret", validClaims(uuid.New())))
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret)
	claims := validClaims(uuid.New())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestVerify_RejectsUnsignedToken(t *testing.T) {
	v := NewVerifier(testSecret)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.New().String()})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(unsigned)
	assert.Error(t, err)
}

func TestFullName_FallsBackToEmail(t *testing.T) {
	c := Claims{Email: "bob@example.com"}
	assert.Equal(t, "bob@example.com", c.FullName())
}

func TestUserID_InvalidSubject(t *testing.T) {
	c := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"}}
	_, err := c.UserID()
	assert.Error(t, err)
}
