package auth

import (
	"testing"
	"time"

	"grievanceportal/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenIssuer_RoundTrip(t *testing.T) {
	tokens := NewTokenIssuer(testSecret, time.Hour)
	user := &models.User{ID: "u1", Email: "a@uni.edu", Role: models.RoleFaculty}

	tokenStr, err := tokens.Generate(user)
	require.NoError(t, err)

	claims, err := tokens.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@uni.edu", claims.Email)
	assert.Equal(t, models.RoleFaculty, claims.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestTokenIssuer_Expired(t *testing.T) {
	tokens := NewTokenIssuer(testSecret, time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issuedAt }
	tokenStr, err := tokens.Generate(&models.User{ID: "u1"})
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Validate(tokenStr)

	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	tokenStr, err := NewTokenIssuer(testSecret, time.Hour).Generate(&models.User{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("another-secret-another-secret-xx", time.Hour).Validate(tokenStr)

	assert.Error(t, err)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, time.Hour).Validate(tokenStr)

	assert.Error(t, err)
}
