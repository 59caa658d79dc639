package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "outlet-test-secret"

func issueShopperTokens(t *testing.T, accessExpiry, refreshExpiry time.Duration) *TokenPair {
	t.Helper()
	tokens, err := GenerateTokenPair(17, "ayesha@shopper.pk", "user", testSecret, accessExpiry, refreshExpiry)
	require.NoError(t, err)
	return tokens
}

func TestGenerateTokenPair(t *testing.T) {
	tokens := issueShopperTokens(t, time.Hour, 7*24*time.Hour)

	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	access, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)

	for _, claims := range []*Claims{access, refresh} {
		assert.Equal(t, uint(17), claims.UserID)
		assert.Equal(t, "ayesha@shopper.pk", claims.Email)
		assert.Equal(t, "user", claims.Role)
		assert.NotEmpty(t, claims.ID)
	}
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	// Each token gets its own id, so revoking one never revokes the other.
	assert.NotEqual(t, access.ID, refresh.ID)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), refresh.TokenTTL().Seconds(), 5)
}

func TestGenerateTokenPair_AdminRole(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "ops@outlet.pk", "admin", testSecret, time.Hour, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateToken_Rejections(t *testing.T) {
	tokens := issueShopperTokens(t, time.Hour, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:    17,
		Role:      "admin",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noneToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "Other deployment's secret", token: tokens.AccessToken, secret: "staging-secret"},
		{name: "Unsigned token claiming admin", token: noneToken, secret: testSecret},
		{name: "Truncated token", token: tokens.AccessToken[:len(tokens.AccessToken)-4], secret: testSecret},
		{name: "Not a JWT", token: "Bearer abc", secret: testSecret},
		{name: "Empty", token: "", secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	tokens := issueShopperTokens(t, -time.Minute, -time.Minute)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)

	_, err = ValidateToken(tokens.RefreshToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestClaimsTokenTTL(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&Claims{}).TokenTTL())

	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.Equal(t, time.Duration(0), past.TokenTTL())
}
