package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_ByteLimit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "Minimum accepted at registration", password: "shopper1"},
		{name: "Exactly 72 bytes", password: strings.Repeat("k", 72)},
		{name: "73 bytes", password: strings.Repeat("k", 73), wantErr: ErrPasswordTooLong},
		// 36 two-byte runes fit; one more pushes the byte length past the limit.
		{name: "Multibyte at limit", password: strings.Repeat("é", 36)},
		{name: "Multibyte over limit", password: strings.Repeat("é", 37), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$2a$10$"), hash)
			assert.True(t, VerifyPassword(hash, tt.password))
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("checkout-2024!")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "Matching password", hash: hash, password: "checkout-2024!", want: true},
		{name: "Case differs", hash: hash, password: "Checkout-2024!", want: false},
		{name: "Trailing space", hash: hash, password: "checkout-2024! ", want: false},
		{name: "Empty password", hash: hash, password: "", want: false},
		{name: "Placeholder hash from fixtures", hash: "hash", password: "checkout-2024!", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hash, tt.password))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "same-password"))
	assert.True(t, VerifyPassword(second, "same-password"))
}
