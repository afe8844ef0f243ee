package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seva/shared/password"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "validPassword123"},
		{name: "special characters", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode", password: "पासवर्ड123"},
		{name: "exactly max length", password: strings.Repeat("a", password.MaxLength)},
		{name: "empty", password: "", wantErr: password.ErrEmptyPassword},
		{name: "too long", password: strings.Repeat("a", password.MaxLength+1), wantErr: password.ErrHashingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$2a$"), hash)
			assert.NoError(t, password.Verify(tt.password, hash))
		})
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("resident-secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{name: "match", password: "resident-secret", hash: hash},
		{name: "mismatch", password: "resident-secreT", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", password: "resident-secret", hash: "", wantErr: password.ErrInvalidPassword},
		{name: "malformed hash", password: "resident-secret", hash: "invalid_hash", wantErr: password.ErrVerifyingPassword},
		{name: "truncated hash", password: "resident-secret", hash: hash[:10], wantErr: password.ErrVerifyingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("same-input")
	require.NoError(t, err)

	second, err := password.Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
