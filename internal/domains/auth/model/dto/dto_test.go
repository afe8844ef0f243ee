package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seva/infras/jwt"
	"seva/internal/domains/auth/model/dto"
	"seva/permissions"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "asha@example.com",
		Role:     "sevak",
		FullName: stringPtr("Asha"),
	}

	user := req.ToUserModel("guest", "hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, permissions.RoleSevak, user.Role)
	assert.Equal(t, "hashed", user.Password)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsVerified, "sevaks need staff verification before assignment")
	assert.Equal(t, "guest", user.CreatedBy)
}

func TestRegisterRequest_DefaultsToResident(t *testing.T) {
	req := dto.RegisterRequest{Email: "r@example.com"}

	assert.Equal(t, permissions.RoleResident, req.SignUpRole())
}

func stringPtr(s string) *string {
	return &s
}
