package principal_test

import (
	"context"
	"seva/permissions"
	"seva/shared/constant"
	"seva/shared/principal"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	ctx := principal.WithContext(context.Background(), principal.Principal{
		UserID: "admin-1",
		Role:   permissions.RoleAdmin,
	})

	p, ok := principal.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin-1", p.UserID)
	assert.True(t, p.IsStaff())
	assert.Equal(t, "admin-1", principal.ActorFromContext(ctx))
}

func TestFromContextMissing(t *testing.T) {
	_, ok := principal.FromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, constant.ContextSystem, principal.ActorFromContext(context.Background()))
}
