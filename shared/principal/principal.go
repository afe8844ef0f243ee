// Package principal carries the authenticated caller through a request context.
package principal

import (
	"context"
	"seva/permissions"
	"seva/shared/constant"
)

type Principal struct {
	UserID  string
	Email   string
	Role    permissions.Role
	TokenID string
}

func (p Principal) IsStaff() bool {
	return p.Role.IsStaff()
}

// Actor returns the identifier written into audit columns.
func (p Principal) Actor() string {
	if p.UserID == "" {
		return constant.ContextSystem
	}

	return p.UserID
}

func WithContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, constant.ContextKeyPrincipal, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(constant.ContextKeyPrincipal).(Principal)

	return p, ok && p.UserID != ""
}

// ActorFromContext returns the caller id, or the system actor for unauthenticated flows.
func ActorFromContext(ctx context.Context) string {
	p, _ := FromContext(ctx)

	return p.Actor()
}
