package model_test

import (
	"seva/internal/domains/user/model"
	"seva/permissions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_Assignable(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	temporary := model.BlacklistTemporary
	permanent := model.BlacklistPermanent
	expired := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	eligible := model.User{Role: permissions.RoleSevak, IsActive: true, IsVerified: true}

	tests := []struct {
		name   string
		mutate func(u *model.User)
		want   bool
	}{
		{name: "eligible sevak", mutate: func(*model.User) {}, want: true},
		{name: "inactive", mutate: func(u *model.User) { u.IsActive = false }, want: false},
		{name: "unverified", mutate: func(u *model.User) { u.IsVerified = false }, want: false},
		{name: "not a sevak", mutate: func(u *model.User) { u.Role = permissions.RoleResident }, want: false},
		{name: "permanently blacklisted", mutate: func(u *model.User) {
			u.IsBlacklisted = true
			u.BlacklistType = &permanent
		}, want: false},
		{name: "temporary blacklist in force", mutate: func(u *model.User) {
			u.IsBlacklisted = true
			u.BlacklistType = &temporary
			u.BlacklistedUntil = &future
		}, want: false},
		{name: "temporary blacklist expired", mutate: func(u *model.User) {
			u.IsBlacklisted = true
			u.BlacklistType = &temporary
			u.BlacklistedUntil = &expired
		}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := eligible
			tt.mutate(&user)

			assert.Equal(t, tt.want, user.Assignable(now))
		})
	}
}

func TestNotificationSettings_Enabled(t *testing.T) {
	settings := model.NotificationSettings{"booking_assigned": false}

	assert.False(t, settings.Enabled("booking_assigned"))
	assert.True(t, settings.Enabled("payment_success"))
	assert.True(t, model.NotificationSettings(nil).Enabled("payment_success"))
}
