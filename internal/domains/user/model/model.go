package model

import (
	"seva/permissions"
	"seva/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID                   = "id"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldRole                 = "role"
	FieldFullName             = "full_name"
	FieldPhone                = "phone"
	FieldIsActive             = "is_active"
	FieldIsVerified           = "is_verified"
	FieldIsBlacklisted        = "is_blacklisted"
	FieldBlacklistReason      = "blacklist_reason"
	FieldBlacklistType        = "blacklist_type"
	FieldBlacklistedAt        = "blacklisted_at"
	FieldBlacklistedUntil     = "blacklisted_until"
	FieldReinstatedReason     = "reinstated_reason"
	FieldReinstatedAt         = "reinstated_at"
	FieldNotificationSettings = "notification_settings"
	FieldLastLogin            = "last_login"
)

var SortableFields = []string{FieldEmail, FieldFullName, FieldRole, FieldLastLogin}

type BlacklistType string

const (
	BlacklistTemporary BlacklistType = "temporary"
	BlacklistPermanent BlacklistType = "permanent"
)

func (t BlacklistType) Valid() bool {
	switch t {
	case BlacklistTemporary, BlacklistPermanent:
		return true
	default:
		return false
	}
}

// NotificationSettings maps a notification type to whether the user wants it. Missing types are enabled.
type NotificationSettings map[string]bool

func (s NotificationSettings) Enabled(notificationType string) bool {
	enabled, ok := s[notificationType]

	return !ok || enabled
}

type User struct {
	ID                   string                            `db:"id"`
	Email                string                            `db:"email"`
	Password             string                            `db:"password"`
	Role                 permissions.Role                  `db:"role"`
	FullName             *string                           `db:"full_name"`
	Phone                *string                           `db:"phone"`
	IsActive             bool                              `db:"is_active"`
	IsVerified           bool                              `db:"is_verified"`
	IsBlacklisted        bool                              `db:"is_blacklisted"`
	BlacklistReason      *string                           `db:"blacklist_reason"`
	BlacklistType        *BlacklistType                    `db:"blacklist_type"`
	BlacklistedAt        *time.Time                        `db:"blacklisted_at"`
	BlacklistedUntil     *time.Time                        `db:"blacklisted_until"`
	ReinstatedReason     *string                           `db:"reinstated_reason"`
	ReinstatedAt         *time.Time                        `db:"reinstated_at"`
	NotificationSettings model.JSONB[NotificationSettings] `db:"notification_settings"`
	LastLogin            *time.Time                        `db:"last_login"`
	model.Metadata
}

// Blacklisted reports whether the blacklist is in force at now. A temporary entry stops applying once it expires.
func (u User) Blacklisted(now time.Time) bool {
	if !u.IsBlacklisted {
		return false
	}

	if u.BlacklistType == nil || *u.BlacklistType == BlacklistPermanent || u.BlacklistedUntil == nil {
		return true
	}

	return now.Before(*u.BlacklistedUntil)
}

// Assignable reports whether the user can take new bookings.
func (u User) Assignable(now time.Time) bool {
	return u.Role == permissions.RoleSevak && u.IsActive && u.IsVerified && !u.Blacklisted(now)
}
