// Package model holds the sevak pool queries. Sevaks are users with the sevak role, so there is no table of their own.
package model

import (
	userModel "seva/internal/domains/user/model"
	"seva/permissions"
	gDto "seva/shared/dto"
	"time"
)

const DefaultBlacklistDays = 30

// AvailableFilter matches sevaks that can take new bookings at now.
func AvailableFilter(now time.Time) gDto.FilterGroup {
	return gDto.And(
		eq(userModel.FieldRole, permissions.RoleSevak),
		eq(userModel.FieldIsActive, true),
		eq(userModel.FieldIsVerified, true),
		gDto.Or(
			eq(userModel.FieldIsBlacklisted, false),
			gDto.And(
				eq(userModel.FieldBlacklistType, userModel.BlacklistTemporary),
				gDto.Filter{
					Field:    userModel.FieldBlacklistedUntil,
					Value:    now,
					Operator: gDto.FilterOperatorLessEq,
					Table:    userModel.TableName,
				},
			),
		),
	)
}

// BlacklistedFilter matches sevaks whose blacklist is still in force at now.
func BlacklistedFilter(now time.Time) gDto.FilterGroup {
	return gDto.And(
		eq(userModel.FieldRole, permissions.RoleSevak),
		eq(userModel.FieldIsBlacklisted, true),
		gDto.Or(
			eq(userModel.FieldBlacklistType, userModel.BlacklistPermanent),
			gDto.IsNull(userModel.TableName, userModel.FieldBlacklistedUntil),
			gDto.Filter{
				Field:    userModel.FieldBlacklistedUntil,
				Value:    now,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    userModel.TableName,
			},
		),
	)
}

func eq(field string, value any) gDto.Filter {
	return gDto.Eq(userModel.TableName, field, value)
}
