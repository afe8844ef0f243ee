package dto

import (
	"seva/internal/domains/user/model"
	"seva/shared/constant"
	"time"
)

type BlacklistRequest struct {
	Reason string              `json:"reason"         validate:"required,min=3,max=500"`
	Type   model.BlacklistType `json:"type"           validate:"required,enum"`
	Days   *int                `json:"days,omitempty" validate:"omitempty,min=1,max=3650"`
}

// ToFields returns the blacklist columns. A temporary entry expires after Days, or defaultDays when unset.
func (r *BlacklistRequest) ToFields(actor string, now time.Time, defaultDays int) map[string]any {
	var until *time.Time

	if r.Type == model.BlacklistTemporary {
		days := defaultDays
		if r.Days != nil {
			days = *r.Days
		}

		expiresAt := now.AddDate(0, 0, days)
		until = &expiresAt
	}

	return map[string]any{
		model.FieldIsBlacklisted:    true,
		model.FieldBlacklistReason:  r.Reason,
		model.FieldBlacklistType:    r.Type,
		model.FieldBlacklistedAt:    now,
		model.FieldBlacklistedUntil: until,
		constant.FieldModifiedAt:    now,
		constant.FieldModifiedBy:    actor,
	}
}

type ReinstateRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// ToFields clears every blacklist column and records why the sevak came back.
func (r *ReinstateRequest) ToFields(actor string, now time.Time) map[string]any {
	return map[string]any{
		model.FieldIsBlacklisted:    false,
		model.FieldBlacklistReason:  nil,
		model.FieldBlacklistType:    nil,
		model.FieldBlacklistedAt:    nil,
		model.FieldBlacklistedUntil: nil,
		model.FieldReinstatedReason: r.Reason,
		model.FieldReinstatedAt:     now,
		constant.FieldModifiedAt:    now,
		constant.FieldModifiedBy:    actor,
	}
}
