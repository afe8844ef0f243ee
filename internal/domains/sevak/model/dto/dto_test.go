package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"seva/internal/domains/sevak/model/dto"
	"seva/internal/domains/user/model"
)

func TestBlacklistRequest_ToFields(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	days := 7

	tests := []struct {
		name      string
		req       dto.BlacklistRequest
		wantUntil *time.Time
	}{
		{
			name:      "temporary defaults to the configured window",
			req:       dto.BlacklistRequest{Reason: "no show", Type: model.BlacklistTemporary},
			wantUntil: func() *time.Time { at := now.AddDate(0, 0, 30); return &at }(),
		},
		{
			name:      "temporary with explicit days",
			req:       dto.BlacklistRequest{Reason: "no show", Type: model.BlacklistTemporary, Days: &days},
			wantUntil: func() *time.Time { at := now.AddDate(0, 0, 7); return &at }(),
		},
		{
			name: "permanent never expires",
			req:  dto.BlacklistRequest{Reason: "fraud", Type: model.BlacklistPermanent, Days: &days},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := tt.req.ToFields("admin-1", now, 30)

			assert.Equal(t, true, fields[model.FieldIsBlacklisted])
			assert.Equal(t, tt.req.Reason, fields[model.FieldBlacklistReason])
			assert.Equal(t, tt.wantUntil, fields[model.FieldBlacklistedUntil])
		})
	}
}

func TestReinstateRequest_ToFields(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	fields := (&dto.ReinstateRequest{Reason: "appeal accepted"}).ToFields("admin-1", now)

	assert.Equal(t, false, fields[model.FieldIsBlacklisted])
	assert.Nil(t, fields[model.FieldBlacklistReason])
	assert.Nil(t, fields[model.FieldBlacklistedUntil])
	assert.Equal(t, "appeal accepted", fields[model.FieldReinstatedReason])
}
