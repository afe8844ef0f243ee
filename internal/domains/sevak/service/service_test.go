package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/otel/mocks"
	notificationModel "seva/internal/domains/notification/model"
	notificationMocks "seva/internal/domains/notification/service/mocks"
	"seva/internal/domains/sevak/model/dto"
	"seva/internal/domains/sevak/service"
	userMocks "seva/internal/domains/user/mocks"
	userModel "seva/internal/domains/user/model"
	"seva/permissions"
	cacheMocks "seva/shared/cache/mocks"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/principal"
)

func setup(t *testing.T) (*userMocks.MockUser, *notificationMocks.MockNotification, service.Sevak) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notificationMocks.NewMockNotification(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockRepo, mockNotifier, service.New(mockRepo, mockNotifier, &config.Config{}, mockCache, mocks.NewOtel())
}

func adminCtx() context.Context {
	return principal.WithContext(context.Background(), principal.Principal{UserID: "admin-1", Role: permissions.RoleAdmin})
}

func TestSevakService_Blacklist(t *testing.T) {
	active := userModel.User{ID: "S2", Role: permissions.RoleSevak, IsActive: true, IsVerified: true}

	tests := []struct {
		name      string
		req       dto.BlacklistRequest
		setupMock func(repo *userMocks.MockUser, notifier *notificationMocks.MockNotification)
		wantDays  int
		wantCode  int
	}{
		{
			name: "temporary blacklist lasts thirty days by default",
			req:  dto.BlacklistRequest{Reason: "repeated no show", Type: userModel.BlacklistTemporary},
			setupMock: func(repo *userMocks.MockUser, notifier *notificationMocks.MockNotification) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				notifier.EXPECT().
					Notify(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event notificationModel.Event) error {
						assert.Equal(t, notificationModel.TypeSevakBlacklisted, event.Type)
						assert.Equal(t, "S2", event.RecipientID)

						return nil
					})
			},
			wantDays: 30,
		},
		{
			name: "permanent blacklist has no expiry",
			req:  dto.BlacklistRequest{Reason: "fraud", Type: userModel.BlacklistPermanent},
			setupMock: func(repo *userMocks.MockUser, notifier *notificationMocks.MockNotification) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))
			},
		},
		{
			name: "not a sevak",
			req:  dto.BlacklistRequest{Reason: "fraud", Type: userModel.BlacklistPermanent},
			setupMock: func(repo *userMocks.MockUser, _ *notificationMocks.MockNotification) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "R1", Role: permissions.RoleResident}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "database failure",
			req:  dto.BlacklistRequest{Reason: "fraud", Type: userModel.BlacklistPermanent},
			setupMock: func(repo *userMocks.MockUser, _ *notificationMocks.MockNotification) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, notifier, svc := setup(t)
			tt.setupMock(repo, notifier)

			res, err := svc.Blacklist(adminCtx(), "S2", tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, res.IsBlacklisted)
			assert.Equal(t, string(tt.req.Type), *res.BlacklistType)

			if tt.wantDays == 0 {
				assert.Nil(t, res.BlacklistedUntil)

				return
			}

			require.NotNil(t, res.BlacklistedUntil)

			until, err := time.Parse(time.RFC3339, *res.BlacklistedUntil)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().AddDate(0, 0, tt.wantDays), until, time.Minute)
		})
	}
}

func TestSevakService_Reinstate(t *testing.T) {
	until := time.Now().Add(24 * time.Hour)
	temporary := userModel.BlacklistTemporary
	reason := "no show"

	blacklisted := userModel.User{
		ID: "S2", Role: permissions.RoleSevak, IsActive: true, IsVerified: true,
		IsBlacklisted: true, BlacklistReason: &reason, BlacklistType: &temporary, BlacklistedUntil: &until,
	}

	t.Run("clears the blacklist", func(t *testing.T) {
		repo, notifier, svc := setup(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(blacklisted, nil)
		repo.EXPECT().
			UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, false, fields[userModel.FieldIsBlacklisted])
				assert.Nil(t, fields[userModel.FieldBlacklistedUntil])

				return 1, nil
			})
		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Reinstate(adminCtx(), "S2", dto.ReinstateRequest{Reason: "appeal accepted"})
		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.False(t, res.IsBlacklisted)
		assert.Nil(t, res.BlacklistReason)
		assert.Nil(t, res.BlacklistedUntil)
	})

	t.Run("not blacklisted", func(t *testing.T) {
		repo, _, svc := setup(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{ID: "S1", Role: permissions.RoleSevak}, nil)

		_, err := svc.Reinstate(adminCtx(), "S1", dto.ReinstateRequest{Reason: "appeal accepted"})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestSevakService_Available(t *testing.T) {
	repo, _, svc := setup(t)
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]userModel.User{{ID: "S1", Role: permissions.RoleSevak, IsActive: true, IsVerified: true}}, nil)

	res, err := svc.Available(adminCtx(), gDto.QueryParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Users, 1)
}
