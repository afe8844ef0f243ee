package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/kafka"
	kafkaMocks "seva/infras/kafka/mocks"
	"seva/infras/otel/mocks"
	notificationMocks "seva/internal/domains/notification/mocks"
	"seva/internal/domains/notification/model"
	"seva/internal/domains/notification/model/dto"
	"seva/internal/domains/notification/service"
	userMocks "seva/internal/domains/user/mocks"
	userModel "seva/internal/domains/user/model"
	"seva/permissions"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	gModel "seva/shared/model"
	"seva/shared/principal"
)

type fixture struct {
	repo     *notificationMocks.MockNotification
	userRepo *userMocks.MockUser
	kafka    *kafkaMocks.MockClient
	svc      service.Notification
}

func newFixture(t *testing.T, topic string) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.Topics.Notification = topic

	f := fixture{
		repo:     notificationMocks.NewMockNotification(ctrl),
		userRepo: userMocks.NewMockUser(ctrl),
		kafka:    kafkaMocks.NewMockClient(ctrl),
	}
	f.svc = service.New(f.repo, f.userRepo, f.kafka, cfg, mocks.NewOtel())

	return f
}

func recipient(settings userModel.NotificationSettings) userModel.User {
	return userModel.User{ID: "u-1", NotificationSettings: gModel.NewJSONB(settings)}
}

func residentContext() context.Context {
	return principal.WithContext(context.Background(), principal.Principal{UserID: "u-1", Role: permissions.RoleResident})
}

func TestNotificationService_Notify(t *testing.T) {
	event := model.Event{RecipientID: "u-1", Type: model.TypeBookingAssigned, Title: "Booking assigned", Payload: model.Payload{"booking_id": "b-1"}}

	t.Run("persists then publishes", func(t *testing.T) {
		f := newFixture(t, "notifications")

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(recipient(nil), nil)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n model.Notification) error {
				assert.NotEmpty(t, n.ID)
				assert.Equal(t, "u-1", n.RecipientID)
				assert.False(t, n.IsRead)
				assert.Equal(t, "b-1", n.Payload.Data["booking_id"])

				return nil
			})
		f.kafka.EXPECT().
			SendMessages(gomock.Any(), "notifications", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				assert.Len(t, messages, 1)
				assert.Equal(t, "u-1", messages[0].Key)

				return nil
			})

		assert.NoError(t, f.svc.Notify(context.Background(), event))
	})

	t.Run("disabled type is a no-op", func(t *testing.T) {
		f := newFixture(t, "notifications")

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(recipient(userModel.NotificationSettings{string(model.TypeBookingAssigned): false}), nil)

		assert.NoError(t, f.svc.Notify(context.Background(), event))
	})

	t.Run("broker failure is swallowed", func(t *testing.T) {
		f := newFixture(t, "notifications")

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(recipient(nil), nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		assert.NoError(t, f.svc.Notify(context.Background(), event))
	})

	t.Run("no topic skips publishing", func(t *testing.T) {
		f := newFixture(t, "")

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(recipient(nil), nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Notify(context.Background(), event))
	})

	t.Run("unknown recipient", func(t *testing.T) {
		f := newFixture(t, "notifications")

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(f.svc.Notify(context.Background(), event)))
	})
}

func TestNotificationService_List(t *testing.T) {
	f := newFixture(t, "")
	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Notification{{ID: "n-1"}, {ID: "n-2"}, {ID: "n-3", IsRead: true}}, nil)

	res, err := f.svc.List(residentContext(), params, false)

	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 1, res.UnreadCount)
	assert.Len(t, res.Notifications, 3)

	_, err = f.svc.List(context.Background(), params, false)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("own notification", func(t *testing.T) {
		f := newFixture(t, "")

		f.repo.EXPECT().
			UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
				assert.Equal(t, true, fields[model.FieldIsRead])
				assert.Len(t, filter.Filters, 2)

				return 1, nil
			})

		assert.NoError(t, f.svc.MarkRead(residentContext(), "n-1"))
	})

	t.Run("someone else's notification", func(t *testing.T) {
		f := newFixture(t, "")

		f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(f.svc.MarkRead(residentContext(), "n-9")))
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	f := newFixture(t, "")

	f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(4), nil)

	res, err := f.svc.MarkAllRead(residentContext())

	assert.NoError(t, err)
	assert.Equal(t, int64(4), res.Updated)
}

func TestNotificationService_Settings(t *testing.T) {
	t.Run("defaults to enabled", func(t *testing.T) {
		f := newFixture(t, "")

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(recipient(nil), nil)

		res, err := f.svc.GetSettings(residentContext())

		assert.NoError(t, err)
		assert.Len(t, res.Settings, len(model.Types()))
		assert.True(t, res.Settings[model.TypePaymentSuccess])
	})

	t.Run("update merges with stored values", func(t *testing.T) {
		f := newFixture(t, "")

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(recipient(userModel.NotificationSettings{string(model.TypeBookingCreated): false}), nil)
		f.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				stored, ok := fields[userModel.FieldNotificationSettings].(gModel.JSONB[userModel.NotificationSettings])
				assert.True(t, ok)
				assert.False(t, stored.Data[string(model.TypeBookingCreated)])
				assert.False(t, stored.Data[string(model.TypePaymentFailed)])

				return nil
			})

		res, err := f.svc.UpdateSettings(residentContext(), dto.SettingsRequest{
			Settings: map[model.Type]bool{model.TypePaymentFailed: false},
		})

		assert.NoError(t, err)
		assert.False(t, res.Settings[model.TypeBookingCreated])
		assert.False(t, res.Settings[model.TypePaymentFailed])
		assert.True(t, res.Settings[model.TypeBookingAssigned])
	})
}
