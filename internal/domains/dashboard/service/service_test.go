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
	bookingMocks "seva/internal/domains/booking/mocks"
	bookingModel "seva/internal/domains/booking/model"
	"seva/internal/domains/dashboard/service"
	paymentMocks "seva/internal/domains/payment/mocks"
	paymentModel "seva/internal/domains/payment/model"
	paymentRepo "seva/internal/domains/payment/repository"
	userMocks "seva/internal/domains/user/mocks"
	cacheMocks "seva/shared/cache/mocks"
	"seva/shared/failure"
)

func TestDashboardService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockBookings := bookingMocks.NewMockBooking(ctrl)
	mockPayments := paymentMocks.NewMockPayment(ctrl)
	mockUsers := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockBookings, mockPayments, mockUsers, &config.Config{}, mockCache, mocks.NewOtel())

	t.Run("aggregates every source", func(t *testing.T) {
		mockBookings.EXPECT().CountByStatus(gomock.Any()).Return(map[bookingModel.Status]int{
			bookingModel.StatusPending:   3,
			bookingModel.StatusAssigned:  2,
			bookingModel.StatusCompleted: 5,
		}, nil)
		mockPayments.EXPECT().SumByStatus(gomock.Any()).Return(map[paymentModel.Status]paymentRepo.Summary{
			paymentModel.StatusSuccess:  {Count: 4, Amount: 2000},
			paymentModel.StatusRefunded: {Count: 1, Amount: 500},
		}, nil)
		mockUsers.EXPECT().Count(gomock.Any(), gomock.Any()).Return(7, nil).Times(4)

		res, err := svc.Summary(context.Background())
		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 10, res.Bookings.Total)
		assert.Equal(t, 3, res.Bookings.ByStatus["pending"])
		assert.Equal(t, 2500.0, res.Payments.Collected)
		assert.Equal(t, 500.0, res.Payments.Refunded)
		assert.Equal(t, 7, res.Sevaks.Available)
		assert.Equal(t, 7, res.Residents)
	})

	t.Run("one failed read fails the summary", func(t *testing.T) {
		mockBookings.EXPECT().CountByStatus(gomock.Any()).Return(nil, errors.New("db down"))
		mockPayments.EXPECT().SumByStatus(gomock.Any()).Return(map[paymentModel.Status]paymentRepo.Summary{}, nil).AnyTimes()
		mockUsers.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

		_, err := svc.Summary(context.Background())

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}
