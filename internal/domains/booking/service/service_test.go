package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/otel/mocks"
	s3Mocks "seva/infras/s3/mocks"
	bookingMocks "seva/internal/domains/booking/mocks"
	"seva/internal/domains/booking/model"
	"seva/internal/domains/booking/model/dto"
	"seva/internal/domains/booking/service"
	catalogMocks "seva/internal/domains/catalog/mocks"
	catalogModel "seva/internal/domains/catalog/model"
	notificationModel "seva/internal/domains/notification/model"
	notificationMocks "seva/internal/domains/notification/service/mocks"
	userMocks "seva/internal/domains/user/mocks"
	userModel "seva/internal/domains/user/model"
	"seva/permissions"
	cacheMocks "seva/shared/cache/mocks"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	sharedModel "seva/shared/model"
	"seva/shared/principal"
)

type fixture struct {
	repo     *bookingMocks.MockBooking
	catalog  *catalogMocks.MockService
	users    *userMocks.MockUser
	notifier *notificationMocks.MockNotification
	s3       *s3Mocks.MockS3
	svc      service.Booking
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		catalog:  catalogMocks.NewMockService(ctrl),
		users:    userMocks.NewMockUser(ctrl),
		notifier: notificationMocks.NewMockNotification(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Booking.MaxMediaFiles = 2

	f.svc = service.New(f.repo, f.catalog, f.users, f.notifier, f.s3, cfg, mockCache, mocks.NewOtel())

	return f
}

func as(userID string, role permissions.Role) context.Context {
	return principal.WithContext(context.Background(), principal.Principal{UserID: userID, Role: role})
}

func strPtr(s string) *string {
	return &s
}

func pendingBooking() model.Booking {
	return model.Booking{
		ID:            "BK-001",
		BookingNumber: "BK-20261019-ABC234",
		ResidentID:    "resident-1",
		ServiceID:     "service-1",
		ScheduledAt:   time.Now().Add(24 * time.Hour),
		BasePrice:     500,
		TotalAmount:   500,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentPending,
		CheckInOTP:    "4821",
		Timeline:      sharedModel.NewJSONB(model.Timeline{{Status: model.StatusPending, Note: "booking created"}}),
	}
}

func assignedBooking() model.Booking {
	booking := pendingBooking()
	booking.Status = model.StatusAssigned
	booking.SevakID = strPtr("S1")

	return booking
}

func sevak(id string) userModel.User {
	return userModel.User{ID: id, Role: permissions.RoleSevak, IsActive: true, IsVerified: true}
}

func TestBookingService_Create(t *testing.T) {
	tomorrow := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	activeService := catalogModel.Service{ID: "service-1", Name: "Deep cleaning", BasePrice: 1000, IsActive: true}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateBookingRequest
		setupMock func(f *fixture)
		wantTotal float64
		wantCode  int
	}{
		{
			name: "staff pricing is base plus additional minus discount",
			ctx:  as("admin-1", permissions.RoleSuperAdmin),
			req:  dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: tomorrow, Address: "12 MG Road", AdditionalCharges: 150, Discount: 100},
			setupMock: func(f *fixture) {
				f.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeService, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, "admin-1", booking.ResidentID)
						assert.Equal(t, 1050.0, booking.TotalAmount)
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
						assert.Len(t, booking.CheckInOTP, 4)
						assert.True(t, strings.HasPrefix(booking.BookingNumber, "BK-"))
						assert.Len(t, booking.Timeline.Data, 1)

						return nil
					})
				f.notifier.EXPECT().
					Notify(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event notificationModel.Event) error {
						assert.Equal(t, notificationModel.TypeBookingCreated, event.Type)
						assert.Equal(t, "admin-1", event.RecipientID)

						return nil
					})
			},
			wantTotal: 1050,
		},
		{
			name: "notification failure does not fail the booking",
			ctx:  as("resident-1", permissions.RoleResident),
			req:  dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: tomorrow, Address: "12 MG Road"},
			setupMock: func(f *fixture) {
				f.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeService, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))
			},
			wantTotal: 1000,
		},
		{
			name:      "resident cannot set pricing",
			ctx:       as("resident-1", permissions.RoleResident),
			req:       dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: tomorrow, Address: "12 MG Road", Discount: 100},
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name: "discount larger than charges",
			ctx:  as("admin-1", permissions.RoleSuperAdmin),
			req:  dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: tomorrow, Address: "12 MG Road", Discount: 1500},
			setupMock: func(f *fixture) {
				f.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeService, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "inactive service",
			ctx:  as("resident-1", permissions.RoleResident),
			req:  dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: tomorrow, Address: "12 MG Road"},
			setupMock: func(f *fixture) {
				f.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(catalogModel.Service{ID: "service-1"}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown service",
			ctx:  as("resident-1", permissions.RoleResident),
			req:  dto.CreateBookingRequest{ServiceID: "service-9", ScheduledAt: tomorrow, Address: "12 MG Road"},
			setupMock: func(f *fixture) {
				f.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(catalogModel.Service{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "schedule in the past",
			ctx:       as("resident-1", permissions.RoleResident),
			req:       dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: time.Now().Add(-time.Hour).Format(time.RFC3339), Address: "12 MG Road"},
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "malformed schedule",
			ctx:       as("resident-1", permissions.RoleResident),
			req:       dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: "tomorrow", Address: "12 MG Road"},
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "anonymous",
			ctx:       context.Background(),
			req:       dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: tomorrow},
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name: "insert failure",
			ctx:  as("resident-1", permissions.RoleResident),
			req:  dto.CreateBookingRequest{ServiceID: "service-1", ScheduledAt: tomorrow, Address: "12 MG Road"},
			setupMock: func(f *fixture) {
				f.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeService, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(tt.ctx, tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.Pricing.TotalAmount)
			assert.NotEmpty(t, res.CheckInOTP)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		wantOTP  bool
		wantCode int
	}{
		{name: "resident sees otp", ctx: as("resident-1", permissions.RoleResident), wantOTP: true},
		{name: "assigned sevak does not", ctx: as("S1", permissions.RoleSevak)},
		{name: "admin does not", ctx: as("admin-1", permissions.RoleAdmin)},
		{name: "other resident", ctx: as("resident-2", permissions.RoleResident), wantCode: http.StatusForbidden},
		{name: "other sevak", ctx: as("S2", permissions.RoleSevak), wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)

			res, err := f.svc.Get(tt.ctx, "BK-001")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOTP, res.CheckInOTP != "")
		})
	}
}

func TestBookingService_Get_NotFound(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := f.svc.Get(as("admin-1", permissions.RoleAdmin), "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_Assign(t *testing.T) {
	admin := as("admin-1", permissions.RoleAdmin)
	expired := time.Now().Add(-time.Hour)
	temporary := userModel.BlacklistTemporary

	tests := []struct {
		name      string
		req       dto.AssignSevakRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "eligible sevak is assigned",
			req:  dto.AssignSevakRequest{SevakID: "S1", Notes: strPtr("bring ladder")},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sevak("S1"), nil)
				f.repo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) (int64, error) {
						assert.Equal(t, "S1", fields[model.FieldSevakID])
						assert.Equal(t, model.StatusAssigned, fields[model.FieldStatus])

						return 1, nil
					})
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
		},
		{
			name: "expired temporary blacklist no longer blocks",
			req:  dto.AssignSevakRequest{SevakID: "S3"},
			setupMock: func(f *fixture) {
				s3 := sevak("S3")
				s3.IsBlacklisted, s3.BlacklistType, s3.BlacklistedUntil = true, &temporary, &expired

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s3, nil)
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
		},
		{
			name: "blacklisted sevak is rejected and booking untouched",
			req:  dto.AssignSevakRequest{SevakID: "S2"},
			setupMock: func(f *fixture) {
				s2 := sevak("S2")
				s2.IsBlacklisted = true

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s2, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unverified sevak",
			req:  dto.AssignSevakRequest{SevakID: "S4"},
			setupMock: func(f *fixture) {
				s4 := sevak("S4")
				s4.IsVerified = false

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s4, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "user is not a sevak",
			req:  dto.AssignSevakRequest{SevakID: "resident-2"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{ID: "resident-2", Role: permissions.RoleResident, IsActive: true, IsVerified: true}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown sevak",
			req:  dto.AssignSevakRequest{SevakID: "S9"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "already assigned",
			req:  dto.AssignSevakRequest{SevakID: "S1"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent assignment wins the race",
			req:  dto.AssignSevakRequest{SevakID: "S1"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sevak("S1"), nil)
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "booking not found",
			req:  dto.AssignSevakRequest{SevakID: "S1"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Assign(admin, "BK-001", tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusAssigned), res.Status)
			assert.Equal(t, tt.req.SevakID, *res.SevakID)
			assert.Empty(t, res.CheckInOTP)
		})
	}
}

func TestBookingService_CheckIn(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		otp       string
		booking   model.Booking
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name:    "correct otp starts the job",
			ctx:     as("S1", permissions.RoleSevak),
			otp:     "4821",
			booking: assignedBooking(),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) (int64, error) {
						assert.Equal(t, model.StatusInProgress, fields[model.FieldStatus])
						assert.NotNil(t, fields[model.FieldCheckedInAt])

						return 1, nil
					})
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "wrong otp",
			ctx:       as("S1", permissions.RoleSevak),
			otp:       "0000",
			booking:   assignedBooking(),
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "not the assigned sevak",
			ctx:       as("S2", permissions.RoleSevak),
			otp:       "4821",
			booking:   assignedBooking(),
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name: "already in progress",
			ctx:  as("S1", permissions.RoleSevak),
			otp:  "4821",
			booking: func() model.Booking {
				booking := assignedBooking()
				booking.Status = model.StatusInProgress

				return booking
			}(),
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			tt.setupMock(f)

			res, err := f.svc.CheckIn(tt.ctx, dto.CheckInRequest{BookingID: "BK-001", OTP: tt.otp})
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusInProgress), res.Status)
			assert.NotNil(t, res.CheckedInAt)
		})
	}
}

func TestBookingService_CheckOut(t *testing.T) {
	f := newFixture(t)

	booking := assignedBooking()
	booking.Status = model.StatusInProgress

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
	f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

	res, err := f.svc.CheckOut(as("S1", permissions.RoleSevak), dto.CheckOutRequest{BookingID: "BK-001"})
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, string(model.StatusInProgress), res.Status)
	assert.NotNil(t, res.CheckedOutAt)
}

func TestBookingService_Complete(t *testing.T) {
	inProgress := func() model.Booking {
		booking := assignedBooking()
		booking.Status = model.StatusInProgress

		return booking
	}

	before := &multipart.FileHeader{Filename: "sink-before.jpg"}
	after := &multipart.FileHeader{Filename: "sink-after.jpg"}

	tests := []struct {
		name      string
		req       dto.CompleteRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "photos are stored and job completes",
			req:  dto.CompleteRequest{Notes: strPtr("replaced washer"), Before: []*multipart.FileHeader{before}, After: []*multipart.FileHeader{after}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inProgress(), nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), "bookings/BK-001/before", gomock.Any(), before).Return("https://cdn/before.jpg", nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), "bookings/BK-001/after", gomock.Any(), after).Return("https://cdn/after.jpg", nil)
				f.repo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) (int64, error) {
						assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
						assert.Len(t, fields[model.FieldBeforeMedia], 1)
						assert.Len(t, fields[model.FieldAfterMedia], 1)

						return 1, nil
					})
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "failed write removes uploaded photos",
			req:  dto.CompleteRequest{Before: []*multipart.FileHeader{before}, After: []*multipart.FileHeader{after}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inProgress(), nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), before).Return("https://cdn/before.jpg", nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), after).Return("https://cdn/after.jpg", nil)
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
				f.s3.EXPECT().DeleteFile(gomock.Any(), "https://cdn/before.jpg").Return(nil)
				f.s3.EXPECT().DeleteFile(gomock.Any(), "https://cdn/after.jpg").Return(nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "failed upload removes earlier photos",
			req:  dto.CompleteRequest{Before: []*multipart.FileHeader{before}, After: []*multipart.FileHeader{after}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inProgress(), nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), before).Return("https://cdn/before.jpg", nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), after).Return("", errors.New("s3 down"))
				f.s3.EXPECT().DeleteFile(gomock.Any(), "https://cdn/before.jpg").Return(nil)
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "too many photos",
			req:  dto.CompleteRequest{Before: []*multipart.FileHeader{before, before, before}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inProgress(), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not checked in",
			req:  dto.CompleteRequest{},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Complete(as("S1", permissions.RoleSevak), "BK-001", tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusCompleted), res.Status)
			assert.NotNil(t, res.CompletedAt)
			assert.NotNil(t, res.CheckedOutAt)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	paid := func() model.Booking {
		booking := assignedBooking()
		booking.PaymentStatus = model.PaymentPaid

		return booking
	}

	tests := []struct {
		name       string
		ctx        context.Context
		booking    model.Booking
		setupMock  func(f *fixture)
		wantRefund bool
		wantCode   int
	}{
		{
			name:    "resident cancels pending booking",
			ctx:     as("resident-1", permissions.RoleResident),
			booking: pendingBooking(),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "paid booking expects refund and tells the sevak",
			ctx:     as("admin-1", permissions.RoleAdmin),
			booking: paid(),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			wantRefund: true,
		},
		{
			name: "completed booking",
			ctx:  as("resident-1", permissions.RoleResident),
			booking: func() model.Booking {
				booking := assignedBooking()
				booking.Status = model.StatusCompleted

				return booking
			}(),
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusConflict,
		},
		{
			name:      "someone else's booking",
			ctx:       as("resident-2", permissions.RoleResident),
			booking:   pendingBooking(),
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			tt.setupMock(f)

			res, err := f.svc.Cancel(tt.ctx, "BK-001", dto.CancelRequest{Reason: "plans changed"})
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusCancelled), res.Status)
			assert.Equal(t, tt.wantRefund, res.RefundExpected)
		})
	}
}

func TestBookingService_Reschedule(t *testing.T) {
	nextWeek := time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339)
	discount := 50.0

	t.Run("recomputes the total", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.repo.EXPECT().
			UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) (int64, error) {
				assert.Equal(t, 450.0, fields[model.FieldTotalAmount])

				return 1, nil
			})
		f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Reschedule(as("admin-1", permissions.RoleSuperAdmin), "BK-001",
			dto.RescheduleRequest{ScheduledAt: nextWeek, Discount: &discount})
		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 450.0, res.Pricing.TotalAmount)
	})

	t.Run("resident cannot change pricing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		_, err := f.svc.Reschedule(as("resident-1", permissions.RoleResident), "BK-001",
			dto.RescheduleRequest{ScheduledAt: nextWeek, Discount: &discount})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("pricing is fixed once paid", func(t *testing.T) {
		paid := pendingBooking()
		paid.PaymentStatus = model.PaymentPaid

		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paid, nil)

		_, err := f.svc.Reschedule(as("admin-1", permissions.RoleSuperAdmin), "BK-001",
			dto.RescheduleRequest{ScheduledAt: nextWeek, Discount: &discount})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("paid booking keeps its total when moved", func(t *testing.T) {
		paid := pendingBooking()
		paid.PaymentStatus = model.PaymentPaid

		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paid, nil)
		f.repo.EXPECT().
			UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) (int64, error) {
				assert.Equal(t, 500.0, fields[model.FieldTotalAmount])

				return 1, nil
			})

		res, err := f.svc.Reschedule(as("resident-1", permissions.RoleResident), "BK-001", dto.RescheduleRequest{ScheduledAt: nextWeek})
		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 500.0, res.Pricing.TotalAmount)
	})

	t.Run("concurrent change", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)
		f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		_, err := f.svc.Reschedule(as("resident-1", permissions.RoleResident), "BK-001", dto.RescheduleRequest{ScheduledAt: nextWeek})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("sevak cannot reschedule", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)

		_, err := f.svc.Reschedule(as("S1", permissions.RoleSevak), "BK-001", dto.RescheduleRequest{ScheduledAt: nextWeek})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestBookingService_SevakJobs(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{assignedBooking()}, nil)

	res, err := f.svc.SevakJobs(as("S1", permissions.RoleSevak), gDto.QueryParams{Page: 1, Limit: 10}, "")
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	require.Len(t, res.Bookings, 1)
	assert.Empty(t, res.Bookings[0].CheckInOTP)
}
