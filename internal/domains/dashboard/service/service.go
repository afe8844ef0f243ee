package service

import (
	"context"
	"fmt"
	"seva/config"
	"seva/infras/otel"
	bookingRepo "seva/internal/domains/booking/repository"
	"seva/internal/domains/dashboard/model/dto"
	paymentRepo "seva/internal/domains/payment/repository"
	sevakModel "seva/internal/domains/sevak/model"
	userModel "seva/internal/domains/user/model"
	userRepo "seva/internal/domains/user/repository"
	"seva/permissions"
	"seva/shared"
	"seva/shared/cache"
	"seva/shared/constant"
	"seva/shared/timezone"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const cacheDashboard = "dashboard:summary"

type Dashboard interface {
	Summary(ctx context.Context) (dto.Summary, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	paymentRepo paymentRepo.Payment
	userRepo    userRepo.User
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	paymentRepo paymentRepo.Payment,
	userRepo userRepo.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Dashboard {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Summary gathers the dashboard figures with all reads running in parallel. Any failed read fails the whole summary.
func (s *serviceImpl) Summary(ctx context.Context) (res dto.Summary, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.cache.Get(ctx, cacheDashboard, &res); err == nil {
		return res, nil
	}

	now := timezone.Now()
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		counts, err := s.bookingRepo.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}

		res.Bookings.FromCounts(counts)

		return nil
	})

	group.Go(func() error {
		sums, err := s.paymentRepo.SumByStatus(gctx)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		res.Payments.FromSums(sums)

		return nil
	})

	for target, filter := range map[*int]func() (int, error){
		&res.Sevaks.Total: func() (int, error) {
			return s.userRepo.Count(gctx, shared.FilterEq(userModel.TableName, map[string]any{userModel.FieldRole: permissions.RoleSevak}))
		},
		&res.Sevaks.Available: func() (int, error) {
			return s.userRepo.Count(gctx, sevakModel.AvailableFilter(now))
		},
		&res.Sevaks.Blacklisted: func() (int, error) {
			return s.userRepo.Count(gctx, sevakModel.BlacklistedFilter(now))
		},
		&res.Residents: func() (int, error) {
			return s.userRepo.Count(gctx, shared.FilterEq(userModel.TableName, map[string]any{userModel.FieldRole: permissions.RoleResident}))
		},
	} {
		group.Go(func() error {
			count, err := filter()
			if err != nil {
				return fmt.Errorf("failed to count users: %w", err)
			}

			*target = count

			return nil
		})
	}

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to build dashboard summary")

		return dto.Summary{}, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheDashboard, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard to cache")
		}
	}()

	return res, nil
}
