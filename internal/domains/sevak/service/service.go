package service

import (
	"context"
	"fmt"
	"seva/config"
	"seva/infras/otel"
	notificationModel "seva/internal/domains/notification/model"
	notificationService "seva/internal/domains/notification/service"
	"seva/internal/domains/sevak/model"
	"seva/internal/domains/sevak/model/dto"
	userModel "seva/internal/domains/user/model"
	userDto "seva/internal/domains/user/model/dto"
	userRepo "seva/internal/domains/user/repository"
	userService "seva/internal/domains/user/service"
	"seva/permissions"
	"seva/shared"
	"seva/shared/cache"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/principal"
	"seva/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

type Sevak interface {
	Blacklist(ctx context.Context, id string, req dto.BlacklistRequest) (userDto.UserResponse, error)
	Reinstate(ctx context.Context, id string, req dto.ReinstateRequest) (userDto.UserResponse, error)
	Available(ctx context.Context, req gDto.QueryParams) (userDto.GetUsersResponse, error)
	Blacklisted(ctx context.Context, req gDto.QueryParams) (userDto.GetUsersResponse, error)
}

type serviceImpl struct {
	userRepo userRepo.User
	notifier notificationService.Notification
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	userRepo userRepo.User,
	notifier notificationService.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Sevak {
	return &serviceImpl{
		userRepo: userRepo,
		notifier: notifier,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Blacklist takes a sevak out of the assignable pool. Bookings the sevak already holds are left alone.
func (s *serviceImpl) Blacklist(ctx context.Context, id string, req dto.BlacklistRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Blacklist")
	defer scope.End()
	defer scope.TraceIfError(err)

	sevak, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	fields := req.ToFields(principal.ActorFromContext(ctx), now, s.defaultDays())

	if err = s.update(ctx, sevak.ID, fields, shared.FilterEq(userModel.TableName, map[string]any{
		userModel.FieldID:   sevak.ID,
		userModel.FieldRole: permissions.RoleSevak,
	})); err != nil {
		return res, err
	}

	sevak.IsBlacklisted = true
	sevak.BlacklistReason = &req.Reason
	sevak.BlacklistType = &req.Type
	sevak.BlacklistedAt = &now
	sevak.BlacklistedUntil, _ = fields[userModel.FieldBlacklistedUntil].(*time.Time)

	body := "Your account has been blacklisted: " + req.Reason
	if sevak.BlacklistedUntil != nil {
		body += fmt.Sprintf(" (until %s)", timezone.Format(*sevak.BlacklistedUntil, constant.DateOnlyFormat))
	}

	s.notify(ctx, sevak.ID, notificationModel.TypeSevakBlacklisted, "Account blacklisted", body, req.Reason)

	res.FromModel(sevak)

	return res, nil
}

func (s *serviceImpl) Reinstate(ctx context.Context, id string, req dto.ReinstateRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reinstate")
	defer scope.End()
	defer scope.TraceIfError(err)

	sevak, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !sevak.IsBlacklisted {
		return res, failure.Conflict("sevak is not blacklisted")
	}

	now := timezone.Now()

	if err = s.update(ctx, sevak.ID, req.ToFields(principal.ActorFromContext(ctx), now), shared.FilterEq(userModel.TableName, map[string]any{
		userModel.FieldID:            sevak.ID,
		userModel.FieldIsBlacklisted: true,
	})); err != nil {
		return res, err
	}

	sevak.IsBlacklisted = false
	sevak.BlacklistReason, sevak.BlacklistType = nil, nil
	sevak.BlacklistedAt, sevak.BlacklistedUntil = nil, nil
	sevak.ReinstatedReason, sevak.ReinstatedAt = &req.Reason, &now

	s.notify(ctx, sevak.ID, notificationModel.TypeSevakReinstated, "Account reinstated",
		"You can accept bookings again", req.Reason)

	res.FromModel(sevak)

	return res, nil
}

func (s *serviceImpl) Available(ctx context.Context, req gDto.QueryParams) (res userDto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Available")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.list(ctx, req, model.AvailableFilter(timezone.Now()))
}

func (s *serviceImpl) Blacklisted(ctx context.Context, req gDto.QueryParams) (res userDto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Blacklisted")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.list(ctx, req, model.BlacklistedFilter(timezone.Now()))
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res userDto.GetUsersResponse, err error) {
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count sevaks")

		return res, fmt.Errorf("failed to count sevaks: %w", err)
	}

	models, err := s.userRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get sevaks")

		return res, fmt.Errorf("failed to get sevaks: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (userModel.User, error) {
	sevak, err := s.userRepo.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("sevak_id", id).Msg("failed to get sevak")

		return sevak, fmt.Errorf("failed to get sevak: %w", err)
	}

	if sevak.ID == constant.Empty || sevak.Role != permissions.RoleSevak {
		return sevak, failure.NotFound("sevak not found")
	}

	return sevak, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any, filter gDto.FilterGroup) error {
	affected, err := s.userRepo.UpdateCount(ctx, fields, filter)
	if err != nil {
		log.Error().Err(err).Str("sevak_id", id).Msg("failed to update sevak")

		return fmt.Errorf("failed to update sevak: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("sevak was changed by another request")
	}

	go func() {
		userService.InvalidateCaches(context.WithoutCancel(ctx), s.cache, id)
	}()

	return nil
}

func (s *serviceImpl) notify(ctx context.Context, sevakID string, notificationType notificationModel.Type, title, body, reason string) {
	event := notificationModel.Event{
		RecipientID: sevakID,
		Type:        notificationType,
		Title:       title,
		Body:        body,
		Payload:     notificationModel.Payload{"reason": reason},
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Str("sevak_id", sevakID).Msg("failed to send sevak notification")
	}
}

func (s *serviceImpl) defaultDays() int {
	if s.cfg.Booking.BlacklistDefaultDays > 0 {
		return s.cfg.Booking.BlacklistDefaultDays
	}

	return model.DefaultBlacklistDays
}
