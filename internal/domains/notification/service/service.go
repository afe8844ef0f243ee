package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"seva/config"
	"seva/infras/kafka"
	"seva/infras/otel"
	"seva/internal/domains/notification/model"
	"seva/internal/domains/notification/model/dto"
	"seva/internal/domains/notification/repository"
	userModel "seva/internal/domains/user/model"
	userRepo "seva/internal/domains/user/repository"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	gModel "seva/shared/model"
	"seva/shared/principal"
	"seva/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Notification interface {
	Notify(ctx context.Context, event model.Event) error
	List(ctx context.Context, params gDto.QueryParams, unreadOnly bool) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (dto.MarkAllReadResponse, error)
	GetSettings(ctx context.Context) (dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req dto.SettingsRequest) (dto.SettingsResponse, error)
}

type serviceImpl struct {
	repo     repository.Notification
	userRepo userRepo.User
	kafka    kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Notification, userRepo userRepo.User, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		kafka:    kafka,
		cfg:      cfg,
		otel:     otel,
	}
}

// Notify stores the event for the recipient unless they opted out of its type, then hands it to the broker.
// Broker failures are logged since the stored row is already visible in the inbox.
func (s *serviceImpl) Notify(ctx context.Context, event model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Notify")
	defer scope.End()
	defer scope.TraceIfError(err)

	recipient, err := s.userRepo.Get(
		ctx,
		shared.FilterByID(event.RecipientID, userModel.FieldID, userModel.TableName),
		userModel.FieldID, userModel.FieldNotificationSettings,
	)
	if err != nil {
		log.Error().Err(err).Str("recipient_id", event.RecipientID).Msg("failed to get notification recipient")

		return fmt.Errorf("failed to get notification recipient: %w", err)
	}

	if recipient.ID == constant.Empty {
		return failure.NotFound("notification recipient not found")
	}

	if !recipient.NotificationSettings.Data.Enabled(string(event.Type)) {
		log.Debug().Str("recipient_id", event.RecipientID).Str("type", string(event.Type)).Msg("notification type disabled by recipient")

		return nil
	}

	now := timezone.Now()
	if event.ID == constant.Empty {
		event.ID = uuid.NewString()
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = now
	}

	notification := model.Notification{
		ID:          event.ID,
		RecipientID: event.RecipientID,
		Type:        event.Type,
		Title:       event.Title,
		Body:        event.Body,
		Payload:     gModel.NewJSONB(event.Payload),
		Metadata:    gModel.NewMetadata(now, constant.ContextSystem),
	}

	if err = s.repo.Insert(ctx, notification); err != nil {
		log.Error().Err(err).Msg("failed to create notification")

		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.publish(ctx, event)

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, event model.Event) {
	topic := s.cfg.Kafka.Topics.Notification
	if topic == constant.Empty {
		return
	}

	if err := s.kafka.SendMessages(ctx, topic, kafka.Message{Key: event.RecipientID, Value: event}); err != nil {
		log.Error().Err(err).Str("notification_id", event.ID).Msg("failed to publish notification event")
	}
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, unreadOnly bool) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	unreadFilter := s.inbox(caller.UserID, map[string]any{model.FieldIsRead: false})

	filter := unreadFilter
	if !unreadOnly {
		filter = s.inbox(caller.UserID, nil)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	unread := total
	if !unreadOnly {
		if unread, err = s.repo.Count(ctx, unreadFilter); err != nil {
			log.Error().Err(err).Msg("failed to count unread notifications")

			return res, fmt.Errorf("failed to count unread notifications: %w", err)
		}
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, unread, params.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return failure.Unauthorized("missing authenticated user")
	}

	affected, err := s.repo.UpdateCount(ctx, s.readFields(caller.Actor()), s.inbox(caller.UserID, map[string]any{model.FieldID: id}))
	if err != nil {
		log.Error().Err(err).Msg("failed to mark notification read")

		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("notification not found")
	}

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context) (res dto.MarkAllReadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkAllRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	res.Updated, err = s.repo.UpdateCount(ctx, s.readFields(caller.Actor()), s.inbox(caller.UserID, map[string]any{model.FieldIsRead: false}))
	if err != nil {
		log.Error().Err(err).Msg("failed to mark notifications read")

		return res, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) GetSettings(ctx context.Context) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSettings")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.currentUser(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(user.NotificationSettings.Data)

	return res, nil
}

func (s *serviceImpl) UpdateSettings(ctx context.Context, req dto.SettingsRequest) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateSettings")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.currentUser(ctx)
	if err != nil {
		return res, err
	}

	merged := req.Merge(user.NotificationSettings.Data)

	fields := map[string]any{
		userModel.FieldNotificationSettings: merged,
		constant.FieldModifiedAt:            timezone.Now(),
		constant.FieldModifiedBy:            user.ID,
	}

	if err = s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update notification settings")

		return res, fmt.Errorf("failed to update notification settings: %w", err)
	}

	res.FromModel(merged.Data)

	return res, nil
}

func (s *serviceImpl) currentUser(ctx context.Context) (userModel.User, error) {
	caller, ok := principal.FromContext(ctx)
	if !ok {
		return userModel.User{}, failure.Unauthorized("missing authenticated user")
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(caller.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found")
	}

	return user, nil
}

func (s *serviceImpl) inbox(recipientID string, extra map[string]any) gDto.FilterGroup {
	fields := map[string]any{model.FieldRecipientID: recipientID}
	for key, value := range extra {
		fields[key] = value
	}

	return shared.FilterEq(model.TableName, fields)
}

func (s *serviceImpl) readFields(actor string) map[string]any {
	now := timezone.Now()

	return map[string]any{
		model.FieldIsRead:        true,
		model.FieldReadAt:        now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}
}
