package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"seva/config"
	"seva/infras/otel"
	"seva/infras/s3"
	"seva/internal/domains/catalog/model"
	"seva/internal/domains/catalog/model/dto"
	"seva/internal/domains/catalog/repository"
	"seva/permissions"
	"seva/shared"
	"seva/shared/cache"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/principal"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetService    = "service:get"
	cacheGetAllService = "service:gets"
	cacheCountService  = "service:count"

	imageDirectory = "services"
)

type Catalog interface {
	Create(ctx context.Context, req dto.CreateServiceRequest) (dto.ServiceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetServicesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ServiceResponse, error)
	Update(ctx context.Context, req dto.UpdateServiceRequest, id string) error
}

type serviceImpl struct {
	repo  repository.Service
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Service, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Catalog {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateServiceRequest) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	vendorID := constant.Empty

	switch {
	case caller.Role == permissions.RoleVendor:
		vendorID = caller.UserID
	case caller.IsStaff():
		if req.VendorID != nil {
			vendorID = *req.VendorID
		}
	default:
		return res, failure.ForbiddenError
	}

	imageURL, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return res, err
	}

	service := req.ToModel(caller.Actor(), vendorID, imageURL)

	if err = s.repo.Insert(ctx, service); err != nil {
		log.Error().Err(err).Msg("failed to create service")
		s.discardImage(ctx, imageURL)

		return res, fmt.Errorf("failed to create service: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()

	res.FromModel(service)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllService, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for services")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountService, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetService, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service")

		return res, nil
	}

	service, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	res.FromModel(service)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service to cache")
		}
	}()

	return res, nil
}

// Update changes a listing. Vendors may only touch their own services.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateServiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return failure.Unauthorized("missing authenticated user")
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check service existence")

		return fmt.Errorf("failed to get service: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("service not found")
	}

	if !caller.IsStaff() && !current.OwnedBy(caller.UserID) {
		return failure.ResourceRestrictedError
	}

	imageURL, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, caller.Actor())
	if imageURL != constant.Empty {
		updatedFields[model.FieldImage] = imageURL
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update service")
		s.discardImage(ctx, imageURL)

		return fmt.Errorf("failed to update service: %w", err)
	}

	if imageURL != constant.Empty {
		s.discardImage(ctx, current.Image)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetService, current.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete service cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()

	return nil
}

func (s *serviceImpl) uploadImage(ctx context.Context, image *multipart.FileHeader) (string, error) {
	if image == nil {
		return constant.Empty, nil
	}

	url, err := s.s3.UploadFile(ctx, imageDirectory, uuid.NewString()+path.Ext(image.Filename), image)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload service image")

		return constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) discardImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to delete service image")
	}
}
