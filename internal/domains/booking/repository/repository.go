package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/internal/domains/booking/model"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/logger"
	gRepo "seva/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateCountTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	CountByStatus(ctx context.Context) (map[model.Status]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type statusCount struct {
	Status model.Status `db:"status"`
	Total  int          `db:"total"`
}

func (repo *repositoryImpl) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountByStatus")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s, COUNT(*) AS total FROM %s GROUP BY %s", model.FieldStatus, model.TableName, model.FieldStatus)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []statusCount
	if err := repo.db.Read.SelectContext(ctx, &rows, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts := make(map[model.Status]int, len(model.Statuses()))
	for _, status := range model.Statuses() {
		counts[status] = 0
	}

	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}
