package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/internal/domains/payment/model"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/logger"
	gRepo "seva/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateCountTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	SumByStatus(ctx context.Context) (map[model.Status]Summary, error)
}

type Invoice interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Invoice) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Invoice, error)
}

// Summary is the number and value of payments in one status.
type Summary struct {
	Count  int     `db:"count"`
	Amount float64 `db:"amount"`
}

type paymentRepository struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

type invoiceRepository struct {
	gRepo.Repository[model.Invoice]
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &paymentRepository{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func NewInvoice(db *postgres.Connection, otel otel.Otel) Invoice {
	return &invoiceRepository{
		Repository: gRepo.NewRepository[model.Invoice](model.InvoiceEntityName, model.InvoiceTableName, model.FieldInvoiceID, db, otel),
	}
}

type statusSummary struct {
	Status model.Status `db:"status"`
	Summary
}

func (repo *paymentRepository) SumByStatus(ctx context.Context) (map[model.Status]Summary, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.SumByStatus")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s, COUNT(*) AS count, COALESCE(SUM(%s), 0) AS amount FROM %s GROUP BY %s",
		model.FieldStatus, model.FieldAmount, model.TableName, model.FieldStatus)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []statusSummary
	if err := repo.db.Read.SelectContext(ctx, &rows, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to sum payments by status: %w", err)
	}

	sums := make(map[model.Status]Summary, len(model.Statuses()))
	for _, status := range model.Statuses() {
		sums[status] = Summary{}
	}

	for _, row := range rows {
		sums[row.Status] = row.Summary
	}

	return sums, nil
}
