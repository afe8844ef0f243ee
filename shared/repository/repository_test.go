package repository_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seva/infras/otel/mocks"
	"seva/infras/postgres"
	"seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/repository"
)

type Audit struct {
	CreatedBy string `db:"created_by"`
}

type widget struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Audit
}

func newRepo(t *testing.T) (repository.Repository[widget], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.NewRepository[widget]("widget", "widgets", "id", &postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestInsert(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO widgets (id, name, created_by) VALUES ($1, $2, $3)")).
		WithArgs("w-1", "Mop", "admin-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), widget{ID: "w-1", Name: "Mop", Audit: Audit{CreatedBy: "admin-1"}})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMapsConstraintViolations(t *testing.T) {
	tests := []struct {
		name     string
		pqCode   pq.ErrorCode
		wantCode int
	}{
		{name: "unique", pqCode: "23505", wantCode: http.StatusConflict},
		{name: "foreign key", pqCode: "23503", wantCode: http.StatusBadRequest},
		{name: "other", pqCode: "57014", wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)

			mock.ExpectExec("INSERT INTO widgets").WillReturnError(&pq.Error{Code: tt.pqCode})

			err := repo.Insert(context.Background(), widget{ID: "w-1"})

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestGetReturnsZeroValueWhenMissing(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT widgets.id, widgets.name, widgets.created_by FROM widgets WHERE (widgets.id = $1)")).
		ExpectQuery().
		WithArgs("w-404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by"}))

	got, err := repo.Get(context.Background(), dto.And(dto.Eq("widgets", "id", "w-404")))

	require.NoError(t, err)
	assert.Equal(t, widget{}, got)
}

func TestGetAllPaginates(t *testing.T) {
	repo, mock := newRepo(t)

	query := "SELECT widgets.id, widgets.name FROM widgets WHERE (widgets.name = $1) ORDER BY widgets.created_at DESC LIMIT $2 OFFSET $3"

	mock.ExpectPrepare(regexp.QuoteMeta(query)).
		ExpectQuery().
		WithArgs("Mop", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("w-11", "Mop"))

	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "created_at", SortDir: "DESC"}

	got, err := repo.GetAll(context.Background(), params, dto.And(dto.Eq("widgets", "name", "Mop")), "id", "name")

	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "w-11", Name: "Mop"}}, got)
}

func TestUpdateCountReportsAffectedRows(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE widgets SET name = $1 WHERE (widgets.id = $2 AND widgets.name = $3)")).
		WithArgs("Broom", "w-1", "Mop").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateCount(context.Background(),
		map[string]any{"name": "Broom"},
		dto.And(dto.Eq("widgets", "id", "w-1"), dto.Eq("widgets", "name", "Mop")),
	)

	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUpdateRequiresFilter(t *testing.T) {
	repo, _ := newRepo(t)

	assert.Error(t, repo.Update(context.Background(), map[string]any{"name": "Broom"}, dto.FilterGroup{}))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	errAbort := errors.New("abort")

	err := repo.WithTx(context.Background(), func(*sqlx.Tx) error { return errAbort })

	require.ErrorIs(t, err, errAbort)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommits(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO widgets").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		return repo.InsertTx(context.Background(), tx, widget{ID: "w-2"})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
