package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"seva/shared/constant"
	"seva/shared/dto"
	"seva/shared/model"
)

func TestMetadataFromModel(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "resident-1",
		ModifiedBy: "admin-1",
	})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.NotEqual(t, metadata.CreatedAt, metadata.ModifiedAt)
	assert.Equal(t, "resident-1", metadata.CreatedBy)
	assert.Equal(t, "admin-1", metadata.ModifiedBy)
}

func TestQueryParamsFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		defaults bool
		want     dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "page=2&limit=20&sort_by=scheduled_at&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "scheduled_at", SortDir: dto.SortDirAsc},
		},
		{
			name:     "defaults",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name: "no defaults",
			want: dto.QueryParams{},
		},
		{
			name:     "invalid numbers fall back",
			query:    "page=-1&limit=abc",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "limit is capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:  "unknown sort direction is dropped",
			query: "sort_dir=sideways",
			want:  dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestQueryParamsSanitize(t *testing.T) {
	params := dto.QueryParams{SortBy: "name; DROP TABLE users"}
	params.Sanitize("name", "scheduled_at")

	assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
	assert.Equal(t, constant.DefaultValueSortDir, params.SortDir)

	params = dto.QueryParams{SortBy: "scheduled_at", SortDir: dto.SortDirAsc}
	params.Sanitize("name", "scheduled_at")

	assert.Equal(t, "scheduled_at", params.SortBy)
	assert.Equal(t, dto.SortDirAsc, params.SortDir)
}

func TestQueryParamsOffset(t *testing.T) {
	assert.Equal(t, 0, (&dto.QueryParams{Page: 1, Limit: 10}).Offset())
	assert.Equal(t, 20, (&dto.QueryParams{Page: 3, Limit: 10}).Offset())
	assert.Equal(t, 0, (&dto.QueryParams{Page: 3}).Offset())
}

func TestFilterWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equality",
			filter:    dto.Eq("bookings", "status", "pending"),
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "like escapes wildcards",
			filter:    dto.Filter{Field: "name", Value: "50%_off", Operator: dto.FilterOperatorLike, Table: "services"},
			wantWhere: "LOWER(services.name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": `%50\%\_off%`},
		},
		{
			name:      "in expands slices",
			filter:    dto.In("payments", "status", []string{"created", "failed"}),
			wantWhere: "payments.status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "created", "status_1": "failed"},
		},
		{
			name:      "in binds a scalar",
			filter:    dto.In("payments", "status", "created"),
			wantWhere: "payments.status IN (:status)",
			wantArgs:  map[string]any{"status": "created"},
		},
		{
			name:      "in with empty slice matches nothing",
			filter:    dto.In("payments", "status", []string{}),
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.IsNull("bookings", "sevak_id"),
			wantWhere: "bookings.sevak_id IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "custom argument name",
			filter:    dto.Filter{ArgName: "scheduled_from", Field: "scheduled_at", Value: 1, Operator: dto.FilterOperatorGreaterEq},
			wantWhere: "scheduled_at >= :scheduled_from",
			wantArgs:  map[string]any{"scheduled_from": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroupWhereClause(t *testing.T) {
	group := dto.And(
		dto.Eq("users", "role", "sevak"),
		dto.And(),
		dto.Or(
			dto.Eq("users", "is_blacklisted", false),
			dto.IsNull("users", "blacklisted_until"),
		),
	)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(users.role = :role AND (users.is_blacklisted = :is_blacklisted OR users.blacklisted_until IS NULL))", where)
	assert.Equal(t, map[string]any{"role": "sevak", "is_blacklisted": false}, args)

	empty := dto.FilterGroup{}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)
}
