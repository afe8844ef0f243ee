package dto

import (
	"seva/internal/domains/user/model"
	"seva/permissions"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gModel "seva/shared/model"
	"seva/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string  `json:"email"               validate:"required,email"`
	Password string  `json:"password"            validate:"required,min=8"`
	Role     string  `json:"role"                validate:"required,oneof=resident sevak vendor admin finance superadmin"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,e164"`
	Verified bool    `json:"is_verified"`
}

func (r *CreateUserRequest) ToModel(actor, hashedPassword string) model.User {
	return model.User{
		ID:         uuid.NewString(),
		Email:      r.Email,
		Password:   hashedPassword,
		Role:       permissions.Role(r.Role),
		FullName:   r.FullName,
		Phone:      r.Phone,
		IsActive:   true,
		IsVerified: r.Verified,
		Metadata:   gModel.NewMetadata(timezone.Now(), actor),
	}
}

// UpdateUserRequest is the staff side update. Only non-nil fields change.
type UpdateUserRequest struct {
	FullName   *string `json:"full_name,omitempty"   validate:"omitempty,min=2,max=100"`
	Phone      *string `json:"phone,omitempty"       validate:"omitempty,e164"`
	IsActive   *bool   `json:"is_active,omitempty"`
	IsVerified *bool   `json:"is_verified,omitempty"`
}

func (r *UpdateUserRequest) IsEmpty() bool {
	return r.FullName == nil && r.Phone == nil && r.IsActive == nil && r.IsVerified == nil
}

func (r *UpdateUserRequest) ToFields(actor string) map[string]any {
	fields := map[string]any{}

	if r.FullName != nil {
		fields[model.FieldFullName] = *r.FullName
	}

	if r.Phone != nil {
		fields[model.FieldPhone] = *r.Phone
	}

	if r.IsActive != nil {
		fields[model.FieldIsActive] = *r.IsActive
	}

	if r.IsVerified != nil {
		fields[model.FieldIsVerified] = *r.IsVerified
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actor

	return fields
}

type UpdateProfileRequest struct {
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `db:"phone"     json:"phone,omitempty"     validate:"omitempty,e164"`
}

type UserResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	FullName         *string `json:"full_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	IsActive         bool    `json:"is_active"`
	IsVerified       bool    `json:"is_verified"`
	IsBlacklisted    bool    `json:"is_blacklisted"`
	BlacklistReason  *string `json:"blacklist_reason,omitempty"`
	BlacklistType    *string `json:"blacklist_type,omitempty"`
	BlacklistedUntil *string `json:"blacklisted_until,omitempty"`
	LastLogin        *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Role = string(model.Role)
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.IsActive = model.IsActive
	r.IsVerified = model.IsVerified
	r.IsBlacklisted = model.IsBlacklisted
	r.BlacklistReason = model.BlacklistReason
	r.BlacklistedUntil = formatTime(model.BlacklistedUntil)
	r.LastLogin = formatTime(model.LastLogin)

	if model.BlacklistType != nil {
		blacklistType := string(*model.BlacklistType)
		r.BlacklistType = &blacklistType
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}

	formatted := timezone.Format(*value, constant.DateFormat)

	return &formatted
}

// Filter narrows the staff user listing. Empty fields are ignored.
type Filter struct {
	Role     string `validate:"omitempty,oneof=resident sevak vendor admin finance superadmin"`
	Search   string `validate:"omitempty,max=100"`
	IsActive *bool
}

func (f *Filter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Role != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldRole, Value: f.Role, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	if f.IsActive != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldIsActive, Value: *f.IsActive, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	if f.Search != constant.Empty {
		group.Filters = append(group.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_email", Field: model.FieldEmail, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_name", Field: model.FieldFullName, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
		})
	}

	return group
}
