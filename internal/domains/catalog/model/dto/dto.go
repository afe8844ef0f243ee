package dto

import (
	"mime/multipart"
	"seva/internal/domains/catalog/model"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gModel "seva/shared/model"
	"seva/shared/timezone"

	"github.com/google/uuid"
)

type CreateServiceRequest struct {
	VendorID        *string               `json:"vendor_id,omitempty" validate:"omitempty,uuid"`
	Name            string                `json:"name"                validate:"required,max=100"`
	Category        string                `json:"category"            validate:"required,max=50"`
	Description     string                `json:"description"         validate:"omitempty,max=1000"`
	BasePrice       float64               `json:"base_price"          validate:"required,gt=0"`
	DurationMinutes int                   `json:"duration_minutes"    validate:"omitempty,min=0"`
	Image           *multipart.FileHeader `json:"-"                   validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	IsActive        *bool                 `json:"is_active"`
}

func (c *CreateServiceRequest) ToModel(actor, vendorID, imageURL string) model.Service {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	var vendor *string
	if vendorID != "" {
		vendor = &vendorID
	}

	return model.Service{
		ID:              uuid.NewString(),
		VendorID:        vendor,
		Name:            c.Name,
		Category:        c.Category,
		Description:     c.Description,
		BasePrice:       c.BasePrice,
		DurationMinutes: c.DurationMinutes,
		Image:           imageURL,
		IsActive:        active,
		Metadata:        gModel.NewMetadata(timezone.Now(), actor),
	}
}

type UpdateServiceRequest struct {
	Name            string                `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Category        string                `db:"category"         json:"category"         validate:"omitempty,max=50"`
	Description     string                `db:"description"      json:"description"      validate:"omitempty,max=1000"`
	BasePrice       *float64              `db:"base_price"       json:"base_price"       validate:"omitempty,gt=0"`
	DurationMinutes *int                  `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,min=0"`
	Image           *multipart.FileHeader `json:"-"              validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	IsActive        *bool                 `db:"is_active"        json:"is_active"`
}

type ServiceResponse struct {
	ID              string  `json:"id"`
	VendorID        *string `json:"vendor_id,omitempty"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	BasePrice       float64 `json:"base_price"`
	DurationMinutes int     `json:"duration_minutes"`
	Image           string  `json:"image,omitempty"`
	IsActive        bool    `json:"is_active"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.VendorID = model.VendorID
	r.Name = model.Name
	r.Category = model.Category
	r.Description = model.Description
	r.BasePrice = model.BasePrice
	r.DurationMinutes = model.DurationMinutes
	r.Image = model.Image
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}

// Filter narrows the catalog listing. Empty fields are ignored.
type Filter struct {
	Category string `validate:"omitempty,max=50"`
	Search   string `validate:"omitempty,max=100"`
	VendorID string `validate:"omitempty,uuid"`
	IsActive *bool
}

func (f *Filter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Category != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldCategory, Value: f.Category, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	if f.VendorID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldVendorID, Value: f.VendorID, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	if f.IsActive != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldIsActive, Value: *f.IsActive, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	if f.Search != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldName, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName,
		})
	}

	return group
}
