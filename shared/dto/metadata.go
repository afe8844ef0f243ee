package dto

import (
	"seva/shared/constant"
	"seva/shared/model"
	"seva/shared/timezone"
)

// Metadata is the audit trail rendered in the application time zone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedAt string `json:"modified_at"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func NewMetadata(src model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(src.CreatedAt, constant.DateFormat),
		CreatedBy:  src.CreatedBy,
		ModifiedAt: timezone.Format(src.ModifiedAt, constant.DateFormat),
		ModifiedBy: src.ModifiedBy,
	}
}

func (m *Metadata) FromModel(src model.Metadata) {
	*m = NewMetadata(src)
}
