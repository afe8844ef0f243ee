package dto

import (
	"seva/internal/domains/notification/model"
	userModel "seva/internal/domains/user/model"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gModel "seva/shared/model"
)

type NotificationResponse struct {
	ID      string        `json:"id"`
	Type    model.Type    `json:"type"`
	Title   string        `json:"title"`
	Body    string        `json:"body"`
	Payload model.Payload `json:"payload,omitempty"`
	IsRead  bool          `json:"is_read"`
	ReadAt  *string       `json:"read_at,omitempty"`
	gDto.Metadata
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.Type = model.Type
	r.Title = model.Title
	r.Body = model.Body
	r.Payload = model.Payload.Data
	r.IsRead = model.IsRead

	if model.ReadAt != nil {
		readAt := model.ReadAt.Format(constant.DateFormat)
		r.ReadAt = &readAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, unread, limit int) {
	r.TotalData = totalData
	r.UnreadCount = unread
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// SettingsRequest toggles notification types. Unknown types are rejected.
type SettingsRequest struct {
	Settings map[model.Type]bool `json:"settings" validate:"required,min=1,dive,keys,enum,endkeys"`
}

type SettingsResponse struct {
	Settings map[model.Type]bool `json:"settings"`
}

// FromModel lists every known type with its effective state.
func (r *SettingsResponse) FromModel(settings userModel.NotificationSettings) {
	r.Settings = make(map[model.Type]bool, len(model.Types()))

	for _, notificationType := range model.Types() {
		r.Settings[notificationType] = settings.Enabled(string(notificationType))
	}
}

// Merge overlays the request on the stored settings.
func (r *SettingsRequest) Merge(current userModel.NotificationSettings) gModel.JSONB[userModel.NotificationSettings] {
	merged := make(userModel.NotificationSettings, len(current)+len(r.Settings))

	for key, enabled := range current {
		merged[key] = enabled
	}

	for key, enabled := range r.Settings {
		merged[string(key)] = enabled
	}

	return gModel.NewJSONB(merged)
}
