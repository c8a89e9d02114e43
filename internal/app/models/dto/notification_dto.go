package dto

import (
	"time"

	"github.com/liahub/liahub-backend/internal/app/models"
)

// NotificationResponse is one in-app notification row.
type NotificationResponse struct {
	ID        string     `json:"id"`
	RecordID  string     `json:"recordId"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewNotificationResponse maps a stored notification.
func NewNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		RecordID:  n.RecordID.String(),
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
