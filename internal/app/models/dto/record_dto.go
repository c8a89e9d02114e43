package dto

import (
	"time"

	"github.com/liahub/liahub-backend/internal/app/models"
)

// CreateRecordRequest is the body of POST /dashboard/school/records.
// Data carries the loosely-typed field map; the sanitizer decides which
// keys are legal for the given type.
type CreateRecordRequest struct {
	Type   models.RecordType `json:"type" binding:"required" example:"student"`
	Status string            `json:"status" example:"active"`
	Data   map[string]string `json:"data" binding:"required"`
}

// UpdateRecordRequest is the body of PUT /dashboard/school/records/:id.
type UpdateRecordRequest struct {
	Status string            `json:"status" example:"active"`
	Data   map[string]string `json:"data" binding:"required"`
}

// RecordResponse is the stored record as returned to the dashboard.
type RecordResponse struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organizationId"`
	Type           models.RecordType `json:"type"`
	Status         string            `json:"status"`
	Data           models.RecordData `json:"data"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// NewRecordResponse maps a stored record into the response shape.
func NewRecordResponse(rec *models.SchoolRecord) RecordResponse {
	return RecordResponse{
		ID:             rec.ID.String(),
		OrganizationID: rec.OrganizationID.String(),
		Type:           rec.Type,
		Status:         rec.Status,
		Data:           rec.Data,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}
