package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies in-app notifications.
type NotificationKind string

const (
	NotificationKindAssignment NotificationKind = "assignment"
	NotificationKindDecision   NotificationKind = "decision"
)

// Notification is an in-app notification row. Delivery is best-effort; a
// failed insert is logged and never blocks the record write that caused it.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	RecordID  uuid.UUID        `json:"recordId"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Contract is the minimal view of the contracts subsystem this service
// needs: enough to cascade-delete on company removal.
type Contract struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	SignedAt       *time.Time `json:"signedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
