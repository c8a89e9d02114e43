package dto

import "github.com/liahub/liahub-backend/internal/app/models"

// RejectAssignmentRequest is the body of the reject transition. A reason is
// mandatory; rejections without one are turned away with 400.
type RejectAssignmentRequest struct {
	Reason string `json:"reason" binding:"required" example:"Capacity full"`
}

// AssignmentResponse reports the assignment state after a transition.
type AssignmentResponse struct {
	RecordID         string                  `json:"recordId"`
	Placement        string                  `json:"placement"`
	Status           models.AssignmentStatus `json:"status"`
	DecisionAt       string                  `json:"decisionAt,omitempty"`
	DecisionByName   string                  `json:"decisionByName,omitempty"`
	DecisionReason   string                  `json:"decisionReason,omitempty"`
	Verified         bool                    `json:"verified"`
	AlreadyConfirmed bool                    `json:"alreadyConfirmed,omitempty"`
}
