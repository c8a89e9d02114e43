package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/app/services"
	"github.com/liahub/liahub-backend/internal/middleware"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

// AssignmentController handles the company-side assignment decisions.
type AssignmentController struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController.
func NewAssignmentController(assignmentService *services.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// ConfirmAssignment handles the confirm transition
// @Summary Confirm a student assignment
// @Description Confirms a pending placement assigned to the calling company. Re-confirming an already confirmed assignment succeeds without changes.
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student record ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment confirmed"
// @Failure 403 {object} dto.ErrorResponse "Assignment belongs to another company"
// @Failure 404 {object} dto.ErrorResponse "No pending assignment"
// @Failure 409 {object} dto.ErrorResponse "Assignment already rejected"
// @Router /dashboard/company/assignments/{id}/confirm [post]
func (c *AssignmentController) ConfirmAssignment(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record id")))
		return
	}

	resp, err := c.assignmentService.Confirm(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// RejectAssignment handles the reject transition
// @Summary Reject a student assignment
// @Description Rejects a pending placement assigned to the calling company. A non-empty reason is mandatory.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student record ID"
// @Param request body dto.RejectAssignmentRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment rejected"
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 403 {object} dto.ErrorResponse "Assignment belongs to another company"
// @Failure 409 {object} dto.ErrorResponse "Assignment already confirmed"
// @Router /dashboard/company/assignments/{id}/reject [post]
func (c *AssignmentController) RejectAssignment(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record id")))
		return
	}

	var req dto.RejectAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrDecisionReasonRequired)
		return
	}

	resp, err := c.assignmentService.Reject(ctx, actor, id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}
