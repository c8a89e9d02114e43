package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/app/services"
	"github.com/liahub/liahub-backend/internal/middleware"
)

// RecordController handles school record CRUD operations.
type RecordController struct {
	recordService *services.RecordService
}

// NewRecordController creates a new RecordController.
func NewRecordController(recordService *services.RecordService) *RecordController {
	return &RecordController{recordService: recordService}
}

// CreateRecord handles creating a single school record
// @Summary Create a school record
// @Description Creates one record of the given type. The data map is sanitized per type; student placements seed the assignment block.
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRecordRequest true "Record payload"
// @Success 201 {object} dto.APIResponse{data=dto.RecordResponse} "Record created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /dashboard/school/records [post]
func (c *RecordController) CreateRecord(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.CreateRecordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body").WithDetails(err.Error())))
		return
	}

	rec, err := c.recordService.CreateRecord(ctx, actor, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewRecordResponse(rec), Timestamp: time.Now()})
}

// GetRecord handles retrieving one record
// @Summary Get a school record
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.RecordResponse} "Record"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /dashboard/school/records/{id} [get]
func (c *RecordController) GetRecord(ctx *gin.Context) {
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

	rec, err := c.recordService.GetRecord(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewRecordResponse(rec), Timestamp: time.Now()})
}

// ListRecords handles listing the organization's records
// @Summary List school records
// @Description Lists the caller's organization records, optionally filtered by type.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param type query string false "Record type filter" Enums(student, all_student, my_student, teacher, education_manager, admin, company, lead_company, liahub_company)
// @Success 200 {object} dto.APIResponse{data=[]dto.RecordResponse} "Records"
// @Router /dashboard/school/records [get]
func (c *RecordController) ListRecords(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	recs, err := c.recordService.ListRecords(ctx, actor, models.RecordType(ctx.Query("type")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	responses := make([]dto.RecordResponse, 0, len(recs))
	for _, rec := range recs {
		responses = append(responses, dto.NewRecordResponse(rec))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}

// UpdateRecord handles updating one record
// @Summary Update a school record
// @Description Merges the data map over the stored payload. Present-but-empty keys clear fields; changing a student placement purges the assignment block.
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param request body dto.UpdateRecordRequest true "Fields to merge"
// @Success 200 {object} dto.APIResponse{data=dto.RecordResponse} "Updated record"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /dashboard/school/records/{id} [put]
func (c *RecordController) UpdateRecord(ctx *gin.Context) {
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

	var req dto.UpdateRecordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body").WithDetails(err.Error())))
		return
	}

	rec, err := c.recordService.UpdateRecord(ctx, actor, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewRecordResponse(rec), Timestamp: time.Now()})
}

// DeleteRecord handles deleting one record
// @Summary Delete a school record
// @Description Deletes a record. Company and lead_company records cascade to the matching organization, its users and its contracts.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Record deleted"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /dashboard/school/records/{id} [delete]
func (c *RecordController) DeleteRecord(ctx *gin.Context) {
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

	if err := c.recordService.DeleteRecord(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Record deleted"}, Timestamp: time.Now()})
}
