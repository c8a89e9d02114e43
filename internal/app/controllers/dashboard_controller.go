package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/app/services"
	"github.com/liahub/liahub-backend/internal/middleware"
)

// DashboardController serves the aggregated read views.
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController creates a new DashboardController.
func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GetSchoolDashboard handles the staff view
// @Summary Get the school dashboard
// @Description Returns every record table for the caller's school. Education managers with configured programmes get a programme-scoped view.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SchoolDashboard} "School dashboard"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /dashboard/school [get]
func (c *DashboardController) GetSchoolDashboard(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	view, err := c.dashboardService.SchoolDashboard(ctx, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: view, Timestamp: time.Now()})
}

// GetStudentDashboard handles the student/company view
// @Summary Get the student dashboard
// @Description Companies see the students placed with them plus their own profile; students see their own record row.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentDashboard} "Student dashboard"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /dashboard/student [get]
func (c *DashboardController) GetStudentDashboard(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	view, err := c.dashboardService.StudentDashboard(ctx, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: view, Timestamp: time.Now()})
}
