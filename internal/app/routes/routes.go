package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/liahub/liahub-backend/internal/app/controllers"
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	recordController *controllers.RecordController,
	importController *controllers.ImportController,
	assignmentController *controllers.AssignmentController,
	dashboardController *controllers.DashboardController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// School dashboard - staff read view plus record management
		school := authenticated.Group("/dashboard/school")
		school.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleEducationManager, models.RoleTeacher))
		{
			school.GET("", dashboardController.GetSchoolDashboard)

			records := school.Group("/records")
			{
				records.GET("", recordController.ListRecords)
				records.GET("/:id", recordController.GetRecord)

				// Write access is re-checked per record type in the service;
				// teachers are read-only and stopped here.
				recordsWriteProtected := records.Group("")
				recordsWriteProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleEducationManager))
				{
					recordsWriteProtected.POST("", recordController.CreateRecord)
					recordsWriteProtected.PUT("/:id", recordController.UpdateRecord)
					recordsWriteProtected.DELETE("/:id", recordController.DeleteRecord)
				}
			}

			// Spreadsheet uploads, one endpoint per record type. Per-type
			// write permission is re-checked in the service.
			uploads := school.Group("")
			uploads.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleEducationManager))
			{
				uploads.POST("/upload-student-excel", importController.UploadStudentExcel)
				uploads.POST("/upload-all-student-excel", importController.UploadAllStudentExcel)
				uploads.POST("/upload-my-student-excel", importController.UploadMyStudentExcel)
				uploads.POST("/upload-teacher-excel", importController.UploadTeacherExcel)
				uploads.POST("/upload-liahub-company-excel", importController.UploadLiahubCompanyExcel)
			}
		}

		// Student dashboard - students and company accounts
		student := authenticated.Group("/dashboard/student")
		student.Use(authMiddleware.RoleRequired(models.RoleStudent, models.RoleCompany))
		{
			student.GET("", dashboardController.GetStudentDashboard)
		}

		// Assignment decisions - company accounts only
		assignments := authenticated.Group("/dashboard/company/assignments")
		assignments.Use(authMiddleware.RoleRequired(models.RoleCompany))
		{
			assignments.POST("/:id/confirm", assignmentController.ConfirmAssignment)
			assignments.POST("/:id/reject", assignmentController.RejectAssignment)
		}

		// In-app notifications - any authenticated user
		notifications := authenticated.Group("/dashboard/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.POST("/:id/read", notificationController.MarkNotificationRead)
		}
	}
}
