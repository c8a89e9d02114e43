package controllers

import (
	"encoding/csv"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/app/services"
	"github.com/liahub/liahub-backend/internal/middleware"
	"github.com/liahub/liahub-backend/internal/pkg/filestorage"
)

// ImportController handles spreadsheet uploads. Uploaded files are archived
// before parsing so a disputed import can be audited later.
type ImportController struct {
	importService *services.ImportService
	fileStorage   filestorage.Storage
	logger        zerolog.Logger
}

// NewImportController creates a new ImportController.
func NewImportController(importService *services.ImportService, fileStorage filestorage.Storage, logger zerolog.Logger) *ImportController {
	return &ImportController{
		importService: importService,
		fileStorage:   fileStorage,
		logger:        logger.With().Str("controller", "import").Logger(),
	}
}

// UploadStudentExcel handles the student roster upload
// @Summary Import student records from a spreadsheet
// @Description Imports a .csv or .xlsx sheet into student records. The first row must be the header row. Import is not transactional; the response reports per-row outcomes with 1-based spreadsheet row numbers.
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet file (.csv or .xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import result"
// @Failure 400 {object} dto.ErrorResponse "Unparseable file"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /dashboard/school/upload-student-excel [post]
func (c *ImportController) UploadStudentExcel(ctx *gin.Context) {
	c.importSheet(ctx, models.RecordTypeStudent)
}

// UploadAllStudentExcel handles the master roster upload
// @Summary Import all-student records from a spreadsheet
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet file (.csv or .xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import result"
// @Router /dashboard/school/upload-all-student-excel [post]
func (c *ImportController) UploadAllStudentExcel(ctx *gin.Context) {
	c.importSheet(ctx, models.RecordTypeAllStudent)
}

// UploadMyStudentExcel handles a manager's own roster upload. Rows without an
// explicit owner are stamped with the uploader's user id.
// @Summary Import my-student records from a spreadsheet
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet file (.csv or .xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import result"
// @Router /dashboard/school/upload-my-student-excel [post]
func (c *ImportController) UploadMyStudentExcel(ctx *gin.Context) {
	c.importSheet(ctx, models.RecordTypeMyStudent)
}

// UploadTeacherExcel handles the teacher roster upload
// @Summary Import teacher records from a spreadsheet
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet file (.csv or .xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import result"
// @Router /dashboard/school/upload-teacher-excel [post]
func (c *ImportController) UploadTeacherExcel(ctx *gin.Context) {
	c.importSheet(ctx, models.RecordTypeTeacher)
}

// UploadLiahubCompanyExcel handles the prospect company upload
// @Summary Import liahub-company records from a spreadsheet
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet file (.csv or .xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import result"
// @Failure 403 {object} dto.ErrorResponse "Only admins may import prospect companies"
// @Router /dashboard/school/upload-liahub-company-excel [post]
func (c *ImportController) UploadLiahubCompanyExcel(ctx *gin.Context) {
	c.importSheet(ctx, models.RecordTypeLiahubCompany)
}

func (c *ImportController) importSheet(ctx *gin.Context, recordType models.RecordType) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A spreadsheet file is required").WithField("file")))
		return
	}

	rows, err := parseSheet(fileHeader)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Could not parse the spreadsheet").WithDetails(err.Error())))
		return
	}

	if c.fileStorage != nil {
		if path, saveErr := c.fileStorage.SaveUpload(fileHeader, "imports"); saveErr != nil {
			c.logger.Warn().Err(saveErr).Str("file", fileHeader.Filename).Msg("Import archive failed")
		} else {
			c.logger.Info().Str("path", path).Msg("Import archived")
		}
	}

	result, err := c.importService.ImportRows(ctx, actor, recordType, rows)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

// parseSheet turns an uploaded .csv or .xlsx file into raw rows. The first
// sheet of a workbook is used; csv parsing tolerates ragged row lengths.
func parseSheet(fileHeader *multipart.FileHeader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".xlsx", ".xlsm":
		return parseWorkbook(fileHeader)
	default:
		return parseCSV(fileHeader)
	}
}

func parseCSV(fileHeader *multipart.FileHeader) ([][]string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func parseWorkbook(fileHeader *multipart.FileHeader) ([][]string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, excelize.ErrSheetNotExist{SheetName: ""}
	}
	return wb.GetRows(sheets[0])
}
