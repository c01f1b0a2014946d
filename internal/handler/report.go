package handler

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/wardwatch/wardwatch/apps/backend/internal/azure"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"go.uber.org/zap"
)

// ReportGenerator renders and fetches documents. *service.ReportService implements it.
type ReportGenerator interface {
	PatientReport(ctx context.Context, patientID, actorID string, origin service.Origin) (*service.Report, error)
	AlertExport(ctx context.Context, since, until time.Time, actorID string, origin service.Origin) (*service.Report, error)
	Download(ctx context.Context, blobName string) ([]byte, error)
}

// ReportHandler implements report API endpoints
type ReportHandler struct {
	service ReportGenerator
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ReportGenerator, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiV1PatientsIdReport renders the risk report of a patient
func (h *ReportHandler) GetApiV1PatientsIdReport(c *gin.Context, id types.UUID, params api.GetApiV1PatientsIdReportParams) {
	patientID := uuidToString(id)
	actorID := valueOr(params.ActorId, "")
	setActor(c, actorID)

	report, err := h.service.PatientReport(c.Request.Context(), patientID, actorID, origin(c))
	if err != nil {
		writeError(c, h.logger, err, "Failed to generate report", zap.String("patient_id", patientID))
		return
	}

	h.attach(c, report)
}

// GetApiV1AlertsExport renders the alert history of a window as a spreadsheet
func (h *ReportHandler) GetApiV1AlertsExport(c *gin.Context, params api.GetApiV1AlertsExportParams) {
	actorID := valueOr(params.ActorId, "")
	setActor(c, actorID)

	report, err := h.service.AlertExport(c.Request.Context(),
		valueOr(params.Since, time.Time{}), valueOr(params.Until, time.Time{}), actorID, origin(c))
	if err != nil {
		writeError(c, h.logger, err, "Failed to export alerts")
		return
	}

	h.attach(c, report)
}

// GetApiV1Reports downloads a previously stored document
func (h *ReportHandler) GetApiV1Reports(c *gin.Context, params api.GetApiV1ReportsParams) {
	data, err := h.service.Download(c.Request.Context(), params.BlobName)
	if err != nil {
		writeError(c, h.logger, err, "Report not found", zap.String("blob_name", params.BlobName))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", path.Base(params.BlobName)))
	c.Data(http.StatusOK, contentTypeFor(params.BlobName), data)

	h.logger.Info("report downloaded",
		zap.String("blob_name", params.BlobName),
		zap.Int("size_bytes", len(data)),
	)
}

func (h *ReportHandler) attach(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename))
	c.Header("X-Report-ID", report.ID)
	if report.BlobName != "" {
		c.Header("X-Blob-Name", report.BlobName)
	}
	c.Data(http.StatusOK, report.ContentType, report.Data)
}

func contentTypeFor(blobName string) string {
	switch path.Ext(blobName) {
	case ".pdf":
		return azure.ContentTypePDF
	case ".xlsx":
		return azure.ContentTypeXLSX
	default:
		return "application/octet-stream"
	}
}
