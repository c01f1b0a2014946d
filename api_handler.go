package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/wardwatch/wardwatch/apps/backend/internal/handler"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"go.uber.org/zap"
)

const (
	serviceName    = "wardwatch-backend"
	serviceVersion = "1.0.0"
)

// APIHandler implements the generated ServerInterface by delegating to individual handlers
type APIHandler struct {
	alerts     *handler.AlertHandler
	vitals     *handler.VitalHandler
	medication *handler.MedicationHandler
	report     *handler.ReportHandler
	dashboard  *handler.DashboardHandler
	sweeps     *handler.SweepHandler
	shifts     *handler.ShiftHandler
	pool       *pgxpool.Pool
	logger     *zap.Logger
}

var _ api.ServerInterface = (*APIHandler)(nil)

// Alert endpoints
func (h *APIHandler) GetApiV1AlertsActive(c *gin.Context, params api.GetApiV1AlertsActiveParams) {
	h.alerts.GetApiV1AlertsActive(c, params)
}

func (h *APIHandler) GetApiV1AlertsFeed(c *gin.Context) {
	h.alerts.GetApiV1AlertsFeed(c)
}

func (h *APIHandler) GetApiV1AlertsRecent(c *gin.Context, params api.GetApiV1AlertsRecentParams) {
	h.alerts.GetApiV1AlertsRecent(c, params)
}

func (h *APIHandler) GetApiV1AlertsStream(c *gin.Context, params api.GetApiV1AlertsStreamParams) {
	h.alerts.GetApiV1AlertsStream(c, params)
}

func (h *APIHandler) GetApiV1AlertsHistory(c *gin.Context, params api.GetApiV1AlertsHistoryParams) {
	h.alerts.GetApiV1AlertsHistory(c, params)
}

func (h *APIHandler) GetApiV1AlertsId(c *gin.Context, id openapi_types.UUID) {
	h.alerts.GetApiV1AlertsId(c, id)
}

func (h *APIHandler) PostApiV1AlertsIdAcknowledge(c *gin.Context, id openapi_types.UUID) {
	h.alerts.PostApiV1AlertsIdAcknowledge(c, id)
}

func (h *APIHandler) GetApiV1AlertsIdTrail(c *gin.Context, id openapi_types.UUID) {
	h.alerts.GetApiV1AlertsIdTrail(c, id)
}

func (h *APIHandler) GetApiV1PatientsIdAlerts(c *gin.Context, id openapi_types.UUID, params api.GetApiV1PatientsIdAlertsParams) {
	h.alerts.GetApiV1PatientsIdAlerts(c, id, params)
}

func (h *APIHandler) GetApiV1PatientsIdRoutePreview(c *gin.Context, id openapi_types.UUID, params api.GetApiV1PatientsIdRoutePreviewParams) {
	h.alerts.GetApiV1PatientsIdRoutePreview(c, id, params)
}

func (h *APIHandler) PutApiV1StaffIdDuty(c *gin.Context, id openapi_types.UUID) {
	h.alerts.PutApiV1StaffIdDuty(c, id)
}

// Shift endpoints
func (h *APIHandler) GetApiV1Shifts(c *gin.Context, params api.GetApiV1ShiftsParams) {
	h.shifts.GetApiV1Shifts(c, params)
}

func (h *APIHandler) PostApiV1Shifts(c *gin.Context) {
	h.shifts.PostApiV1Shifts(c)
}

func (h *APIHandler) PostApiV1ShiftsIdCheckIn(c *gin.Context, id openapi_types.UUID) {
	h.shifts.PostApiV1ShiftsIdCheckIn(c, id)
}

func (h *APIHandler) PostApiV1ShiftsIdCheckOut(c *gin.Context, id openapi_types.UUID) {
	h.shifts.PostApiV1ShiftsIdCheckOut(c, id)
}

// Vital sign and risk endpoints
func (h *APIHandler) PostApiV1Vitals(c *gin.Context) {
	h.vitals.PostApiV1Vitals(c)
}

func (h *APIHandler) GetApiV1VitalsLive(c *gin.Context) {
	h.vitals.GetApiV1VitalsLive(c)
}

func (h *APIHandler) GetApiV1PatientsIdVitals(c *gin.Context, id openapi_types.UUID, params api.GetApiV1PatientsIdVitalsParams) {
	h.vitals.GetApiV1PatientsIdVitals(c, id, params)
}

func (h *APIHandler) GetApiV1PatientsIdRisk(c *gin.Context, id openapi_types.UUID, params api.GetApiV1PatientsIdRiskParams) {
	h.vitals.GetApiV1PatientsIdRisk(c, id, params)
}

func (h *APIHandler) PostApiV1PatientsIdRiskAnalyze(c *gin.Context, id openapi_types.UUID) {
	h.vitals.PostApiV1PatientsIdRiskAnalyze(c, id)
}

// Medication endpoints
func (h *APIHandler) GetApiV1PatientsIdMedications(c *gin.Context, id openapi_types.UUID) {
	h.medication.GetApiV1PatientsIdMedications(c, id)
}

func (h *APIHandler) PostApiV1PatientsIdMedications(c *gin.Context, id openapi_types.UUID) {
	h.medication.PostApiV1PatientsIdMedications(c, id)
}

func (h *APIHandler) PostApiV1MedicationsIdAdminister(c *gin.Context, id openapi_types.UUID) {
	h.medication.PostApiV1MedicationsIdAdminister(c, id)
}

// Report endpoints
func (h *APIHandler) GetApiV1PatientsIdReport(c *gin.Context, id openapi_types.UUID, params api.GetApiV1PatientsIdReportParams) {
	h.report.GetApiV1PatientsIdReport(c, id, params)
}

func (h *APIHandler) GetApiV1AlertsExport(c *gin.Context, params api.GetApiV1AlertsExportParams) {
	h.report.GetApiV1AlertsExport(c, params)
}

func (h *APIHandler) GetApiV1Reports(c *gin.Context, params api.GetApiV1ReportsParams) {
	h.report.GetApiV1Reports(c, params)
}

// Dashboard endpoints
func (h *APIHandler) GetApiV1DashboardSummary(c *gin.Context, params api.GetApiV1DashboardSummaryParams) {
	h.dashboard.GetApiV1DashboardSummary(c, params)
}

// Sweep endpoints
func (h *APIHandler) PostApiV1SweepsKind(c *gin.Context, kind api.SweepKind) {
	h.sweeps.PostApiV1SweepsKind(c, kind)
}

// GetHealth implements the health check endpoint
func (h *APIHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	// Check database connectivity
	if err := h.pool.Ping(ctx); err != nil {
		h.logger.Error("health check failed: database unreachable", zap.Error(err))
		message := err.Error()
		c.JSON(http.StatusServiceUnavailable, api.HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    &message,
		})
		return
	}

	service, version := serviceName, serviceVersion
	c.JSON(http.StatusOK, api.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Service:  &service,
		Version:  &version,
	})
}
