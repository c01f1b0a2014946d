package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// VitalPipeline is the ingestion and analysis surface of service.VitalMonitor
type VitalPipeline interface {
	Ingest(ctx context.Context, reading *model.VitalReading) (*service.IngestResult, error)
	LiveVitals(ctx context.Context) ([]service.LiveVital, error)
	ListVitals(ctx context.Context, patientID string, limit int) ([]model.VitalReading, error)
	AnalyzePatient(ctx context.Context, patientID string) (*service.AnalyzeResult, error)
}

// RiskHistory reads stored risk assessments. *service.RiskPredictor implements it.
type RiskHistory interface {
	History(ctx context.Context, patientID string, limit int) ([]model.RiskAssessment, error)
}

// VitalHandler implements vital sign and risk endpoints
type VitalHandler struct {
	monitor VitalPipeline
	risk    RiskHistory
	logger  *zap.Logger
}

// NewVitalHandler creates a new VitalHandler
func NewVitalHandler(monitor VitalPipeline, risk RiskHistory, logger *zap.Logger) *VitalHandler {
	return &VitalHandler{
		monitor: monitor,
		risk:    risk,
		logger:  logger,
	}
}

// PostApiV1Vitals ingests one reading and returns the alerts it raised
func (h *VitalHandler) PostApiV1Vitals(c *gin.Context) {
	var req api.VitalReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		badRequest(c, "Invalid request body", err)
		return
	}

	reading := &model.VitalReading{
		PatientID:        uuidToString(req.PatientId),
		HeartRate:        req.HeartRate,
		SystolicBP:       req.BloodPressureSystolic,
		DiastolicBP:      req.BloodPressureDiastolic,
		OxygenSaturation: req.OxygenSaturation,
		Temperature:      req.Temperature,
		RespiratoryRate:  req.RespiratoryRate,
		RecordedByID:     uuidPtrToString(req.RecordedById),
	}
	if req.RecordedAt != nil {
		reading.RecordedAt = *req.RecordedAt
	}
	if reading.RecordedByID != nil {
		setActor(c, *reading.RecordedByID)
	}

	result, err := h.monitor.Ingest(c.Request.Context(), reading)
	if err != nil {
		writeError(c, h.logger, err, "Failed to ingest vital reading", zap.String("patient_id", reading.PatientID))
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetApiV1VitalsLive returns the latest reading of every active patient
func (h *VitalHandler) GetApiV1VitalsLive(c *gin.Context) {
	board, err := h.monitor.LiveVitals(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "Failed to load live vitals")
		return
	}

	c.JSON(http.StatusOK, board)
}

// GetApiV1PatientsIdVitals lists the readings of a patient, newest first
func (h *VitalHandler) GetApiV1PatientsIdVitals(c *gin.Context, id types.UUID, params api.GetApiV1PatientsIdVitalsParams) {
	patientID := uuidToString(id)

	readings, err := h.monitor.ListVitals(c.Request.Context(), patientID, valueOr(params.Limit, 0))
	if err != nil {
		writeError(c, h.logger, err, "Failed to list vital readings", zap.String("patient_id", patientID))
		return
	}

	c.JSON(http.StatusOK, readings)
}

// GetApiV1PatientsIdRisk lists stored risk assessments, newest first
func (h *VitalHandler) GetApiV1PatientsIdRisk(c *gin.Context, id types.UUID, params api.GetApiV1PatientsIdRiskParams) {
	patientID := uuidToString(id)

	history, err := h.risk.History(c.Request.Context(), patientID, valueOr(params.Limit, 0))
	if err != nil {
		writeError(c, h.logger, err, "Failed to load risk history", zap.String("patient_id", patientID))
		return
	}
	if history == nil {
		history = []model.RiskAssessment{}
	}

	c.JSON(http.StatusOK, history)
}

// PostApiV1PatientsIdRiskAnalyze runs a risk analysis now
func (h *VitalHandler) PostApiV1PatientsIdRiskAnalyze(c *gin.Context, id types.UUID) {
	patientID := uuidToString(id)

	result, err := h.monitor.AnalyzePatient(c.Request.Context(), patientID)
	if err != nil {
		writeError(c, h.logger, err, "Failed to analyze patient risk", zap.String("patient_id", patientID))
		return
	}

	h.logger.Info("on-demand risk analysis",
		zap.String("patient_id", patientID),
		zap.String("risk_level", string(result.Assessment.RiskLevel)),
		zap.Bool("alerted", result.Alert != nil),
	)
	c.JSON(http.StatusOK, result)
}
