package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// MedicationManager is the medication surface of service.MedicationService
type MedicationManager interface {
	AddMedication(ctx context.Context, patientID string, med *model.Medication) error
	ListMedications(ctx context.Context, patientID string) ([]model.Medication, error)
	Administer(ctx context.Context, medicationID string, at time.Time) (*model.Medication, error)
}

// MedicationHandler implements medication API endpoints
type MedicationHandler struct {
	service MedicationManager
	logger  *zap.Logger
}

// NewMedicationHandler creates a new MedicationHandler
func NewMedicationHandler(service MedicationManager, logger *zap.Logger) *MedicationHandler {
	return &MedicationHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1PatientsIdMedications prescribes a medication to a patient
func (h *MedicationHandler) PostApiV1PatientsIdMedications(c *gin.Context, id types.UUID) {
	var req api.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		badRequest(c, "Invalid request body", err)
		return
	}

	patientID := uuidToString(id)

	medication := &model.Medication{
		Name:           req.Name,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Route:          req.Route,
		PrescribedByID: uuidPtrToString(req.PrescribedById),
		Notes:          req.Notes,
	}
	if req.StartDate != nil {
		medication.StartDate = dateToTime(*req.StartDate)
	}
	if req.EndDate != nil {
		endDate := dateToTime(*req.EndDate)
		medication.EndDate = &endDate
	}

	if err := h.service.AddMedication(c.Request.Context(), patientID, medication); err != nil {
		writeError(c, h.logger, err, "Failed to add medication", zap.String("patient_id", patientID))
		return
	}

	c.JSON(http.StatusCreated, toMedicationResponse(medication))
}

// GetApiV1PatientsIdMedications lists the medications of a patient
func (h *MedicationHandler) GetApiV1PatientsIdMedications(c *gin.Context, id types.UUID) {
	patientID := uuidToString(id)

	medications, err := h.service.ListMedications(c.Request.Context(), patientID)
	if err != nil {
		writeError(c, h.logger, err, "Failed to list medications", zap.String("patient_id", patientID))
		return
	}

	response := make([]api.MedicationResponse, len(medications))
	for i := range medications {
		response[i] = toMedicationResponse(&medications[i])
	}

	c.JSON(http.StatusOK, response)
}

// PostApiV1MedicationsIdAdminister records a dose. The body is optional;
// the dose is recorded now when administered_at is missing.
func (h *MedicationHandler) PostApiV1MedicationsIdAdminister(c *gin.Context, id types.UUID) {
	var req api.AdministerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("invalid request body", zap.Error(err))
		badRequest(c, "Invalid request body", err)
		return
	}

	medicationID := uuidToString(id)
	at := valueOr(req.AdministeredAt, time.Time{})

	medication, err := h.service.Administer(c.Request.Context(), medicationID, at)
	if err != nil {
		writeError(c, h.logger, err, "Failed to record administration", zap.String("medication_id", medicationID))
		return
	}

	c.JSON(http.StatusOK, toMedicationResponse(medication))
}

func toMedicationResponse(m *model.Medication) api.MedicationResponse {
	return api.MedicationResponse{
		Id:               stringToUUID(m.ID),
		PatientId:        stringToUUID(m.PatientID),
		Name:             stringPtr(m.Name),
		Dosage:           stringPtr(m.Dosage),
		Frequency:        stringPtr(m.Frequency),
		Route:            m.Route,
		StartDate:        timeToDate(m.StartDate),
		EndDate:          timePtrToDate(m.EndDate),
		LastAdministered: m.LastAdministered,
		NextDue:          m.NextDue,
		Notes:            m.Notes,
		Active:           boolPtr(m.Active),
	}
}
