// Package api provides primitives to interact with the WardWatch HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for AlertSeverity.
const (
	AlertSeverityCritical  AlertSeverity = "critical"
	AlertSeverityEmergency AlertSeverity = "emergency"
	AlertSeverityWarning   AlertSeverity = "warning"
)

// Defines values for RoutingStrategy.
const (
	RoutingStrategyAssignedCare RoutingStrategy = "assigned_care"
	RoutingStrategyAvailability RoutingStrategy = "availability"
	RoutingStrategyCritical     RoutingStrategy = "critical"
	RoutingStrategyDepartment   RoutingStrategy = "department"
	RoutingStrategyLoadBalance  RoutingStrategy = "load_balance"
	RoutingStrategySpecialty    RoutingStrategy = "specialty"
)

// Defines values for ShiftType.
const (
	ShiftTypeAfternoon ShiftType = "afternoon"
	ShiftTypeMorning   ShiftType = "morning"
	ShiftTypeNight     ShiftType = "night"
)

// Defines values for SweepKind.
const (
	SweepKindMedications SweepKind = "medications"
	SweepKindRisk        SweepKind = "risk"
	SweepKindVitals      SweepKind = "vitals"
)

// AcknowledgeRequest defines model for AcknowledgeRequest.
type AcknowledgeRequest struct {
	StaffId openapi_types.UUID `json:"staff_id"`
}

// AdministerRequest defines model for AdministerRequest.
type AdministerRequest struct {
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
}

// AlertSeverity defines model for AlertSeverity.
type AlertSeverity string

// CreateMedicationRequest defines model for CreateMedicationRequest.
type CreateMedicationRequest struct {
	Dosage         string              `json:"dosage"`
	EndDate        *openapi_types.Date `json:"end_date,omitempty"`
	Frequency      string              `json:"frequency"`
	Name           string              `json:"name"`
	Notes          *string             `json:"notes,omitempty"`
	PrescribedById *openapi_types.UUID `json:"prescribed_by_id,omitempty"`
	Route          *string             `json:"route,omitempty"`
	StartDate      *openapi_types.Date `json:"start_date,omitempty"`
}

// CreateShiftRequest defines model for CreateShiftRequest.
type CreateShiftRequest struct {
	ActorId    *string            `json:"actor_id,omitempty"`
	Date       openapi_types.Date `json:"date"`
	Department *string            `json:"department,omitempty"`
	ShiftType  ShiftType          `json:"shift_type"`
	StaffId    openapi_types.UUID `json:"staff_id"`
}

// DutyRequest defines model for DutyRequest.
type DutyRequest struct {
	ActorId  *string `json:"actor_id,omitempty"`
	IsOnDuty bool    `json:"is_on_duty"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    string  `json:"code"`
	Details *string `json:"details,omitempty"`
	Message string  `json:"message"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Database string  `json:"database"`
	Error    *string `json:"error,omitempty"`
	Service  *string `json:"service,omitempty"`
	Status   string  `json:"status"`
	Version  *string `json:"version,omitempty"`
}

// MedicationResponse defines model for Medication.
type MedicationResponse struct {
	Active           *bool               `json:"active,omitempty"`
	Dosage           *string             `json:"dosage,omitempty"`
	EndDate          *openapi_types.Date `json:"end_date,omitempty"`
	Frequency        *string             `json:"frequency,omitempty"`
	Id               *openapi_types.UUID `json:"id,omitempty"`
	LastAdministered *time.Time          `json:"last_administered,omitempty"`
	Name             *string             `json:"name,omitempty"`
	NextDue          *time.Time          `json:"next_due,omitempty"`
	Notes            *string             `json:"notes,omitempty"`
	PatientId        *openapi_types.UUID `json:"patient_id,omitempty"`
	Route            *string             `json:"route,omitempty"`
	StartDate        *openapi_types.Date `json:"start_date,omitempty"`
}

// RoutingStrategy defines model for RoutingStrategy.
type RoutingStrategy string

// ShiftActionRequest defines model for ShiftActionRequest.
type ShiftActionRequest struct {
	ActorId *string `json:"actor_id,omitempty"`
}

// ShiftType defines model for ShiftType.
type ShiftType string

// SweepKind defines model for SweepKind.
type SweepKind string

// VitalReadingRequest defines model for VitalReadingRequest.
type VitalReadingRequest struct {
	BloodPressureDiastolic *int                `json:"blood_pressure_diastolic,omitempty"`
	BloodPressureSystolic  *int                `json:"blood_pressure_systolic,omitempty"`
	HeartRate              *float64            `json:"heart_rate,omitempty"`
	OxygenSaturation       *float64            `json:"oxygen_saturation,omitempty"`
	PatientId              openapi_types.UUID  `json:"patient_id"`
	RecordedAt             *time.Time          `json:"recorded_at,omitempty"`
	RecordedById           *openapi_types.UUID `json:"recorded_by_id,omitempty"`
	RespiratoryRate        *int                `json:"respiratory_rate,omitempty"`
	Temperature            *float64            `json:"temperature,omitempty"`
}

// Id defines model for IdPath.
type Id = openapi_types.UUID

// Limit defines model for LimitQuery.
type Limit = int

// ActorId defines model for ActorQuery.
type ActorId = string

// GetApiV1AlertsActiveParams defines parameters for GetApiV1AlertsActive.
type GetApiV1AlertsActiveParams struct {
	StaffId *openapi_types.UUID `form:"staff_id,omitempty" json:"staff_id,omitempty"`
}

// GetApiV1AlertsExportParams defines parameters for GetApiV1AlertsExport.
type GetApiV1AlertsExportParams struct {
	Since   *time.Time `form:"since,omitempty" json:"since,omitempty"`
	Until   *time.Time `form:"until,omitempty" json:"until,omitempty"`
	ActorId *ActorId   `form:"actor_id,omitempty" json:"actor_id,omitempty"`
}

// GetApiV1AlertsHistoryParams defines parameters for GetApiV1AlertsHistory.
type GetApiV1AlertsHistoryParams struct {
	Since *time.Time `form:"since,omitempty" json:"since,omitempty"`
	Limit *int       `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetApiV1AlertsRecentParams defines parameters for GetApiV1AlertsRecent.
type GetApiV1AlertsRecentParams struct {
	Count *int `form:"count,omitempty" json:"count,omitempty"`
}

// GetApiV1AlertsStreamParams defines parameters for GetApiV1AlertsStream.
type GetApiV1AlertsStreamParams struct {
	StaffId openapi_types.UUID `form:"staff_id" json:"staff_id"`
}

// GetApiV1DashboardSummaryParams defines parameters for GetApiV1DashboardSummary.
type GetApiV1DashboardSummaryParams struct {
	Hours *int `form:"hours,omitempty" json:"hours,omitempty"`
}

// GetApiV1PatientsIdAlertsParams defines parameters for GetApiV1PatientsIdAlerts.
type GetApiV1PatientsIdAlertsParams struct {
	Limit *Limit `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetApiV1PatientsIdReportParams defines parameters for GetApiV1PatientsIdReport.
type GetApiV1PatientsIdReportParams struct {
	ActorId *ActorId `form:"actor_id,omitempty" json:"actor_id,omitempty"`
}

// GetApiV1PatientsIdRiskParams defines parameters for GetApiV1PatientsIdRisk.
type GetApiV1PatientsIdRiskParams struct {
	Limit *Limit `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetApiV1PatientsIdRoutePreviewParams defines parameters for GetApiV1PatientsIdRoutePreview.
type GetApiV1PatientsIdRoutePreviewParams struct {
	Strategy RoutingStrategy `form:"strategy" json:"strategy"`
	Severity AlertSeverity   `form:"severity" json:"severity"`
}

// GetApiV1PatientsIdVitalsParams defines parameters for GetApiV1PatientsIdVitals.
type GetApiV1PatientsIdVitalsParams struct {
	Limit *Limit `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetApiV1ReportsParams defines parameters for GetApiV1Reports.
type GetApiV1ReportsParams struct {
	BlobName string `form:"blob_name" json:"blob_name"`
}

// GetApiV1ShiftsParams defines parameters for GetApiV1Shifts.
type GetApiV1ShiftsParams struct {
	Date *openapi_types.Date `form:"date,omitempty" json:"date,omitempty"`
}

// PostApiV1VitalsJSONRequestBody defines body for PostApiV1Vitals for application/json ContentType.
type PostApiV1VitalsJSONRequestBody = VitalReadingRequest

// PostApiV1AlertsIdAcknowledgeJSONRequestBody defines body for PostApiV1AlertsIdAcknowledge for application/json ContentType.
type PostApiV1AlertsIdAcknowledgeJSONRequestBody = AcknowledgeRequest

// PostApiV1MedicationsIdAdministerJSONRequestBody defines body for PostApiV1MedicationsIdAdminister for application/json ContentType.
type PostApiV1MedicationsIdAdministerJSONRequestBody = AdministerRequest

// PostApiV1PatientsIdMedicationsJSONRequestBody defines body for PostApiV1PatientsIdMedications for application/json ContentType.
type PostApiV1PatientsIdMedicationsJSONRequestBody = CreateMedicationRequest

// PutApiV1StaffIdDutyJSONRequestBody defines body for PutApiV1StaffIdDuty for application/json ContentType.
type PutApiV1StaffIdDutyJSONRequestBody = DutyRequest

// PostApiV1ShiftsJSONRequestBody defines body for PostApiV1Shifts for application/json ContentType.
type PostApiV1ShiftsJSONRequestBody = CreateShiftRequest

// PostApiV1ShiftsIdCheckInJSONRequestBody defines body for PostApiV1ShiftsIdCheckIn for application/json ContentType.
type PostApiV1ShiftsIdCheckInJSONRequestBody = ShiftActionRequest

// PostApiV1ShiftsIdCheckOutJSONRequestBody defines body for PostApiV1ShiftsIdCheckOut for application/json ContentType.
type PostApiV1ShiftsIdCheckOutJSONRequestBody = ShiftActionRequest
