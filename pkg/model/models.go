package model

import (
	"fmt"
	"time"
)

// StaffRole represents the role of a staff member
type StaffRole string

const (
	StaffRoleAdmin  StaffRole = "admin"
	StaffRoleDoctor StaffRole = "doctor"
	StaffRoleNurse  StaffRole = "nurse"
)

// StaffMember represents a hospital staff member
type StaffMember struct {
	ID             string    `json:"id"`
	StaffCode      string    `json:"staff_code"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Role           StaffRole `json:"role"`
	Department     *string   `json:"department,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
	DeviceToken    *string   `json:"-"`
	IsOnDuty       bool      `json:"is_on_duty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName returns the display name of the staff member
func (s StaffMember) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}

// Eligible reports whether the staff member may receive routed alerts.
func (s StaffMember) Eligible() bool {
	return s.IsActive && s.IsOnDuty
}

// PatientStatus represents the clinical status of a patient
type PatientStatus string

const (
	PatientStatusAdmitted   PatientStatus = "admitted"
	PatientStatusICU        PatientStatus = "icu"
	PatientStatusEmergency  PatientStatus = "emergency"
	PatientStatusDischarged PatientStatus = "discharged"
)

// ActivePatientStatuses are the statuses covered by monitoring sweeps
var ActivePatientStatuses = []PatientStatus{
	PatientStatusAdmitted,
	PatientStatusICU,
	PatientStatusEmergency,
}

// Patient represents an admitted or former patient
type Patient struct {
	ID               string        `json:"id"`
	PatientCode      string        `json:"patient_code"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	DateOfBirth      time.Time     `json:"date_of_birth"`
	Gender           string        `json:"gender"`
	RoomNumber       *string       `json:"room_number,omitempty"`
	BedNumber        *string       `json:"bed_number,omitempty"`
	Status           PatientStatus `json:"status"`
	Diagnosis        *string       `json:"diagnosis,omitempty"`
	AssignedDoctorID *string       `json:"assigned_doctor_id,omitempty"`
	AssignedNurseID  *string       `json:"assigned_nurse_id,omitempty"`
	AdmissionDate    time.Time     `json:"admission_date"`
	DischargeDate    *time.Time    `json:"discharge_date,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// FullName returns the display name of the patient
func (p Patient) FullName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

// Room returns the room number or an empty string
func (p Patient) Room() string {
	if p.RoomNumber == nil {
		return ""
	}
	return *p.RoomNumber
}

// Bed returns the bed number or an empty string
func (p Patient) Bed() string {
	if p.BedNumber == nil {
		return ""
	}
	return *p.BedNumber
}

// Location formats the room and bed for alert messages, e.g. "Room 101, Bed A."
func (p Patient) Location() string {
	return fmt.Sprintf("Room %s, Bed %s.", p.Room(), p.Bed())
}

// IsActive reports whether the patient is covered by monitoring sweeps
func (p Patient) IsActive() bool {
	for _, s := range ActivePatientStatuses {
		if p.Status == s {
			return true
		}
	}
	return false
}

// VitalStatus is the derived status tag of a vital reading
type VitalStatus string

const (
	VitalStatusNormal   VitalStatus = "normal"
	VitalStatusWarning  VitalStatus = "warning"
	VitalStatusCritical VitalStatus = "critical"
)

// VitalReading represents one set of vital-sign measurements. Readings are
// immutable once stored.
type VitalReading struct {
	ID               string      `json:"id"`
	PatientID        string      `json:"patient_id"`
	HeartRate        *float64    `json:"heart_rate,omitempty"`
	SystolicBP       *int        `json:"blood_pressure_systolic,omitempty"`
	DiastolicBP      *int        `json:"blood_pressure_diastolic,omitempty"`
	OxygenSaturation *float64    `json:"oxygen_saturation,omitempty"`
	Temperature      *float64    `json:"temperature,omitempty"`
	RespiratoryRate  *int        `json:"respiratory_rate,omitempty"`
	Status           VitalStatus `json:"status"`
	RecordedAt       time.Time   `json:"recorded_at"`
	RecordedByID     *string     `json:"recorded_by_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// AlertSeverity represents the severity of an alert
type AlertSeverity string

const (
	AlertSeverityWarning   AlertSeverity = "warning"
	AlertSeverityCritical  AlertSeverity = "critical"
	AlertSeverityEmergency AlertSeverity = "emergency"
)

// Rank orders severities for sorting; higher is more severe.
func (s AlertSeverity) Rank() int {
	switch s {
	case AlertSeverityEmergency:
		return 3
	case AlertSeverityCritical:
		return 2
	case AlertSeverityWarning:
		return 1
	default:
		return 0
	}
}

// Alert types produced by the pipeline
const (
	AlertTypeCriticalVitals    = "critical_vitals"
	AlertTypePredictiveWarning = "predictive_warning"
	AlertTypeMedicationDue     = "medication_due"
)

// Alert represents an alert raised for a patient. At most one unacknowledged
// alert exists per (patient, alert type).
type Alert struct {
	ID               string        `json:"id"`
	PatientID        string        `json:"patient_id"`
	VitalReadingID   *string       `json:"vital_reading_id,omitempty"`
	AlertType        string        `json:"alert_type"`
	Severity         AlertSeverity `json:"severity"`
	Title            string        `json:"title"`
	Message          string        `json:"message"`
	IsAcknowledged   bool          `json:"is_acknowledged"`
	AcknowledgedByID *string       `json:"acknowledged_by_id,omitempty"`
	AcknowledgedAt   *time.Time    `json:"acknowledged_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// RoutingStrategy names the strategy used to pick alert recipients
type RoutingStrategy string

const (
	RoutingAvailability RoutingStrategy = "availability"
	RoutingDepartment   RoutingStrategy = "department"
	RoutingSpecialty    RoutingStrategy = "specialty"
	RoutingLoadBalance  RoutingStrategy = "load_balance"
	RoutingCritical     RoutingStrategy = "critical"
	RoutingAssignedCare RoutingStrategy = "assigned_care"
)

// AlertNotification is one routed delivery of an alert to a staff member
type AlertNotification struct {
	AlertID     string          `json:"alert_id"`
	StaffID     string          `json:"staff_id"`
	StaffName   string          `json:"staff_name"`
	PatientID   string          `json:"patient_id"`
	PatientName string          `json:"patient_name"`
	Room        string          `json:"room"`
	Bed         string          `json:"bed"`
	Type        string          `json:"type"`
	Severity    AlertSeverity   `json:"severity"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	RoutingPath []string        `json:"routing_path"`
	Strategy    RoutingStrategy `json:"strategy"`
	Timestamp   time.Time       `json:"timestamp"`
}

// RiskLevel represents the composite risk level of a patient
type RiskLevel string

const (
	RiskLevelUnknown  RiskLevel = "unknown"
	RiskLevelStable   RiskLevel = "stable"
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Trend classifies the short-term direction of a vital channel
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendUnstable   Trend = "unstable"
	TrendAbnormal   Trend = "abnormal"
)

// RiskFactor is one named contribution to a risk score
type RiskFactor struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Trend    Trend  `json:"trend"`
}

// RiskAssessment is the result of one risk analysis. It is never mutated
// after creation; a fresh analysis supersedes it.
type RiskAssessment struct {
	ID                string       `json:"id"`
	PatientID         string       `json:"patient_id"`
	RiskLevel         RiskLevel    `json:"risk_level"`
	RiskScore         int          `json:"risk_score"`
	RiskFactors       []RiskFactor `json:"risk_factors"`
	Predictions       []string     `json:"predictions"`
	Message           string       `json:"message,omitempty"`
	VitalCount        int          `json:"vital_count"`
	EarlyWarningScore *int         `json:"early_warning_score,omitempty"`
	AssessedAt        time.Time    `json:"assessed_at"`
}

// Medication represents a medication prescribed to a patient
type Medication struct {
	ID               string     `json:"id"`
	PatientID        string     `json:"patient_id"`
	Name             string     `json:"name"`
	Dosage           string     `json:"dosage"`
	Frequency        string     `json:"frequency"`
	Route            *string    `json:"route,omitempty"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	LastAdministered *time.Time `json:"last_administered,omitempty"`
	NextDue          *time.Time `json:"next_due,omitempty"`
	PrescribedByID   *string    `json:"prescribed_by_id,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ShiftType names one of the fixed ward shifts
type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftNight     ShiftType = "night"
)

// Shift is a scheduled shift of a staff member. Checking in puts the staff
// member on duty and checking out takes them off duty.
type Shift struct {
	ID           string     `json:"id"`
	StaffID      string     `json:"staff_id"`
	ShiftType    ShiftType  `json:"shift_type"`
	Department   *string    `json:"department,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}
