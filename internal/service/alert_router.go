package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// StaffDirectory looks up staff members for routing
type StaffDirectory interface {
	GetByID(ctx context.Context, staffID string) (*model.StaffMember, error)
	ListEligible(ctx context.Context, filter repository.StaffFilter) ([]model.StaffMember, error)
}

// PatientDirectory looks up patients
type PatientDirectory interface {
	GetByID(ctx context.Context, patientID string) (*model.Patient, error)
}

// AlertAssignments reads alerts and tracks who they were routed to
type AlertAssignments interface {
	GetByID(ctx context.Context, alertID string) (*model.Alert, error)
	RecordRecipients(ctx context.Context, alertID string, strategy model.RoutingStrategy, staffIDs []string) error
	CountUnacknowledgedAssigned(ctx context.Context, staffIDs []string) (map[string]int, error)
}

// specialtyRoute maps diagnosis keywords to a specialization. Entries are
// evaluated in order and the first one with eligible doctors wins.
type specialtyRoute struct {
	keywords       []string
	specialization string
}

var specialtyRoutes = []specialtyRoute{
	{keywords: []string{"heart", "cardiac", "infarction"}, specialization: "Cardiology"},
	{keywords: []string{"neuro", "stroke", "brain"}, specialization: "Neurology"},
	{keywords: []string{"kidney", "renal"}, specialization: "Nephrology"},
	{keywords: []string{"cancer", "tumor"}, specialization: "Oncology"},
	{keywords: []string{"fracture", "bone"}, specialization: "Orthopedics"},
}

// backupNurses is the number of extra on-duty nurses pulled into assigned-care routing
const backupNurses = 2

// AlertRouter selects which on-duty staff receive an alert
type AlertRouter struct {
	staff    StaffDirectory
	patients PatientDirectory
	alerts   AlertAssignments
	logger   *zap.Logger
}

// NewAlertRouter creates a new AlertRouter
func NewAlertRouter(staff StaffDirectory, patients PatientDirectory, alerts AlertAssignments, logger *zap.Logger) *AlertRouter {
	return &AlertRouter{
		staff:    staff,
		patients: patients,
		alerts:   alerts,
		logger:   logger,
	}
}

// StrategyFor returns the strategy the critical routing policy uses for a severity
func StrategyFor(severity model.AlertSeverity) model.RoutingStrategy {
	if severity == model.AlertSeverityCritical {
		return model.RoutingAvailability
	}
	return model.RoutingLoadBalance
}

// Route applies the critical routing policy: critical alerts are broadcast,
// everything else is load balanced.
func (r *AlertRouter) Route(ctx context.Context, patient *model.Patient, severity model.AlertSeverity) ([]model.StaffMember, error) {
	if StrategyFor(severity) == model.RoutingAvailability {
		return r.RouteByAvailability(ctx)
	}
	return r.RouteByLoadBalance(ctx)
}

// RouteWith routes using an explicitly selected strategy
func (r *AlertRouter) RouteWith(ctx context.Context, strategy model.RoutingStrategy, patient *model.Patient, severity model.AlertSeverity) ([]model.StaffMember, error) {
	switch strategy {
	case model.RoutingAvailability:
		return r.RouteByAvailability(ctx)
	case model.RoutingDepartment:
		return r.RouteByDepartment(ctx, patient)
	case model.RoutingSpecialty:
		return r.RouteBySpecialty(ctx, patient)
	case model.RoutingLoadBalance:
		return r.RouteByLoadBalance(ctx)
	case model.RoutingCritical:
		return r.Route(ctx, patient, severity)
	case model.RoutingAssignedCare:
		return r.assignedCare(ctx, patient), nil
	default:
		return nil, invalid("strategy", "unknown routing strategy %q", strategy)
	}
}

// RouteByAvailability broadcasts to every eligible doctor, then every eligible nurse
func (r *AlertRouter) RouteByAvailability(ctx context.Context) ([]model.StaffMember, error) {
	doctors, err := r.listEligible(ctx, repository.StaffFilter{Roles: []model.StaffRole{model.StaffRoleDoctor}})
	if err != nil {
		return nil, err
	}
	nurses, err := r.listEligible(ctx, repository.StaffFilter{Roles: []model.StaffRole{model.StaffRoleNurse}})
	if err != nil {
		return nil, err
	}

	return append(doctors, nurses...), nil
}

// RouteByDepartment targets eligible doctors and nurses of the assigned
// doctor's department and falls back to broadcast.
func (r *AlertRouter) RouteByDepartment(ctx context.Context, patient *model.Patient) ([]model.StaffMember, error) {
	department := r.assignedDepartment(ctx, patient)
	if department == "" {
		return r.RouteByAvailability(ctx)
	}

	staff, err := r.listEligible(ctx, repository.StaffFilter{
		Roles:      []model.StaffRole{model.StaffRoleDoctor, model.StaffRoleNurse},
		Department: department,
	})
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return r.RouteByAvailability(ctx)
	}

	return staff, nil
}

// RouteBySpecialty matches the diagnosis against the specialty table and
// targets eligible doctors of the first matching specialization.
func (r *AlertRouter) RouteBySpecialty(ctx context.Context, patient *model.Patient) ([]model.StaffMember, error) {
	if patient == nil || patient.Diagnosis == nil || strings.TrimSpace(*patient.Diagnosis) == "" {
		return r.RouteByAvailability(ctx)
	}

	diagnosis := strings.ToLower(*patient.Diagnosis)
	for _, route := range specialtyRoutes {
		if !matchesAny(diagnosis, route.keywords) {
			continue
		}

		doctors, err := r.listEligible(ctx, repository.StaffFilter{
			Roles:          []model.StaffRole{model.StaffRoleDoctor},
			Specialization: route.specialization,
		})
		if err != nil {
			return nil, err
		}
		if len(doctors) > 0 {
			return doctors, nil
		}
	}

	return r.RouteByAvailability(ctx)
}

// RouteByLoadBalance keeps the least loaded half (rounded up, at least one)
// of the broadcast set. Ties keep broadcast order.
func (r *AlertRouter) RouteByLoadBalance(ctx context.Context) ([]model.StaffMember, error) {
	staff, err := r.RouteByAvailability(ctx)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return staff, nil
	}

	ids := make([]string, len(staff))
	for i, s := range staff {
		ids[i] = s.ID
	}

	counts, err := r.alerts.CountUnacknowledgedAssigned(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count assigned alerts: %w", err)
	}

	sort.SliceStable(staff, func(i, j int) bool {
		return counts[staff[i].ID] < counts[staff[j].ID]
	})

	keep := (len(staff) + 1) / 2
	if keep < 1 {
		keep = 1
	}
	return staff[:keep], nil
}

// Distribute is the assigned-care fan-out used for threshold alerts: the
// assigned doctor and nurse when eligible, plus up to two backup nurses.
// Lookup failures yield an empty list.
func (r *AlertRouter) Distribute(ctx context.Context, patientID, alertID string, severity model.AlertSeverity) []model.StaffMember {
	patient, err := r.patients.GetByID(ctx, patientID)
	if err != nil {
		r.logger.Warn("distribute: patient lookup failed", zap.Error(err), zap.String("patient_id", patientID))
		return []model.StaffMember{}
	}
	if _, err := r.alerts.GetByID(ctx, alertID); err != nil {
		r.logger.Warn("distribute: alert lookup failed", zap.Error(err), zap.String("alert_id", alertID))
		return []model.StaffMember{}
	}

	recipients := r.assignedCare(ctx, patient)
	r.Record(ctx, alertID, model.RoutingAssignedCare, recipients)

	r.logger.Debug("alert distributed",
		zap.String("alert_id", alertID),
		zap.String("patient_id", patientID),
		zap.String("severity", string(severity)),
		zap.Int("recipients", len(recipients)),
	)

	return recipients
}

// Record stores the recipients of a routed alert. Failures are logged only.
func (r *AlertRouter) Record(ctx context.Context, alertID string, strategy model.RoutingStrategy, recipients []model.StaffMember) {
	metrics.ObserveRouting(string(strategy), len(recipients))
	if len(recipients) == 0 {
		return
	}

	ids := make([]string, len(recipients))
	for i, s := range recipients {
		ids[i] = s.ID
	}
	if err := r.alerts.RecordRecipients(ctx, alertID, strategy, ids); err != nil {
		r.logger.Warn("failed to record alert recipients", zap.Error(err), zap.String("alert_id", alertID))
	}
}

func (r *AlertRouter) assignedCare(ctx context.Context, patient *model.Patient) []model.StaffMember {
	recipients := []model.StaffMember{}
	if patient == nil {
		return recipients
	}
	seen := make(map[string]bool)
	add := func(s model.StaffMember) {
		if seen[s.ID] {
			return
		}
		seen[s.ID] = true
		recipients = append(recipients, s)
	}

	if s := r.eligibleByID(ctx, patient.AssignedDoctorID); s != nil {
		add(*s)
	}
	if s := r.eligibleByID(ctx, patient.AssignedNurseID); s != nil {
		add(*s)
	}

	filter := repository.StaffFilter{Roles: []model.StaffRole{model.StaffRoleNurse}}
	if patient.AssignedNurseID != nil {
		filter.ExcludeIDs = []string{*patient.AssignedNurseID}
	}
	nurses, err := r.listEligible(ctx, filter)
	if err != nil {
		r.logger.Warn("failed to list backup nurses", zap.Error(err), zap.String("patient_id", patient.ID))
		return recipients
	}

	added := 0
	for _, nurse := range nurses {
		if added == backupNurses {
			break
		}
		if seen[nurse.ID] || (patient.AssignedNurseID != nil && nurse.ID == *patient.AssignedNurseID) {
			continue
		}
		add(nurse)
		added++
	}

	return recipients
}

func (r *AlertRouter) eligibleByID(ctx context.Context, staffID *string) *model.StaffMember {
	if staffID == nil || *staffID == "" {
		return nil
	}
	s, err := r.staff.GetByID(ctx, *staffID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.logger.Warn("staff lookup failed", zap.Error(err), zap.String("staff_id", *staffID))
		}
		return nil
	}
	if !s.Eligible() {
		return nil
	}
	return s
}

func (r *AlertRouter) assignedDepartment(ctx context.Context, patient *model.Patient) string {
	if patient == nil || patient.AssignedDoctorID == nil {
		return ""
	}
	doctor, err := r.staff.GetByID(ctx, *patient.AssignedDoctorID)
	if err != nil {
		r.logger.Warn("assigned doctor lookup failed", zap.Error(err), zap.String("patient_id", patient.ID))
		return ""
	}
	if doctor.Department == nil {
		return ""
	}
	return *doctor.Department
}

func (r *AlertRouter) listEligible(ctx context.Context, filter repository.StaffFilter) ([]model.StaffMember, error) {
	staff, err := r.staff.ListEligible(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible staff: %w", err)
	}

	eligible := make([]model.StaffMember, 0, len(staff))
	for _, s := range staff {
		if s.Eligible() {
			eligible = append(eligible, s)
		}
	}
	return eligible, nil
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
