package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wardwatch/wardwatch/apps/backend/internal/audit"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// ShiftStore persists shifts. CheckIn and CheckOut also update the duty
// status of the shift's staff member.
type ShiftStore interface {
	Create(ctx context.Context, s *model.Shift) error
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]model.Shift, error)
	CheckIn(ctx context.Context, shiftID string, at time.Time) (*model.Shift, error)
	CheckOut(ctx context.Context, shiftID string, at time.Time) (*model.Shift, error)
}

// shiftHours holds the start and end hour of each shift. A night shift ends
// on the following day.
var shiftHours = map[model.ShiftType][2]int{
	model.ShiftMorning:   {7, 15},
	model.ShiftAfternoon: {15, 23},
	model.ShiftNight:     {23, 7},
}

// ShiftWindow returns the start and end of a shift on the given day in loc
func ShiftWindow(shiftType model.ShiftType, day time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	hours, ok := shiftHours[shiftType]
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	y, m, d := day.Date()
	start := time.Date(y, m, d, hours[0], 0, 0, 0, loc)
	end := time.Date(y, m, d, hours[1], 0, 0, 0, loc)
	if hours[1] <= hours[0] {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

// ShiftService schedules shifts and drives duty status through check-in and
// check-out
type ShiftService struct {
	shifts ShiftStore
	staff  StaffRoster
	audit  AuditTrail
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewShiftService creates a new ShiftService. auditTrail may be nil; shift
// hours are interpreted in loc, or the local zone when loc is nil.
func NewShiftService(shifts ShiftStore, staff StaffRoster, auditTrail AuditTrail, loc *time.Location, logger *zap.Logger) *ShiftService {
	if loc == nil {
		loc = time.Local
	}
	return &ShiftService{
		shifts: shifts,
		staff:  staff,
		audit:  auditTrail,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// Schedule creates a shift for a staff member on the given day. The
// department defaults to the staff member's own.
func (s *ShiftService) Schedule(ctx context.Context, staffID string, shiftType model.ShiftType, day time.Time, department *string, actorID string, origin Origin) (*model.Shift, error) {
	if _, err := uuid.Parse(staffID); err != nil {
		return nil, fmt.Errorf("%w: staff id %q", ErrInvalidID, staffID)
	}
	start, end, ok := ShiftWindow(shiftType, day, s.loc)
	if !ok {
		return nil, invalid("shift_type", "unknown shift type %q", shiftType)
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff member: %w", err)
	}
	if !staff.IsActive {
		return nil, invalid("staff_id", "staff member %s is not active", staffID)
	}
	if department == nil || *department == "" {
		department = staff.Department
	}

	shift := &model.Shift{
		StaffID:    staffID,
		ShiftType:  shiftType,
		Department: department,
		StartTime:  start,
		EndTime:    end,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to schedule shift: %w", err)
	}

	s.record(ctx, actorID, audit.OperationCreate, shift, origin)

	s.logger.Info("shift scheduled",
		zap.String("shift_id", shift.ID),
		zap.String("staff_id", staffID),
		zap.String("shift_type", string(shiftType)),
		zap.Time("start", start),
	)
	return shift, nil
}

// ListForDay returns the shifts starting on the given day, earliest first
func (s *ShiftService) ListForDay(ctx context.Context, day time.Time) ([]model.Shift, error) {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)

	shifts, err := s.shifts.ListStartingBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// Today returns the current day in the shift zone
func (s *ShiftService) Today() time.Time {
	return s.now().In(s.loc)
}

// CheckIn starts a shift and puts its staff member on duty. Checking in
// twice fails with repository.ErrShiftNotOpen.
func (s *ShiftService) CheckIn(ctx context.Context, shiftID, actorID string, origin Origin) (*model.Shift, error) {
	if _, err := uuid.Parse(shiftID); err != nil {
		return nil, fmt.Errorf("%w: shift id %q", ErrInvalidID, shiftID)
	}

	shift, err := s.shifts.CheckIn(ctx, shiftID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to check in: %w", err)
	}

	s.record(ctx, actorID, audit.OperationUpdate, shift, origin)
	s.logger.Info("shift checked in",
		zap.String("shift_id", shiftID),
		zap.String("staff_id", shift.StaffID),
	)
	return shift, nil
}

// CheckOut closes a shift and takes its staff member off duty
func (s *ShiftService) CheckOut(ctx context.Context, shiftID, actorID string, origin Origin) (*model.Shift, error) {
	if _, err := uuid.Parse(shiftID); err != nil {
		return nil, fmt.Errorf("%w: shift id %q", ErrInvalidID, shiftID)
	}

	shift, err := s.shifts.CheckOut(ctx, shiftID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to check out: %w", err)
	}

	s.record(ctx, actorID, audit.OperationUpdate, shift, origin)
	s.logger.Info("shift checked out",
		zap.String("shift_id", shiftID),
		zap.String("staff_id", shift.StaffID),
	)
	return shift, nil
}

// record audits a shift change. The acting staff member defaults to the
// shift owner.
func (s *ShiftService) record(ctx context.Context, actorID string, op audit.OperationType, shift *model.Shift, origin Origin) {
	if s.audit == nil {
		return
	}
	if actorID == "" {
		actorID = shift.StaffID
	}

	data := map[string]interface{}{
		"staff_id":   shift.StaffID,
		"shift_type": string(shift.ShiftType),
		"is_active":  shift.IsActive,
	}
	if shift.CheckedInAt != nil {
		data["checked_in_at"] = shift.CheckedInAt.UTC().Format(time.RFC3339)
	}
	if shift.CheckedOutAt != nil {
		data["checked_out_at"] = shift.CheckedOutAt.UTC().Format(time.RFC3339)
	}

	err := s.audit.Log(ctx, audit.AuditLog{
		ActorID:        actorID,
		OperationType:  op,
		ResourceType:   audit.ResourceShift,
		ResourceID:     shift.ID,
		IPAddress:      origin.IPAddress,
		UserAgent:      origin.UserAgent,
		AdditionalData: data,
	})
	if err != nil {
		s.logger.Warn("failed to write audit entry",
			zap.Error(err),
			zap.String("resource_id", shift.ID),
		)
	}
}
