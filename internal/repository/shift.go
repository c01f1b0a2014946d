package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// ErrShiftNotOpen is returned when checking in to a shift that was already
// checked in, or checking in or out of a closed shift
var ErrShiftNotOpen = errors.New("shift is not open for this action")

// ShiftRepository manages staff shifts
type ShiftRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewShiftRepository creates a new ShiftRepository
func NewShiftRepository(db *pgxpool.Pool, logger *zap.Logger) *ShiftRepository {
	return &ShiftRepository{
		db:     db,
		logger: logger,
	}
}

const shiftColumns = `
	id, staff_id, shift_type, department, start_time, end_time,
	checked_in_at, checked_out_at, is_active, created_at`

func scanShift(row pgx.Row) (*model.Shift, error) {
	var s model.Shift
	err := row.Scan(
		&s.ID,
		&s.StaffID,
		&s.ShiftType,
		&s.Department,
		&s.StartTime,
		&s.EndTime,
		&s.CheckedInAt,
		&s.CheckedOutAt,
		&s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new shift
func (r *ShiftRepository) Create(ctx context.Context, s *model.Shift) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO shifts (id, staff_id, shift_type, department, start_time, end_time, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, NOW())
		RETURNING is_active, created_at
	`

	err := r.db.QueryRow(ctx, query,
		s.ID,
		s.StaffID,
		string(s.ShiftType),
		s.Department,
		s.StartTime,
		s.EndTime,
	).Scan(&s.IsActive, &s.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create shift",
			zap.Error(err),
			zap.String("staff_id", s.StaffID),
		)
		return fmt.Errorf("failed to create shift: %w", err)
	}

	return nil
}

// GetByID retrieves a shift by id
func (r *ShiftRepository) GetByID(ctx context.Context, shiftID string) (*model.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	s, err := scanShift(r.db.QueryRow(ctx, query, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("shift %s: %w", shiftID, ErrNotFound)
		}
		r.logger.Error("failed to get shift", zap.Error(err), zap.String("shift_id", shiftID))
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// ListStartingBetween returns the shifts starting in [from, to), earliest first
func (r *ShiftRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]model.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error("failed to list shifts", zap.Error(err))
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []model.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			r.logger.Error("failed to scan shift", zap.Error(err))
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// CheckIn stamps the check-in time of an open shift and puts its staff
// member on duty in the same transaction
func (r *ShiftRepository) CheckIn(ctx context.Context, shiftID string, at time.Time) (*model.Shift, error) {
	query := `
		UPDATE shifts
		SET checked_in_at = $2
		WHERE id = $1 AND is_active = true AND checked_in_at IS NULL
		RETURNING ` + shiftColumns

	return r.transition(ctx, "check in", query, shiftID, at, true)
}

// CheckOut closes an active shift and takes its staff member off duty in
// the same transaction
func (r *ShiftRepository) CheckOut(ctx context.Context, shiftID string, at time.Time) (*model.Shift, error) {
	query := `
		UPDATE shifts
		SET checked_out_at = $2, is_active = false
		WHERE id = $1 AND is_active = true
		RETURNING ` + shiftColumns

	return r.transition(ctx, "check out", query, shiftID, at, false)
}

func (r *ShiftRepository) transition(ctx context.Context, action, query, shiftID string, at time.Time, onDuty bool) (*model.Shift, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	s, err := scanShift(tx.QueryRow(ctx, query, shiftID, at))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("failed to update shift",
				zap.Error(err),
				zap.String("shift_id", shiftID),
				zap.String("action", action),
			)
			return nil, fmt.Errorf("failed to %s: %w", action, err)
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shifts WHERE id = $1)`, shiftID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to look up shift: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("shift %s: %w", shiftID, ErrNotFound)
		}
		return nil, fmt.Errorf("cannot %s shift %s: %w", action, shiftID, ErrShiftNotOpen)
	}

	_, err = tx.Exec(ctx,
		`UPDATE staff_members SET is_on_duty = $2, updated_at = NOW() WHERE id = $1`,
		s.StaffID, onDuty,
	)
	if err != nil {
		r.logger.Error("failed to update duty status",
			zap.Error(err),
			zap.String("staff_id", s.StaffID),
		)
		return nil, fmt.Errorf("failed to update duty status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s, nil
}
