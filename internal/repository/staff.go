package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// StaffRepository manages staff members
type StaffRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db *pgxpool.Pool, logger *zap.Logger) *StaffRepository {
	return &StaffRepository{
		db:     db,
		logger: logger,
	}
}

// StaffFilter narrows an eligible-staff query. Empty fields do not filter.
type StaffFilter struct {
	Roles          []model.StaffRole
	Department     string
	Specialization string
	ExcludeIDs     []string
}

const staffColumns = `
	id, staff_code, first_name, last_name, email, role,
	department, specialization, device_token,
	is_on_duty, is_active, created_at, updated_at`

func scanStaff(row pgx.Row) (*model.StaffMember, error) {
	var s model.StaffMember
	err := row.Scan(
		&s.ID,
		&s.StaffCode,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.Role,
		&s.Department,
		&s.Specialization,
		&s.DeviceToken,
		&s.IsOnDuty,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new staff member, assigning an id when missing
func (r *StaffRepository) Create(ctx context.Context, s *model.StaffMember) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO staff_members (
			id, staff_code, first_name, last_name, email, role,
			department, specialization, device_token, is_on_duty, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		s.ID,
		s.StaffCode,
		s.FirstName,
		s.LastName,
		s.Email,
		string(s.Role),
		s.Department,
		s.Specialization,
		s.DeviceToken,
		s.IsOnDuty,
		s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create staff member", zap.Error(err), zap.String("staff_code", s.StaffCode))
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	return nil
}

// GetByID retrieves a staff member by id
func (r *StaffRepository) GetByID(ctx context.Context, staffID string) (*model.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE id = $1`

	s, err := scanStaff(r.db.QueryRow(ctx, query, staffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("staff member %s: %w", staffID, ErrNotFound)
		}
		r.logger.Error("failed to get staff member", zap.Error(err), zap.String("staff_id", staffID))
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	return s, nil
}

// ListEligible returns active, on-duty staff matching the filter ordered by
// role filter position and then staff code.
func (r *StaffRepository) ListEligible(ctx context.Context, filter StaffFilter) ([]model.StaffMember, error) {
	conditions := []string{"is_active = true", "is_on_duty = true"}
	args := []any{}

	roles := make([]string, len(filter.Roles))
	for i, role := range filter.Roles {
		roles[i] = string(role)
	}
	if len(roles) > 0 {
		args = append(args, roles)
		conditions = append(conditions, fmt.Sprintf("role = ANY($%d::text[])", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Specialization != "" {
		args = append(args, filter.Specialization)
		conditions = append(conditions, fmt.Sprintf("specialization = $%d", len(args)))
	}
	if len(filter.ExcludeIDs) > 0 {
		args = append(args, filter.ExcludeIDs)
		conditions = append(conditions, fmt.Sprintf("NOT (id::text = ANY($%d::text[]))", len(args)))
	}

	order := "staff_code"
	if len(roles) > 1 {
		args = append(args, roles)
		order = fmt.Sprintf("array_position($%d::text[], role::text), staff_code", len(args))
	}

	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY ` + order

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list eligible staff", zap.Error(err), zap.Strings("roles", roles))
		return nil, fmt.Errorf("failed to list eligible staff: %w", err)
	}
	defer rows.Close()

	var staff []model.StaffMember
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			r.logger.Error("failed to scan staff member", zap.Error(err))
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		staff = append(staff, *s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating staff", zap.Error(err))
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

// SetOnDuty updates the on-duty flag of a staff member and returns the updated record
func (r *StaffRepository) SetOnDuty(ctx context.Context, staffID string, onDuty bool) (*model.StaffMember, error) {
	query := `
		UPDATE staff_members
		SET is_on_duty = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + staffColumns

	s, err := scanStaff(r.db.QueryRow(ctx, query, staffID, onDuty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("staff member %s: %w", staffID, ErrNotFound)
		}
		r.logger.Error("failed to update duty status", zap.Error(err), zap.String("staff_id", staffID))
		return nil, fmt.Errorf("failed to update duty status: %w", err)
	}

	return s, nil
}
