package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DashboardRepository manages ward dashboard aggregations
type DashboardRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db *pgxpool.Pool, logger *zap.Logger) *DashboardRepository {
	return &DashboardRepository{
		db:     db,
		logger: logger,
	}
}

// AlertCounts aggregates active alerts
type AlertCounts struct {
	BySeverity map[string]int
	ByType     map[string]int
	Total      int
}

// GetActiveAlertCounts counts unacknowledged alerts by severity and type
func (r *DashboardRepository) GetActiveAlertCounts(ctx context.Context) (*AlertCounts, error) {
	query := `
		SELECT severity, alert_type, COUNT(*)
		FROM alerts
		WHERE is_acknowledged = false
		GROUP BY severity, alert_type
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to get active alert counts", zap.Error(err))
		return nil, fmt.Errorf("failed to get active alert counts: %w", err)
	}
	defer rows.Close()

	counts := &AlertCounts{
		BySeverity: make(map[string]int),
		ByType:     make(map[string]int),
	}
	for rows.Next() {
		var severity, alertType string
		var count int
		if err := rows.Scan(&severity, &alertType, &count); err != nil {
			r.logger.Error("failed to scan alert count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan alert count: %w", err)
		}
		counts.BySeverity[severity] += count
		counts.ByType[alertType] += count
		counts.Total += count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating alert counts", zap.Error(err))
		return nil, fmt.Errorf("error iterating alert counts: %w", err)
	}

	return counts, nil
}

// HourlyAlertCount is the number of alerts raised in one hour bucket
type HourlyAlertCount struct {
	Hour  time.Time
	Count int
}

// GetAlertsPerHour buckets alerts created since the given time by hour
func (r *DashboardRepository) GetAlertsPerHour(ctx context.Context, since time.Time) ([]HourlyAlertCount, error) {
	query := `
		SELECT date_trunc('hour', created_at) AS hour, COUNT(*)
		FROM alerts
		WHERE created_at >= $1
		GROUP BY hour
		ORDER BY hour
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		r.logger.Error("failed to get alerts per hour", zap.Error(err), zap.Time("since", since))
		return nil, fmt.Errorf("failed to get alerts per hour: %w", err)
	}
	defer rows.Close()

	var buckets []HourlyAlertCount
	for rows.Next() {
		var b HourlyAlertCount
		if err := rows.Scan(&b.Hour, &b.Count); err != nil {
			r.logger.Error("failed to scan hourly alert count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan hourly alert count: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating hourly alert counts", zap.Error(err))
		return nil, fmt.Errorf("error iterating hourly alert counts: %w", err)
	}

	return buckets, nil
}

// GetRiskLevelDistribution counts active patients by the level of their latest assessment
func (r *DashboardRepository) GetRiskLevelDistribution(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT latest.risk_level, COUNT(*)
		FROM (
			SELECT DISTINCT ON (ra.patient_id) ra.patient_id, ra.risk_level
			FROM risk_assessments ra
			JOIN patients p ON p.id = ra.patient_id
			WHERE p.status IN ('admitted', 'icu', 'emergency')
			ORDER BY ra.patient_id, ra.assessed_at DESC
		) latest
		GROUP BY latest.risk_level
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to get risk level distribution", zap.Error(err))
		return nil, fmt.Errorf("failed to get risk level distribution: %w", err)
	}
	defer rows.Close()

	distribution := make(map[string]int)
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			r.logger.Error("failed to scan risk level count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan risk level count: %w", err)
		}
		distribution[level] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating risk level counts", zap.Error(err))
		return nil, fmt.Errorf("error iterating risk level counts: %w", err)
	}

	return distribution, nil
}

// GetOnDutyCounts counts active, on-duty staff by role
func (r *DashboardRepository) GetOnDutyCounts(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT role, COUNT(*)
		FROM staff_members
		WHERE is_active = true AND is_on_duty = true
		GROUP BY role
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to get on-duty counts", zap.Error(err))
		return nil, fmt.Errorf("failed to get on-duty counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			r.logger.Error("failed to scan on-duty count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan on-duty count: %w", err)
		}
		counts[role] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating on-duty counts", zap.Error(err))
		return nil, fmt.Errorf("error iterating on-duty counts: %w", err)
	}

	return counts, nil
}
