package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"go.uber.org/zap"
)

// DashboardRepositoryInterface defines the interface for dashboard data access
type DashboardRepositoryInterface interface {
	GetActiveAlertCounts(ctx context.Context) (*repository.AlertCounts, error)
	GetAlertsPerHour(ctx context.Context, since time.Time) ([]repository.HourlyAlertCount, error)
	GetRiskLevelDistribution(ctx context.Context) (map[string]int, error)
	GetOnDutyCounts(ctx context.Context) (map[string]int, error)
}

// DashboardService aggregates the ward overview
type DashboardService struct {
	repo   DashboardRepositoryInterface
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo DashboardRepositoryInterface, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// HourlyCount is one bucket of the alert timeline
type HourlyCount struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// DashboardSummary represents the ward overview
type DashboardSummary struct {
	Period           string         `json:"period"`
	ActiveAlerts     int            `json:"active_alerts"`
	ActiveBySeverity map[string]int `json:"active_by_severity"`
	ActiveByType     map[string]int `json:"active_by_type"`
	AlertsInPeriod   int            `json:"alerts_in_period"`
	AlertTimeline    []HourlyCount  `json:"alert_timeline"`
	RiskLevels       map[string]int `json:"risk_levels"`
	OnDutyStaff      map[string]int `json:"on_duty_staff"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// GetSummary builds the ward overview for the last hours
func (s *DashboardService) GetSummary(ctx context.Context, hours int) (*DashboardSummary, error) {
	// Validate hours parameter
	if hours != 6 && hours != 12 && hours != 24 && hours != 72 {
		s.logger.Warn("invalid hours parameter, defaulting to 24",
			zap.Int("hours", hours),
		)
		hours = 24
	}

	now := s.now()
	since := now.Add(-time.Duration(hours) * time.Hour).Truncate(time.Hour)

	counts, err := s.repo.GetActiveAlertCounts(ctx)
	if err != nil {
		s.logger.Error("failed to get active alert counts", zap.Error(err))
		return nil, fmt.Errorf("failed to get active alert counts: %w", err)
	}

	buckets, err := s.repo.GetAlertsPerHour(ctx, since)
	if err != nil {
		s.logger.Error("failed to get alert timeline", zap.Error(err))
		return nil, fmt.Errorf("failed to get alert timeline: %w", err)
	}

	risk, err := s.repo.GetRiskLevelDistribution(ctx)
	if err != nil {
		s.logger.Error("failed to get risk level distribution", zap.Error(err))
		return nil, fmt.Errorf("failed to get risk level distribution: %w", err)
	}

	onDuty, err := s.repo.GetOnDutyCounts(ctx)
	if err != nil {
		s.logger.Error("failed to get on-duty counts", zap.Error(err))
		return nil, fmt.Errorf("failed to get on-duty counts: %w", err)
	}

	summary := &DashboardSummary{
		Period:           fmt.Sprintf("%d hours", hours),
		ActiveAlerts:     counts.Total,
		ActiveBySeverity: nonNilCounts(counts.BySeverity),
		ActiveByType:     nonNilCounts(counts.ByType),
		AlertTimeline:    fillTimeline(buckets, since, now),
		RiskLevels:       nonNilCounts(risk),
		OnDutyStaff:      nonNilCounts(onDuty),
		GeneratedAt:      now,
	}
	for _, b := range buckets {
		summary.AlertsInPeriod += b.Count
	}

	s.logger.Info("dashboard summary retrieved successfully",
		zap.Int("hours", hours),
		zap.Int("active_alerts", summary.ActiveAlerts),
		zap.Int("alerts_in_period", summary.AlertsInPeriod),
	)

	return summary, nil
}

// fillTimeline returns one bucket per hour from since to now, zero-filling
// hours without alerts.
func fillTimeline(buckets []repository.HourlyAlertCount, since, now time.Time) []HourlyCount {
	byHour := make(map[int64]int, len(buckets))
	for _, b := range buckets {
		byHour[b.Hour.Truncate(time.Hour).Unix()] += b.Count
	}

	timeline := []HourlyCount{}
	for h := since.Truncate(time.Hour); !h.After(now); h = h.Add(time.Hour) {
		timeline = append(timeline, HourlyCount{Hour: h, Count: byHour[h.Unix()]})
	}
	return timeline
}

func nonNilCounts(m map[string]int) map[string]int {
	if m == nil {
		return make(map[string]int)
	}
	return m
}
