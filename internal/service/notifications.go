package service

import (
	"context"

	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// NotificationPublisher fans routed notifications out to live subscribers
type NotificationPublisher interface {
	Publish(ctx context.Context, notifications ...model.AlertNotification)
}

// StaffNotifier delivers one notification to a staff member's device
type StaffNotifier interface {
	Deliver(ctx context.Context, staff model.StaffMember, notification model.AlertNotification) error
}

// AlertDispatcher is the routing surface used by the alert pipelines
type AlertDispatcher interface {
	Distribute(ctx context.Context, patientID, alertID string, severity model.AlertSeverity) []model.StaffMember
	Route(ctx context.Context, patient *model.Patient, severity model.AlertSeverity) ([]model.StaffMember, error)
	Record(ctx context.Context, alertID string, strategy model.RoutingStrategy, recipients []model.StaffMember)
}

// fanout publishes routed alerts to the hub and pushes them to devices.
// Both sinks are best effort.
type fanout struct {
	publisher NotificationPublisher
	pusher    StaffNotifier
	logger    *zap.Logger
}

func (f fanout) deliver(ctx context.Context, alert *model.Alert, patient *model.Patient, recipients []model.StaffMember, strategy model.RoutingStrategy) []model.AlertNotification {
	notifications := BuildNotifications(alert, patient, recipients, strategy)
	if len(notifications) == 0 {
		return notifications
	}

	if f.publisher != nil {
		f.publisher.Publish(ctx, notifications...)
	}

	if f.pusher != nil {
		for i, staff := range recipients {
			if err := f.pusher.Deliver(ctx, staff, notifications[i]); err != nil {
				f.logger.Warn("push delivery failed",
					zap.Error(err),
					zap.String("alert_id", alert.ID),
					zap.String("staff_id", staff.ID),
				)
			}
		}
	}

	return notifications
}

// BuildNotifications renders one notification per recipient. The routing
// path lists the staff codes of every recipient in routing order.
func BuildNotifications(alert *model.Alert, patient *model.Patient, recipients []model.StaffMember, strategy model.RoutingStrategy) []model.AlertNotification {
	notifications := make([]model.AlertNotification, 0, len(recipients))
	if alert == nil || patient == nil {
		return notifications
	}

	path := make([]string, len(recipients))
	for i, s := range recipients {
		path[i] = s.StaffCode
	}

	for _, staff := range recipients {
		notifications = append(notifications, model.AlertNotification{
			AlertID:     alert.ID,
			StaffID:     staff.ID,
			StaffName:   staff.FullName(),
			PatientID:   patient.ID,
			PatientName: patient.FullName(),
			Room:        patient.Room(),
			Bed:         patient.Bed(),
			Type:        alert.AlertType,
			Severity:    alert.Severity,
			Title:       alert.Title,
			Message:     alert.Message,
			RoutingPath: path,
			Strategy:    strategy,
			Timestamp:   alert.CreatedAt,
		})
	}
	return notifications
}
