// Package push delivers alert notifications to staff devices through
// Firebase Cloud Messaging.
package push

import (
	"context"
	"fmt"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Sender sends a single FCM message. *messaging.Client implements it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Notifier pushes routed alerts to the device of each recipient
type Notifier struct {
	sender    Sender
	channelID string
	logger    *zap.Logger
}

// NewFirebaseNotifier initializes a Firebase app from a service account file
func NewFirebaseNotifier(ctx context.Context, credentialsFile, channelID string, logger *zap.Logger) (*Notifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}

	logger.Info("Firebase push notifications enabled", zap.String("channel_id", channelID))
	return NewNotifier(client, channelID, logger), nil
}

// NewNotifier creates a new Notifier around an existing sender
func NewNotifier(sender Sender, channelID string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:    sender,
		channelID: channelID,
		logger:    logger,
	}
}

// Deliver pushes one notification to a staff member. Staff without a
// registered device are skipped silently.
func (n *Notifier) Deliver(ctx context.Context, staff model.StaffMember, notification model.AlertNotification) error {
	if staff.DeviceToken == nil || *staff.DeviceToken == "" {
		metrics.ObserveExternalCall("push", metrics.OutcomeSkipped)
		return nil
	}

	messageID, err := n.sender.Send(ctx, BuildMessage(*staff.DeviceToken, n.channelID, notification))
	if err != nil {
		metrics.ObserveExternalCall("push", metrics.OutcomeError)
		return fmt.Errorf("failed to send push notification: %w", err)
	}

	metrics.ObserveExternalCall("push", metrics.OutcomeSuccess)
	n.logger.Debug("push notification sent",
		zap.String("staff_id", staff.ID),
		zap.String("alert_id", notification.AlertID),
		zap.String("message_id", messageID),
	)
	return nil
}

// BuildMessage renders an alert notification as an FCM message
func BuildMessage(token, channelID string, n model.AlertNotification) *messaging.Message {
	priority := "normal"
	androidPriority := messaging.PriorityDefault
	if n.Severity == model.AlertSeverityCritical || n.Severity == model.AlertSeverityEmergency {
		priority = "high"
		androidPriority = messaging.PriorityHigh
	}

	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: map[string]string{
			"type":       "ward_alert",
			"alert_id":   n.AlertID,
			"patient_id": n.PatientID,
			"alert_type": n.Type,
			"severity":   string(n.Severity),
			"room":       n.Room,
			"bed":        n.Bed,
			"strategy":   string(n.Strategy),
			"timestamp":  strconv.FormatInt(n.Timestamp.Unix(), 10),
		},
		Android: &messaging.AndroidConfig{
			Priority: priority,
			Notification: &messaging.AndroidNotification{
				Priority:     androidPriority,
				ChannelID:    channelID,
				DefaultSound: true,
			},
		},
	}
}
