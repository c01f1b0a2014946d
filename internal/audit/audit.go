package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate      OperationType = "CREATE"
	OperationUpdate      OperationType = "UPDATE"
	OperationAcknowledge OperationType = "ACKNOWLEDGE"
	OperationExport      OperationType = "EXPORT"
)

// ResourceType represents the type of resource being changed
type ResourceType string

const (
	ResourceAlert          ResourceType = "alert"
	ResourceStaff          ResourceType = "staff_member"
	ResourceMedication     ResourceType = "medication"
	ResourceVitalReading   ResourceType = "vital_reading"
	ResourceRiskAssessment ResourceType = "risk_assessment"
	ResourceReport         ResourceType = "report"
	ResourceShift          ResourceType = "shift"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	ID             string                 `json:"id"`
	ActorID        string                 `json:"actor_id"`
	OperationType  OperationType          `json:"operation_type"`
	ResourceType   ResourceType           `json:"resource_type"`
	ResourceID     string                 `json:"resource_id"`
	Timestamp      time.Time              `json:"timestamp"`
	IPAddress      string                 `json:"ip_address,omitempty"`
	UserAgent      string                 `json:"user_agent,omitempty"`
	AdditionalData map[string]interface{} `json:"additional_data,omitempty"`
}

// Logger writes the audit trail of clinical actions
type Logger struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLogger creates a new audit logger
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{
		db:     db,
		logger: logger,
	}
}

// Log creates an audit log entry
func (l *Logger) Log(ctx context.Context, entry AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// Log to structured logger first
	l.logger.Info("Audit log entry",
		zap.String("actor_id", entry.ActorID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	query := `
		INSERT INTO audit_logs (
			actor_id, operation_type, resource_type, resource_id,
			timestamp, ip_address, user_agent, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := l.db.Exec(ctx, query,
		entry.ActorID,
		string(entry.OperationType),
		string(entry.ResourceType),
		entry.ResourceID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
		entry.AdditionalData,
	)
	if err != nil {
		l.logger.Error("Failed to write audit log to database",
			zap.Error(err),
			zap.String("actor_id", entry.ActorID),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

// ListForResource returns the audit trail of one resource, newest first
func (l *Logger) ListForResource(ctx context.Context, resourceType ResourceType, resourceID string, limit int) ([]AuditLog, error) {
	query := `
		SELECT id::text, actor_id, operation_type, resource_type, resource_id,
		       timestamp, COALESCE(ip_address, ''), COALESCE(user_agent, ''), additional_data
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY timestamp DESC
		LIMIT $3
	`

	rows, err := l.db.Query(ctx, query, string(resourceType), resourceID, limit)
	if err != nil {
		l.logger.Error("Failed to query audit logs", zap.Error(err), zap.String("resource_id", resourceID))
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	logs := []AuditLog{}
	for rows.Next() {
		var log AuditLog
		err := rows.Scan(
			&log.ID,
			&log.ActorID,
			&log.OperationType,
			&log.ResourceType,
			&log.ResourceID,
			&log.Timestamp,
			&log.IPAddress,
			&log.UserAgent,
			&log.AdditionalData,
		)
		if err != nil {
			l.logger.Error("Failed to scan audit log", zap.Error(err))
			continue
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}
	return logs, nil
}
