package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"
	"github.com/wardwatch/wardwatch/apps/backend/internal/middleware"
)

// Helper functions for type conversions between API types and internal models

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// boolPtr creates a pointer to a bool
func boolPtr(b bool) *bool {
	return &b
}

// uuidToString converts types.UUID to string
func uuidToString(u types.UUID) string {
	return uuid.UUID(u).String()
}

// uuidPtrToString converts an optional types.UUID to an optional string
func uuidPtrToString(u *types.UUID) *string {
	if u == nil {
		return nil
	}
	return stringPtr(uuidToString(*u))
}

// stringToUUID converts string to types.UUID pointer
func stringToUUID(s string) *types.UUID {
	u, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	apiUUID := types.UUID(u)
	return &apiUUID
}

// dateToTime converts types.Date to time.Time
func dateToTime(d types.Date) time.Time {
	return d.Time
}

// timeToDate converts time.Time to types.Date pointer
func timeToDate(t time.Time) *types.Date {
	return &types.Date{Time: t}
}

// timePtrToDate converts *time.Time to *types.Date
func timePtrToDate(t *time.Time) *types.Date {
	if t == nil {
		return nil
	}
	return &types.Date{Time: *t}
}

// valueOr dereferences p, falling back to def
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// setActor stores the acting staff member for the request logger
func setActor(c *gin.Context, staffID string) {
	if staffID != "" {
		c.Set(middleware.StaffIDKey, staffID)
	}
}
