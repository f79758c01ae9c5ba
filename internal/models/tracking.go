package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType различает события, уходящие в конвейер аналитики.
type EventType string

const (
	// EventAPICall результат вызова API.
	EventAPICall EventType = "api_call"
	// EventIdentify регистрация контекста рабочего пространства.
	EventIdentify EventType = "identify"
)

// TrackingEvent сообщение, публикуемое в обменник аналитики.
type TrackingEvent struct {
	Type          EventType  `json:"type" validate:"required,oneof=api_call identify"`
	UserID        uuid.UUID  `json:"user_id" validate:"required"`
	EndpointPath  string     `json:"endpoint_path,omitempty"`
	HTTPOperation string     `json:"http_operation,omitempty"`
	StatusCode    int        `json:"status_code,omitempty" validate:"omitempty,min=100,max=599"`
	WorkspaceID   *uuid.UUID `json:"workspace_id,omitempty"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	Timestamp     time.Time  `json:"timestamp" validate:"required"`
}
