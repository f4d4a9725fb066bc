// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventPrinterConnected    EventType = "PRINTER_CONNECTED"
	EventPrinterDisconnected EventType = "PRINTER_DISCONNECTED"
	EventJobPrinted          EventType = "JOB_PRINTED"
	EventJobFailed           EventType = "JOB_FAILED"
)

// PrinterEvent is published when the printer connection or a print job changes state
type PrinterEvent struct {
	ID         uuid.UUID              `json:"id"`
	EventType  EventType              `json:"event_type"`
	Connection ConnectionType         `json:"connection"`
	JobID      *uuid.UUID             `json:"job_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Severity   string                 `json:"severity"` // INFO, WARNING, ERROR
}

// NewPrinterEvent stamps an event with a fresh ID and the current time
func NewPrinterEvent(eventType EventType, connection ConnectionType, severity string, data map[string]interface{}) PrinterEvent {
	return PrinterEvent{
		ID:         uuid.New(),
		EventType:  eventType,
		Connection: connection,
		Data:       data,
		Timestamp:  time.Now().UTC(),
		Severity:   severity,
	}
}
