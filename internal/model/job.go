// internal/model/job.go
package model

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"escpos-service/internal/escpos"
)

// ConnectionType represents how the printer is connected
type ConnectionType string

const (
	ConnectionTypeNone   ConnectionType = "none"
	ConnectionTypeSerial ConnectionType = "serial"
	ConnectionTypeUSB    ConnectionType = "usb"
	ConnectionTypeTCP    ConnectionType = "tcp"
)

// JobType represents what was done with the encoded bytes
type JobType string

const (
	JobTypeEncode JobType = "ENCODE"
	JobTypePrint  JobType = "PRINT"
)

// CommandRequest names one catalog command and its parameters by catalog name.
// Scalars and selectors are numbers, flags are objects of booleans, raw payloads are
// base64 strings and text payloads are strings.
type CommandRequest struct {
	Command string                     `json:"command" binding:"required"`
	Params  map[string]json.RawMessage `json:"params,omitempty"`
}

// EncodeRequest is an ordered list of commands encoded into one job
type EncodeRequest struct {
	Commands []CommandRequest `json:"commands" binding:"required,min=1,dive"`
}

// Job is the result of encoding one request
type Job struct {
	ID        uuid.UUID `json:"job_id"`
	Type      JobType   `json:"type"`
	Commands  int       `json:"commands"`
	Data      []byte    `json:"-"`
	Hex       string    `json:"hex"`
	Base64    string    `json:"base64"`
	Length    int       `json:"length"`
	CreatedAt time.Time `json:"created_at"`
}

// NewJob wraps encoded bytes in a job with a fresh ID
func NewJob(jobType JobType, commands int, data []byte) *Job {
	return &Job{
		ID:        uuid.New(),
		Type:      jobType,
		Commands:  commands,
		Data:      data,
		Hex:       hex.EncodeToString(data),
		Base64:    base64.StdEncoding.EncodeToString(data),
		Length:    len(data),
		CreatedAt: time.Now().UTC(),
	}
}

// PrintResult is a job written to the printer, with any bytes the printer answered
type PrintResult struct {
	*Job
	Connection  ConnectionType `json:"connection"`
	Response    []byte         `json:"-"`
	ResponseHex string         `json:"response_hex,omitempty"`
	// Status decodes the reply of a trailing DLE EOT query
	Status     map[string]bool `json:"status,omitempty"`
	DurationMs int64           `json:"duration_ms"`
}

// CommandInfo is the catalog entry of a command as served by the API
type CommandInfo struct {
	escpos.Descriptor
	OpcodeHex   string `json:"opcode_hex"`
	FixedLength int    `json:"fixed_length,omitempty"`
}

// NewCommandInfo renders a descriptor for the API
func NewCommandInfo(d escpos.Descriptor) CommandInfo {
	info := CommandInfo{Descriptor: d, OpcodeHex: hex.EncodeToString(d.Opcode)}
	if n, ok := d.FixedLength(); ok {
		info.FixedLength = n
	}
	return info
}

// EncodeFailure locates a rejected command in a request
type EncodeFailure struct {
	Index   int         `json:"index"`
	Command string      `json:"command"`
	Error   interface{} `json:"error"`
}
