// internal/service/command_service.go
package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
	"escpos-service/internal/protocol"
	"escpos-service/internal/utils"
)

// ErrNoPrinter is returned by print operations when no transport is configured
var ErrNoPrinter = errors.New("no printer configured")

// PrinterError wraps a transport failure during a print job
type PrinterError struct {
	Op  string
	Err error
}

func (e *PrinterError) Error() string { return fmt.Sprintf("printer %s: %v", e.Op, e.Err) }

func (e *PrinterError) Unwrap() error { return e.Err }

// CommandService encodes command requests and writes jobs to the printer
type CommandService struct {
	transport protocol.Transport
	config    *config.PrinterConfig
	logger    *utils.ServiceLogger
	printer   *utils.PrinterLogger
	events    *EventBus

	// jobMu keeps the bytes of two jobs from interleaving on the transport
	jobMu sync.Mutex
}

// NewCommandService creates a command service. transport may be nil, in which case
// only encoding is available.
func NewCommandService(transport protocol.Transport, cfg *config.PrinterConfig, logger *zap.Logger) *CommandService {
	return &CommandService{
		transport: transport,
		config:    cfg,
		logger:    utils.NewServiceLogger(logger, "command-service"),
		printer:   utils.NewPrinterLogger(logger, cfg.Connection),
	}
}

// SetEventBus makes the service publish connection and job events to bus
func (cs *CommandService) SetEventBus(bus *EventBus) { cs.events = bus }

func (cs *CommandService) publish(eventType model.EventType, severity string, jobID *uuid.UUID, data map[string]interface{}) {
	if cs.events == nil {
		return
	}
	event := model.NewPrinterEvent(eventType, cs.transport.Type(), severity, data)
	event.JobID = jobID
	cs.events.Publish(event)
}

// Commands lists the catalog
func (cs *CommandService) Commands() []model.CommandInfo {
	descriptors := escpos.Descriptors()
	out := make([]model.CommandInfo, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, model.NewCommandInfo(d))
	}
	return out
}

// Command returns one catalog entry by name
func (cs *CommandService) Command(name string) (model.CommandInfo, bool) {
	d, ok := escpos.LookupName(name)
	if !ok {
		return model.CommandInfo{}, false
	}
	return model.NewCommandInfo(d), true
}

// EncodeOne encodes a single command request
func (cs *CommandService) EncodeOne(req model.CommandRequest) ([]byte, error) {
	return encodeCommand(req, cs.config.MotionUnitsPerInch)
}

// Encode encodes every command of req into one job. The first failing command fails
// the whole job.
func (cs *CommandService) Encode(req *model.EncodeRequest) (*model.Job, error) {
	return cs.encode(model.JobTypeEncode, req)
}

func (cs *CommandService) encode(jobType model.JobType, req *model.EncodeRequest) (*model.Job, error) {
	var data []byte
	for i, c := range req.Commands {
		out, err := encodeCommand(c, cs.config.MotionUnitsPerInch)
		if err != nil {
			return nil, &CommandError{Index: i, Command: c.Command, Err: err}
		}
		data = append(data, out...)
	}

	job := model.NewJob(jobType, len(req.Commands), data)
	cs.logger.Debug("Encoded job",
		zap.String("job_id", job.ID.String()),
		zap.Int("commands", job.Commands),
		zap.Int("bytes", job.Length),
	)
	return job, nil
}

// Print encodes req and writes it to the printer. When the job contains a query
// command the printer's reply is read back.
func (cs *CommandService) Print(ctx context.Context, req *model.EncodeRequest) (*model.PrintResult, error) {
	if cs.transport == nil {
		return nil, ErrNoPrinter
	}

	job, err := cs.encode(model.JobTypePrint, req)
	if err != nil {
		return nil, err
	}

	opLogger := utils.NewOperationLogger(cs.logger.Logger, string(job.Type), job.ID.String())
	opLogger.Start(zap.Int("bytes", job.Length))

	if cs.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.config.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	response, err := cs.send(ctx, job.Data, expectsResponse(req))
	cs.printer.LogJob(job.ID.String(), job.Length, len(response), time.Since(start), err)
	if err != nil {
		opLogger.Error(err)
		cs.publish(model.EventJobFailed, "ERROR", &job.ID, map[string]interface{}{
			"bytes": job.Length,
			"error": err.Error(),
		})
		return nil, err
	}

	result := &model.PrintResult{
		Job:         job,
		Connection:  cs.transport.Type(),
		Response:    response,
		ResponseHex: hex.EncodeToString(response),
		Status:      decodeTrailingStatus(req, response),
		DurationMs:  time.Since(start).Milliseconds(),
	}
	opLogger.Success(zap.Int("response_bytes", len(response)))
	cs.publish(model.EventJobPrinted, "INFO", &job.ID, map[string]interface{}{
		"bytes":        job.Length,
		"response_hex": result.ResponseHex,
		"status":       result.Status,
		"duration_ms":  result.DurationMs,
	})
	return result, nil
}

func (cs *CommandService) send(ctx context.Context, data []byte, readBack bool) ([]byte, error) {
	cs.jobMu.Lock()
	defer cs.jobMu.Unlock()

	if !cs.transport.IsOpen() {
		if err := cs.transport.Open(ctx); err != nil {
			cs.printer.LogConnection("open", err)
			return nil, &PrinterError{Op: "open", Err: err}
		}
		cs.printer.LogConnection("open", nil)
		cs.publish(model.EventPrinterConnected, "INFO", nil, nil)
	}

	if err := cs.transport.Write(ctx, data); err != nil {
		// drop the connection so the next job reconnects
		_ = cs.transport.Close()
		cs.publish(model.EventPrinterDisconnected, "WARNING", nil, map[string]interface{}{"reason": err.Error()})
		return nil, &PrinterError{Op: "write", Err: err}
	}
	if !readBack {
		return nil, nil
	}

	response, err := cs.transport.Read(ctx, cs.config.ResponseBytes)
	if err != nil {
		return nil, &PrinterError{Op: "read", Err: err}
	}
	return response, nil
}

// Connect opens the transport at startup. Failure is logged, not fatal: the next
// print job retries.
func (cs *CommandService) Connect(ctx context.Context) {
	if cs.transport == nil {
		return
	}
	cs.jobMu.Lock()
	defer cs.jobMu.Unlock()
	err := cs.transport.Open(ctx)
	cs.printer.LogConnection("open", err)
	if err == nil {
		cs.publish(model.EventPrinterConnected, "INFO", nil, nil)
	}
}

// Close closes the transport
func (cs *CommandService) Close() error {
	if cs.transport == nil {
		return nil
	}
	cs.jobMu.Lock()
	defer cs.jobMu.Unlock()
	err := cs.transport.Close()
	cs.printer.LogConnection("close", err)
	cs.publish(model.EventPrinterDisconnected, "INFO", nil, map[string]interface{}{"reason": "shutdown"})
	return err
}

// Ready reports whether print jobs can be accepted
func (cs *CommandService) Ready() bool {
	return cs.transport == nil || cs.transport.IsOpen()
}

// HasPrinter reports whether a transport is configured
func (cs *CommandService) HasPrinter() bool { return cs.transport != nil }

// PrinterStats returns transport statistics, nil without a printer
func (cs *CommandService) PrinterStats() *protocol.Stats {
	if cs.transport == nil {
		return nil
	}
	stats := cs.transport.Stats()
	return &stats
}

// Ping runs a status round trip on the printer
func (cs *CommandService) Ping(ctx context.Context) error {
	if cs.transport == nil {
		return ErrNoPrinter
	}
	cs.jobMu.Lock()
	defer cs.jobMu.Unlock()
	if !cs.transport.IsOpen() {
		return protocol.ErrNotOpen
	}
	return cs.transport.Ping(ctx)
}

// expectsResponse reports whether a command in req makes the printer answer straight away
func expectsResponse(req *model.EncodeRequest) bool {
	for _, c := range req.Commands {
		if d, ok := escpos.LookupName(c.Command); ok && d.Replies {
			return true
		}
	}
	return false
}

// decodeTrailingStatus decodes a one-byte reply to a final realtime_status command
func decodeTrailingStatus(req *model.EncodeRequest, response []byte) map[string]bool {
	if len(response) != 1 || len(req.Commands) == 0 {
		return nil
	}
	last := req.Commands[len(req.Commands)-1]
	if !strings.EqualFold(last.Command, "realtime_status") {
		return nil
	}
	var n int
	if err := json.Unmarshal(last.Params["status"], &n); err != nil {
		return nil
	}
	status, err := escpos.DecodeStatusCode(n, response[0])
	if err != nil {
		return nil
	}
	return status
}
