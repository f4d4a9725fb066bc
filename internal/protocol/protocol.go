// internal/protocol/protocol.go
package protocol

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
)

// ErrNotOpen is returned by Write and Read before Open or after Close
var ErrNotOpen = errors.New("printer connection not open")

// Transport carries encoded command bytes to a printer and reads back its answers
type Transport interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Data communication
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context, maxBytes int) ([]byte, error)

	Type() model.ConnectionType

	// Ping sends DLE EOT 1 and expects a status byte back
	Ping(ctx context.Context) error
	Stats() Stats
}

// Stats provides transport-level statistics
type Stats struct {
	BytesWritten   int64         `json:"bytes_written"`
	BytesRead      int64         `json:"bytes_read"`
	OperationCount int64         `json:"operation_count"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
	IsConnected    bool          `json:"is_connected"`
}

type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func (r *statsRecorder) connected(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.IsConnected = on
	if on {
		r.stats.LastActivity = time.Now()
	}
}

func (r *statsRecorder) wrote(n int, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.BytesWritten += int64(n)
	r.stats.OperationCount++
	r.stats.LastActivity = time.Now()
	if r.stats.AverageLatency == 0 {
		r.stats.AverageLatency = latency
	} else {
		r.stats.AverageLatency = (r.stats.AverageLatency + latency) / 2
	}
}

func (r *statsRecorder) read(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.BytesRead += int64(n)
	r.stats.OperationCount++
	r.stats.LastActivity = time.Now()
}

func (r *statsRecorder) failed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.ErrorCount++
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// pingStatus runs the DLE EOT 1 round trip over t
func pingStatus(ctx context.Context, t Transport) error {
	query, err := escpos.RealtimeStatus(escpos.StatusPrinter)
	if err != nil {
		return err
	}
	if err := t.Write(ctx, query); err != nil {
		return err
	}
	resp, err := t.Read(ctx, 1)
	if err != nil {
		return fmt.Errorf("no status reply: %w", err)
	}
	if len(resp) != 1 || !escpos.IsStatusByte(resp[0]) {
		return fmt.Errorf("unexpected status reply % X", resp)
	}
	return nil
}

type readResult struct {
	data []byte
	err  error
}

// readAsync runs a blocking read in a goroutine so ctx cancellation is honoured. On
// cancellation interrupt unblocks the read and readAsync waits for it to return, so
// bytes that arrive meanwhile are handed back instead of being lost to a stray reader.
func readAsync(ctx context.Context, maxBytes int, read func([]byte) (int, error), interrupt func()) ([]byte, error) {
	done := make(chan readResult, 1)
	go func() {
		buf := make([]byte, maxBytes)
		n, err := read(buf)
		done <- readResult{data: buf[:n], err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		interrupt()
		if r := <-done; len(r.data) > 0 {
			return r.data, nil
		}
		return nil, ctx.Err()
	}
}
