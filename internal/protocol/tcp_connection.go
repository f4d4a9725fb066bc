// internal/protocol/tcp_connection.go
package protocol

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"escpos-service/internal/model"
)

// TCPConfig represents a raw TCP printer port
type TCPConfig struct {
	Host           string
	Port           int
	KeepAlive      bool
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

func (c *TCPConfig) address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TCPConnection implements Transport for network printers
type TCPConnection struct {
	config *TCPConfig
	conn   net.Conn
	logger *zap.Logger
	mutex  sync.RWMutex
	stats  statsRecorder
}

// NewTCPConnection creates a new TCP connection
func NewTCPConnection(config *TCPConfig, logger *zap.Logger) *TCPConnection {
	return &TCPConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "tcp"),
			zap.String("address", config.address()),
		),
	}
}

// Open dials the printer
func (tc *TCPConnection) Open(ctx context.Context) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.conn != nil {
		return nil
	}

	dialer := &net.Dialer{Timeout: tc.config.ConnectTimeout}
	if tc.config.KeepAlive {
		dialer.KeepAlive = 30 * time.Second
	} else {
		dialer.KeepAlive = -1
	}

	conn, err := dialer.DialContext(ctx, "tcp", tc.config.address())
	if err != nil {
		tc.logger.Error("Failed to open TCP connection", zap.Error(err))
		return fmt.Errorf("failed to connect to %s: %w", tc.config.address(), err)
	}

	tc.conn = conn
	tc.stats.connected(true)
	tc.logger.Info("TCP connection opened")
	return nil
}

// Close closes the TCP connection
func (tc *TCPConnection) Close() error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.conn == nil {
		return nil
	}

	err := tc.conn.Close()
	tc.conn = nil
	tc.stats.connected(false)
	if err != nil {
		return fmt.Errorf("failed to close TCP connection: %w", err)
	}

	tc.logger.Info("TCP connection closed")
	return nil
}

// IsOpen returns whether the connection is open
func (tc *TCPConnection) IsOpen() bool {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()
	return tc.conn != nil
}

// Write writes data to the printer
func (tc *TCPConnection) Write(ctx context.Context, data []byte) error {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	if tc.conn == nil {
		return ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if deadline, ok := ioDeadline(ctx, tc.config.WriteTimeout); ok {
		_ = tc.conn.SetWriteDeadline(deadline)
	}

	start := time.Now()
	n, err := tc.conn.Write(data)
	if err != nil {
		tc.stats.failed()
		return fmt.Errorf("failed to write to TCP connection: %w", err)
	}
	if n != len(data) {
		tc.stats.failed()
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	tc.stats.wrote(n, time.Since(start))
	tc.logger.Debug("TCP write completed", zap.Int("bytes", n))
	return nil
}

// Read reads up to maxBytes the printer sent back
func (tc *TCPConnection) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	if tc.conn == nil {
		return nil, ErrNotOpen
	}

	if deadline, ok := ioDeadline(ctx, tc.config.ReadTimeout); ok {
		_ = tc.conn.SetReadDeadline(deadline)
	}

	conn := tc.conn
	data, err := readAsync(ctx, maxBytes, conn.Read, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	if err != nil {
		tc.stats.failed()
		return nil, fmt.Errorf("failed to read from TCP connection: %w", err)
	}
	tc.stats.read(len(data))
	return data, nil
}

// Type returns the connection type
func (tc *TCPConnection) Type() model.ConnectionType { return model.ConnectionTypeTCP }

// Ping runs a status round trip
func (tc *TCPConnection) Ping(ctx context.Context) error { return pingStatus(ctx, tc) }

// Stats returns a snapshot of the connection statistics
func (tc *TCPConnection) Stats() Stats { return tc.stats.snapshot() }

// ioDeadline picks the earlier of the context deadline and now+timeout
func ioDeadline(ctx context.Context, timeout time.Duration) (time.Time, bool) {
	deadline, ok := ctx.Deadline()
	if timeout > 0 {
		if d := time.Now().Add(timeout); !ok || d.Before(deadline) {
			return d, true
		}
	}
	return deadline, ok
}
