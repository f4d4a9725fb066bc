// internal/protocol/serial_connection.go
package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"escpos-service/internal/model"
)

// SerialConfig represents serial connection configuration
type SerialConfig struct {
	Port     string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration
}

// Mode converts the configuration to a go.bug.st/serial mode
func (c *SerialConfig) Mode() *serial.Mode {
	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}
	if c.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch c.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	}
	return mode
}

// PortOpener opens a serial port; serial.Open in production
type PortOpener func(name string, mode *serial.Mode) (serial.Port, error)

// SerialConnection implements Transport for RS-232 printers
type SerialConnection struct {
	config *SerialConfig
	open   PortOpener
	port   serial.Port
	logger *zap.Logger
	mutex  sync.RWMutex
	stats  statsRecorder
}

// NewSerialConnection creates a new serial connection. A nil opener uses serial.Open.
func NewSerialConnection(config *SerialConfig, opener PortOpener, logger *zap.Logger) *SerialConnection {
	if opener == nil {
		opener = serial.Open
	}
	return &SerialConnection{
		config: config,
		open:   opener,
		logger: logger.With(
			zap.String("protocol", "serial"),
			zap.String("port", config.Port),
		),
	}
}

// Open opens the serial port
func (sc *SerialConnection) Open(ctx context.Context) error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.port != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	port, err := sc.open(sc.config.Port, sc.config.Mode())
	if err != nil {
		sc.logger.Error("Failed to open serial port", zap.Error(err))
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	if err := port.SetReadTimeout(sc.config.Timeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	sc.port = port
	sc.stats.connected(true)
	sc.logger.Info("Serial port opened", zap.Int("baud_rate", sc.config.BaudRate))
	return nil
}

// Close closes the serial port
func (sc *SerialConnection) Close() error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.port == nil {
		return nil
	}

	err := sc.port.Close()
	sc.port = nil
	sc.stats.connected(false)
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}

	sc.logger.Info("Serial port closed")
	return nil
}

// IsOpen returns whether the port is open
func (sc *SerialConnection) IsOpen() bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.port != nil
}

// Write writes data to the port and waits for it to leave the output buffer
func (sc *SerialConnection) Write(ctx context.Context, data []byte) error {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	if sc.port == nil {
		return ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	n, err := sc.port.Write(data)
	if err != nil {
		sc.stats.failed()
		return fmt.Errorf("failed to write to serial port: %w", err)
	}
	if n != len(data) {
		sc.stats.failed()
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}
	if err := sc.port.Drain(); err != nil {
		sc.logger.Warn("Serial drain failed", zap.Error(err))
	}

	sc.stats.wrote(n, time.Since(start))
	sc.logger.Debug("Serial write completed", zap.Int("bytes", n))
	return nil
}

// Read reads up to maxBytes. A read that times out with nothing received is an error.
func (sc *SerialConnection) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	if sc.port == nil {
		return nil, ErrNotOpen
	}

	// a read may not outlive ctx
	if deadline, ok := ioDeadline(ctx, sc.config.Timeout); ok {
		if err := sc.port.SetReadTimeout(max(time.Until(deadline), time.Millisecond)); err != nil {
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
		defer func() { _ = sc.port.SetReadTimeout(sc.config.Timeout) }()
	}

	data, err := readAsync(ctx, maxBytes, sc.port.Read, func() {})
	if err != nil && !(errors.Is(err, io.EOF) && len(data) > 0) {
		sc.stats.failed()
		return nil, fmt.Errorf("failed to read from serial port: %w", err)
	}
	if len(data) == 0 {
		sc.stats.failed()
		return nil, fmt.Errorf("serial read timed out after %s", sc.config.Timeout)
	}

	sc.stats.read(len(data))
	return data, nil
}

// Type returns the connection type
func (sc *SerialConnection) Type() model.ConnectionType { return model.ConnectionTypeSerial }

// Ping runs a status round trip
func (sc *SerialConnection) Ping(ctx context.Context) error { return pingStatus(ctx, sc) }

// Stats returns a snapshot of the connection statistics
func (sc *SerialConnection) Stats() Stats { return sc.stats.snapshot() }
