// internal/protocol/usb_connection.go
package protocol

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"escpos-service/internal/model"
)

// USBConfig identifies a USB printer class device
type USBConfig struct {
	VendorID  string
	ProductID string
	Endpoint  int
	Timeout   time.Duration
}

// USBConnection implements Transport for USB printers through libusb
type USBConnection struct {
	config   *USBConfig
	usb      *gousb.Context
	device   *gousb.Device
	intf     *gousb.Interface
	release  func()
	outEndpt *gousb.OutEndpoint
	inEndpt  *gousb.InEndpoint
	logger   *zap.Logger
	mutex    sync.RWMutex
	stats    statsRecorder
}

// NewUSBConnection creates a new USB connection
func NewUSBConnection(config *USBConfig, logger *zap.Logger) *USBConnection {
	return &USBConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "usb"),
			zap.String("vendor_id", config.VendorID),
			zap.String("product_id", config.ProductID),
		),
	}
}

// ParseUSBID parses a hex vendor or product ID, with or without a 0x prefix
func ParseUSBID(s string) (gousb.ID, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	id, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid USB ID %q: %w", s, err)
	}
	return gousb.ID(id), nil
}

// Open finds the device and claims its default interface
func (uc *USBConnection) Open(ctx context.Context) error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.device != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	vendorID, err := ParseUSBID(uc.config.VendorID)
	if err != nil {
		return err
	}
	productID, err := ParseUSBID(uc.config.ProductID)
	if err != nil {
		return err
	}

	usb := gousb.NewContext()
	device, err := usb.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil || device == nil {
		usb.Close()
		if err == nil {
			err = fmt.Errorf("device %04X:%04X not found", uint16(vendorID), uint16(productID))
		}
		return fmt.Errorf("failed to find USB device: %w", err)
	}
	_ = device.SetAutoDetach(true)

	intf, done, err := device.DefaultInterface()
	if err != nil {
		device.Close()
		usb.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	outEndpt, err := intf.OutEndpoint(uc.config.Endpoint)
	if err != nil {
		done()
		device.Close()
		usb.Close()
		return fmt.Errorf("failed to get out endpoint: %w", err)
	}

	// Printers without a back channel have no IN endpoint; Read then fails
	inEndpt, err := intf.InEndpoint(uc.config.Endpoint)
	if err != nil {
		uc.logger.Warn("No in endpoint found", zap.Error(err))
	}

	uc.usb = usb
	uc.device = device
	uc.intf = intf
	uc.release = done
	uc.outEndpt = outEndpt
	uc.inEndpt = inEndpt
	uc.stats.connected(true)

	uc.logger.Info("USB connection opened")
	return nil
}

// Close releases the interface and the device
func (uc *USBConnection) Close() error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.device == nil {
		return nil
	}

	uc.release()
	err := uc.device.Close()
	uc.usb.Close()

	uc.usb, uc.device, uc.intf, uc.release = nil, nil, nil, nil
	uc.outEndpt, uc.inEndpt = nil, nil
	uc.stats.connected(false)

	if err != nil {
		return fmt.Errorf("failed to close USB device: %w", err)
	}
	uc.logger.Info("USB connection closed")
	return nil
}

// IsOpen returns whether the connection is open
func (uc *USBConnection) IsOpen() bool {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()
	return uc.outEndpt != nil
}

// Write sends data on the bulk OUT endpoint
func (uc *USBConnection) Write(ctx context.Context, data []byte) error {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()

	if uc.outEndpt == nil {
		return ErrNotOpen
	}

	ctx, cancel := withTimeout(ctx, uc.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := uc.outEndpt.WriteContext(ctx, data)
	if err != nil {
		uc.stats.failed()
		return fmt.Errorf("failed to write to USB device: %w", err)
	}
	if n != len(data) {
		uc.stats.failed()
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	uc.stats.wrote(n, time.Since(start))
	uc.logger.Debug("USB write completed", zap.Int("bytes", n))
	return nil
}

// Read reads from the bulk IN endpoint
func (uc *USBConnection) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()

	if uc.outEndpt == nil {
		return nil, ErrNotOpen
	}
	if uc.inEndpt == nil {
		return nil, fmt.Errorf("USB device has no in endpoint")
	}

	ctx, cancel := withTimeout(ctx, uc.config.Timeout)
	defer cancel()

	buf := make([]byte, max(maxBytes, uc.inEndpt.Desc.MaxPacketSize))
	n, err := uc.inEndpt.ReadContext(ctx, buf)
	if err != nil {
		uc.stats.failed()
		return nil, fmt.Errorf("failed to read from USB device: %w", err)
	}
	n = min(n, maxBytes)

	uc.stats.read(n)
	return buf[:n], nil
}

// Type returns the connection type
func (uc *USBConnection) Type() model.ConnectionType { return model.ConnectionTypeUSB }

// Ping runs a status round trip
func (uc *USBConnection) Ping(ctx context.Context) error { return pingStatus(ctx, uc) }

// Stats returns a snapshot of the connection statistics
func (uc *USBConnection) Stats() Stats { return uc.stats.snapshot() }

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
