// internal/discovery/usb_scanner.go
package discovery

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"escpos-service/internal/model"
)

// DescLister walks the USB device descriptors on the host
type DescLister func(visit func(*gousb.DeviceDesc)) error

// USBScanner lists USB printer-class devices and devices from known printer vendors.
// Devices are inspected by descriptor only; none is opened.
type USBScanner struct {
	list   DescLister
	logger *zap.Logger
}

// NewUSBScanner creates a USB scanner. A nil list enumerates through libusb.
func NewUSBScanner(list DescLister, logger *zap.Logger) *USBScanner {
	if list == nil {
		list = libusbDescriptors
	}
	return &USBScanner{list: list, logger: logger.With(zap.String("scanner", "usb"))}
}

func libusbDescriptors(visit func(*gousb.DeviceDesc)) error {
	ctx := gousb.NewContext()
	defer ctx.Close()

	// returning false from the filter keeps every device closed
	_, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		visit(desc)
		return false
	})
	return err
}

// Type returns the scanner type
func (s *USBScanner) Type() model.ConnectionType { return model.ConnectionTypeUSB }

// IsAvailable reports whether libusb enumeration is supported on this OS
func (s *USBScanner) IsAvailable() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "windows", "freebsd":
		return true
	default:
		return false
	}
}

// Scan enumerates USB descriptors
func (s *USBScanner) Scan(ctx context.Context) ([]*DiscoveredPort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ports []*DiscoveredPort
	err := s.list(func(desc *gousb.DeviceDesc) {
		if port := portFromDesc(desc); port != nil {
			ports = append(ports, port)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	s.logger.Debug("USB scan completed", zap.Int("ports_found", len(ports)))
	return ports, nil
}

// portFromDesc returns nil for devices that are neither printer class nor from a
// known printer vendor
func portFromDesc(desc *gousb.DeviceDesc) *DiscoveredPort {
	vid, pid := uint16(desc.Vendor), uint16(desc.Product)
	vendor, m, confidence := identify(vid, pid)
	printerClass := hasPrinterInterface(desc)
	if vendor == "" && !printerClass {
		return nil
	}
	if printerClass {
		confidence = max(confidence, 0.7)
	}

	return &DiscoveredPort{
		Connection: model.ConnectionTypeUSB,
		Address:    formatID(vid) + ":" + formatID(pid),
		Vendor:     vendor,
		Model:      m,
		Details: map[string]string{
			"vendor_id":  formatID(vid),
			"product_id": formatID(pid),
			"bus":        strconv.Itoa(desc.Bus),
			"address":    strconv.Itoa(desc.Address),
			"class":      desc.Class.String(),
		},
		Confidence: confidence,
	}
}

func hasPrinterInterface(desc *gousb.DeviceDesc) bool {
	if desc.Class == gousb.ClassPrinter {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == gousb.ClassPrinter {
					return true
				}
			}
		}
	}
	return false
}
