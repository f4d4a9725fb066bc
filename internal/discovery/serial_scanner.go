// internal/discovery/serial_scanner.go
package discovery

import (
	"context"
	"errors"
	"fmt"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"escpos-service/internal/model"
)

// ErrUnknownScanner is returned for a scanner type that was never registered
var ErrUnknownScanner = errors.New("unknown scanner type")

// PortLister enumerates serial ports
type PortLister func() ([]*enumerator.PortDetails, error)

// SerialScanner lists serial ports, including USB CDC adapters
type SerialScanner struct {
	list   PortLister
	logger *zap.Logger
}

// NewSerialScanner creates a serial scanner. A nil list uses the operating system's
// port enumerator.
func NewSerialScanner(list PortLister, logger *zap.Logger) *SerialScanner {
	if list == nil {
		list = enumerator.GetDetailedPortsList
	}
	return &SerialScanner{list: list, logger: logger.With(zap.String("scanner", "serial"))}
}

// Type returns the scanner type
func (s *SerialScanner) Type() model.ConnectionType { return model.ConnectionTypeSerial }

// IsAvailable reports true: every supported platform exposes serial ports
func (s *SerialScanner) IsAvailable() bool { return true }

// Scan lists serial ports. Ports behind a USB adapter from a known printer vendor rank
// highest; plain UARTs are kept with a low confidence.
func (s *SerialScanner) Scan(ctx context.Context) ([]*DiscoveredPort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	details, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	ports := make([]*DiscoveredPort, 0, len(details))
	for _, d := range details {
		port := &DiscoveredPort{
			Connection: model.ConnectionTypeSerial,
			Address:    d.Name,
			Confidence: 0.2,
		}
		if d.IsUSB {
			port.Details = map[string]string{
				"vendor_id":  d.VID,
				"product_id": d.PID,
			}
			if d.SerialNumber != "" {
				port.Details["serial_number"] = d.SerialNumber
			}
			if d.Product != "" {
				port.Details["product"] = d.Product
			}
			port.Confidence = 0.4

			vid, okV := parseHexID(d.VID)
			pid, okP := parseHexID(d.PID)
			if okV && okP {
				if vendor, m, confidence := identify(vid, pid); vendor != "" {
					port.Vendor, port.Model, port.Confidence = vendor, m, confidence
				}
			}
		}
		ports = append(ports, port)
	}

	s.logger.Debug("Serial scan completed", zap.Int("ports_found", len(ports)))
	return ports, nil
}
