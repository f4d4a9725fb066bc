// internal/service/discovery_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/discovery"
	"escpos-service/internal/model"
	"escpos-service/internal/utils"
)

// ErrUnsupportedScanType is returned for a scan type other than all, serial, usb or tcp
var ErrUnsupportedScanType = errors.New("unsupported scan type")

// ScanRequest selects the scanners and bounds the scan
type ScanRequest struct {
	ScanType string
	Timeout  time.Duration
}

// DiscoveryService finds ports a printer may be attached to
type DiscoveryService struct {
	scannerManager *discovery.ScannerManager
	config         *config.DiscoveryConfig
	logger         *utils.ServiceLogger
}

// DefaultScanners builds the serial, USB and TCP scanners from configuration
func DefaultScanners(cfg *config.DiscoveryConfig, logger *zap.Logger) ([]discovery.Scanner, error) {
	tcpScanner, err := discovery.NewTCPScanner(discovery.TCPScannerConfig{
		Targets:       cfg.TCPTargets,
		Port:          cfg.TCPPort,
		DialTimeout:   cfg.DialTimeout,
		MaxConcurrent: cfg.MaxConcurrent,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP scanner: %w", err)
	}

	return []discovery.Scanner{
		discovery.NewSerialScanner(nil, logger),
		discovery.NewUSBScanner(nil, logger),
		tcpScanner,
	}, nil
}

// NewDiscoveryService creates a discovery service over the given scanners
func NewDiscoveryService(cfg *config.DiscoveryConfig, logger *zap.Logger, scanners ...discovery.Scanner) *DiscoveryService {
	scannerManager := discovery.NewScannerManager(logger)
	for _, scanner := range scanners {
		scannerManager.RegisterScanner(scanner)
	}

	ds := &DiscoveryService{
		scannerManager: scannerManager,
		config:         cfg,
		logger:         utils.NewServiceLogger(logger, "discovery-service"),
	}

	available := make([]string, 0, len(scanners))
	for _, t := range scannerManager.AvailableScanners() {
		available = append(available, string(t))
	}
	ds.logger.Info("Discovery scanners initialized", zap.Strings("available_scanners", available))

	return ds
}

// Scan runs the scanners selected by req.ScanType
func (ds *DiscoveryService) Scan(ctx context.Context, req *ScanRequest) ([]*discovery.DiscoveredPort, error) {
	timeout := req.Timeout
	if timeout <= 0 || timeout > ds.config.Timeout {
		timeout = ds.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ds.logger.Info("Starting port scan", zap.String("type", req.ScanType), zap.Duration("timeout", timeout))

	var (
		ports []*discovery.DiscoveredPort
		err   error
	)
	switch req.ScanType {
	case "", "all":
		ports = ds.scannerManager.ScanAll(ctx)
	case string(model.ConnectionTypeSerial), string(model.ConnectionTypeUSB), string(model.ConnectionTypeTCP):
		ports, err = ds.scannerManager.ScanByType(ctx, model.ConnectionType(req.ScanType))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScanType, req.ScanType)
	}
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if ports == nil {
		ports = []*discovery.DiscoveredPort{}
	}

	ds.logger.Info("Port scan completed",
		zap.String("scan_type", req.ScanType),
		zap.Int("ports_found", len(ports)),
		zap.Duration("duration", time.Since(start)),
	)
	return ports, nil
}

// AvailableScanners lists the scanner types usable on this host
func (ds *DiscoveryService) AvailableScanners() []model.ConnectionType {
	return ds.scannerManager.AvailableScanners()
}
