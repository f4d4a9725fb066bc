// internal/discovery/scanner.go
package discovery

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"escpos-service/internal/model"
)

// Scanner finds candidate printer ports on one kind of connection
type Scanner interface {
	Scan(ctx context.Context) ([]*DiscoveredPort, error)
	Type() model.ConnectionType
	IsAvailable() bool
}

// DiscoveredPort is a place a printer may be attached. Address is what goes into the
// matching printer.<connection> config section.
type DiscoveredPort struct {
	Connection model.ConnectionType `json:"connection"`
	Address    string               `json:"address"`
	Vendor     string               `json:"vendor,omitempty"`
	Model      string               `json:"model,omitempty"`
	Details    map[string]string    `json:"details,omitempty"`
	Confidence float64              `json:"confidence"` // 0.0-1.0
}

// ScannerManager runs the registered scanners
type ScannerManager struct {
	mu       sync.RWMutex
	scanners map[model.ConnectionType]Scanner
	logger   *zap.Logger
}

// NewScannerManager creates a new scanner manager
func NewScannerManager(logger *zap.Logger) *ScannerManager {
	return &ScannerManager{
		scanners: make(map[model.ConnectionType]Scanner),
		logger:   logger,
	}
}

// RegisterScanner registers a scanner, replacing any scanner of the same type
func (sm *ScannerManager) RegisterScanner(scanner Scanner) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.scanners[scanner.Type()] = scanner
	sm.logger.Debug("Scanner registered", zap.String("type", string(scanner.Type())))
}

// ScanAll runs every available scanner. A failing scanner is logged and skipped.
func (sm *ScannerManager) ScanAll(ctx context.Context) []*DiscoveredPort {
	var all []*DiscoveredPort
	for _, scanner := range sm.available() {
		ports, err := scanner.Scan(ctx)
		if err != nil {
			sm.logger.Warn("Scanner failed", zap.String("type", string(scanner.Type())), zap.Error(err))
			continue
		}
		sm.logger.Info("Scanner completed",
			zap.String("type", string(scanner.Type())),
			zap.Int("ports_found", len(ports)),
		)
		all = append(all, ports...)
	}
	sortPorts(all)
	return all
}

// ScanByType runs one scanner
func (sm *ScannerManager) ScanByType(ctx context.Context, scannerType model.ConnectionType) ([]*DiscoveredPort, error) {
	sm.mu.RLock()
	scanner, exists := sm.scanners[scannerType]
	sm.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScanner, scannerType)
	}
	if !scanner.IsAvailable() {
		return nil, fmt.Errorf("scanner not available: %s", scannerType)
	}

	ports, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	sortPorts(ports)
	return ports, nil
}

// AvailableScanners lists the scanner types that can run on this host
func (sm *ScannerManager) AvailableScanners() []model.ConnectionType {
	var types []model.ConnectionType
	for _, scanner := range sm.available() {
		types = append(types, scanner.Type())
	}
	return types
}

func (sm *ScannerManager) available() []Scanner {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	var out []Scanner
	for _, scanner := range sm.scanners {
		if scanner.IsAvailable() {
			out = append(out, scanner)
		}
	}
	slices.SortFunc(out, func(a, b Scanner) int { return cmp.Compare(a.Type(), b.Type()) })
	return out
}

// sortPorts orders by confidence, highest first, then by address
func sortPorts(ports []*DiscoveredPort) {
	slices.SortStableFunc(ports, func(a, b *DiscoveredPort) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(a.Address, b.Address)
	})
}
