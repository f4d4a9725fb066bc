// internal/discovery/tcp_scanner.go
package discovery

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
)

// maxTargetHosts caps the addresses one CIDR target may expand to
const maxTargetHosts = 1024

// TCPScannerConfig configures the network scanner
type TCPScannerConfig struct {
	Targets       []string
	Port          int
	DialTimeout   time.Duration
	MaxConcurrent int
}

// TCPScanner checks raw-printing ports. A host that accepts the connection and answers
// DLE EOT 1 with a valid status byte is reported as a confirmed printer.
type TCPScanner struct {
	hosts  []netip.Addr
	config TCPScannerConfig
	logger *zap.Logger
}

// NewTCPScanner expands the targets into host addresses
func NewTCPScanner(cfg TCPScannerConfig, logger *zap.Logger) (*TCPScanner, error) {
	hosts, err := expandTargets(cfg.Targets)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 16
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 500 * time.Millisecond
	}
	return &TCPScanner{
		hosts:  hosts,
		config: cfg,
		logger: logger.With(zap.String("scanner", "tcp")),
	}, nil
}

// Type returns the scanner type
func (s *TCPScanner) Type() model.ConnectionType { return model.ConnectionTypeTCP }

// IsAvailable reports whether any targets are configured
func (s *TCPScanner) IsAvailable() bool { return len(s.hosts) > 0 }

// Scan checks every host with a bounded worker pool
func (s *TCPScanner) Scan(ctx context.Context) ([]*DiscoveredPort, error) {
	hostChan := make(chan netip.Addr)
	resultChan := make(chan *DiscoveredPort)

	var wg sync.WaitGroup
	for i := 0; i < min(s.config.MaxConcurrent, len(s.hosts)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range hostChan {
				resultChan <- s.checkHost(ctx, host)
			}
		}()
	}

	go func() {
		defer close(hostChan)
		for _, host := range s.hosts {
			select {
			case hostChan <- host:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var found []*DiscoveredPort
	for port := range resultChan {
		if port != nil {
			found = append(found, port)
		}
	}

	s.logger.Debug("TCP scan completed",
		zap.Int("hosts", len(s.hosts)),
		zap.Int("ports_found", len(found)),
	)
	return found, ctx.Err()
}

func (s *TCPScanner) checkHost(ctx context.Context, host netip.Addr) *DiscoveredPort {
	address := net.JoinHostPort(host.String(), strconv.Itoa(s.config.Port))

	dialCtx, cancel := context.WithTimeout(ctx, s.config.DialTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return nil
	}
	defer conn.Close()

	port := &DiscoveredPort{
		Connection: model.ConnectionTypeTCP,
		Address:    address,
		Confidence: 0.5,
	}

	query, err := escpos.RealtimeStatus(escpos.StatusPrinter)
	if err != nil {
		return port
	}
	conn.SetDeadline(time.Now().Add(s.config.DialTimeout))
	if _, err := conn.Write(query); err != nil {
		return port
	}
	reply := make([]byte, 1)
	if _, err := conn.Read(reply); err != nil || !escpos.IsStatusByte(reply[0]) {
		return port
	}

	port.Confidence = 0.9
	port.Details = map[string]string{"status": fmt.Sprintf("0x%02x", reply[0])}
	if status, err := escpos.DecodeStatus(escpos.StatusPrinter, reply[0]); err == nil && status["offline"] {
		port.Details["offline"] = "true"
	}
	return port
}

// expandTargets resolves "10.0.0.5" and "10.0.0.0/28" style targets to addresses.
// Network and broadcast addresses of IPv4 prefixes shorter than /31 are skipped.
func expandTargets(targets []string) ([]netip.Addr, error) {
	var hosts []netip.Addr
	seen := make(map[netip.Addr]bool)
	add := func(a netip.Addr) {
		if !seen[a] {
			seen[a] = true
			hosts = append(hosts, a)
		}
	}

	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if !strings.Contains(target, "/") {
			addr, err := netip.ParseAddr(target)
			if err != nil {
				return nil, fmt.Errorf("invalid discovery target %q: %w", target, err)
			}
			add(addr)
			continue
		}

		prefix, err := netip.ParsePrefix(target)
		if err != nil {
			return nil, fmt.Errorf("invalid discovery target %q: %w", target, err)
		}
		prefix = prefix.Masked()
		hostBits := prefix.Addr().BitLen() - prefix.Bits()
		if hostBits > 10 {
			return nil, fmt.Errorf("discovery target %q expands past %d hosts", target, maxTargetHosts)
		}

		first, last := prefix.Addr(), lastAddr(prefix)
		if prefix.Addr().Is4() && hostBits > 1 {
			first, last = first.Next(), last.Prev()
		}
		for a := first; a.IsValid() && a.Compare(last) <= 0; a = a.Next() {
			add(a)
		}
	}
	return hosts, nil
}

func lastAddr(p netip.Prefix) netip.Addr {
	b := p.Addr().AsSlice()
	hostBits := len(b)*8 - p.Bits()
	for i := len(b) - 1; i >= 0 && hostBits > 0; i-- {
		n := min(hostBits, 8)
		b[i] |= byte(0xFF >> (8 - n))
		hostBits -= n
	}
	addr, _ := netip.AddrFromSlice(b)
	return addr
}
