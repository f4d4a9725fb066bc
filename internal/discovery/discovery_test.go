package discovery

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strconv"
	"testing"
	"time"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"escpos-service/internal/model"
)

func TestSerialScanner(t *testing.T) {
	t.Parallel()

	list := func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "04B8", PID: "0202", SerialNumber: "X123"},
			{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
		}, nil
	}
	s := NewSerialScanner(list, zap.NewNop())
	ports, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 3)

	assert.Equal(t, 0.2, ports[0].Confidence)
	assert.Nil(t, ports[0].Details)

	assert.Equal(t, "Seiko Epson", ports[1].Vendor)
	assert.Equal(t, "TM-T88IV", ports[1].Model)
	assert.Equal(t, 0.95, ports[1].Confidence)
	assert.Equal(t, "X123", ports[1].Details["serial_number"])

	assert.Empty(t, ports[2].Vendor)
	assert.Equal(t, 0.4, ports[2].Confidence)

	failing := NewSerialScanner(func() ([]*enumerator.PortDetails, error) {
		return nil, errors.New("permission denied")
	}, zap.NewNop())
	_, err = failing.Scan(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestUSBScanner(t *testing.T) {
	t.Parallel()

	descs := []*gousb.DeviceDesc{
		{Bus: 1, Address: 4, Vendor: 0x04B8, Product: 0x0214},
		{Bus: 1, Address: 5, Vendor: 0x1234, Product: 0x0001, Configs: map[int]gousb.ConfigDesc{
			1: {Interfaces: []gousb.InterfaceDesc{{AltSettings: []gousb.InterfaceSetting{{Class: gousb.ClassPrinter}}}}},
		}},
		{Bus: 2, Address: 1, Vendor: 0x046D, Product: 0xC52B, Class: gousb.ClassHID},
	}
	s := NewUSBScanner(func(visit func(*gousb.DeviceDesc)) error {
		for _, d := range descs {
			visit(d)
		}
		return nil
	}, zap.NewNop())

	ports, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 2)

	assert.Equal(t, "0x04b8:0x0214", ports[0].Address)
	assert.Equal(t, "TM-T88VI", ports[0].Model)
	assert.Equal(t, 0.95, ports[0].Confidence)

	assert.Equal(t, "0x1234:0x0001", ports[1].Address)
	assert.Empty(t, ports[1].Vendor)
	assert.Equal(t, 0.7, ports[1].Confidence)
	assert.Equal(t, "5", ports[1].Details["address"])
}

func TestExpandTargets(t *testing.T) {
	t.Parallel()

	hosts, err := expandTargets([]string{"192.168.1.0/30", "10.0.0.7", "192.168.1.1", " "})
	require.NoError(t, err)
	assert.Equal(t, []netip.Addr{
		netip.MustParseAddr("192.168.1.1"),
		netip.MustParseAddr("192.168.1.2"),
		netip.MustParseAddr("10.0.0.7"),
	}, hosts)

	hosts, err = expandTargets([]string{"10.1.2.3/31"})
	require.NoError(t, err)
	assert.Len(t, hosts, 2)

	hosts, err = expandTargets([]string{"10.1.0.0/22"})
	require.NoError(t, err)
	assert.Len(t, hosts, 1022)

	_, err = expandTargets([]string{"10.0.0.0/16"})
	assert.Error(t, err)
	_, err = expandTargets([]string{"printer.local"})
	assert.Error(t, err)
}

func listenPrinter(t *testing.T, answer bool) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 3)
				if _, err := c.Read(buf); err != nil || !answer {
					return
				}
				c.Write([]byte{0x1A})
			}(conn)
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestTCPScanner(t *testing.T) {
	t.Parallel()

	port := listenPrinter(t, true)
	s, err := NewTCPScanner(TCPScannerConfig{
		Targets:     []string{"127.0.0.1"},
		Port:        port,
		DialTimeout: time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, s.IsAvailable())

	ports, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), ports[0].Address)
	assert.Equal(t, 0.9, ports[0].Confidence)
	assert.Equal(t, "0x1a", ports[0].Details["status"])
	assert.Equal(t, "true", ports[0].Details["offline"])
}

func TestTCPScanner_SilentHost(t *testing.T) {
	t.Parallel()

	port := listenPrinter(t, false)
	s, err := NewTCPScanner(TCPScannerConfig{
		Targets:     []string{"127.0.0.1"},
		Port:        port,
		DialTimeout: 200 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	ports, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, 0.5, ports[0].Confidence)

	empty, err := NewTCPScanner(TCPScannerConfig{Port: 9100}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, empty.IsAvailable())
}

type fakeScanner struct {
	kind  model.ConnectionType
	ports []*DiscoveredPort
	err   error
	avail bool
}

func (f *fakeScanner) Scan(context.Context) ([]*DiscoveredPort, error) { return f.ports, f.err }
func (f *fakeScanner) Type() model.ConnectionType                      { return f.kind }
func (f *fakeScanner) IsAvailable() bool                               { return f.avail }

func TestScannerManager(t *testing.T) {
	t.Parallel()

	sm := NewScannerManager(zap.NewNop())
	sm.RegisterScanner(&fakeScanner{kind: model.ConnectionTypeSerial, avail: true, ports: []*DiscoveredPort{
		{Address: "/dev/ttyS1", Confidence: 0.2},
		{Address: "/dev/ttyS0", Confidence: 0.2},
	}})
	sm.RegisterScanner(&fakeScanner{kind: model.ConnectionTypeUSB, avail: true, ports: []*DiscoveredPort{
		{Address: "0x04b8:0x0202", Confidence: 0.95},
	}})
	sm.RegisterScanner(&fakeScanner{kind: model.ConnectionTypeTCP, avail: true, err: errors.New("boom")})

	all := sm.ScanAll(context.Background())
	require.Len(t, all, 3)
	assert.Equal(t, "0x04b8:0x0202", all[0].Address)
	assert.Equal(t, "/dev/ttyS0", all[1].Address)

	assert.Equal(t, []model.ConnectionType{"serial", "tcp", "usb"}, sm.AvailableScanners())

	_, err := sm.ScanByType(context.Background(), model.ConnectionTypeTCP)
	assert.ErrorContains(t, err, "boom")

	_, err = sm.ScanByType(context.Background(), "bluetooth")
	assert.ErrorIs(t, err, ErrUnknownScanner)

	sm.RegisterScanner(&fakeScanner{kind: model.ConnectionTypeTCP})
	_, err = sm.ScanByType(context.Background(), model.ConnectionTypeTCP)
	assert.ErrorContains(t, err, "not available")
}
