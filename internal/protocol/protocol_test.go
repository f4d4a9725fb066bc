package protocol

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
)

// fakePort implements serial.Port over in-memory buffers
type fakePort struct {
	mu        sync.Mutex
	readData  []byte
	written   bytes.Buffer
	readErr   error
	writeErr  error
	closed    bool
	timeout   time.Duration
	timeouts  []time.Duration
	drainCall int
}

func (p *fakePort) Break(time.Duration) error                            { return nil }
func (p *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) { return nil, nil }
func (p *fakePort) ResetInputBuffer() error                              { return nil }
func (p *fakePort) ResetOutputBuffer() error                             { return nil }
func (p *fakePort) SetDTR(bool) error                                    { return nil }
func (p *fakePort) SetMode(*serial.Mode) error                           { return nil }
func (p *fakePort) SetRTS(bool) error                                    { return nil }

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = t
	p.timeouts = append(p.timeouts, t)
	return nil
}

func (p *fakePort) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drainCall++
	return nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return 0, p.readErr
	}
	n := copy(b, p.readData)
	p.readData = p.readData[n:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func newFakeSerial(t *testing.T, port *fakePort) (*SerialConnection, *serial.Mode) {
	t.Helper()
	var gotMode *serial.Mode
	opener := func(name string, mode *serial.Mode) (serial.Port, error) {
		assert.Equal(t, "/dev/ttyUSB0", name)
		gotMode = mode
		return port, nil
	}
	sc := NewSerialConnection(&SerialConfig{
		Port: "/dev/ttyUSB0", BaudRate: 19200, DataBits: 8, StopBits: 2, Parity: "even", Timeout: time.Second,
	}, opener, zap.NewNop())
	require.NoError(t, sc.Open(context.Background()))
	return sc, gotMode
}

func TestSerialConnection_WriteRead(t *testing.T) {
	t.Parallel()

	port := &fakePort{readData: []byte{0x12}}
	sc, mode := newFakeSerial(t, port)

	assert.Equal(t, &serial.Mode{BaudRate: 19200, DataBits: 8, StopBits: serial.TwoStopBits, Parity: serial.EvenParity}, mode)
	assert.Equal(t, time.Second, port.timeout)
	assert.True(t, sc.IsOpen())
	assert.Equal(t, model.ConnectionTypeSerial, sc.Type())

	require.NoError(t, sc.Write(context.Background(), []byte{0x1B, 0x40}))
	assert.Equal(t, []byte{0x1B, 0x40}, port.written.Bytes())
	assert.Equal(t, 1, port.drainCall)

	data, err := sc.Read(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12}, data)

	stats := sc.Stats()
	assert.Equal(t, int64(2), stats.BytesWritten)
	assert.Equal(t, int64(1), stats.BytesRead)
	assert.True(t, stats.IsConnected)

	require.NoError(t, sc.Close())
	assert.True(t, port.closed)
	assert.False(t, sc.Stats().IsConnected)
	assert.ErrorIs(t, sc.Write(context.Background(), []byte{0x0A}), ErrNotOpen)
}

func TestSerialConnection_ReadTimeout(t *testing.T) {
	t.Parallel()

	sc, _ := newFakeSerial(t, &fakePort{})
	_, err := sc.Read(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Equal(t, int64(1), sc.Stats().ErrorCount)
}

func TestSerialConnection_ReadBoundedByContext(t *testing.T) {
	t.Parallel()

	port := &fakePort{readData: []byte{0x12}}
	sc, _ := newFakeSerial(t, port)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	data, err := sc.Read(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12}, data)

	port.mu.Lock()
	defer port.mu.Unlock()
	require.Len(t, port.timeouts, 3)
	assert.LessOrEqual(t, port.timeouts[1], 200*time.Millisecond)
	assert.Equal(t, time.Second, port.timeouts[2])
}

func TestReadAsync_KeepsBytesArrivingOnCancel(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	read := func(b []byte) (int, error) {
		<-release
		return copy(b, []byte{0x12}), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data, err := readAsync(ctx, 4, read, func() { close(release) })
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12}, data)
}

func TestReadAsync_CancelWithoutBytes(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	read := func([]byte) (int, error) {
		<-release
		return 0, errors.New("i/o timeout")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := readAsync(ctx, 4, read, func() { close(release) })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSerialConnection_Errors(t *testing.T) {
	t.Parallel()

	port := &fakePort{writeErr: errors.New("device unplugged"), readErr: io.ErrUnexpectedEOF}
	sc, _ := newFakeSerial(t, port)

	err := sc.Write(context.Background(), []byte{0x0A})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")

	_, err = sc.Read(context.Background(), 1)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sc.Write(ctx, []byte{0x0A}), context.Canceled)
}

func TestSerialConnection_Ping(t *testing.T) {
	t.Parallel()

	port := &fakePort{readData: []byte{0x16}}
	sc, _ := newFakeSerial(t, port)
	require.NoError(t, sc.Ping(context.Background()))
	assert.Equal(t, []byte{0x10, 0x04, 0x01}, port.written.Bytes())

	port.readData = []byte{0xFF}
	err := sc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status reply")
}

// printerStub accepts one connection, records what it receives and answers DLE EOT
// queries with status
func printerStub(t *testing.T, status byte) (addr string, received func() []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var mu sync.Mutex
	var got []byte
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			mu.Lock()
			got = append(got, buf[:n]...)
			mu.Unlock()
			if bytes.Contains(buf[:n], []byte{0x10, 0x04}) {
				conn.Write([]byte{status})
			}
		}
	}()

	return ln.Addr().String(), func() []byte {
		mu.Lock()
		defer mu.Unlock()
		return append([]byte(nil), got...)
	}
}

func newTCP(t *testing.T, addr string) *TCPConnection {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := net.LookupPort("tcp", portStr)
	require.NoError(t, err)
	return NewTCPConnection(&TCPConfig{
		Host: host, Port: port, ConnectTimeout: time.Second, ReadTimeout: time.Second, WriteTimeout: time.Second,
	}, zap.NewNop())
}

func TestTCPConnection_RoundTrip(t *testing.T) {
	t.Parallel()

	addr, received := printerStub(t, 0x12)
	tc := newTCP(t, addr)
	ctx := context.Background()

	assert.ErrorIs(t, tc.Write(ctx, []byte{0x0A}), ErrNotOpen)
	require.NoError(t, tc.Open(ctx))
	require.NoError(t, tc.Open(ctx))
	defer tc.Close()

	require.NoError(t, tc.Write(ctx, []byte{0x1B, 0x40, 0x0A}))
	require.NoError(t, tc.Ping(ctx))

	assert.Eventually(t, func() bool {
		return bytes.Equal(received(), []byte{0x1B, 0x40, 0x0A, 0x10, 0x04, 0x01})
	}, time.Second, 10*time.Millisecond)

	stats := tc.Stats()
	assert.Equal(t, int64(6), stats.BytesWritten)
	assert.Equal(t, int64(1), stats.BytesRead)
	assert.Equal(t, model.ConnectionTypeTCP, tc.Type())
}

func TestTCPConnection_ReadHonoursContext(t *testing.T) {
	t.Parallel()

	addr, _ := printerStub(t, 0x12)
	tc := newTCP(t, addr)
	tc.config.ReadTimeout = 0
	require.NoError(t, tc.Open(context.Background()))
	defer tc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := tc.Read(ctx, 1)
	require.Error(t, err)
}

func TestTCPConnection_DialFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	tc := newTCP(t, addr)
	err = tc.Open(context.Background())
	require.Error(t, err)
	assert.False(t, tc.IsOpen())
}

func TestCreateTransport(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()

	tr, err := CreateTransport(&config.PrinterConfig{Connection: "none"}, logger)
	require.NoError(t, err)
	assert.Nil(t, tr)

	tr, err = CreateTransport(&config.PrinterConfig{Connection: "tcp", TCP: config.TCPPortConfig{Host: "printer", Port: 9100}}, logger)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionTypeTCP, tr.Type())

	tr, err = CreateTransport(&config.PrinterConfig{Connection: "serial", Serial: config.SerialPortConfig{Port: "/dev/ttyS0"}}, logger)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionTypeSerial, tr.Type())

	tr, err = CreateTransport(&config.PrinterConfig{Connection: "usb", USB: config.USBPortConfig{VendorID: "0x04b8", ProductID: "0202"}}, logger)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionTypeUSB, tr.Type())

	_, err = CreateTransport(&config.PrinterConfig{Connection: "usb", USB: config.USBPortConfig{VendorID: "epson", ProductID: "0202"}}, logger)
	assert.Error(t, err)

	_, err = CreateTransport(&config.PrinterConfig{Connection: "tcp", TCP: config.TCPPortConfig{Host: "printer"}}, logger)
	assert.Error(t, err)

	_, err = CreateTransport(&config.PrinterConfig{Connection: "bluetooth"}, logger)
	assert.Error(t, err)
}

func TestParseUSBID(t *testing.T) {
	t.Parallel()

	id, err := ParseUSBID("0x04B8")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x04B8), uint16(id))

	_, err = ParseUSBID("10000")
	assert.Error(t, err)
}
