package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
	"escpos-service/internal/protocol"
)

type fakeTransport struct {
	mu       sync.Mutex
	open     bool
	openErr  error
	writeErr error
	reply    []byte
	writes   [][]byte
	closes   int
}

func (f *fakeTransport) Open(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.closes++
	return nil
}

func (f *fakeTransport) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeTransport) Write(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) Read(_ context.Context, maxBytes int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reply) == 0 {
		return nil, errors.New("timeout")
	}
	return f.reply[:min(maxBytes, len(f.reply))], nil
}

func (f *fakeTransport) Type() model.ConnectionType { return model.ConnectionTypeTCP }
func (f *fakeTransport) Ping(context.Context) error { return nil }
func (f *fakeTransport) Stats() protocol.Stats      { return protocol.Stats{IsConnected: f.IsOpen()} }

func printerConfig() *config.PrinterConfig {
	return &config.PrinterConfig{
		Connection:         "tcp",
		MotionUnitsPerInch: 203,
		JobTimeout:         time.Second,
		ResponseBytes:      8,
	}
}

func cmd(name string, params string) model.CommandRequest {
	req := model.CommandRequest{Command: name}
	if params != "" {
		if err := json.Unmarshal([]byte(params), &req.Params); err != nil {
			panic(err)
		}
	}
	return req
}

func TestCommandService_Encode(t *testing.T) {
	t.Parallel()

	cs := NewCommandService(nil, printerConfig(), zap.NewNop())
	job, err := cs.Encode(&model.EncodeRequest{Commands: []model.CommandRequest{
		cmd("initialize", ""),
		cmd("print_mode", `{"mode": {"emphasized": true, "underline": true}}`),
		cmd("line_spacing", `{"n": 30}`),
		cmd("feed_mm", `{"mm": "10"}`),
		cmd("qr_store", `{"data": "`+base64.StdEncoding.EncodeToString([]byte("hi"))+`"}`),
		cmd("barcode_length", `{"symbology": 73, "data": "{B12"}`),
	}})
	require.NoError(t, err)

	want := []byte{
		0x1B, 0x40,
		0x1B, 0x21, 0x88,
		0x1B, 0x33, 0x1E,
		0x1B, 0x4A, 80,
		0x1D, 0x28, 0x6B, 0x05, 0x00, 0x31, 0x50, 0x30, 'h', 'i',
		0x1D, 0x6B, 0x49, 0x04, '{', 'B', '1', '2',
	}
	assert.Equal(t, want, job.Data)
	assert.Equal(t, len(want), job.Length)
	assert.Equal(t, 6, job.Commands)
	assert.Equal(t, model.JobTypeEncode, job.Type)
	assert.Equal(t, "1b40", job.Hex[:4])
	assert.NotEmpty(t, job.ID)
}

func TestCommandService_EncodeErrors(t *testing.T) {
	t.Parallel()

	cs := NewCommandService(nil, printerConfig(), zap.NewNop())

	tests := []struct {
		name  string
		req   model.CommandRequest
		check func(t *testing.T, err error)
	}{
		{"unknown command", cmd("beep", ""), func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnknownCommand)
		}},
		{"missing param", cmd("line_spacing", ""), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, ParamError{Param: "n", Reason: "missing"}, *pe)
		}},
		{"unknown param", cmd("line_spacing", `{"n": 1, "m": 2}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "m", pe.Param)
		}},
		{"float", cmd("line_spacing", `{"n": 1.5}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
		}},
		{"range", cmd("print_and_feed", `{"n": 300}`), func(t *testing.T, err error) {
			var re *escpos.RangeError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, 300, re.Value)
		}},
		{"selector", cmd("justification", `{"justification": 7}`), func(t *testing.T, err error) {
			var ue *escpos.UnsupportedValueError
			require.True(t, errors.As(err, &ue))
		}},
		{"flag name", cmd("print_mode", `{"mode": {"bold": true}}`), func(t *testing.T, err error) {
			var ue *escpos.UnsupportedValueError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, "bold", ue.Value)
		}},
		{"bad base64", cmd("qr_store", `{"data": "!!"}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
		}},
		{"payload mismatch", cmd("define_downloaded_image", `{"width": 2, "height": 3, "data": "AAAA"}`), func(t *testing.T, err error) {
			var ie *escpos.InvalidPayloadError
			require.True(t, errors.As(err, &ie))
		}},
		{"feed_mm overflow", cmd("feed_mm", `{"mm": 50}`), func(t *testing.T, err error) {
			var re *escpos.RangeError
			require.True(t, errors.As(err, &re))
		}},
		{"null scalar", cmd("line_spacing", `{"n": null}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, ParamError{Param: "n", Reason: "missing"}, *pe)
		}},
		{"null selector", cmd("justification", `{"justification": null}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, ParamError{Param: "justification", Reason: "missing"}, *pe)
		}},
		{"null payload", cmd("qr_store", `{"data": null}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "missing", pe.Reason)
		}},
		{"null mm", cmd("feed_mm", `{"mm": null}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, ParamError{Param: "mm", Reason: "missing"}, *pe)
		}},
		{"text missing", cmd("text", ""), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, ParamError{Param: "text", Reason: "missing"}, *pe)
		}},
		{"text not a string", cmd("text", `{"text": 12}`), func(t *testing.T, err error) {
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "expected a string", pe.Reason)
		}},
		{"text outside single byte range", cmd("text", `{"text": "5 €"}`), func(t *testing.T, err error) {
			var ie *escpos.InvalidPayloadError
			require.True(t, errors.As(err, &ie))
			assert.Contains(t, ie.Detail, "position 2")
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cs.Encode(&model.EncodeRequest{Commands: []model.CommandRequest{cmd("initialize", ""), tt.req}})
			require.Error(t, err)
			var ce *CommandError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, 1, ce.Index)
			assert.Equal(t, tt.req.Command, ce.Command)
			tt.check(t, err)
		})
	}
}

func TestCommandService_NullFlagsDefaultOff(t *testing.T) {
	t.Parallel()

	cs := NewCommandService(nil, printerConfig(), zap.NewNop())
	out, err := cs.EncodeOne(cmd("print_mode", `{"mode": null}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x21, 0x00}, out)
}

func TestCommandService_TextCommand(t *testing.T) {
	t.Parallel()

	cs := NewCommandService(nil, printerConfig(), zap.NewNop())
	job, err := cs.Encode(&model.EncodeRequest{Commands: []model.CommandRequest{
		cmd("text", `{"text": "Café"}`),
		cmd("line_feed", ""),
	}})
	require.NoError(t, err)
	assert.Equal(t, []byte{'C', 'a', 'f', 0xE9, 0x0A}, job.Data)
}

func TestCommandService_PseudoCommandsIgnoreCase(t *testing.T) {
	t.Parallel()

	cs := NewCommandService(nil, printerConfig(), zap.NewNop())

	out, err := cs.EncodeOne(cmd("FEED_MM", `{"mm": 10}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x4A, 80}, out)

	out, err = cs.EncodeOne(cmd(" Text ", `{"text": "ok"}`))
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), out)
}

func TestCommandService_FlagsDefaultOff(t *testing.T) {
	t.Parallel()

	cs := NewCommandService(nil, printerConfig(), zap.NewNop())
	out, err := cs.EncodeOne(cmd("print_mode", ""))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x21, 0x00}, out)
}

func TestCommandService_Print(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	cs := NewCommandService(tr, printerConfig(), zap.NewNop())

	res, err := cs.Print(context.Background(), &model.EncodeRequest{Commands: []model.CommandRequest{
		cmd("initialize", ""), cmd("line_feed", ""),
	}})
	require.NoError(t, err)
	assert.True(t, tr.IsOpen())
	assert.Equal(t, [][]byte{{0x1B, 0x40, 0x0A}}, tr.writes)
	assert.Empty(t, res.Response)
	assert.Equal(t, model.JobTypePrint, res.Type)
	assert.Equal(t, model.ConnectionTypeTCP, res.Connection)
}

func TestCommandService_PrintReadsStatus(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{reply: []byte{0x1E}}
	cs := NewCommandService(tr, printerConfig(), zap.NewNop())

	res, err := cs.Print(context.Background(), &model.EncodeRequest{Commands: []model.CommandRequest{
		cmd("realtime_status", `{"status": 1}`),
	}})
	require.NoError(t, err)
	assert.Equal(t, "1e", res.ResponseHex)
	assert.True(t, res.Status["offline"])
	assert.True(t, res.Status["drawer_pin3_high"])
}

func TestCommandService_PrintSkipsReadForAutoStatusBack(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	cs := NewCommandService(tr, printerConfig(), zap.NewNop())

	res, err := cs.Print(context.Background(), &model.EncodeRequest{Commands: []model.CommandRequest{
		cmd("auto_status_back", `{"events": {"drawer": true, "paper": true}}`),
	}})
	require.NoError(t, err)
	assert.Empty(t, res.Response)
	require.Len(t, tr.writes, 1)
	assert.Equal(t, []byte{0x1D, 0x61, 0x09}, tr.writes[0])
}

func TestCommandService_PrintErrors(t *testing.T) {
	t.Parallel()

	_, err := NewCommandService(nil, printerConfig(), zap.NewNop()).Print(context.Background(), &model.EncodeRequest{})
	assert.ErrorIs(t, err, ErrNoPrinter)

	tr := &fakeTransport{openErr: errors.New("connection refused")}
	cs := NewCommandService(tr, printerConfig(), zap.NewNop())
	_, err = cs.Print(context.Background(), &model.EncodeRequest{Commands: []model.CommandRequest{cmd("line_feed", "")}})
	var pe *PrinterError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "open", pe.Op)
	assert.False(t, cs.Ready())

	tr = &fakeTransport{writeErr: errors.New("broken pipe")}
	cs = NewCommandService(tr, printerConfig(), zap.NewNop())
	_, err = cs.Print(context.Background(), &model.EncodeRequest{Commands: []model.CommandRequest{cmd("line_feed", "")}})
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "write", pe.Op)
	assert.Equal(t, 1, tr.closes)

	tr = &fakeTransport{}
	cs = NewCommandService(tr, printerConfig(), zap.NewNop())
	_, err = cs.Print(context.Background(), &model.EncodeRequest{Commands: []model.CommandRequest{cmd("transmit_status", `{"status": 1}`)}})
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "read", pe.Op)
}

func TestCommandService_PrintJobsDoNotInterleave(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	cs := NewCommandService(tr, printerConfig(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cs.Print(context.Background(), &model.EncodeRequest{Commands: []model.CommandRequest{
				cmd("initialize", ""), cmd("line_feed", ""),
			}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, tr.writes, 16)
	for _, w := range tr.writes {
		assert.Equal(t, []byte{0x1B, 0x40, 0x0A}, w)
	}
}

func TestCommandService_Catalog(t *testing.T) {
	t.Parallel()

	cs := NewCommandService(nil, printerConfig(), zap.NewNop())
	all := cs.Commands()
	require.NotEmpty(t, all)

	info, ok := cs.Command("LINE_SPACING")
	require.True(t, ok)
	assert.Equal(t, "1b33", info.OpcodeHex)
	assert.Equal(t, 3, info.FixedLength)

	_, ok = cs.Command("nope")
	assert.False(t, ok)

	assert.True(t, cs.Ready())
	assert.False(t, cs.HasPrinter())
	assert.Nil(t, cs.PrinterStats())
	assert.ErrorIs(t, cs.Ping(context.Background()), ErrNoPrinter)
}
