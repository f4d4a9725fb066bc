package escpos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validValues picks the smallest legal value of every scalar parameter
func validValues(d Descriptor) []int {
	values := make([]int, len(d.Params))
	for i, p := range d.Params {
		switch p.Kind {
		case ParamSelector:
			values[i] = p.Values[0]
		case ParamByte, ParamUint16, ParamNibble:
			values[i] = p.Min
		}
	}
	return values
}

// argsFor turns values into arguments, sizing payloads to what the dimensions declare
func argsFor(d Descriptor, values []int) []Arg {
	args := make([]Arg, len(d.Params))
	for i, p := range d.Params {
		switch p.Kind {
		case ParamFlags:
			args[i] = Flags(nil)
		case ParamRaw:
			n := p.Min
			if fn := catalog[d.Kind].payloadLength; fn != nil {
				n = max(fn(values), 0)
			}
			args[i] = Bytes(make([]byte, n))
		case ParamString:
			args[i] = Text("01234567890")
		default:
			args[i] = Int(values[i])
		}
	}
	return args
}

func TestCatalog_Integrity(t *testing.T) {
	t.Parallel()

	seen := make(map[string]Kind)
	for i, d := range Descriptors() {
		require.Equal(t, Kind(i), d.Kind, "catalog entry %d", i)
		require.NotEmpty(t, d.Name, "kind %d", i)
		require.NotEmpty(t, d.Opcode, d.Name)

		prev, dup := seen[d.Name]
		require.False(t, dup, "%s registered for %d and %d", d.Name, prev, d.Kind)
		seen[d.Name] = d.Kind

		for j, p := range d.Params {
			if p.Kind.isPayload() {
				assert.Equal(t, len(d.Params)-1, j, "%s: payload must be the last parameter", d.Name)
			}
		}

		switch d.Framing {
		case FramingNone:
			assert.Empty(t, d.Params, d.Name)
		case FramingLengthPrefixedRaw:
			assert.NotNil(t, catalog[d.Kind].payloadLength, d.Name)
		}
	}
	assert.Len(t, seen, int(kindCount))
}

func TestCatalog_LookupReturnsCopies(t *testing.T) {
	t.Parallel()

	d, ok := Lookup(KindPrintMode)
	require.True(t, ok)
	d.Opcode[0] = 0xFF
	d.Params[0].Bits[0].Position = 6

	again, ok := LookupName("PRINT_MODE")
	require.True(t, ok)
	assert.Equal(t, []byte{ESC, '!'}, again.Opcode)
	assert.Equal(t, uint(0), again.Params[0].Bits[0].Position)

	_, ok = Lookup(kindCount)
	assert.False(t, ok)
	_, ok = LookupName("no_such_command")
	assert.False(t, ok)
}

func TestCatalog_SelectorTablesMatchCatalog(t *testing.T) {
	t.Parallel()

	check := func(kind Kind, codes []byte) {
		d, _ := Lookup(kind)
		var sel *ParamSpec
		for i := range d.Params {
			if d.Params[i].Kind == ParamSelector {
				sel = &d.Params[i]
				break
			}
		}
		require.NotNil(t, sel, d.Name)
		for _, c := range codes {
			assert.Contains(t, sel.Values, int(c), d.Name)
		}
	}

	check(KindJustification, mapValues(justificationCodes))
	check(KindFont, mapValues(fontCodes))
	check(KindHRIFont, mapValues(hriFontCodes))
	check(KindInternationalCharset, mapValues(charsetCodes))
	check(KindCodeTable, mapValues(codeTableCodes))
	check(KindPrintDirection, mapValues(directionCodes))
	check(KindUnderline, mapValues(underlineCodes))
	check(KindHRIPosition, mapValues(hriPositionCodes))
	check(KindCut, mapValues(cutCodes))
	check(KindBitImage, mapValues(bitImageCodes))
	check(KindRasterImage, mapValues(imageScaleCodes))
	check(KindPrintDownloadedImage, mapValues(imageScaleCodes))
	check(KindRealtimeStatus, mapValues(statusCodes))
	check(KindTransmitStatus, mapValues(transmitStatusCodes))
	check(KindPrinterID, mapValues(printerIDCodes))
	check(KindGeneratePulse, mapValues(drawerPinCodes))
	check(KindRealtimePulse, mapValues(drawerPinCodes))
	check(KindRealtimeRequest, mapValues(recoveryCodes))
	check(KindQRModel, mapValues(qrModelCodes))
	check(KindQRErrorCorrection, mapValues(qrLevelCodes))

	var nul, prefixed []byte
	for _, r := range symbologyRules {
		if r.nulCode >= 0 {
			nul = append(nul, byte(r.nulCode))
		}
		prefixed = append(prefixed, byte(r.lenCode))
	}
	check(KindBarcode, nul)
	check(KindBarcodeLength, prefixed)
}

func mapValues[K comparable](m map[K]byte) []byte {
	out := make([]byte, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func TestCatalog_FixedLengths(t *testing.T) {
	t.Parallel()

	for _, d := range Descriptors() {
		want, ok := d.FixedLength()
		if !ok {
			continue
		}
		out, err := Encode(d.Kind, argsFor(d, validValues(d))...)
		require.NoError(t, err, d.Name)
		assert.Len(t, out, want, d.Name)
		assert.Equal(t, d.Opcode, out[:len(d.Opcode)], d.Name)
	}
}

func TestCatalog_ScalarBoundaries(t *testing.T) {
	t.Parallel()

	for _, d := range Descriptors() {
		for i, p := range d.Params {
			switch p.Kind {
			case ParamByte, ParamUint16, ParamNibble:
			default:
				continue
			}
			// the last glyph code must repeat the first and is covered separately
			if d.Kind == KindUserCharacter && p.Name == "last" {
				continue
			}

			try := func(n int) error {
				values := validValues(d)
				values[i] = n
				if d.Kind == KindUserCharacter {
					values[2] = values[1]
				}
				_, err := Encode(d.Kind, argsFor(d, values)...)
				return err
			}

			assert.NoError(t, try(p.Min), "%s.%s min", d.Name, p.Name)
			assert.NoError(t, try(p.Max), "%s.%s max", d.Name, p.Name)

			var rangeErr *RangeError
			if assert.True(t, errors.As(try(p.Min-1), &rangeErr), "%s.%s min-1", d.Name, p.Name) {
				assert.Equal(t, p.Name, rangeErr.Param)
				assert.Equal(t, p.Min-1, rangeErr.Value)
			}
			if assert.True(t, errors.As(try(p.Max+1), &rangeErr), "%s.%s max+1", d.Name, p.Name) {
				assert.Equal(t, p.Max, rangeErr.Max)
			}
		}
	}
}

func TestCatalog_ConcurrentEncode(t *testing.T) {
	t.Parallel()

	want := SetPrintMode(PrintMode{Emphasized: true, Underline: true})
	done := make(chan []byte, 32)
	for i := 0; i < cap(done); i++ {
		go func() {
			done <- SetPrintMode(PrintMode{Emphasized: true, Underline: true})
		}()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, want, <-done)
	}
}

func TestCatalog_RepliesOnlyForSynchronousQueries(t *testing.T) {
	t.Parallel()

	replies := map[Kind]bool{
		KindRealtimeStatus:    true,
		KindTransmitStatus:    true,
		KindPrinterID:         true,
		KindPaperSensorStatus: true,
		KindPeripheralStatus:  true,
	}
	for _, d := range Descriptors() {
		assert.Equal(t, replies[d.Kind], d.Replies, d.Name)
		if d.Replies {
			assert.NotEmpty(t, d.Response, d.Name)
		}
	}

	asb, ok := Lookup(KindAutoStatusBack)
	require.True(t, ok)
	assert.NotEmpty(t, asb.Response)
	assert.False(t, asb.Replies)
}
