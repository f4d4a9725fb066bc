package escpos

import "fmt"

// Status byte layouts returned by DLE EOT n. Bits 1 and 4 are always set and bits 0
// and 7 always clear.
var (
	printerStatusBits = BitTable{
		{Name: "drawer_pin3_high", Position: 2},
		{Name: "offline", Position: 3},
		{Name: "waiting_recovery", Position: 5},
		{Name: "feed_button_pressed", Position: 6},
	}
	offlineStatusBits = BitTable{
		{Name: "cover_open", Position: 2},
		{Name: "feeding_by_button", Position: 3},
		{Name: "paper_end_stop", Position: 5},
		{Name: "error", Position: 6},
	}
	errorStatusBits = BitTable{
		{Name: "mechanical_error", Position: 2},
		{Name: "autocutter_error", Position: 3},
		{Name: "unrecoverable_error", Position: 5},
		{Name: "auto_recoverable_error", Position: 6},
	}
	paperStatusBits = BitTable{
		{Name: "near_end", Position: 2},
		{Name: "near_end_alt", Position: 3},
		{Name: "end", Position: 5},
		{Name: "end_alt", Position: 6},
	}
)

var statusTables = map[StatusType]BitTable{
	StatusPrinter: printerStatusBits,
	StatusOffline: offlineStatusBits,
	StatusError:   errorStatusBits,
	StatusPaper:   paperStatusBits,
}

// IsStatusByte reports whether b has the fixed bits of a real-time status byte
func IsStatusByte(b byte) bool { return b&0x93 == 0x12 }

// DecodeStatus unpacks the byte a printer returns for DLE EOT of type s
func DecodeStatus(s StatusType, b byte) (map[string]bool, error) {
	table, ok := statusTables[s]
	if !ok {
		return nil, &UnsupportedValueError{Param: "status", Value: "<unset>"}
	}
	if !IsStatusByte(b) {
		return nil, invalidPayload("status byte", "0x%02X lacks the fixed status bits", b)
	}
	return decodeBits(table, b), nil
}

// DecodeStatusCode is DecodeStatus keyed by the DLE EOT n code
func DecodeStatusCode(n int, b byte) (map[string]bool, error) {
	for s, code := range statusCodes {
		if int(code) == n {
			return DecodeStatus(s, b)
		}
	}
	return nil, &UnsupportedValueError{Param: "status", Value: fmt.Sprint(n)}
}

func decodeBits(table BitTable, b byte) map[string]bool {
	out := make(map[string]bool, len(table))
	for _, bit := range table {
		out[bit.Name] = b&(1<<bit.Position) != 0
	}
	return out
}
