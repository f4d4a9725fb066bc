package escpos

import (
	"fmt"
	"strconv"
)

// Control bytes
const (
	HT  byte = 0x09
	LF  byte = 0x0A
	FF  byte = 0x0C
	CR  byte = 0x0D
	DLE byte = 0x10
	DC4 byte = 0x14
	CAN byte = 0x18
	ESC byte = 0x1B
	GS  byte = 0x1D
	NUL byte = 0x00
)

// Bit names one flag of a bit-flag parameter and its position in the packed byte
type Bit struct {
	Name     string `json:"name"`
	Position uint   `json:"position"`
}

// BitTable is the fixed flag layout of one bit-flag parameter
type BitTable []Bit

// Has reports whether name is a flag of the table
func (t BitTable) Has(name string) bool {
	for _, b := range t {
		if b.Name == name {
			return true
		}
	}
	return false
}

// EncodeScalar range-checks value and truncates it to one byte
func EncodeScalar(param string, value, min, max int) (byte, error) {
	if value < min || value > max {
		return 0, &RangeError{Param: param, Value: value, Min: min, Max: max}
	}
	return byte(value), nil
}

// EncodeWord range-checks value and splits it into its low and high bytes
func EncodeWord(param string, value, min, max int) (low, high byte, err error) {
	if value < min || value > max || value < 0 || value > 0xFFFF {
		return 0, 0, &RangeError{Param: param, Value: value, Min: min, Max: max}
	}
	low, high = Encode16LE(uint16(value))
	return low, high, nil
}

// Encode16LE splits value into its low and high bytes
func Encode16LE(value uint16) (low, high byte) {
	return byte(value % 256), byte(value / 256)
}

// EncodeBitFlags packs the true-valued flags into one byte using table.
// Flag names missing from the table are a caller bug and panic.
func EncodeBitFlags(flags map[string]bool, table BitTable) byte {
	var b byte
	for name, on := range flags {
		pos, ok := bitPosition(table, name)
		if !ok {
			panic(fmt.Sprintf("escpos: unknown flag %q", name))
		}
		if on {
			b |= 1 << pos
		}
	}
	return b
}

func bitPosition(table BitTable, name string) (uint, bool) {
	for _, bit := range table {
		if bit.Name == name {
			return bit.Position, true
		}
	}
	return 0, false
}

// EncodeASCII maps every character of text to its single-byte code point
func EncodeASCII(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	pos := 0
	for _, r := range text {
		if r > 0xFF {
			return nil, invalidPayload("character outside single-byte range",
				"position %d: %s", pos, strconv.QuoteRune(r))
		}
		out = append(out, byte(r))
		pos++
	}
	return out, nil
}
