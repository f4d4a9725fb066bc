package escpos

import (
	"fmt"
	"strings"
)

// Symbology selects a GS k barcode type
type Symbology struct{ name string }

var (
	UPCA    = Symbology{"UPC-A"}
	UPCE    = Symbology{"UPC-E"}
	EAN13   = Symbology{"EAN13"}
	EAN8    = Symbology{"EAN8"}
	CODE39  = Symbology{"CODE39"}
	ITF     = Symbology{"ITF"}
	CODABAR = Symbology{"CODABAR"}
	CODE93  = Symbology{"CODE93"}
	CODE128 = Symbology{"CODE128"}
)

func (s Symbology) String() string { return s.name }

type symbologyRule struct {
	symbology Symbology
	// nulCode is the GS k m value of the NUL-terminated form, -1 when there is none
	nulCode  int
	lenCode  int
	validate func(data []byte) error
}

var symbologyRules = []symbologyRule{
	{UPCA, 0, 65, digitsOfLength(UPCA, 11, 12)},
	{UPCE, 1, 66, validateUPCE},
	{EAN13, 2, 67, digitsOfLength(EAN13, 12, 13)},
	{EAN8, 3, 68, digitsOfLength(EAN8, 7, 8)},
	{CODE39, 4, 69, validateCode39},
	{ITF, 5, 70, validateITF},
	{CODABAR, 6, 71, validateCodabar},
	{CODE93, -1, 72, validateCode93},
	{CODE128, -1, 73, validateCode128},
}

func symbologyRuleFor(s Symbology) (symbologyRule, bool) {
	for _, r := range symbologyRules {
		if r.symbology == s {
			return r, true
		}
	}
	return symbologyRule{}, false
}

func symbologyRuleByCode(code int) (symbologyRule, bool) {
	for _, r := range symbologyRules {
		if r.nulCode == code || r.lenCode == code {
			return r, true
		}
	}
	return symbologyRule{}, false
}

// ValidateBarcode checks data against the alphabet and length rules of s
func ValidateBarcode(s Symbology, data []byte) error {
	rule, ok := symbologyRuleFor(s)
	if !ok {
		return &UnsupportedValueError{Param: "symbology", Value: "<unset>"}
	}
	return rule.validate(data)
}

func checkBarcode(v []int, payload []byte) error {
	rule, ok := symbologyRuleByCode(v[0])
	if !ok {
		return &UnsupportedValueError{Param: "symbology", Value: fmt.Sprint(v[0])}
	}
	return rule.validate(payload)
}

func barcodeLength(s Symbology, n int, allowed string) error {
	return invalidPayload("barcode length", "%s accepts %s characters, got %d", s, allowed, n)
}

func badSymbol(s Symbology, data []byte, pos int) error {
	return invalidPayload("barcode alphabet", "%s does not accept byte 0x%02X at position %d", s, data[pos], pos)
}

func firstNonDigit(data []byte) int {
	for i, b := range data {
		if b < '0' || b > '9' {
			return i
		}
	}
	return -1
}

func digitsOfLength(s Symbology, min, max int) func([]byte) error {
	return func(data []byte) error {
		if len(data) < min || len(data) > max {
			return barcodeLength(s, len(data), fmt.Sprintf("%d to %d", min, max))
		}
		if pos := firstNonDigit(data); pos >= 0 {
			return badSymbol(s, data, pos)
		}
		return nil
	}
}

func validateUPCE(data []byte) error {
	switch len(data) {
	case 6:
	case 7, 8, 11, 12:
		if data[0] != '0' {
			return badSymbol(UPCE, data, 0)
		}
	default:
		return barcodeLength(UPCE, len(data), "6, 7, 8, 11 or 12")
	}
	if pos := firstNonDigit(data); pos >= 0 {
		return badSymbol(UPCE, data, pos)
	}
	return nil
}

const code39Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./"

func validateCode39(data []byte) error {
	if len(data) < 1 {
		return barcodeLength(CODE39, len(data), "at least 1")
	}
	for i, b := range data {
		if !strings.ContainsRune(code39Alphabet, rune(b)) {
			return badSymbol(CODE39, data, i)
		}
	}
	return nil
}

func validateITF(data []byte) error {
	if len(data) < 2 || len(data)%2 != 0 {
		return barcodeLength(ITF, len(data), "an even number, at least 2, of")
	}
	if pos := firstNonDigit(data); pos >= 0 {
		return badSymbol(ITF, data, pos)
	}
	return nil
}

const (
	codabarAlphabet   = "0123456789$+-./:"
	codabarStartStops = "ABCDabcd"
)

func validateCodabar(data []byte) error {
	if len(data) < 2 {
		return barcodeLength(CODABAR, len(data), "at least 2")
	}
	last := len(data) - 1
	for i, b := range data {
		alphabet := codabarAlphabet
		if i == 0 || i == last {
			alphabet = codabarStartStops
		}
		if !strings.ContainsRune(alphabet, rune(b)) {
			return badSymbol(CODABAR, data, i)
		}
	}
	return nil
}

func validateCode93(data []byte) error {
	if len(data) < 1 || len(data) > 255 {
		return barcodeLength(CODE93, len(data), "1 to 255")
	}
	for i, b := range data {
		if b > 0x7F {
			return badSymbol(CODE93, data, i)
		}
	}
	return nil
}

func validateCode128(data []byte) error {
	if len(data) < 2 || len(data) > 255 {
		return barcodeLength(CODE128, len(data), "2 to 255")
	}
	if data[0] != '{' {
		return badSymbol(CODE128, data, 0)
	}
	if data[1] != 'A' && data[1] != 'B' && data[1] != 'C' {
		return badSymbol(CODE128, data, 1)
	}
	for i, b := range data {
		if b > 0x7F {
			return badSymbol(CODE128, data, i)
		}
	}
	return nil
}
