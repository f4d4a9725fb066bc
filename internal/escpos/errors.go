package escpos

import "fmt"

// RangeError reports a scalar parameter outside its legal numeric range
type RangeError struct {
	Param string `json:"param"`
	Value int    `json:"value"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("escpos: %s=%d out of range [%d,%d]", e.Param, e.Value, e.Min, e.Max)
}

// UnsupportedValueError reports a selector value that is not one of its legal variants
type UnsupportedValueError struct {
	Param string `json:"param"`
	Value string `json:"value"`
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("escpos: unsupported %s value %s", e.Param, e.Value)
}

// InvalidPayloadError reports a payload that cannot be framed: wrong length for the
// declared dimensions, text outside the single-byte range or a symbology alphabet violation
type InvalidPayloadError struct {
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

func (e *InvalidPayloadError) Error() string {
	if e.Detail == "" {
		return "escpos: invalid payload: " + e.Reason
	}
	return fmt.Sprintf("escpos: invalid payload: %s (%s)", e.Reason, e.Detail)
}

func invalidPayload(reason, format string, args ...interface{}) *InvalidPayloadError {
	return &InvalidPayloadError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
