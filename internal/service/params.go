// internal/service/params.go
package service

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
)

// Pseudo-commands handled by the service rather than the catalog
const (
	// FeedMillimetresCommand converts {"mm": n} to ESC J
	FeedMillimetresCommand = "feed_mm"
	// TextCommand converts {"text": "..."} to single-byte characters
	TextCommand = "text"
)

// ErrUnknownCommand is returned for a command name missing from the catalog
var ErrUnknownCommand = errors.New("unknown command")

// ParamError reports a request parameter that cannot be turned into an argument
type ParamError struct {
	Param  string `json:"param"`
	Reason string `json:"reason"`
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %s: %s", e.Param, e.Reason)
}

// CommandError locates a failed command inside a job
type CommandError struct {
	Index   int
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// encodeCommand turns one named request into wire bytes
func encodeCommand(req model.CommandRequest, unitsPerInch int) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(req.Command)) {
	case FeedMillimetresCommand:
		return encodeFeedMillimetres(req.Params, unitsPerInch)
	case TextCommand:
		return encodeText(req.Params)
	}

	d, ok := escpos.LookupName(req.Command)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	}

	args, err := buildArgs(d, req.Params)
	if err != nil {
		return nil, err
	}
	return escpos.Encode(d.Kind, args...)
}

// buildArgs maps JSON parameters onto the descriptor's positional arguments
func buildArgs(d escpos.Descriptor, params map[string]json.RawMessage) ([]escpos.Arg, error) {
	if err := rejectUnknownParams(d, params); err != nil {
		return nil, err
	}

	args := make([]escpos.Arg, len(d.Params))
	for i, p := range d.Params {
		raw, ok := params[p.Name]
		if ok && isNull(raw) {
			ok = false
		}
		if !ok && p.Kind != escpos.ParamFlags {
			return nil, &ParamError{Param: p.Name, Reason: "missing"}
		}

		switch p.Kind {
		case escpos.ParamFlags:
			flags := map[string]bool{}
			if ok {
				if err := json.Unmarshal(raw, &flags); err != nil {
					return nil, &ParamError{Param: p.Name, Reason: "expected an object of booleans"}
				}
			}
			args[i] = escpos.Flags(flags)
		case escpos.ParamRaw:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, &ParamError{Param: p.Name, Reason: "expected a base64 string"}
			}
			data, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, &ParamError{Param: p.Name, Reason: "invalid base64: " + err.Error()}
			}
			args[i] = escpos.Bytes(data)
		case escpos.ParamString:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, &ParamError{Param: p.Name, Reason: "expected a string"}
			}
			args[i] = escpos.Text(s)
		default:
			var n int
			if err := json.Unmarshal(raw, &n); err != nil {
				return nil, &ParamError{Param: p.Name, Reason: "expected an integer"}
			}
			args[i] = escpos.Int(n)
		}
	}
	return args, nil
}

func rejectUnknownParams(d escpos.Descriptor, params map[string]json.RawMessage) error {
	known := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		known[p.Name] = true
	}
	var unknown []string
	for name := range params {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ParamError{Param: unknown[0], Reason: "not a parameter of " + d.Name}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func encodeFeedMillimetres(params map[string]json.RawMessage, unitsPerInch int) ([]byte, error) {
	raw, ok := params["mm"]
	if !ok || isNull(raw) {
		return nil, &ParamError{Param: "mm", Reason: "missing"}
	}
	if len(params) > 1 {
		return nil, &ParamError{Param: "mm", Reason: "feed_mm takes only mm"}
	}
	var mm decimal.Decimal
	if err := json.Unmarshal(raw, &mm); err != nil {
		return nil, &ParamError{Param: "mm", Reason: "expected a decimal number"}
	}
	return escpos.FeedMillimetres(mm, unitsPerInch)
}

func encodeText(params map[string]json.RawMessage) ([]byte, error) {
	raw, ok := params["text"]
	if !ok || isNull(raw) {
		return nil, &ParamError{Param: "text", Reason: "missing"}
	}
	if len(params) > 1 {
		return nil, &ParamError{Param: "text", Reason: "text takes only text"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ParamError{Param: "text", Reason: "expected a string"}
	}
	return escpos.EncodeASCII(s)
}
