package escpos

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

type argKind int

const (
	argInt argKind = iota
	argFlags
	argBytes
	argText
)

// Arg is one positional parameter value passed to Encode
type Arg struct {
	kind  argKind
	n     int
	flags map[string]bool
	data  []byte
	text  string
}

// Int is a scalar, 16-bit or selector code argument
func Int(n int) Arg { return Arg{kind: argInt, n: n} }

// Flags is a bit-flag argument keyed by flag name
func Flags(flags map[string]bool) Arg { return Arg{kind: argFlags, flags: flags} }

// Bytes is a raw payload argument
func Bytes(data []byte) Arg { return Arg{kind: argBytes, data: data} }

// Text is a string payload argument
func Text(s string) Arg { return Arg{kind: argText, text: s} }

// Validated holds arguments that passed every catalog check for one command
type Validated struct {
	desc    *Descriptor
	values  []int
	payload []byte
}

// Kind returns the command the arguments were validated for
func (v *Validated) Kind() Kind { return v.desc.Kind }

// Validate checks args against the catalog entry of kind. Parameters are checked left
// to right; cross-parameter constraints on the scalars run before the first payload
// parameter, and the payload framing rules run last. The first violation is returned.
func Validate(kind Kind, args ...Arg) (*Validated, error) {
	if kind < 0 || kind >= kindCount {
		return nil, fmt.Errorf("escpos: unknown command kind %d", kind)
	}
	d := &catalog[kind]
	if len(args) != len(d.Params) {
		return nil, fmt.Errorf("escpos: %s takes %d arguments, got %d", d.Name, len(d.Params), len(args))
	}

	v := &Validated{desc: d, values: make([]int, len(d.Params))}
	scalarsChecked := false
	checkScalars := func() error {
		if scalarsChecked || d.check == nil {
			return nil
		}
		scalarsChecked = true
		return d.check(v.values)
	}

	for i, p := range d.Params {
		arg := args[i]
		if err := checkArgKind(d, p, arg); err != nil {
			return nil, err
		}

		switch p.Kind {
		case ParamByte, ParamNibble:
			b, err := EncodeScalar(p.Name, arg.n, p.Min, p.Max)
			if err != nil {
				return nil, err
			}
			v.values[i] = int(b)
		case ParamUint16:
			if _, _, err := EncodeWord(p.Name, arg.n, p.Min, p.Max); err != nil {
				return nil, err
			}
			v.values[i] = arg.n
		case ParamSelector:
			if !containsInt(p.Values, arg.n) {
				return nil, &UnsupportedValueError{Param: p.Name, Value: strconv.Itoa(arg.n)}
			}
			v.values[i] = arg.n
		case ParamFlags:
			if name, ok := unknownFlag(p.Bits, arg.flags); ok {
				return nil, &UnsupportedValueError{Param: p.Name, Value: name}
			}
			v.values[i] = int(EncodeBitFlags(arg.flags, p.Bits))
		case ParamRaw:
			if err := checkScalars(); err != nil {
				return nil, err
			}
			if err := checkPayloadLength(p, len(arg.data)); err != nil {
				return nil, err
			}
			v.payload = arg.data
		case ParamString:
			if err := checkScalars(); err != nil {
				return nil, err
			}
			text, err := EncodeASCII(arg.text)
			if err != nil {
				return nil, err
			}
			if err := checkPayloadLength(p, len(text)); err != nil {
				return nil, err
			}
			v.payload = text
		}
	}

	if err := checkScalars(); err != nil {
		return nil, err
	}
	if d.payloadCheck != nil {
		if err := d.payloadCheck(v.values, v.payload); err != nil {
			return nil, err
		}
	}

	if err := checkFraming(d, v); err != nil {
		return nil, err
	}

	v.payload = bytes.Clone(v.payload)
	return v, nil
}

func checkArgKind(d *Descriptor, p ParamSpec, arg Arg) error {
	want := argInt
	switch p.Kind {
	case ParamFlags:
		want = argFlags
	case ParamRaw:
		want = argBytes
	case ParamString:
		if arg.kind == argBytes {
			return fmt.Errorf("escpos: %s.%s takes text, not raw bytes", d.Name, p.Name)
		}
		want = argText
	}
	if arg.kind != want {
		return fmt.Errorf("escpos: %s.%s takes a %s argument", d.Name, p.Name, p.Kind)
	}
	return nil
}

func checkPayloadLength(p ParamSpec, n int) error {
	if n < p.Min || n > p.Max {
		return invalidPayload("payload length", "%s is %d bytes, allowed %d to %d", p.Name, n, p.Min, p.Max)
	}
	return nil
}

func checkFraming(d *Descriptor, v *Validated) error {
	switch d.Framing {
	case FramingLengthPrefixedRaw:
		if want := d.payloadLength(v.values); len(v.payload) != want {
			return invalidPayload("payload length mismatch",
				"%s declares %d bytes, got %d", d.Name, want, len(v.payload))
		}
	case FramingNULTerminated:
		if i := bytes.IndexByte(v.payload, NUL); i >= 0 {
			return invalidPayload("NUL in NUL-terminated payload", "position %d", i)
		}
	case FramingLengthPrefixedString:
		if len(v.payload) > 255 {
			return invalidPayload("payload length", "%d bytes exceed the 1-byte length prefix", len(v.payload))
		}
	case FramingSizePrefixed:
		if n := len(v.payload) + len(d.Function); n > 65535 {
			return invalidPayload("payload length", "%d bytes exceed the 16-bit size prefix", n)
		}
	}
	return nil
}

func containsInt(values []int, n int) bool {
	for _, v := range values {
		if v == n {
			return true
		}
	}
	return false
}

// unknownFlag returns the first, in name order, flag missing from table
func unknownFlag(table BitTable, flags map[string]bool) (string, bool) {
	var unknown []string
	for name := range flags {
		if !table.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return "", false
	}
	sort.Strings(unknown)
	return unknown[0], true
}
