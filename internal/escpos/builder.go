package escpos

// Build assembles the wire bytes of a validated command:
// opcode, encoded parameters and payload framing, as declared by the catalog
func Build(v *Validated) []byte {
	d := v.desc
	out := make([]byte, 0, encodedSize(d, v))
	out = append(out, d.Opcode...)

	if d.Framing == FramingSizePrefixed {
		low, high := Encode16LE(uint16(len(v.payload) + len(d.Function)))
		out = append(out, low, high)
		out = append(out, d.Function...)
	}

	for i, p := range d.Params {
		switch p.Kind {
		case ParamByte, ParamSelector, ParamFlags:
			out = append(out, byte(v.values[i]))
		case ParamUint16:
			low, high := Encode16LE(uint16(v.values[i]))
			out = append(out, low, high)
		case ParamNibble:
			nibble := byte(v.values[i]-p.Min) << p.Shift
			if p.Shift == 4 {
				out = append(out, nibble)
			} else {
				out[len(out)-1] |= nibble
			}
		case ParamRaw, ParamString:
			out = appendPayload(out, d.Framing, v.payload)
		}
	}

	return append(out, d.Trailer...)
}

func appendPayload(out []byte, framing Framing, payload []byte) []byte {
	switch framing {
	case FramingLengthPrefixedString:
		out = append(out, byte(len(payload)))
		return append(out, payload...)
	case FramingNULTerminated:
		out = append(out, payload...)
		return append(out, NUL)
	default:
		return append(out, payload...)
	}
}

func encodedSize(d *Descriptor, v *Validated) int {
	if n, ok := d.FixedLength(); ok {
		return n
	}
	// opcode, worst-case parameter bytes, size prefix or length/NUL byte, payload
	return len(d.Opcode) + 2*len(d.Params) + len(d.Function) + len(d.Trailer) + 2 + len(v.payload)
}

// Encode validates args for kind and returns the command bytes. A failing call
// returns no bytes.
func Encode(kind Kind, args ...Arg) ([]byte, error) {
	v, err := Validate(kind, args...)
	if err != nil {
		return nil, err
	}
	return Build(v), nil
}

// mustEncode is for commands whose arguments are valid by construction
func mustEncode(kind Kind, args ...Arg) []byte {
	out, err := Encode(kind, args...)
	if err != nil {
		panic(err)
	}
	return out
}
