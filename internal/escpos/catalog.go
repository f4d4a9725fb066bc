package escpos

import (
	"slices"
	"strings"
)

// Kind identifies one command of the catalog
type Kind int

const (
	// No payload
	KindHorizontalTab Kind = iota
	KindLineFeed
	KindCarriageReturn
	KindFormFeed
	KindCancel
	KindInitialize
	KindDefaultLineSpacing
	KindPrintPage
	KindSelectPageMode
	KindSelectStandardMode
	KindMacroDefinition
	KindPaperSensorStatus
	KindQRPrint

	// Fixed scalars
	KindRightSpacing
	KindAbsolutePosition
	KindRelativePosition
	KindLineSpacing
	KindPrintAndFeed
	KindPrintAndFeedLines
	KindPrintArea
	KindPrintDirection
	KindPanelButtons
	KindGeneratePulse
	KindCodeTable
	KindInternationalCharset
	KindJustification
	KindFont
	KindEmphasized
	KindDoubleStrike
	KindUnderline
	KindRotation
	KindUserCharacterSet
	KindCancelUserCharacter
	KindPeripheralStatus
	KindCharacterSize
	KindHRIPosition
	KindHRIFont
	KindBarcodeHeight
	KindBarcodeWidth
	KindLeftMargin
	KindPrintAreaWidth
	KindMotionUnits
	KindAbsoluteVerticalPosition
	KindRelativeVerticalPosition
	KindCut
	KindFeedAndCut
	KindTransmitStatus
	KindPrinterID
	KindPrintDownloadedImage
	KindExecuteMacro
	KindRealtimeStatus
	KindRealtimeRequest
	KindRealtimePulse
	KindQRModel
	KindQRModuleSize
	KindQRErrorCorrection

	// Bit flags
	KindPrintMode
	KindUpsideDown
	KindReverse
	KindSmoothing
	KindAutoStatusBack
	KindPaperSensorSignals
	KindPaperSensorStop
	KindPeripheralDevice

	// Variable payload
	KindUserCharacter
	KindBitImage
	KindDefineDownloadedImage
	KindRasterImage
	KindQRStore
	KindBarcode
	KindBarcodeLength

	kindCount
)

// Framing is the byte layout used to carry a command's parameters and payload
type Framing int

const (
	FramingNone Framing = iota
	FramingFixed
	FramingBitFlags
	FramingLengthPrefixedRaw
	FramingNULTerminated
	FramingLengthPrefixedString
	// FramingSizePrefixed is the GS ( function layout: opcode, 16-bit size of
	// function bytes plus data, function bytes, data
	FramingSizePrefixed
)

var framingNames = [...]string{
	FramingNone:                 "none",
	FramingFixed:                "fixed",
	FramingBitFlags:             "bit_flags",
	FramingLengthPrefixedRaw:    "length_prefixed_raw",
	FramingNULTerminated:        "nul_terminated",
	FramingLengthPrefixedString: "length_prefixed_string",
	FramingSizePrefixed:         "size_prefixed",
}

func (f Framing) String() string { return framingNames[f] }

// MarshalText renders the framing by name
func (f Framing) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// ParamKind is the encoding of one parameter
type ParamKind int

const (
	ParamByte ParamKind = iota
	ParamUint16
	// ParamNibble packs (value-Min)<<Shift; Shift 4 opens a byte, Shift 0 fills its low half
	ParamNibble
	ParamSelector
	ParamFlags
	ParamRaw
	ParamString
)

var paramKindNames = [...]string{
	ParamByte:     "byte",
	ParamUint16:   "uint16",
	ParamNibble:   "nibble",
	ParamSelector: "selector",
	ParamFlags:    "flags",
	ParamRaw:      "raw",
	ParamString:   "string",
}

func (k ParamKind) String() string { return paramKindNames[k] }

// MarshalText renders the parameter kind by name
func (k ParamKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k ParamKind) isPayload() bool { return k == ParamRaw || k == ParamString }

// ParamSpec describes one parameter. Min and Max bound scalar values, or the payload
// length for raw and string parameters.
type ParamSpec struct {
	Name   string    `json:"name"`
	Kind   ParamKind `json:"kind"`
	Min    int       `json:"min"`
	Max    int       `json:"max"`
	Values []int     `json:"values,omitempty"`
	Bits   BitTable  `json:"bits,omitempty"`
	Shift  uint      `json:"-"`
}

// Descriptor is the static definition of one command
type Descriptor struct {
	Kind    Kind        `json:"-"`
	Name    string      `json:"name"`
	Summary string      `json:"summary"`
	Opcode  []byte      `json:"opcode"`
	Framing Framing     `json:"framing"`
	Params  []ParamSpec `json:"params"`
	// Function follows the size prefix of FramingSizePrefixed commands
	Function []byte `json:"function,omitempty"`
	// Trailer is appended after the parameters
	Trailer []byte `json:"trailer,omitempty"`
	// Response documents the bytes a device returns for query commands
	Response string `json:"response,omitempty"`
	// Replies is set when the device answers the command itself. Commands that only
	// configure later unsolicited replies leave it false.
	Replies bool `json:"replies,omitempty"`

	payloadLength func(v []int) int
	// check runs over the scalar values once they are all known, before any payload
	check func(v []int) error
	// payloadCheck runs after the payload parameter
	payloadCheck func(v []int, payload []byte) error
}

// FixedLength returns the encoded length of commands without a variable payload
func (d Descriptor) FixedLength() (int, bool) {
	n := len(d.Opcode) + len(d.Trailer)
	for _, p := range d.Params {
		switch p.Kind {
		case ParamRaw, ParamString:
			return 0, false
		case ParamUint16:
			n += 2
		case ParamNibble:
			if p.Shift == 4 {
				n++
			}
		default:
			n++
		}
	}
	return n, true
}

func (d Descriptor) clone() Descriptor {
	d.Opcode = slices.Clone(d.Opcode)
	d.Function = slices.Clone(d.Function)
	d.Trailer = slices.Clone(d.Trailer)
	params := make([]ParamSpec, len(d.Params))
	for i, p := range d.Params {
		p.Values = slices.Clone(p.Values)
		p.Bits = slices.Clone(p.Bits)
		params[i] = p
	}
	d.Params = params
	return d
}

// Lookup returns the descriptor of kind
func Lookup(kind Kind) (Descriptor, bool) {
	if kind < 0 || kind >= kindCount {
		return Descriptor{}, false
	}
	return catalog[kind].clone(), true
}

// LookupName returns the descriptor registered under name
func LookupName(name string) (Descriptor, bool) {
	kind, ok := kindsByName[strings.ToLower(name)]
	if !ok {
		return Descriptor{}, false
	}
	return catalog[kind].clone(), true
}

// Descriptors returns every catalog entry in Kind order
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.clone())
	}
	return out
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(catalog))
	for _, d := range catalog {
		m[d.Name] = d.Kind
	}
	return m
}()

func byteParam(name string, min, max int) ParamSpec {
	return ParamSpec{Name: name, Kind: ParamByte, Min: min, Max: max}
}

func wordParam(name string, min, max int) ParamSpec {
	return ParamSpec{Name: name, Kind: ParamUint16, Min: min, Max: max}
}

func selectorParam(name string, values ...int) ParamSpec {
	return ParamSpec{Name: name, Kind: ParamSelector, Min: slices.Min(values), Max: slices.Max(values), Values: values}
}

func flagsParam(name string, bits BitTable) ParamSpec {
	return ParamSpec{Name: name, Kind: ParamFlags, Min: 0, Max: 255, Bits: bits}
}

// Bit layouts
var (
	printModeBits = BitTable{
		{"font_b", 0},
		{"emphasized", 3},
		{"double_height", 4},
		{"double_width", 5},
		{"underline", 7},
	}
	enableBit = BitTable{{"enabled", 0}}
	asbBits   = BitTable{
		{"drawer", 0},
		{"online", 1},
		{"error", 2},
		{"paper", 3},
	}
	paperEndSensorBits = BitTable{
		{"near_end", 0},
		{"near_end_alt", 1},
		{"end", 2},
		{"end_alt", 3},
	}
	paperStopSensorBits = BitTable{
		{"near_end", 0},
		{"near_end_alt", 1},
	}
	peripheralBits = BitTable{{"printer", 0}}
)

var catalog = [kindCount]Descriptor{
	KindHorizontalTab:      {Kind: KindHorizontalTab, Name: "horizontal_tab", Summary: "HT horizontal tab", Opcode: []byte{HT}, Framing: FramingNone},
	KindLineFeed:           {Kind: KindLineFeed, Name: "line_feed", Summary: "LF print and line feed", Opcode: []byte{LF}, Framing: FramingNone},
	KindCarriageReturn:     {Kind: KindCarriageReturn, Name: "carriage_return", Summary: "CR print and carriage return", Opcode: []byte{CR}, Framing: FramingNone},
	KindFormFeed:           {Kind: KindFormFeed, Name: "form_feed", Summary: "FF print and return to standard mode in page mode", Opcode: []byte{FF}, Framing: FramingNone},
	KindCancel:             {Kind: KindCancel, Name: "cancel", Summary: "CAN cancel print data in page mode", Opcode: []byte{CAN}, Framing: FramingNone},
	KindInitialize:         {Kind: KindInitialize, Name: "initialize", Summary: "ESC @ initialize printer", Opcode: []byte{ESC, '@'}, Framing: FramingNone},
	KindDefaultLineSpacing: {Kind: KindDefaultLineSpacing, Name: "default_line_spacing", Summary: "ESC 2 select default line spacing", Opcode: []byte{ESC, '2'}, Framing: FramingNone},
	KindPrintPage:          {Kind: KindPrintPage, Name: "print_page", Summary: "ESC FF print data in page mode", Opcode: []byte{ESC, FF}, Framing: FramingNone},
	KindSelectPageMode:     {Kind: KindSelectPageMode, Name: "select_page_mode", Summary: "ESC L select page mode", Opcode: []byte{ESC, 'L'}, Framing: FramingNone},
	KindSelectStandardMode: {Kind: KindSelectStandardMode, Name: "select_standard_mode", Summary: "ESC S select standard mode", Opcode: []byte{ESC, 'S'}, Framing: FramingNone},
	KindMacroDefinition:    {Kind: KindMacroDefinition, Name: "macro_definition", Summary: "GS : start or end macro definition", Opcode: []byte{GS, ':'}, Framing: FramingNone},
	KindPaperSensorStatus: {
		Kind: KindPaperSensorStatus, Name: "paper_sensor_status", Summary: "ESC v transmit paper sensor status",
		Opcode: []byte{ESC, 'v'}, Framing: FramingNone,
		Response: "1 byte: bits 0,1 paper near end; bits 2,3 paper end",
		Replies:  true,
	},
	KindQRPrint: {Kind: KindQRPrint, Name: "qr_print", Summary: "GS ( k print stored QR symbol", Opcode: []byte{GS, '(', 'k', 0x03, 0x00, 0x31, 0x51, 0x30}, Framing: FramingNone},

	KindRightSpacing:      {Kind: KindRightSpacing, Name: "right_side_spacing", Summary: "ESC SP set right-side character spacing", Opcode: []byte{ESC, ' '}, Framing: FramingFixed, Params: []ParamSpec{byteParam("n", 0, 255)}},
	KindAbsolutePosition:  {Kind: KindAbsolutePosition, Name: "absolute_position", Summary: "ESC $ set absolute print position", Opcode: []byte{ESC, '$'}, Framing: FramingFixed, Params: []ParamSpec{wordParam("position", 0, 65535)}},
	KindRelativePosition:  {Kind: KindRelativePosition, Name: "relative_position", Summary: "ESC \\ set relative print position", Opcode: []byte{ESC, '\\'}, Framing: FramingFixed, Params: []ParamSpec{wordParam("offset", 0, 65535)}},
	KindLineSpacing:       {Kind: KindLineSpacing, Name: "line_spacing", Summary: "ESC 3 set line spacing", Opcode: []byte{ESC, '3'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("n", 0, 255)}},
	KindPrintAndFeed:      {Kind: KindPrintAndFeed, Name: "print_and_feed", Summary: "ESC J print and feed paper n motion units", Opcode: []byte{ESC, 'J'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("n", 0, 255)}},
	KindPrintAndFeedLines: {Kind: KindPrintAndFeedLines, Name: "print_and_feed_lines", Summary: "ESC d print and feed n lines", Opcode: []byte{ESC, 'd'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("n", 0, 255)}},
	KindPrintArea: {
		Kind: KindPrintArea, Name: "print_area", Summary: "ESC W set print area in page mode", Opcode: []byte{ESC, 'W'}, Framing: FramingFixed,
		Params: []ParamSpec{wordParam("x", 0, 65535), wordParam("y", 0, 65535), wordParam("width", 1, 65535), wordParam("height", 1, 65535)},
	},
	KindPrintDirection: {Kind: KindPrintDirection, Name: "print_direction", Summary: "ESC T select print direction in page mode", Opcode: []byte{ESC, 'T'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("direction", 0, 1, 2, 3)}},
	KindPanelButtons:   {Kind: KindPanelButtons, Name: "panel_buttons", Summary: "ESC c 5 enable or disable panel buttons", Opcode: []byte{ESC, 'c', '5'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("disabled", 0, 1)}},
	KindGeneratePulse: {
		Kind: KindGeneratePulse, Name: "generate_pulse", Summary: "ESC p generate drawer kick-out pulse", Opcode: []byte{ESC, 'p'}, Framing: FramingFixed,
		Params: []ParamSpec{selectorParam("pin", 0, 1), byteParam("on_time", 0, 255), byteParam("off_time", 0, 255)},
	},
	KindCodeTable:            {Kind: KindCodeTable, Name: "code_table", Summary: "ESC t select character code table", Opcode: []byte{ESC, 't'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("table", 0, 1, 2, 3, 4, 5, 16, 17, 18, 19)}},
	KindInternationalCharset: {Kind: KindInternationalCharset, Name: "international_charset", Summary: "ESC R select international character set", Opcode: []byte{ESC, 'R'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("charset", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)}},
	KindJustification:        {Kind: KindJustification, Name: "justification", Summary: "ESC a select justification", Opcode: []byte{ESC, 'a'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("justification", 0, 1, 2)}},
	KindFont:                 {Kind: KindFont, Name: "font", Summary: "ESC M select character font", Opcode: []byte{ESC, 'M'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("font", 0, 1, 2)}},
	KindEmphasized:           {Kind: KindEmphasized, Name: "emphasized", Summary: "ESC E turn emphasized mode on or off", Opcode: []byte{ESC, 'E'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("on", 0, 1)}},
	KindDoubleStrike:         {Kind: KindDoubleStrike, Name: "double_strike", Summary: "ESC G turn double-strike mode on or off", Opcode: []byte{ESC, 'G'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("on", 0, 1)}},
	KindUnderline:            {Kind: KindUnderline, Name: "underline", Summary: "ESC - turn underline mode on or off", Opcode: []byte{ESC, '-'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("mode", 0, 1, 2)}},
	KindRotation:             {Kind: KindRotation, Name: "rotation", Summary: "ESC V turn 90 degree clockwise rotation on or off", Opcode: []byte{ESC, 'V'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("on", 0, 1)}},
	KindUserCharacterSet:     {Kind: KindUserCharacterSet, Name: "user_character_set", Summary: "ESC % select or cancel user-defined character set", Opcode: []byte{ESC, '%'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("on", 0, 1)}},
	KindCancelUserCharacter:  {Kind: KindCancelUserCharacter, Name: "cancel_user_character", Summary: "ESC ? cancel user-defined character", Opcode: []byte{ESC, '?'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("code", 32, 126)}},
	KindPeripheralStatus: {
		Kind: KindPeripheralStatus, Name: "peripheral_status", Summary: "ESC u transmit peripheral device status", Opcode: []byte{ESC, 'u'}, Framing: FramingFixed,
		Params:   []ParamSpec{selectorParam("n", 0, 48)},
		Response: "1 byte: bit 0 drawer kick-out connector pin 3 level",
		Replies:  true,
	},
	KindCharacterSize: {
		Kind: KindCharacterSize, Name: "character_size", Summary: "GS ! select character size", Opcode: []byte{GS, '!'}, Framing: FramingFixed,
		Params: []ParamSpec{
			{Name: "width", Kind: ParamNibble, Min: 1, Max: 8, Shift: 4},
			{Name: "height", Kind: ParamNibble, Min: 1, Max: 8, Shift: 0},
		},
	},
	KindHRIPosition:    {Kind: KindHRIPosition, Name: "hri_position", Summary: "GS H select HRI character print position", Opcode: []byte{GS, 'H'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("position", 0, 1, 2, 3)}},
	KindHRIFont:        {Kind: KindHRIFont, Name: "hri_font", Summary: "GS f select HRI character font", Opcode: []byte{GS, 'f'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("font", 0, 1)}},
	KindBarcodeHeight:  {Kind: KindBarcodeHeight, Name: "barcode_height", Summary: "GS h set barcode height", Opcode: []byte{GS, 'h'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("dots", 1, 255)}},
	KindBarcodeWidth:   {Kind: KindBarcodeWidth, Name: "barcode_width", Summary: "GS w set barcode module width", Opcode: []byte{GS, 'w'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("module", 2, 6)}},
	KindLeftMargin:     {Kind: KindLeftMargin, Name: "left_margin", Summary: "GS L set left margin", Opcode: []byte{GS, 'L'}, Framing: FramingFixed, Params: []ParamSpec{wordParam("margin", 0, 65535)}},
	KindPrintAreaWidth: {Kind: KindPrintAreaWidth, Name: "print_area_width", Summary: "GS W set print area width", Opcode: []byte{GS, 'W'}, Framing: FramingFixed, Params: []ParamSpec{wordParam("width", 0, 65535)}},
	KindMotionUnits: {
		Kind: KindMotionUnits, Name: "motion_units", Summary: "GS P set horizontal and vertical motion units", Opcode: []byte{GS, 'P'}, Framing: FramingFixed,
		Params: []ParamSpec{byteParam("horizontal", 0, 255), byteParam("vertical", 0, 255)},
	},
	KindAbsoluteVerticalPosition: {Kind: KindAbsoluteVerticalPosition, Name: "absolute_vertical_position", Summary: "GS $ set absolute vertical print position in page mode", Opcode: []byte{GS, '$'}, Framing: FramingFixed, Params: []ParamSpec{wordParam("position", 0, 65535)}},
	KindRelativeVerticalPosition: {Kind: KindRelativeVerticalPosition, Name: "relative_vertical_position", Summary: "GS \\ set relative vertical print position in page mode", Opcode: []byte{GS, '\\'}, Framing: FramingFixed, Params: []ParamSpec{wordParam("offset", 0, 65535)}},
	KindCut:                      {Kind: KindCut, Name: "cut", Summary: "GS V cut paper", Opcode: []byte{GS, 'V'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("mode", 0, 1)}},
	KindFeedAndCut:               {Kind: KindFeedAndCut, Name: "feed_and_cut", Summary: "GS V A feed paper and partial cut", Opcode: []byte{GS, 'V', 'A'}, Framing: FramingFixed, Params: []ParamSpec{byteParam("n", 0, 255)}},
	KindTransmitStatus: {
		Kind: KindTransmitStatus, Name: "transmit_status", Summary: "GS r transmit status", Opcode: []byte{GS, 'r'}, Framing: FramingFixed,
		Params:   []ParamSpec{selectorParam("status", 1, 2)},
		Response: "n=1 paper sensor: bits 0,1 paper near end, bits 2,3 paper end; n=2 drawer: bit 0 kick-out connector pin 3 level",
		Replies:  true,
	},
	KindPrinterID: {
		Kind: KindPrinterID, Name: "printer_id", Summary: "GS I transmit printer ID", Opcode: []byte{GS, 'I'}, Framing: FramingFixed,
		Params:   []ParamSpec{selectorParam("id", 1, 2, 3)},
		Response: "n=1 model ID byte; n=2 type ID: bit 0 multi-byte characters, bit 1 autocutter, bit 2 customer display; n=3 ROM version ID byte",
		Replies:  true,
	},
	KindPrintDownloadedImage: {Kind: KindPrintDownloadedImage, Name: "print_downloaded_image", Summary: "GS / print downloaded bit image", Opcode: []byte{GS, '/'}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("scale", 0, 1, 2, 3)}},
	KindExecuteMacro: {
		Kind: KindExecuteMacro, Name: "execute_macro", Summary: "GS ^ execute macro", Opcode: []byte{GS, '^'}, Framing: FramingFixed,
		Params: []ParamSpec{byteParam("times", 0, 255), byteParam("wait", 0, 255), byteParam("mode", 0, 1)},
	},
	KindRealtimeStatus: {
		Kind: KindRealtimeStatus, Name: "realtime_status", Summary: "DLE EOT real-time status transmission", Opcode: []byte{DLE, 0x04}, Framing: FramingFixed,
		Params: []ParamSpec{selectorParam("status", 1, 2, 3, 4)},
		Response: "1 byte, bit 1 always set, bit 4 always set. n=1 printer: bit 2 drawer pin 3 level, bit 3 offline. " +
			"n=2 offline: bit 2 cover open, bit 3 paper fed by feed button, bit 5 printing stopped by paper end, bit 6 error. " +
			"n=3 error: bit 2 recoverable error, bit 3 autocutter error, bit 5 unrecoverable error, bit 6 auto-recoverable error. " +
			"n=4 paper: bits 2,3 paper near end, bits 5,6 paper end",
		Replies: true,
	},
	KindRealtimeRequest: {Kind: KindRealtimeRequest, Name: "realtime_request", Summary: "DLE ENQ real-time request to printer", Opcode: []byte{DLE, 0x05}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("request", 1, 2)}},
	KindRealtimePulse: {
		Kind: KindRealtimePulse, Name: "realtime_pulse", Summary: "DLE DC4 generate pulse in real time", Opcode: []byte{DLE, DC4, 0x01}, Framing: FramingFixed,
		Params: []ParamSpec{selectorParam("pin", 0, 1), byteParam("time", 1, 8)},
	},
	KindQRModel: {
		Kind: KindQRModel, Name: "qr_model", Summary: "GS ( k select QR code model", Opcode: []byte{GS, '(', 'k', 0x04, 0x00, 0x31, 0x41}, Framing: FramingFixed,
		Params: []ParamSpec{selectorParam("model", 49, 50)}, Trailer: []byte{0x00},
	},
	KindQRModuleSize:      {Kind: KindQRModuleSize, Name: "qr_module_size", Summary: "GS ( k set QR code module size", Opcode: []byte{GS, '(', 'k', 0x03, 0x00, 0x31, 0x43}, Framing: FramingFixed, Params: []ParamSpec{byteParam("size", 1, 16)}},
	KindQRErrorCorrection: {Kind: KindQRErrorCorrection, Name: "qr_error_correction", Summary: "GS ( k select QR code error correction level", Opcode: []byte{GS, '(', 'k', 0x03, 0x00, 0x31, 0x45}, Framing: FramingFixed, Params: []ParamSpec{selectorParam("level", 48, 49, 50, 51)}},

	KindPrintMode:  {Kind: KindPrintMode, Name: "print_mode", Summary: "ESC ! select print mode", Opcode: []byte{ESC, '!'}, Framing: FramingBitFlags, Params: []ParamSpec{flagsParam("mode", printModeBits)}},
	KindUpsideDown: {Kind: KindUpsideDown, Name: "upside_down", Summary: "ESC { turn upside-down printing on or off", Opcode: []byte{ESC, '{'}, Framing: FramingBitFlags, Params: []ParamSpec{flagsParam("mode", enableBit)}},
	KindReverse:    {Kind: KindReverse, Name: "reverse", Summary: "GS B turn white/black reverse printing on or off", Opcode: []byte{GS, 'B'}, Framing: FramingBitFlags, Params: []ParamSpec{flagsParam("mode", enableBit)}},
	KindSmoothing:  {Kind: KindSmoothing, Name: "smoothing", Summary: "GS b turn smoothing on or off", Opcode: []byte{GS, 'b'}, Framing: FramingBitFlags, Params: []ParamSpec{flagsParam("mode", enableBit)}},
	KindAutoStatusBack: {
		Kind: KindAutoStatusBack, Name: "auto_status_back", Summary: "GS a enable or disable automatic status back", Opcode: []byte{GS, 'a'}, Framing: FramingBitFlags,
		Params: []ParamSpec{flagsParam("events", asbBits)},
		Response: "4 bytes per status change. byte 1: bit 2 drawer pin 3 level, bit 3 offline, bit 5 cover open, bit 6 feed button; " +
			"byte 2: bit 2 recoverable error, bit 3 autocutter error, bit 5 unrecoverable error, bit 6 auto-recoverable error; " +
			"byte 3: bits 0,1 paper near end, bits 2,3 paper end; byte 4: reserved",
	},
	KindPaperSensorSignals: {Kind: KindPaperSensorSignals, Name: "paper_sensor_signals", Summary: "ESC c 3 select paper sensors to output paper-end signals", Opcode: []byte{ESC, 'c', '3'}, Framing: FramingBitFlags, Params: []ParamSpec{flagsParam("sensors", paperEndSensorBits)}},
	KindPaperSensorStop:    {Kind: KindPaperSensorStop, Name: "paper_sensor_stop", Summary: "ESC c 4 select paper sensors to stop printing", Opcode: []byte{ESC, 'c', '4'}, Framing: FramingBitFlags, Params: []ParamSpec{flagsParam("sensors", paperStopSensorBits)}},
	KindPeripheralDevice:   {Kind: KindPeripheralDevice, Name: "peripheral_device", Summary: "ESC = select peripheral device", Opcode: []byte{ESC, '='}, Framing: FramingBitFlags, Params: []ParamSpec{flagsParam("device", peripheralBits)}},

	KindUserCharacter: {
		Kind: KindUserCharacter, Name: "user_character", Summary: "ESC & define user-defined character", Opcode: []byte{ESC, '&'}, Framing: FramingLengthPrefixedRaw,
		Params: []ParamSpec{
			byteParam("bytes", 1, 3),
			byteParam("first", 32, 126),
			byteParam("last", 32, 126),
			byteParam("width", 0, 12),
			{Name: "data", Kind: ParamRaw, Min: 0, Max: 36},
		},
		payloadLength: func(v []int) int { return v[0] * v[3] },
		check:         checkSingleCharacter,
	},
	KindBitImage: {
		Kind: KindBitImage, Name: "bit_image", Summary: "ESC * select bit-image mode", Opcode: []byte{ESC, '*'}, Framing: FramingLengthPrefixedRaw,
		Params: []ParamSpec{
			selectorParam("mode", 0, 1, 32, 33),
			wordParam("dots", 1, 2047),
			{Name: "data", Kind: ParamRaw, Min: 1, Max: 2047 * 3},
		},
		payloadLength: func(v []int) int {
			if v[0] >= 32 {
				return v[1] * 3
			}
			return v[1]
		},
	},
	KindDefineDownloadedImage: {
		Kind: KindDefineDownloadedImage, Name: "define_downloaded_image", Summary: "GS * define downloaded bit image", Opcode: []byte{GS, '*'}, Framing: FramingLengthPrefixedRaw,
		Params: []ParamSpec{
			byteParam("width", 1, 255),
			byteParam("height", 1, 48),
			{Name: "data", Kind: ParamRaw, Min: 8, Max: 1536 * 8},
		},
		payloadLength: func(v []int) int { return v[0] * v[1] * 8 },
		check:         checkDownloadedImageArea,
	},
	KindRasterImage: {
		Kind: KindRasterImage, Name: "raster_image", Summary: "GS v 0 print raster bit image", Opcode: []byte{GS, 'v', '0'}, Framing: FramingLengthPrefixedRaw,
		Params: []ParamSpec{
			selectorParam("scale", 0, 1, 2, 3),
			wordParam("width_bytes", 1, 4095),
			wordParam("height", 1, 4095),
			{Name: "data", Kind: ParamRaw, Min: 1, Max: 4095 * 4095},
		},
		payloadLength: func(v []int) int { return v[1] * v[2] },
	},
	KindQRStore: {
		Kind: KindQRStore, Name: "qr_store", Summary: "GS ( k store QR code data", Opcode: []byte{GS, '(', 'k'}, Framing: FramingSizePrefixed,
		Function: []byte{0x31, 0x50, 0x30},
		Params:   []ParamSpec{{Name: "data", Kind: ParamRaw, Min: 1, Max: 7089}},
	},
	KindBarcode: {
		Kind: KindBarcode, Name: "barcode", Summary: "GS k print barcode, NUL-terminated data", Opcode: []byte{GS, 'k'}, Framing: FramingNULTerminated,
		Params: []ParamSpec{
			selectorParam("symbology", 0, 1, 2, 3, 4, 5, 6),
			{Name: "data", Kind: ParamString, Min: 1, Max: 255},
		},
		payloadCheck: checkBarcode,
	},
	KindBarcodeLength: {
		Kind: KindBarcodeLength, Name: "barcode_length", Summary: "GS k print barcode, length-prefixed data", Opcode: []byte{GS, 'k'}, Framing: FramingLengthPrefixedString,
		Params: []ParamSpec{
			selectorParam("symbology", 65, 66, 67, 68, 69, 70, 71, 72, 73),
			{Name: "data", Kind: ParamString, Min: 1, Max: 255},
		},
		payloadCheck: checkBarcode,
	},
}

func checkSingleCharacter(v []int) error {
	if v[1] != v[2] {
		return &RangeError{Param: "last", Value: v[2], Min: v[1], Max: v[1]}
	}
	return nil
}

func checkDownloadedImageArea(v []int) error {
	if area := v[0] * v[1]; area > 1536 {
		return &RangeError{Param: "width*height", Value: area, Min: 1, Max: 1536}
	}
	return nil
}
