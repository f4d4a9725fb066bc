package escpos

// Selector types are sealed: their fields are unexported, so the only values a caller
// can hold are the variants declared here or the zero value, which every table rejects.

func selectorCode[T comparable](param string, table map[T]byte, v T, name string) (byte, error) {
	code, ok := table[v]
	if !ok {
		if name == "" {
			name = "<unset>"
		}
		return 0, &UnsupportedValueError{Param: param, Value: name}
	}
	return code, nil
}

// Justification selects ESC a alignment
type Justification struct{ name string }

var (
	JustifyLeft   = Justification{"left"}
	JustifyCenter = Justification{"center"}
	JustifyRight  = Justification{"right"}
)

var justificationCodes = map[Justification]byte{
	JustifyLeft:   0,
	JustifyCenter: 1,
	JustifyRight:  2,
}

func (j Justification) String() string { return j.name }

// Font selects ESC M character font
type Font struct{ name string }

var (
	FontA = Font{"A"}
	FontB = Font{"B"}
	FontC = Font{"C"}
)

var fontCodes = map[Font]byte{FontA: 0, FontB: 1, FontC: 2}

func (f Font) String() string { return f.name }

// HRIFont selects GS f font for human readable barcode text
type HRIFont struct{ name string }

var (
	HRIFontA = HRIFont{"A"}
	HRIFontB = HRIFont{"B"}
)

var hriFontCodes = map[HRIFont]byte{HRIFontA: 0, HRIFontB: 1}

func (f HRIFont) String() string { return f.name }

// InternationalCharset selects ESC R character set
type InternationalCharset struct{ name string }

var (
	CharsetUSA             = InternationalCharset{"USA"}
	CharsetFrance          = InternationalCharset{"France"}
	CharsetGermany         = InternationalCharset{"Germany"}
	CharsetUK              = InternationalCharset{"UK"}
	CharsetDenmarkI        = InternationalCharset{"Denmark I"}
	CharsetSweden          = InternationalCharset{"Sweden"}
	CharsetItaly           = InternationalCharset{"Italy"}
	CharsetSpainI          = InternationalCharset{"Spain I"}
	CharsetJapan           = InternationalCharset{"Japan"}
	CharsetNorway          = InternationalCharset{"Norway"}
	CharsetDenmarkII       = InternationalCharset{"Denmark II"}
	CharsetSpainII         = InternationalCharset{"Spain II"}
	CharsetLatinAmerica    = InternationalCharset{"Latin America"}
	CharsetKorea           = InternationalCharset{"Korea"}
	CharsetSloveniaCroatia = InternationalCharset{"Slovenia/Croatia"}
	CharsetChina           = InternationalCharset{"China"}
)

var charsetCodes = map[InternationalCharset]byte{
	CharsetUSA:             0,
	CharsetFrance:          1,
	CharsetGermany:         2,
	CharsetUK:              3,
	CharsetDenmarkI:        4,
	CharsetSweden:          5,
	CharsetItaly:           6,
	CharsetSpainI:          7,
	CharsetJapan:           8,
	CharsetNorway:          9,
	CharsetDenmarkII:       10,
	CharsetSpainII:         11,
	CharsetLatinAmerica:    12,
	CharsetKorea:           13,
	CharsetSloveniaCroatia: 14,
	CharsetChina:           15,
}

func (c InternationalCharset) String() string { return c.name }

// CodeTable selects ESC t character code page
type CodeTable struct{ name string }

var (
	CodeTablePC437    = CodeTable{"PC437"}
	CodeTableKatakana = CodeTable{"Katakana"}
	CodeTablePC850    = CodeTable{"PC850"}
	CodeTablePC860    = CodeTable{"PC860"}
	CodeTablePC863    = CodeTable{"PC863"}
	CodeTablePC865    = CodeTable{"PC865"}
	CodeTableWPC1252  = CodeTable{"WPC1252"}
	CodeTablePC866    = CodeTable{"PC866"}
	CodeTablePC852    = CodeTable{"PC852"}
	CodeTablePC858    = CodeTable{"PC858"}
)

var codeTableCodes = map[CodeTable]byte{
	CodeTablePC437:    0,
	CodeTableKatakana: 1,
	CodeTablePC850:    2,
	CodeTablePC860:    3,
	CodeTablePC863:    4,
	CodeTablePC865:    5,
	CodeTableWPC1252:  16,
	CodeTablePC866:    17,
	CodeTablePC852:    18,
	CodeTablePC858:    19,
}

func (c CodeTable) String() string { return c.name }

// PrintDirection selects ESC T page mode direction
type PrintDirection struct{ name string }

var (
	DirectionLeftToRight = PrintDirection{"left-to-right"}
	DirectionBottomToTop = PrintDirection{"bottom-to-top"}
	DirectionRightToLeft = PrintDirection{"right-to-left"}
	DirectionTopToBottom = PrintDirection{"top-to-bottom"}
)

var directionCodes = map[PrintDirection]byte{
	DirectionLeftToRight: 0,
	DirectionBottomToTop: 1,
	DirectionRightToLeft: 2,
	DirectionTopToBottom: 3,
}

func (d PrintDirection) String() string { return d.name }

// UnderlineMode selects ESC - underline thickness
type UnderlineMode struct{ name string }

var (
	UnderlineOff    = UnderlineMode{"off"}
	UnderlineOneDot = UnderlineMode{"1-dot"}
	UnderlineTwoDot = UnderlineMode{"2-dot"}
)

var underlineCodes = map[UnderlineMode]byte{UnderlineOff: 0, UnderlineOneDot: 1, UnderlineTwoDot: 2}

func (u UnderlineMode) String() string { return u.name }

// HRIPosition selects GS H placement of human readable barcode text
type HRIPosition struct{ name string }

var (
	HRINone  = HRIPosition{"none"}
	HRIAbove = HRIPosition{"above"}
	HRIBelow = HRIPosition{"below"}
	HRIBoth  = HRIPosition{"both"}
)

var hriPositionCodes = map[HRIPosition]byte{HRINone: 0, HRIAbove: 1, HRIBelow: 2, HRIBoth: 3}

func (p HRIPosition) String() string { return p.name }

// CutMode selects GS V cut
type CutMode struct{ name string }

var (
	CutFull    = CutMode{"full"}
	CutPartial = CutMode{"partial"}
)

var cutCodes = map[CutMode]byte{CutFull: 0, CutPartial: 1}

func (c CutMode) String() string { return c.name }

// BitImageMode selects ESC * dot density
type BitImageMode struct{ name string }

var (
	BitImage8Single  = BitImageMode{"8-dot single density"}
	BitImage8Double  = BitImageMode{"8-dot double density"}
	BitImage24Single = BitImageMode{"24-dot single density"}
	BitImage24Double = BitImageMode{"24-dot double density"}
)

var bitImageCodes = map[BitImageMode]byte{
	BitImage8Single:  0,
	BitImage8Double:  1,
	BitImage24Single: 32,
	BitImage24Double: 33,
}

func (m BitImageMode) String() string { return m.name }

// ImageScale selects GS / and GS v 0 magnification
type ImageScale struct{ name string }

var (
	ScaleNormal       = ImageScale{"normal"}
	ScaleDoubleWidth  = ImageScale{"double width"}
	ScaleDoubleHeight = ImageScale{"double height"}
	ScaleQuadruple    = ImageScale{"quadruple"}
)

var imageScaleCodes = map[ImageScale]byte{
	ScaleNormal:       0,
	ScaleDoubleWidth:  1,
	ScaleDoubleHeight: 2,
	ScaleQuadruple:    3,
}

func (s ImageScale) String() string { return s.name }

// StatusType selects DLE EOT real-time status
type StatusType struct{ name string }

var (
	StatusPrinter = StatusType{"printer"}
	StatusOffline = StatusType{"offline"}
	StatusError   = StatusType{"error"}
	StatusPaper   = StatusType{"paper roll sensor"}
)

var statusCodes = map[StatusType]byte{StatusPrinter: 1, StatusOffline: 2, StatusError: 3, StatusPaper: 4}

func (s StatusType) String() string { return s.name }

// TransmitStatusType selects GS r status
type TransmitStatusType struct{ name string }

var (
	TransmitPaperSensor = TransmitStatusType{"paper sensor"}
	TransmitDrawer      = TransmitStatusType{"drawer kick-out connector"}
)

var transmitStatusCodes = map[TransmitStatusType]byte{TransmitPaperSensor: 1, TransmitDrawer: 2}

func (s TransmitStatusType) String() string { return s.name }

// PrinterIDType selects GS I identifier
type PrinterIDType struct{ name string }

var (
	PrinterModelID    = PrinterIDType{"model"}
	PrinterTypeID     = PrinterIDType{"type"}
	PrinterROMVersion = PrinterIDType{"rom version"}
)

var printerIDCodes = map[PrinterIDType]byte{PrinterModelID: 1, PrinterTypeID: 2, PrinterROMVersion: 3}

func (p PrinterIDType) String() string { return p.name }

// DrawerPin selects the ESC p / DLE DC4 drawer kick-out connector pin
type DrawerPin struct{ name string }

var (
	DrawerPin2 = DrawerPin{"pin 2"}
	DrawerPin5 = DrawerPin{"pin 5"}
)

var drawerPinCodes = map[DrawerPin]byte{DrawerPin2: 0, DrawerPin5: 1}

func (p DrawerPin) String() string { return p.name }

// RecoveryRequest selects DLE ENQ
type RecoveryRequest struct{ name string }

var (
	RecoverAndRestart = RecoveryRequest{"recover and restart"}
	RecoverAndClear   = RecoveryRequest{"recover and clear buffers"}
)

var recoveryCodes = map[RecoveryRequest]byte{RecoverAndRestart: 1, RecoverAndClear: 2}

func (r RecoveryRequest) String() string { return r.name }

// QRModel selects GS ( k model
type QRModel struct{ name string }

var (
	QRModel1 = QRModel{"model 1"}
	QRModel2 = QRModel{"model 2"}
)

var qrModelCodes = map[QRModel]byte{QRModel1: 49, QRModel2: 50}

func (m QRModel) String() string { return m.name }

// QRErrorCorrection selects GS ( k error correction level
type QRErrorCorrection struct{ name string }

var (
	QRLevelL = QRErrorCorrection{"L"}
	QRLevelM = QRErrorCorrection{"M"}
	QRLevelQ = QRErrorCorrection{"Q"}
	QRLevelH = QRErrorCorrection{"H"}
)

var qrLevelCodes = map[QRErrorCorrection]byte{QRLevelL: 48, QRLevelM: 49, QRLevelQ: 50, QRLevelH: 51}

func (l QRErrorCorrection) String() string { return l.name }
