package escpos

// Typed constructors for every catalog command. Commands whose arguments cannot be
// invalid return only bytes; the rest return the first validation error.

func boolByte(on bool) int {
	if on {
		return 1
	}
	return 0
}

// InitPrinter encodes ESC @
func InitPrinter() []byte { return mustEncode(KindInitialize) }

// LineFeed encodes LF
func LineFeed() []byte { return mustEncode(KindLineFeed) }

// HorizontalTab encodes HT
func HorizontalTab() []byte { return mustEncode(KindHorizontalTab) }

// CarriageReturn encodes CR
func CarriageReturn() []byte { return mustEncode(KindCarriageReturn) }

// FormFeed encodes FF, which prints the page in page mode
func FormFeed() []byte { return mustEncode(KindFormFeed) }

// Cancel encodes CAN, which drops the page-mode buffer
func Cancel() []byte { return mustEncode(KindCancel) }

// DefaultLineSpacing encodes ESC 2
func DefaultLineSpacing() []byte { return mustEncode(KindDefaultLineSpacing) }

// PrintPage encodes ESC FF
func PrintPage() []byte { return mustEncode(KindPrintPage) }

// SelectPageMode encodes ESC L
func SelectPageMode() []byte { return mustEncode(KindSelectPageMode) }

// SelectStandardMode encodes ESC S
func SelectStandardMode() []byte { return mustEncode(KindSelectStandardMode) }

// MacroDefinition encodes GS :, which both starts and ends a macro definition
func MacroDefinition() []byte { return mustEncode(KindMacroDefinition) }

// PaperSensorStatus encodes ESC v; the printer answers with one status byte
func PaperSensorStatus() []byte { return mustEncode(KindPaperSensorStatus) }

// PeripheralStatus encodes ESC u 0; the printer answers with one status byte
func PeripheralStatus() []byte { return mustEncode(KindPeripheralStatus, Int(0)) }

// SetRightSpacing encodes ESC SP n
func SetRightSpacing(n int) ([]byte, error) { return Encode(KindRightSpacing, Int(n)) }

// SetAbsolutePosition encodes ESC $ nL nH
func SetAbsolutePosition(dots int) ([]byte, error) { return Encode(KindAbsolutePosition, Int(dots)) }

// SetRelativePosition encodes ESC \ nL nH
func SetRelativePosition(dots int) ([]byte, error) { return Encode(KindRelativePosition, Int(dots)) }

// SetLineSpacing encodes ESC 3 n
func SetLineSpacing(n int) ([]byte, error) { return Encode(KindLineSpacing, Int(n)) }

// PrintAndFeed encodes ESC J n, feeding n vertical motion units
func PrintAndFeed(n int) ([]byte, error) { return Encode(KindPrintAndFeed, Int(n)) }

// PrintAndFeedLines encodes ESC d n
func PrintAndFeedLines(n int) ([]byte, error) { return Encode(KindPrintAndFeedLines, Int(n)) }

// PrintArea is the page mode print area in motion units
type PrintArea struct {
	X      int
	Y      int
	Width  int
	Height int
}

// SetPrintArea encodes ESC W for page mode
func SetPrintArea(a PrintArea) ([]byte, error) {
	return Encode(KindPrintArea, Int(a.X), Int(a.Y), Int(a.Width), Int(a.Height))
}

// SetPrintDirection encodes ESC T n
func SetPrintDirection(d PrintDirection) ([]byte, error) {
	code, err := selectorCode("direction", directionCodes, d, d.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindPrintDirection, Int(int(code)))
}

// SetPanelButtons encodes ESC c 5; the wire value 1 disables the buttons
func SetPanelButtons(enabled bool) []byte {
	return mustEncode(KindPanelButtons, Int(boolByte(!enabled)))
}

// PulseConfig drives ESC p. On and off times are in 2 ms units.
type PulseConfig struct {
	Pin     DrawerPin
	OnTime  int
	OffTime int
}

// GeneratePulse encodes ESC p m t1 t2
func GeneratePulse(c PulseConfig) ([]byte, error) {
	pin, err := selectorCode("pin", drawerPinCodes, c.Pin, c.Pin.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindGeneratePulse, Int(int(pin)), Int(c.OnTime), Int(c.OffTime))
}

// SelectCodeTable encodes ESC t n
func SelectCodeTable(t CodeTable) ([]byte, error) {
	code, err := selectorCode("table", codeTableCodes, t, t.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindCodeTable, Int(int(code)))
}

// SelectInternationalCharset encodes ESC R n
func SelectInternationalCharset(c InternationalCharset) ([]byte, error) {
	code, err := selectorCode("charset", charsetCodes, c, c.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindInternationalCharset, Int(int(code)))
}

// SetJustification encodes ESC a n
func SetJustification(j Justification) ([]byte, error) {
	code, err := selectorCode("justification", justificationCodes, j, j.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindJustification, Int(int(code)))
}

// SelectFont encodes ESC M n
func SelectFont(f Font) ([]byte, error) {
	code, err := selectorCode("font", fontCodes, f, f.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindFont, Int(int(code)))
}

// SetEmphasized encodes ESC E n
func SetEmphasized(on bool) []byte { return mustEncode(KindEmphasized, Int(boolByte(on))) }

// SetDoubleStrike encodes ESC G n
func SetDoubleStrike(on bool) []byte { return mustEncode(KindDoubleStrike, Int(boolByte(on))) }

// SetRotation encodes ESC V n
func SetRotation(on bool) []byte { return mustEncode(KindRotation, Int(boolByte(on))) }

// SetUserCharacterSet encodes ESC % n
func SetUserCharacterSet(on bool) []byte {
	return mustEncode(KindUserCharacterSet, Int(boolByte(on)))
}

// SetUnderline encodes ESC - n
func SetUnderline(m UnderlineMode) ([]byte, error) {
	code, err := selectorCode("mode", underlineCodes, m, m.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindUnderline, Int(int(code)))
}

// CancelUserCharacter encodes ESC ? n
func CancelUserCharacter(code int) ([]byte, error) {
	return Encode(KindCancelUserCharacter, Int(code))
}

// SetCharacterSize encodes GS ! with width and height magnification 1 to 8
func SetCharacterSize(width, height int) ([]byte, error) {
	return Encode(KindCharacterSize, Int(width), Int(height))
}

// SetHRIPosition encodes GS H n
func SetHRIPosition(p HRIPosition) ([]byte, error) {
	code, err := selectorCode("position", hriPositionCodes, p, p.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindHRIPosition, Int(int(code)))
}

// SetHRIFont encodes GS f n
func SetHRIFont(f HRIFont) ([]byte, error) {
	code, err := selectorCode("font", hriFontCodes, f, f.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindHRIFont, Int(int(code)))
}

// SetBarcodeHeight encodes GS h n
func SetBarcodeHeight(dots int) ([]byte, error) { return Encode(KindBarcodeHeight, Int(dots)) }

// SetBarcodeWidth encodes GS w n
func SetBarcodeWidth(module int) ([]byte, error) { return Encode(KindBarcodeWidth, Int(module)) }

// SetLeftMargin encodes GS L nL nH
func SetLeftMargin(dots int) ([]byte, error) { return Encode(KindLeftMargin, Int(dots)) }

// SetPrintAreaWidth encodes GS W nL nH
func SetPrintAreaWidth(dots int) ([]byte, error) { return Encode(KindPrintAreaWidth, Int(dots)) }

// SetMotionUnits encodes GS P x y
func SetMotionUnits(horizontal, vertical int) ([]byte, error) {
	return Encode(KindMotionUnits, Int(horizontal), Int(vertical))
}

// SetAbsoluteVerticalPosition encodes GS $ nL nH
func SetAbsoluteVerticalPosition(dots int) ([]byte, error) {
	return Encode(KindAbsoluteVerticalPosition, Int(dots))
}

// SetRelativeVerticalPosition encodes GS \ nL nH
func SetRelativeVerticalPosition(dots int) ([]byte, error) {
	return Encode(KindRelativeVerticalPosition, Int(dots))
}

// Cut encodes GS V m
func Cut(m CutMode) ([]byte, error) {
	code, err := selectorCode("mode", cutCodes, m, m.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindCut, Int(int(code)))
}

// FeedAndCut encodes GS V A n: feed n vertical motion units, then partial cut
func FeedAndCut(n int) ([]byte, error) { return Encode(KindFeedAndCut, Int(n)) }

// TransmitStatus encodes GS r n
func TransmitStatus(t TransmitStatusType) ([]byte, error) {
	code, err := selectorCode("status", transmitStatusCodes, t, t.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindTransmitStatus, Int(int(code)))
}

// TransmitPrinterID encodes GS I n
func TransmitPrinterID(t PrinterIDType) ([]byte, error) {
	code, err := selectorCode("id", printerIDCodes, t, t.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindPrinterID, Int(int(code)))
}

// PrintDownloadedImage encodes GS / m
func PrintDownloadedImage(s ImageScale) ([]byte, error) {
	code, err := selectorCode("scale", imageScaleCodes, s, s.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindPrintDownloadedImage, Int(int(code)))
}

// MacroConfig drives GS ^. Wait is in 100 ms units.
type MacroConfig struct {
	Times         int
	Wait          int
	WaitForButton bool
}

// ExecuteMacro encodes GS ^ r t m
func ExecuteMacro(c MacroConfig) ([]byte, error) {
	return Encode(KindExecuteMacro, Int(c.Times), Int(c.Wait), Int(boolByte(c.WaitForButton)))
}

// RealtimeStatus encodes DLE EOT n
func RealtimeStatus(s StatusType) ([]byte, error) {
	code, err := selectorCode("status", statusCodes, s, s.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindRealtimeStatus, Int(int(code)))
}

// RealtimeRequest encodes DLE ENQ n
func RealtimeRequest(r RecoveryRequest) ([]byte, error) {
	code, err := selectorCode("request", recoveryCodes, r, r.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindRealtimeRequest, Int(int(code)))
}

// RealtimePulse encodes DLE DC4 1 m t; t is in 100 ms units
func RealtimePulse(pin DrawerPin, t int) ([]byte, error) {
	code, err := selectorCode("pin", drawerPinCodes, pin, pin.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindRealtimePulse, Int(int(code)), Int(t))
}

// SelectQRModel encodes the QR code model function
func SelectQRModel(m QRModel) ([]byte, error) {
	code, err := selectorCode("model", qrModelCodes, m, m.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindQRModel, Int(int(code)))
}

// SetQRModuleSize encodes the QR module size function
func SetQRModuleSize(dots int) ([]byte, error) { return Encode(KindQRModuleSize, Int(dots)) }

// SetQRErrorCorrection encodes the QR error correction function
func SetQRErrorCorrection(l QRErrorCorrection) ([]byte, error) {
	code, err := selectorCode("level", qrLevelCodes, l, l.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindQRErrorCorrection, Int(int(code)))
}

// StoreQRData encodes the QR store function carrying data
func StoreQRData(data []byte) ([]byte, error) { return Encode(KindQRStore, Bytes(data)) }

// PrintQR encodes the QR print function
func PrintQR() []byte { return mustEncode(KindQRPrint) }

// PrintMode is the ESC ! flag set
type PrintMode struct {
	FontB        bool
	Emphasized   bool
	DoubleHeight bool
	DoubleWidth  bool
	Underline    bool
}

func (m PrintMode) flags() map[string]bool {
	return map[string]bool{
		"font_b":        m.FontB,
		"emphasized":    m.Emphasized,
		"double_height": m.DoubleHeight,
		"double_width":  m.DoubleWidth,
		"underline":     m.Underline,
	}
}

// SetPrintMode encodes ESC ! n
func SetPrintMode(m PrintMode) []byte { return mustEncode(KindPrintMode, Flags(m.flags())) }

// SetUpsideDown encodes ESC { n
func SetUpsideDown(on bool) []byte {
	return mustEncode(KindUpsideDown, Flags(map[string]bool{"enabled": on}))
}

// SetReverse encodes GS B n
func SetReverse(on bool) []byte {
	return mustEncode(KindReverse, Flags(map[string]bool{"enabled": on}))
}

// SetSmoothing encodes GS b n
func SetSmoothing(on bool) []byte {
	return mustEncode(KindSmoothing, Flags(map[string]bool{"enabled": on}))
}

// ASBConfig selects the status changes reported by automatic status back
type ASBConfig struct {
	Drawer bool
	Online bool
	Error  bool
	Paper  bool
}

// SetAutoStatusBack encodes GS a n
func SetAutoStatusBack(c ASBConfig) []byte {
	return mustEncode(KindAutoStatusBack, Flags(map[string]bool{
		"drawer": c.Drawer,
		"online": c.Online,
		"error":  c.Error,
		"paper":  c.Paper,
	}))
}

// PaperEndSensors selects the sensors that raise the paper-end signal
type PaperEndSensors struct {
	NearEnd    bool
	NearEndAlt bool
	End        bool
	EndAlt     bool
}

// SetPaperEndSensors encodes ESC c 3 n
func SetPaperEndSensors(s PaperEndSensors) []byte {
	return mustEncode(KindPaperSensorSignals, Flags(map[string]bool{
		"near_end":     s.NearEnd,
		"near_end_alt": s.NearEndAlt,
		"end":          s.End,
		"end_alt":      s.EndAlt,
	}))
}

// PaperStopSensors selects the sensors that stop printing
type PaperStopSensors struct {
	NearEnd    bool
	NearEndAlt bool
}

// SetPaperStopSensors encodes ESC c 4 n
func SetPaperStopSensors(s PaperStopSensors) []byte {
	return mustEncode(KindPaperSensorStop, Flags(map[string]bool{
		"near_end":     s.NearEnd,
		"near_end_alt": s.NearEndAlt,
	}))
}

// SelectPeripheral encodes ESC = n
func SelectPeripheral(printer bool) []byte {
	return mustEncode(KindPeripheralDevice, Flags(map[string]bool{"printer": printer}))
}

// UserCharacter is one ESC & glyph: Bytes vertical bytes per column, Width columns
type UserCharacter struct {
	Bytes int
	Code  int
	Width int
	Data  []byte
}

// DefineUserCharacter encodes ESC & y c1 c2 for a single glyph
func DefineUserCharacter(c UserCharacter) ([]byte, error) {
	return Encode(KindUserCharacter, Int(c.Bytes), Int(c.Code), Int(c.Code), Int(c.Width), Bytes(c.Data))
}

// SelectBitImage encodes ESC * m nL nH with dots columns of image data
func SelectBitImage(mode BitImageMode, dots int, data []byte) ([]byte, error) {
	code, err := selectorCode("mode", bitImageCodes, mode, mode.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindBitImage, Int(int(code)), Int(dots), Bytes(data))
}

// DefineDownloadedImage encodes GS * x y; data holds width*height*8 bytes
func DefineDownloadedImage(width, height int, data []byte) ([]byte, error) {
	return Encode(KindDefineDownloadedImage, Int(width), Int(height), Bytes(data))
}

// PrintRasterImage encodes GS v 0; data holds widthBytes*height bytes
func PrintRasterImage(scale ImageScale, widthBytes, height int, data []byte) ([]byte, error) {
	code, err := selectorCode("scale", imageScaleCodes, scale, scale.name)
	if err != nil {
		return nil, err
	}
	return Encode(KindRasterImage, Int(int(code)), Int(widthBytes), Int(height), Bytes(data))
}

// PrintBarcode encodes GS k with the framing the symbology needs: NUL-terminated for
// the classic symbologies, length-prefixed for CODE93 and CODE128
func PrintBarcode(s Symbology, data string) ([]byte, error) {
	rule, ok := symbologyRuleFor(s)
	if !ok {
		return nil, &UnsupportedValueError{Param: "symbology", Value: "<unset>"}
	}
	if rule.nulCode < 0 {
		return Encode(KindBarcodeLength, Int(rule.lenCode), Text(data))
	}
	return Encode(KindBarcode, Int(rule.nulCode), Text(data))
}

// PrintBarcodeLengthPrefixed always uses the length-prefixed GS k form
func PrintBarcodeLengthPrefixed(s Symbology, data string) ([]byte, error) {
	rule, ok := symbologyRuleFor(s)
	if !ok {
		return nil, &UnsupportedValueError{Param: "symbology", Value: "<unset>"}
	}
	return Encode(KindBarcodeLength, Int(rule.lenCode), Text(data))
}
