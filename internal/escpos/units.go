package escpos

import (
	"github.com/shopspring/decimal"
)

var mmPerInch = decimal.RequireFromString("25.4")

// MotionUnits converts a distance in millimetres to whole motion units, rounding to
// the nearest unit, for a printer whose motion unit is 1/unitsPerInch inch
func MotionUnits(mm decimal.Decimal, unitsPerInch int) (int, error) {
	if unitsPerInch < 1 || unitsPerInch > 255 {
		return 0, &RangeError{Param: "units_per_inch", Value: unitsPerInch, Min: 1, Max: 255}
	}
	units := mm.Mul(decimal.NewFromInt(int64(unitsPerInch))).Div(mmPerInch).Round(0)
	if units.IsNegative() || units.GreaterThan(decimal.NewFromInt(65535)) {
		return 0, &RangeError{Param: "motion_units", Value: int(units.IntPart()), Min: 0, Max: 65535}
	}
	return int(units.IntPart()), nil
}

// FeedMillimetres encodes ESC J for a distance in millimetres
func FeedMillimetres(mm decimal.Decimal, unitsPerInch int) ([]byte, error) {
	n, err := MotionUnits(mm, unitsPerInch)
	if err != nil {
		return nil, err
	}
	return PrintAndFeed(n)
}
