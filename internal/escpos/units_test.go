package escpos

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotionUnits(t *testing.T) {
	t.Parallel()

	n, err := MotionUnits(decimal.RequireFromString("25.4"), 180)
	require.NoError(t, err)
	assert.Equal(t, 180, n)

	n, err = MotionUnits(decimal.NewFromInt(10), 203)
	require.NoError(t, err)
	assert.Equal(t, 80, n)

	n, err = MotionUnits(decimal.Zero, 203)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var rangeErr *RangeError
	_, err = MotionUnits(decimal.NewFromInt(1), 0)
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "units_per_inch", rangeErr.Param)

	_, err = MotionUnits(decimal.NewFromInt(-1), 203)
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "motion_units", rangeErr.Param)
}

func TestFeedMillimetres(t *testing.T) {
	t.Parallel()

	out, err := FeedMillimetres(decimal.NewFromInt(10), 203)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x4A, 80}, out)

	_, err = FeedMillimetres(decimal.NewFromInt(50), 203)
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 400, rangeErr.Value)
}
