package dtype

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripMapping(t *testing.T) {
	for _, d := range All() {
		t.Run(d.String(), func(t *testing.T) {
			native, err := ToArrow(d)
			require.NoError(t, err)

			back, err := FromArrow(native)
			require.NoError(t, err)
			assert.Equal(t, d, back)
		})
	}
}

func TestFromArrowUnsupported(t *testing.T) {
	_, err := FromArrow(&arrow.Decimal128Type{Precision: 10, Scale: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dtype")
}

func TestDTypePredicates(t *testing.T) {
	assert.True(t, Int64.IsNumeric())
	assert.True(t, Int64.IsInteger())
	assert.False(t, Int64.IsFloat())

	assert.True(t, Float32.IsNumeric())
	assert.True(t, Float32.IsFloat())
	assert.False(t, Float32.IsInteger())

	assert.False(t, Boolean.IsNumeric())
	assert.False(t, String.IsNumeric())
	assert.False(t, Datetime.IsNumeric())
}

func TestDatetimeMapsToNanosecondUTC(t *testing.T) {
	native, err := ToArrow(Datetime)
	require.NoError(t, err)

	ts, ok := native.(*arrow.TimestampType)
	require.True(t, ok)
	assert.Equal(t, arrow.Nanosecond, ts.Unit)
	assert.Equal(t, "UTC", ts.TimeZone)
}
