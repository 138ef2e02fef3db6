package bond

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCashflows(t *testing.T) {
	t.Parallel()

	date := time.Date(2035, time.February, 15, 0, 0, 0, 0, time.UTC)
	cfs := ToCashflows([]CashflowMinor{
		{Date: date.AddDate(-1, 0, 0), Coupon: 25000},
		{Date: date, Coupon: 25000, Principal: 1_000_000},
	}, 10000)

	require.Len(t, cfs, 2)
	assert.Equal(t, 2.5, cfs[0].Coupon)
	assert.Zero(t, cfs[0].Principal)
	assert.Equal(t, date, cfs[1].Date)
	assert.Equal(t, 102.5, cfs[1].Amount())
}
