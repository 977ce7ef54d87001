package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestINRUsesIndianGrouping(t *testing.T) {
	require.Equal(t, "₹2,50,000", INR(250000))
	require.Equal(t, "₹10,00,000", INR(1000000))
	require.Equal(t, "₹500", INR(500))
}

func TestINRTreatsZeroAsAbsent(t *testing.T) {
	require.Equal(t, Placeholder, INR(0))
	require.Equal(t, Placeholder, INR(-1))
}

func TestDatePlaceholder(t *testing.T) {
	require.Equal(t, Placeholder, Date(time.Time{}))
	require.Equal(t, Placeholder, DatePtr(nil))
	require.Equal(t, "05 Mar 2024", Date(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
}

func TestTextPlaceholder(t *testing.T) {
	require.Equal(t, Placeholder, Text("   "))
	require.Equal(t, "Swift VXI", Text(" Swift VXI "))
}
