package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRationalFromString(t *testing.T) {
	tests := []struct {
		input          string
		expectedNum    int
		expectedDen    int
		expectingError bool
	}{
		{"30", 30, 1, false},
		{"30/1", 30, 1, false},
		{"30000/1001", 30000, 1001, false},
		{"~23.976", 24000, 1001, false},
		{"~29.97", 30000, 1001, false},
		{"~60", 60, 1, false},
		{"0.5", 1, 2, false},
		{"1/0", 0, 0, true},
		{"invalid", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			rational, err := RationalFromString(test.input)
			if test.expectingError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, Rational{Num: test.expectedNum, Den: test.expectedDen}, *rational)
		})
	}
}

func TestRationalFramesIn(t *testing.T) {
	require.Equal(t, 59, Rational{Num: 30000, Den: 1001}.FramesIn(2.0))
	require.Equal(t, 120, Rational{Num: 60, Den: 1}.FramesIn(2.0))
	require.Equal(t, 0, Rational{Num: 60, Den: 1}.FramesIn(0))
	require.Equal(t, 0, Rational{}.FramesIn(2))
	require.Equal(t, 15, Rational{Num: 30, Den: 1}.FramesIn(0.5))
	require.Equal(t, 21, Rational{Num: 30, Den: 1}.FramesIn(0.7))
	require.Equal(t, 1, Rational{Num: 30, Den: 1}.FramesIn(0.01))
	require.Equal(t, 0, Rational{Num: 30, Den: 1}.FramesIn(-1))
}
