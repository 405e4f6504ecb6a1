package moneypkg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "Integer", input: "100", want: "100.00"},
		{name: "TwoDecimals", input: "0.01", want: "0.01"},
		{name: "TrailingZeros", input: "50.10", want: "50.10"},
		{name: "Zero", input: "0", wantErr: ErrInvalid},
		{name: "Negative", input: "-5", wantErr: ErrInvalid},
		{name: "TooManyDecimals", input: "1.001", wantErr: ErrInvalid},
		{name: "Garbage", input: "ten", wantErr: ErrInvalid},
		{name: "Empty", input: "", wantErr: ErrInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse(tc.input)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, Format(d))
		})
	}
}

func TestFormatString(t *testing.T) {
	require.Equal(t, "100.00", FormatString("100"))
	require.Equal(t, "0.50", FormatString("0.5"))
	require.Equal(t, "not-a-number", FormatString("not-a-number"))
}
