package coerce

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	t.Parallel()

	empty := ""
	seven := "7"

	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr error
	}{
		{name: "nil", in: nil, wantErr: ErrMissing},
		{name: "empty string", in: "", wantErr: ErrMissing},
		{name: "blank string", in: "   ", wantErr: ErrMissing},
		{name: "nil string pointer", in: (*string)(nil), wantErr: ErrMissing},
		{name: "empty string pointer", in: &empty, wantErr: ErrMissing},
		{name: "string pointer", in: &seven, want: 7},
		{name: "int", in: 3, want: 3},
		{name: "int64", in: int64(12), want: 12},
		{name: "integral float", in: float64(4), want: 4},
		{name: "numeric string", in: " 42 ", want: 42},
		{name: "float string", in: "5.0", want: 5},
		{name: "json number", in: json.Number("9"), want: 9},
		{name: "negative string", in: "-2", want: -2},
		{name: "fractional float", in: 2.5, wantErr: ErrInvalid},
		{name: "fractional string", in: "2.5", wantErr: ErrInvalid},
		{name: "nan", in: math.NaN(), wantErr: ErrInvalid},
		{name: "inf", in: math.Inf(1), wantErr: ErrInvalid},
		{name: "word", in: "abc", wantErr: ErrInvalid},
		{name: "bool", in: true, wantErr: ErrInvalid},
		{name: "slice", in: []int{1}, wantErr: ErrInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ID(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositiveID(t *testing.T) {
	t.Parallel()

	n, err := PositiveID("8")
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	_, err = PositiveID(0)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = PositiveID("-1")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = PositiveID(nil)
	assert.ErrorIs(t, err, ErrMissing)
}
