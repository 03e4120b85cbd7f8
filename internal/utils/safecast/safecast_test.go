package safecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    int
		want    uint64
		wantErr string
	}{
		{name: "zero", give: 0, want: 0},
		{name: "positive", give: 42, want: 42},
		{name: "max int", give: math.MaxInt, want: math.MaxInt},
		{name: "negative", give: -1, wantErr: "value -1 is negative, cannot convert to uint64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := IntToUint64(tt.give)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
