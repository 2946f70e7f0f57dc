package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToInt(t *testing.T) {
	got, err := Int64ToInt(1 << 40)
	assert.NoError(t, err)
	assert.Equal(t, 1<<40, got)

	got, err = Int64ToInt(-7)
	assert.NoError(t, err)
	assert.Equal(t, -7, got)
}

func TestMulInt64(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int64
		want    int64
		wantErr bool
	}{
		{"zero", 0, math.MaxInt64, 0, false},
		{"small", 12, 3, 36, false},
		{"edge bytes", 1 << 40, 12, 12 << 40, false},
		{"overflow", math.MaxInt64/2 + 1, 2, 0, true},
		{"negative", -1, 4, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulInt64(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
