package megahit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"misuse", fmt.Errorf("%w: write after close", ErrMisuse), ErrMisuse},
		{"io", fmt.Errorf("%w: open x: %w", ErrIO, errors.New("no such file")), ErrIO},
		{"invariant", fmt.Errorf("wrapped twice: %w", fmt.Errorf("%w: bucket 3", ErrInvariant)), ErrInvariant},
		{"joined", errors.Join(errors.New("other"), ErrIO), ErrIO},
		{"uncategorized", errors.New("plain"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.err))
		})
	}
}
