package unitig

import (
	"fmt"

	"github.com/zhk8111/megahit"
)

func misusef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{megahit.ErrMisuse}, args...)...)
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{megahit.ErrInvariant}, args...)...)
}
