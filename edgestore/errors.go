package edgestore

import (
	"fmt"

	"github.com/zhk8111/megahit"
)

// BucketClaimedError is returned when a thread starts writing a bucket that
// another thread (or the same thread, earlier) already claimed.
type BucketClaimedError struct {
	Bucket int
	Owner  int
	Thread int
}

func (e *BucketClaimedError) Error() string {
	return fmt.Sprintf("bucket %d already claimed by thread %d, thread %d cannot claim it", e.Bucket, e.Owner, e.Thread)
}

// Unwrap reports the error category.
func (e *BucketClaimedError) Unwrap() error { return megahit.ErrInvariant }

// FooterError describes a malformed footer.
type FooterError struct {
	Path string
	Line int
	Msg  string
}

func (e *FooterError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed edge footer at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("malformed edge footer %s at line %d: %s", e.Path, e.Line, e.Msg)
}

// Unwrap reports the error category.
func (e *FooterError) Unwrap() error { return megahit.ErrIO }

func misusef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{megahit.ErrMisuse}, args...)...)
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{megahit.ErrInvariant}, args...)...)
}

func ioErr(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", megahit.ErrIO, op, path, err)
}
