package megahit

import "errors"

var (
	// ErrMisuse is returned when an object is used out of its required order,
	// after it was closed, or with arguments that contradict its configuration.
	ErrMisuse = errors.New("misuse")

	// ErrIO is returned when a file cannot be opened, mapped, written or parsed,
	// including short data files and malformed footers.
	ErrIO = errors.New("i/o failure")

	// ErrInvariant is returned when data violates an invariant the producer was
	// required to uphold (bucket claimed twice, id out of range, stale degree cache).
	ErrInvariant = errors.New("invariant violation")
)

// Category returns the category sentinel err wraps, or nil if it wraps none.
func Category(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMisuse):
		return ErrMisuse
	case errors.Is(err, ErrIO):
		return ErrIO
	case errors.Is(err, ErrInvariant):
		return ErrInvariant
	default:
		return nil
	}
}
