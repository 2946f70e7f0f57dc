package edgestore

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPrefix(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "run")
}

// edgeOf builds a distinguishable edge of the given width.
func edgeOf(words int, tag uint32) []uint32 {
	e := make([]uint32, words)
	for i := range e {
		e[i] = tag*100 + uint32(i)
	}
	return e
}

func drain(t *testing.T, next func() (Record, error)) [][]uint32 {
	t.Helper()
	var out [][]uint32
	for {
		rec, err := next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec.Words(nil))
	}
}
