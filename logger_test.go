package megahit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_StoreClosed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, nil)).WithPrefix("run/k31")

	logger.LogStoreClosed(context.Background(), 6, false, nil)
	out := buf.String()
	require.Contains(t, out, "edge store written")
	require.Contains(t, out, `"prefix":"run/k31"`)
	require.Contains(t, out, `"edges":6`)

	buf.Reset()
	logger.LogStoreClosed(context.Background(), 0, true, errors.New("disk full"))
	require.Contains(t, buf.String(), "edge store close failed")
	require.Contains(t, buf.String(), "disk full")
}

func TestLogger_Refresh(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).WithK(21)

	logger.LogRefresh(context.Background(), 10, 2, 3, nil)
	out := buf.String()
	require.Contains(t, out, "unitig graph refreshed")
	require.Contains(t, out, `"k":21`)
	require.Contains(t, out, `"merged":2`)
	require.Contains(t, out, `"deleted":3`)
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	require.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
