package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/fbc/util/log"
)

func withCapturedOutput(f func(ctx context.Context)) string {
	buf := &bytes.Buffer{}
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	defer slog.SetDefault(old)
	f(context.Background())
	return buf.String()
}

func TestInfof(t *testing.T) {
	out := withCapturedOutput(func(ctx context.Context) {
		log.Infof(ctx, "compiled %d schemas", 3)
	})
	require.Contains(t, out, "compiled 3 schemas")
	require.Contains(t, out, "level=INFO")
}

func TestInfow(t *testing.T) {
	out := withCapturedOutput(func(ctx context.Context) {
		log.Infow(ctx, "generated", "files", 2)
	})
	require.Contains(t, out, "msg=generated")
	require.Contains(t, out, "files=2")
}

func TestAddTags(t *testing.T) {
	out := withCapturedOutput(func(ctx context.Context) {
		ctx = log.AddTags(ctx, "request_id", "abc123")
		log.Infow(ctx, "handling call")
	})
	require.Contains(t, out, "request_id=abc123")
}

func TestAddTagsOddArgsPanics(t *testing.T) {
	require.Panics(t, func() {
		log.AddTags(context.Background(), "odd")
	})
}
