package weird

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSink_Weird_LogsAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	sink := LogSink{Logger: logger}
	sink.Weird(Notice{Name: LabelTooLong, SessionID: "sess-1", Detail: "detail"})

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, LabelTooLong)
	assert.Contains(t, out, "sess-1")
}

func TestLogSink_Weird_NilLoggerFallsBackToDefault(t *testing.T) {
	sink := LogSink{}
	assert.NotPanics(t, func() {
		sink.Weird(Notice{Name: ConnCountTooLarge})
	})
}

func TestNopSink_DiscardsSilently(t *testing.T) {
	sink := NopSink{}
	assert.NotPanics(t, func() {
		sink.Weird(Notice{Name: RRUnknownType})
	})
}
