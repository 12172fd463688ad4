package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestInfoContext_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")
	defer Initialize("info", "text")

	ctx := WithRequestID(context.Background(), "req-42")
	InfoContext(ctx, "booked", "rental_id", 7)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"rental_id":7`)
	assert.Equal(t, "req-42", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestExitMethodWithError_ExpectedErrorsAreWarnings(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")
	defer Initialize("info", "text")

	expected := errors.New("car is unavailable")
	SetExpectedErrorFunc(func(err error) bool { return errors.Is(err, expected) })
	defer SetExpectedErrorFunc(func(error) bool { return false })

	ExitMethodWithError("Book", expected)
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	ExitMethodWithError("Book", errors.New("db down"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
