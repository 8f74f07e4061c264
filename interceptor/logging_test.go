package interceptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panagiotisptr/shimstack/future"
)

func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogging_Sync(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	st, err := Func(terminalA, Logging(newTestLogger(&buf)))
	require.NoError(t, err)

	v, err := st.Call("x", "y")
	require.NoError(t, err)
	require.Equal(t, "a", v)

	records := logRecords(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "call start", records[0]["msg"])
	assert.Equal(t, "terminalA", records[0]["method"])
	assert.EqualValues(t, 2, records[0]["args"])
	assert.Equal(t, "call done", records[1]["msg"])
	assert.NotEmpty(t, records[0]["call_id"])
	assert.Equal(t, records[0]["call_id"], records[1]["call_id"])
}

func TestLogging_Failure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var buf bytes.Buffer
	st, err := Func(func() error { return boom }, Logging(newTestLogger(&buf)), Name("fail"))
	require.NoError(t, err)

	_, err = st.Call()
	require.ErrorIs(t, err, boom)

	records := logRecords(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "call failed", records[1]["msg"])
	assert.Equal(t, "ERROR", records[1]["level"])
	assert.Equal(t, "boom", records[1]["error"])
}

func TestLogging_Async(t *testing.T) {
	t.Parallel()

	pending, resolve, _ := future.New()
	var buf bytes.Buffer
	st, err := Func(func() *future.Future { return pending }, Logging(newTestLogger(&buf)))
	require.NoError(t, err)

	out, err := st.Call()
	require.NoError(t, err)
	require.Same(t, pending, out)
	require.Len(t, logRecords(t, &buf), 1)

	resolve("done")

	records := logRecords(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "call done", records[1]["msg"])
	assert.Equal(t, true, records[1]["async"])
}
