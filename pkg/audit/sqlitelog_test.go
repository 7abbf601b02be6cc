package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latchd/latch/pkg/credential"
)

func setupTestLog(t *testing.T) *SQLiteLog {
	t.Helper()
	l, err := OpenSQLiteLog(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestSQLiteLogEmitAndList(t *testing.T) {
	l := setupTestLog(t)

	id := credential.ID{1, 2, 3, 4}
	first := NewAccessDenied(id)
	second := NewAccessGranted(id)
	second.Timestamp = first.Timestamp.Add(time.Millisecond)

	require.NoError(t, l.Emit(first))
	require.NoError(t, l.Emit(second))

	events, err := l.List(0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Most recent first.
	assert.Equal(t, EventAccessGranted, events[0].Type)
	assert.Equal(t, EventAccessDenied, events[1].Type)
	assert.Equal(t, "01020304", events[0].Credential)
	assert.Equal(t, SeverityWarning, events[1].Severity)
}

func TestSQLiteLogListLimit(t *testing.T) {
	l := setupTestLog(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		ev := NewManualOpen()
		ev.Timestamp = base.Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, l.Emit(ev))
	}

	events, err := l.List(2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestSQLiteLogRoundTripsDetails(t *testing.T) {
	l := setupTestLog(t)

	ev := NewCloseTimeout(30 * time.Second)
	require.NoError(t, l.Emit(ev))

	events, err := l.List(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "30s", events[0].Details["timeout"])
	assert.Equal(t, ev.ID, events[0].ID)
}
