package audit

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/banwardhq/banward-server/internal/model"
	"github.com/stretchr/testify/require"
)

type memAppender struct {
	entries []model.AuditEntry
	err     error
}

func (a *memAppender) AppendAuditEntry(entry *model.AuditEntry) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, *entry)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddJoinsParams(t *testing.T) {
	appender := &memAppender{}
	auditLog := New(appender, testLogger())

	auditLog.Add(ScopeAdmin, 1, "127.0.0.1", "LOG_BAN_IP", "raid", "10.0.0.1, 10.0.0.2")

	require.Len(t, appender.entries, 1)
	entry := appender.entries[0]
	require.Equal(t, ScopeAdmin, entry.Scope)
	require.EqualValues(t, 1, entry.ActorID)
	require.Equal(t, "127.0.0.1", entry.ActorIP)
	require.Equal(t, "LOG_BAN_IP", entry.MessageKey)
	require.Equal(t, "raid, 10.0.0.1, 10.0.0.2", entry.Params)
}

func TestAddWithoutParams(t *testing.T) {
	appender := &memAppender{}
	auditLog := New(appender, testLogger())

	auditLog.Add(ScopeModerator, 2, "10.0.0.1", "LOG_UNBAN_IP")

	require.Len(t, appender.entries, 1)
	require.Empty(t, appender.entries[0].Params)
}

func TestAddSwallowsAppendErrors(t *testing.T) {
	appender := &memAppender{err: errors.New("table is locked")}
	auditLog := New(appender, testLogger())

	require.NotPanics(t, func() {
		auditLog.Add(ScopeAdmin, 1, "127.0.0.1", "LOG_BAN_IP", "r")
	})
	require.Empty(t, appender.entries)
}
