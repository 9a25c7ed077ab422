package audit

import (
	"log/slog"
	"strings"

	"github.com/banwardhq/banward-server/internal/model"
)

// Audit scopes.
const (
	ScopeAdmin     = "admin"
	ScopeModerator = "moderator"
	ScopeUser      = "user"
)

// Appender persists audit entries. Implemented by the storage layer.
type Appender interface {
	AppendAuditEntry(entry *model.AuditEntry) error
}

// Log appends action entries to the durable audit table. Writes are
// best-effort: a failed append is logged and swallowed, it must never
// roll back the mutation that triggered it.
type Log struct {
	appender Appender
	logger   *slog.Logger
}

func New(appender Appender, logger *slog.Logger) *Log {
	return &Log{
		appender: appender,
		logger:   logger,
	}
}

// Add writes one entry.
func (l *Log) Add(scope string, actorID int64, actorIP string, messageKey string, params ...string) {
	entry := &model.AuditEntry{
		Scope:      scope,
		ActorID:    actorID,
		ActorIP:    actorIP,
		MessageKey: messageKey,
		Params:     strings.Join(params, ", "),
	}

	if err := l.appender.AppendAuditEntry(entry); err != nil {
		l.logger.Warn("audit log write failed",
			slog.String("scope", scope),
			slog.String("message_key", messageKey),
			slog.String("error", err.Error()),
		)
	}
}
