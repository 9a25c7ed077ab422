package model

import (
	"time"
)

// AuditEntry is one row of the append-only action log. Entries are written
// best-effort on every ban and unban, once per scope.
type AuditEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Scope      string `gorm:"index;not null" json:"scope"` // "admin", "moderator" or "user".
	ActorID    int64  `gorm:"index"          json:"actor_id"`
	ActorIP    string `json:"actor_ip"`
	MessageKey string `gorm:"not null" json:"message_key"` // Log message key, e.g. LOG_BAN_USER.
	Params     string `json:"params"`                      // Free-form parameters, comma-joined.

	// Meta fields
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName - set the table name.
func (AuditEntry) TableName() string {
	return "audit_log"
}
