package model

import (
	"time"
)

// Session is an active login session. Sessions of a freshly banned user are
// removed by the ban manager, forcing a logout.
type Session struct {
	ID string `gorm:"primaryKey" json:"id"` // Opaque session token.

	UserID UserID `gorm:"index;not null" json:"user_id"` // Account owning the session.
	IP     string `json:"ip"`                            // Address the session was opened from.

	// Meta fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName - set the table name.
func (Session) TableName() string {
	return "sessions"
}

// SessionKey is a long-lived "remember me" credential tied to an account.
// Purged together with the account's sessions on ban.
type SessionKey struct {
	Key string `gorm:"primaryKey" json:"key"` // Opaque credential token.

	UserID UserID `gorm:"index;not null" json:"user_id"` // Account owning the credential.

	// Meta fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// TableName - set the table name.
func (SessionKey) TableName() string {
	return "session_keys"
}
