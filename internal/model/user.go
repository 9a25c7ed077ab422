package model

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/banwardhq/banward-server/internal/utility"
	"gorm.io/gorm"
)

type (
	UserID int64
)

type User struct {
	ID UserID `gorm:"PrimaryKey" hash:"x" json:"id"` // Unique identifier for this account.

	// Account fields
	Username string `hash:"x" gorm:"index" json:"username"` // Account name, used to resolve ban items to ids.
	Email    string `hash:"x" gorm:"index" json:"email"`    // Account email, matched by email bans.
	LastIP   string `hash:"x" json:"last_ip"`               // Last address the account was seen from.

	// Additional fields
	LastSeen sql.NullTime `hash:"x" json:"last_seen"` // Unix time when the account was last seen.

	// Meta fields
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"` // Time when the account was last updated.
	DeletedAt gorm.DeletedAt `gorm:"index"          json:"deleted_at"` // Soft delete.
	Extra     string         `json:"extra"`                            // Extra data.
}

// Update seen time for the account.
func (obj *User) Seen() *User {
	obj.LastSeen = sql.NullTime{
		Time:  time.Now().UTC(),
		Valid: true,
	}

	return obj
}

// TableName - set the table name.
func (User) TableName() string {
	return "users"
}

// GetID - get the user ID.
func (obj *User) GetID() int64 {
	return int64(obj.ID)
}

// ToInt64 - get the user ID.
func (id UserID) ToInt64() int64 {
	return int64(id)
}

// ToString - get the user ID.
func (id UserID) ToString() string {
	return strconv.FormatInt(int64(id), 10)
}

// Hash - calculate the hash of the object.
func (obj *User) Hash() (string, error) {
	return utility.Hash(obj)
}
