package model

import (
	"time"

	"github.com/banwardhq/banward-server/internal/utility"
)

type (
	BanID uint64
)

// Ban is a single ban record. The (Mode, Item) pair is unique by
// construction: creating a ban removes any older rows for the same pair
// before inserting fresh ones.
type Ban struct {
	ID BanID `gorm:"primaryKey;autoIncrement" json:"id"`

	Mode          string `hash:"x" gorm:"index:idx_bans_mode_item;not null" json:"mode"` // Tag of the ban type this record belongs to.
	Item          string `hash:"x" gorm:"index:idx_bans_mode_item;not null" json:"item"` // Canonical identity value or `*`-wildcard pattern.
	StartedAt     int64  `hash:"x" gorm:"not null"                          json:"started_at"` // Unix seconds when the ban becomes effective.
	ExpiresAt     int64  `hash:"x" gorm:"not null;index"                    json:"expires_at"` // Unix seconds when the ban expires, 0 for permanent.
	Reason        string `hash:"x" json:"reason"`         // Administrative reason, not shown to the banned actor.
	DisplayReason string `hash:"x" json:"display_reason"` // Reason shown to the banned actor.

	// Meta fields
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"` // Time when the record was last updated.
	Extra     string    `json:"extra"`                            // Extra data.
}

// TableName - set the table name.
func (Ban) TableName() string {
	return "bans"
}

// GetID - get the ban ID.
func (obj *Ban) GetID() int64 {
	return int64(obj.ID)
}

// Permanent reports whether the ban never expires.
func (obj *Ban) Permanent() bool {
	return obj.ExpiresAt == 0
}

// Expired reports whether a bounded ban has passed its expiry.
func (obj *Ban) Expired(now int64) bool {
	return obj.ExpiresAt > 0 && obj.ExpiresAt < now
}

// Hash - calculate the hash of the object.
func (obj *Ban) Hash() (string, error) {
	return utility.Hash(obj)
}
