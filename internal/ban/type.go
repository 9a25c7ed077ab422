package ban

import (
	"strconv"
	"time"
)

// Actor columns a ban type can match against.
const (
	ColumnUserID    = "user_id"
	ColumnUserIP    = "user_ip"
	ColumnUserEmail = "user_email"
)

// Actor is the identity a ban decision runs against. Zero fields are
// treated as "unknown" and never match.
type Actor struct {
	UserID int64  `json:"user_id"`
	IP     string `json:"ip"`
	Email  string `json:"email"`
}

// Field returns the actor's value at the given column.
func (a Actor) Field(column string) (string, bool) {
	switch column {
	case ColumnUserID:
		if a.UserID == 0 {
			return "", false
		}

		return strconv.FormatInt(a.UserID, 10), true
	case ColumnUserIP:
		return a.IP, a.IP != ""
	case ColumnUserEmail:
		return a.Email, a.Email != ""
	}

	return "", false
}

// Row is one ban row as held in the cached snapshot and returned from a
// positive check.
type Row struct {
	Item   string `json:"item"`
	End    int64  `json:"end"`    // Unix seconds, 0 for permanent.
	Reason string `json:"reason"` // Display reason.
}

// BanData is the payload handed to the post-ban hook.
type BanData struct {
	Items         []string
	Start         time.Time
	End           time.Time
	Reason        string
	DisplayReason string
}

// UnbanData is the payload handed to the post-unban hook.
type UnbanData struct {
	Items []string
}

// Type encapsulates the behavior of one ban kind. Implementations are
// registered with the manager in a fixed order and looked up by tag.
type Type interface {
	// Tag is the stable identifier stored in the mode column.
	Tag() string

	// PrepareForStorage maps raw input into canonical storable items.
	// Unusable entries are dropped, not reported.
	PrepareForStorage(items []string) ([]string, error)

	// UserColumn names the actor field this type matches against, or ""
	// when matching is fully custom and delegated to Check.
	UserColumn() string

	// Check is consulted only when UserColumn is empty. It returns the
	// first matching row, or nil.
	Check(rows []Row, actor Actor) *Row

	// BanLogKey and UnbanLogKey are audit message keys. An empty key
	// suppresses audit logging for this type.
	BanLogKey() string
	UnbanLogKey() string

	// AfterBan runs after the ban rows are committed. A true return asks
	// the manager to terminate the sessions of the affected users.
	AfterBan(data BanData) bool

	// AfterUnban runs after the ban rows are removed.
	AfterUnban(data UnbanData)

	// Tidy is variant-local housekeeping, invoked by the global sweep.
	Tidy()
}
