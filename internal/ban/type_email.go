package ban

import (
	"strings"
)

// EmailType bans accounts by email address or `*`-wildcard pattern over
// the email column, e.g. "*@spam.example".
type EmailType struct{}

func NewEmailType() *EmailType {
	return &EmailType{}
}

func (t *EmailType) Tag() string {
	return "email"
}

func (t *EmailType) UserColumn() string {
	return ColumnUserEmail
}

// PrepareForStorage lowercases and keeps addresses and wildcard patterns.
// Entries that are neither are dropped.
func (t *EmailType) PrepareForStorage(items []string) ([]string, error) {
	out := make([]string, 0, len(items))

	for _, raw := range items {
		item := strings.ToLower(strings.TrimSpace(raw))
		if item == "" {
			continue
		}

		if strings.Contains(item, "@") || Wildcard(item) {
			out = append(out, item)
		}
	}

	return out, nil
}

// Check is never consulted, matching goes through the user_email column.
func (t *EmailType) Check(_ []Row, _ Actor) *Row {
	return nil
}

func (t *EmailType) BanLogKey() string {
	return "LOG_BAN_EMAIL"
}

func (t *EmailType) UnbanLogKey() string {
	return "LOG_UNBAN_EMAIL"
}

func (t *EmailType) AfterBan(_ BanData) bool {
	return true
}

func (t *EmailType) AfterUnban(_ UnbanData) {}

func (t *EmailType) Tidy() {}
