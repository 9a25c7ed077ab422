package ban

import (
	"strconv"
	"strings"
	"sync"

	"github.com/banwardhq/banward-server/internal/model"
)

// UserResolver resolves account names to ids. Unknown names resolve to
// id 0 without an error.
type UserResolver interface {
	UserIDByUsername(username string) (model.UserID, error)
}

// UserType bans accounts by id. Raw items may be numeric ids or account
// names; names are resolved through the store and memoized until the
// next tidy sweep.
type UserType struct {
	resolver UserResolver
	memo     sync.Map // lowercased username -> model.UserID
}

func NewUserType(resolver UserResolver) *UserType {
	return &UserType{resolver: resolver}
}

func (t *UserType) Tag() string {
	return "user"
}

func (t *UserType) UserColumn() string {
	return ColumnUserID
}

func (t *UserType) PrepareForStorage(items []string) ([]string, error) {
	out := make([]string, 0, len(items))

	for _, raw := range items {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}

		if _, err := strconv.ParseInt(item, 10, 64); err == nil {
			out = append(out, item)

			continue
		}

		key := strings.ToLower(item)
		if cached, ok := t.memo.Load(key); ok {
			out = append(out, cached.(model.UserID).ToString())

			continue
		}

		id, err := t.resolver.UserIDByUsername(item)
		if err != nil {
			return nil, err
		}

		if id == 0 {
			// Unknown account, nothing to ban
			continue
		}

		t.memo.Store(key, id)
		out = append(out, id.ToString())
	}

	return out, nil
}

// Check is never consulted, matching goes through the user_id column.
func (t *UserType) Check(_ []Row, _ Actor) *Row {
	return nil
}

func (t *UserType) BanLogKey() string {
	return "LOG_BAN_USER"
}

func (t *UserType) UnbanLogKey() string {
	return "LOG_UNBAN_USER"
}

// AfterBan asks for the session cascade: a freshly banned account must
// not keep an active login.
func (t *UserType) AfterBan(_ BanData) bool {
	return true
}

func (t *UserType) AfterUnban(_ UnbanData) {}

// Tidy drops the username memo, so renamed accounts resolve fresh.
func (t *UserType) Tidy() {
	t.memo.Range(func(key, _ any) bool {
		t.memo.Delete(key)

		return true
	})
}
