package ban

import (
	"net"
	"regexp"
	"strings"
	"time"
)

// Accepts dotted IPv4 with `*` standing in for whole octets, including
// truncated forms like "10.0.*".
var wildcardIPv4 = regexp.MustCompile(`^(\d{1,3}|\*)(\.(\d{1,3}|\*)){1,3}$`)

// IPType bans addresses. It declares no user column: address matching is
// done here against the actor's IP, so banning an address never touches
// stored sessions.
type IPType struct {
	now func() time.Time
}

func NewIPType() *IPType {
	return &IPType{now: time.Now}
}

func (t *IPType) Tag() string {
	return "ip"
}

func (t *IPType) UserColumn() string {
	return ""
}

// PrepareForStorage keeps valid addresses and `*`-wildcard IPv4 patterns,
// lowercased. Anything else is dropped.
func (t *IPType) PrepareForStorage(items []string) ([]string, error) {
	out := make([]string, 0, len(items))

	for _, raw := range items {
		item := strings.ToLower(strings.TrimSpace(raw))
		if item == "" {
			continue
		}

		if net.ParseIP(item) != nil || wildcardIPv4.MatchString(item) {
			out = append(out, item)
		}
	}

	return out, nil
}

// Check matches the actor's address against every non-expired row.
func (t *IPType) Check(rows []Row, actor Actor) *Row {
	if actor.IP == "" {
		return nil
	}

	now := t.now().Unix()
	for i := range rows {
		row := rows[i]
		if row.End > 0 && row.End <= now {
			// Expired, the next tidy sweep removes it
			continue
		}

		if matchItem(row.Item, actor.IP) {
			return &row
		}
	}

	return nil
}

func (t *IPType) BanLogKey() string {
	return "LOG_BAN_IP"
}

func (t *IPType) UnbanLogKey() string {
	return "LOG_UNBAN_IP"
}

func (t *IPType) AfterBan(_ BanData) bool {
	return false
}

func (t *IPType) AfterUnban(_ UnbanData) {}

func (t *IPType) Tidy() {}
