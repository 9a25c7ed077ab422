package ban

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/banwardhq/banward-server/internal/audit"
	"github.com/banwardhq/banward-server/internal/metrics"
	"github.com/banwardhq/banward-server/internal/model"
)

var (
	// ErrInvalidLength - the ban would end before it starts.
	ErrInvalidLength = errors.New("ban end precedes its start")
	// ErrTypeNotFound - no registered ban type carries the given mode tag.
	ErrTypeNotFound = errors.New("ban type not found")
)

// Store is the durable side of the engine. Sequences that must not be
// observed half-done (delete-then-insert, select-then-delete) run inside
// a single transaction behind these methods.
type Store interface {
	// ReplaceBans removes existing rows for (mode, items) and inserts the
	// given rows, atomically.
	ReplaceBans(mode string, items []string, bans []model.Ban) error

	// RemoveBans deletes the rows with the given ids and returns their
	// item values. An empty id set matches nothing.
	RemoveBans(ids []model.BanID) ([]string, error)

	// Bans reads the whole ban table in insertion order.
	Bans() ([]model.Ban, error)

	// DeleteExpiredBans removes rows with 0 < expires_at < now and
	// reports how many went away.
	DeleteExpiredBans(now int64) (int64, error)

	// UserIDsBy resolves user ids whose column value equals one of exact
	// or matches one of the LIKE patterns. Empty inputs match nothing.
	UserIDsBy(column string, exact []string, patterns []string) ([]model.UserID, error)

	// DeleteSessions and DeleteSessionKeys purge the login state of the
	// given users.
	DeleteSessions(ids []model.UserID) error
	DeleteSessionKeys(ids []model.UserID) error
}

// Cache holds the ban snapshot under a single key with a TTL. Destroy
// must make the entry invisible before returning.
type Cache interface {
	Get() (*Snapshot, bool)
	Put(snapshot *Snapshot)
	Destroy()
}

// AuditLog appends action entries, best-effort.
type AuditLog interface {
	Add(scope string, actorID int64, actorIP string, messageKey string, params ...string)
}

// Manager owns the ban lifecycle: it validates input, delegates per-kind
// semantics to the registered types, mutates the store, fans out the
// side effects and keeps the snapshot cache coherent. It is stateless
// between calls and safe for concurrent use as far as the store and
// cache are.
type Manager struct {
	types   []Type
	store   Store
	cache   Cache
	audit   AuditLog
	metrics metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewManager(types []Type, store Store, cache Cache, auditLog AuditLog, m metrics.Metrics, logger *slog.Logger) *Manager {
	if m == nil {
		m = metrics.NewMetricsFake()
	}

	return &Manager{
		types:   types,
		store:   store,
		cache:   cache,
		audit:   auditLog,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Ban creates ban records for the given items under the given mode,
// replacing any existing records for the same (mode, item) pairs. A zero
// end means the ban never expires. The actor is the administrator
// issuing the ban, recorded in the audit log.
func (m *Manager) Ban(actor Actor, mode string, items []string, start, end time.Time, reason, displayReason string) error {
	if !end.IsZero() && start.After(end) {
		return ErrInvalidLength
	}

	banType := m.findType(mode)
	if banType == nil {
		return fmt.Errorf("%w: %q", ErrTypeNotFound, mode)
	}

	banItems, err := banType.PrepareForStorage(items)
	if err != nil {
		return fmt.Errorf("preparing %s ban items: %w", mode, err)
	}

	if len(banItems) == 0 {
		// Nothing survived canonicalization: no rows, no logs, and the
		// cached snapshot stays as it is
		return nil
	}

	rows := make([]model.Ban, 0, len(banItems))
	for _, item := range banItems {
		rows = append(rows, model.Ban{
			Mode:          mode,
			Item:          item,
			StartedAt:     epoch(start),
			ExpiresAt:     epoch(end),
			Reason:        reason,
			DisplayReason: displayReason,
		})
	}

	if err := m.store.ReplaceBans(mode, banItems, rows); err != nil {
		return fmt.Errorf("storing %s bans: %w", mode, err)
	}

	if key := banType.BanLogKey(); key != "" {
		joined := strings.Join(banItems, ", ")
		m.audit.Add(audit.ScopeAdmin, actor.UserID, actor.IP, key, reason, joined)
		m.audit.Add(audit.ScopeModerator, actor.UserID, actor.IP, key, reason, joined)
	}

	if banType.AfterBan(BanData{
		Items:         banItems,
		Start:         start,
		End:           end,
		Reason:        reason,
		DisplayReason: displayReason,
	}) {
		m.terminateSessions(banType, banItems)
	}

	m.cache.Destroy()
	m.metrics.LogBanEvent("ban", mode, len(banItems))

	return nil
}

// Unban removes the ban records with the given ids. The mode selects the
// type whose log keys and post-unban hook apply.
func (m *Manager) Unban(actor Actor, mode string, ids []model.BanID) error {
	banType := m.findType(mode)
	if banType == nil {
		return fmt.Errorf("%w: %q", ErrTypeNotFound, mode)
	}

	items, err := m.store.RemoveBans(ids)
	if err != nil {
		return fmt.Errorf("removing %s bans: %w", mode, err)
	}

	if key := banType.UnbanLogKey(); key != "" {
		joined := strings.Join(items, ", ")
		m.audit.Add(audit.ScopeAdmin, actor.UserID, actor.IP, key, joined)
		m.audit.Add(audit.ScopeModerator, actor.UserID, actor.IP, key, joined)
	}

	banType.AfterUnban(UnbanData{Items: items})

	m.cache.Destroy()
	m.metrics.LogBanEvent("unban", mode, len(items))

	return nil
}

// Check decides whether the actor is banned. It returns the first
// matching row across all modes in snapshot order, or nil.
func (m *Manager) Check(actor Actor) (*Row, error) {
	snapshot, ok := m.cache.Get()
	if !ok {
		bans, err := m.store.Bans()
		if err != nil {
			return nil, fmt.Errorf("reading ban table: %w", err)
		}

		snapshot = NewSnapshot(bans)
		m.cache.Put(snapshot)
	}

	now := m.now().Unix()

	for _, mode := range snapshot.Modes() {
		banType := m.findType(mode)
		if banType == nil {
			// Records may outlive the type that created them
			continue
		}

		rows := snapshot.Rows(mode)

		column := banType.UserColumn()
		if column == "" {
			if match := banType.Check(rows, actor); match != nil {
				return match, nil
			}

			continue
		}

		value, ok := actor.Field(column)
		if !ok {
			continue
		}

		for i := range rows {
			row := rows[i]

			// TODO: this gate admits only rows whose expiry has already
			// passed and skips permanent bans entirely, which looks
			// inverted. It reproduces the enforcement behavior of the
			// system this service replaces; confirm the intended
			// semantics before touching it (see DESIGN.md).
			if !(row.End > 0 && row.End < now) {
				continue
			}

			if matchItem(row.Item, value) {
				return &row, nil
			}
		}
	}

	return nil, nil
}

// Tidy removes every row whose bounded expiry has passed, then gives
// each registered type its housekeeping turn, then drops the cached
// snapshot so removed rows cannot linger until TTL.
func (m *Manager) Tidy() error {
	removed, err := m.store.DeleteExpiredBans(m.now().Unix())
	if err != nil {
		err = fmt.Errorf("deleting expired bans: %w", err)
	}

	for _, t := range m.types {
		t.Tidy()
	}

	m.cache.Destroy()
	m.metrics.LogBanEvent("tidy", "", int(removed))

	return err
}

// terminateSessions resolves the user ids affected by the new ban and
// deletes their sessions and session credentials. Failures here are
// logged, not propagated: the ban itself is already committed.
func (m *Manager) terminateSessions(banType Type, banItems []string) {
	column := banType.UserColumn()
	if column == "" {
		return
	}

	var userIDs []model.UserID

	if column == ColumnUserID {
		// Canonical items already are user ids
		for _, item := range banItems {
			id, err := strconv.ParseInt(item, 10, 64)
			if err != nil {
				continue
			}

			userIDs = append(userIDs, model.UserID(id))
		}
	} else {
		exact := make([]string, 0, len(banItems))

		var patterns []string

		for _, item := range banItems {
			if Wildcard(item) {
				patterns = append(patterns, WildcardLike(item))
			} else {
				exact = append(exact, item)
			}
		}

		ids, err := m.store.UserIDsBy(column, exact, patterns)
		if err != nil {
			m.logger.Warn("resolving banned users failed",
				slog.String("column", column),
				slog.String("error", err.Error()),
			)

			return
		}

		userIDs = ids
	}

	if len(userIDs) == 0 {
		return
	}

	if err := m.store.DeleteSessions(userIDs); err != nil {
		m.logger.Warn("deleting sessions of banned users failed", slog.String("error", err.Error()))
	}

	if err := m.store.DeleteSessionKeys(userIDs); err != nil {
		m.logger.Warn("deleting session keys of banned users failed", slog.String("error", err.Error()))
	}
}

// findType returns the registered type with the given tag, first match
// wins. Nil when no type matches.
func (m *Manager) findType(mode string) Type {
	for _, t := range m.types {
		if t.Tag() == mode {
			return t
		}
	}

	return nil
}

// epoch converts a time to Unix seconds, mapping the zero time to the
// "never" sentinel 0.
func epoch(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.Unix()
}
