package storage

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/banwardhq/banward-server/internal/audit"
	"github.com/banwardhq/banward-server/internal/ban"
	config "github.com/banwardhq/banward-server/internal/config"
	"github.com/banwardhq/banward-server/internal/model"
	storage_logger "github.com/banwardhq/banward-server/internal/storage/storage_logger"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var errorUnsupportedColumn = errors.New("unsupported user column")

type Storage struct {
	db *gorm.DB
}

// The storage is the durable side of the ban engine.
var (
	_ ban.Store        = (*Storage)(nil)
	_ ban.UserResolver = (*Storage)(nil)
	_ audit.Appender   = (*Storage)(nil)
)

func New(config *config.Config, logger *slog.Logger) (*Storage, error) {
	dialector, err := createDialector(&config.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(
		dialector,
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{},
			Logger:         storage_logger.NewGormSlogLogger(logger),
			NowFunc:        func() time.Time { return time.Now().UTC() },
		})
	if err != nil {
		return nil, err
	}

	// Migrations
	const timeoutSeconds = 15 * 60
	ctx, cancel := context.WithTimeout(context.Background(), timeoutSeconds*time.Second)
	defer cancel() // releases resources if the migration completes before timeout elapses
	if err := db.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.Ban{},
		&model.Session{},
		&model.SessionKey{},
		&model.AuditEntry{},
	); err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close - close the database connection
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UserByID - get the user by ID
func (s *Storage) UserByID(id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByUsername - get the user by username
func (s *Storage) UserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserIDByUsername - resolve an account name to its id. Unknown names
// resolve to 0 without an error.
func (s *Storage) UserIDByUsername(username string) (model.UserID, error) {
	user, err := s.UserByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// UpsertUser - insert or update the user
func (s *Storage) UpsertUser(user *model.User) error {
	return s.db.Save(user).Error
}

// Users - get all users
func (s *Storage) Users() ([]model.User, error) {
	var users []model.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ReplaceBans - delete existing rows for the (mode, items) pairs and
// insert the fresh rows, in one transaction
func (s *Storage) ReplaceBans(mode string, items []string, bans []model.Ban) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(items) > 0 {
			if err := tx.Where("mode = ? AND item IN ?", mode, items).Delete(&model.Ban{}).Error; err != nil {
				return err
			}
		}

		if len(bans) > 0 {
			if err := tx.Create(&bans).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// RemoveBans - delete rows by id and return the item values they held.
// An empty id set matches nothing.
func (s *Storage) RemoveBans(ids []model.BanID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var items []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Ban{}).Where("id IN ?", ids).Order("id").Pluck("item", &items).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).Delete(&model.Ban{}).Error
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Bans - read the whole ban table in insertion order
func (s *Storage) Bans() ([]model.Ban, error) {
	var bans []model.Ban
	if err := s.db.Order("id").Find(&bans).Error; err != nil {
		return nil, err
	}
	return bans, nil
}

// BansByMode - read the rows of one mode in insertion order
func (s *Storage) BansByMode(mode string) ([]model.Ban, error) {
	var bans []model.Ban
	if err := s.db.Where("mode = ?", mode).Order("id").Find(&bans).Error; err != nil {
		return nil, err
	}
	return bans, nil
}

// DeleteExpiredBans - remove rows whose bounded expiry has passed
func (s *Storage) DeleteExpiredBans(now int64) (int64, error) {
	res := s.db.Where("expires_at > 0 AND expires_at < ?", now).Delete(&model.Ban{})
	return res.RowsAffected, res.Error
}

// UserIDsBy - resolve user ids whose column value equals one of exact or
// matches one of the LIKE patterns. Empty inputs match nothing.
func (s *Storage) UserIDsBy(column string, exact []string, patterns []string) ([]model.UserID, error) {
	if len(exact) == 0 && len(patterns) == 0 {
		return nil, nil
	}

	col, err := userColumnName(column)
	if err != nil {
		return nil, err
	}

	conds := make([]string, 0, 1+len(patterns))
	args := make([]interface{}, 0, 1+len(patterns))

	if len(exact) > 0 {
		conds = append(conds, col+" IN ?")
		args = append(args, exact)
	}

	for _, pattern := range patterns {
		conds = append(conds, col+" LIKE ? ESCAPE '"+ban.LikeEscape+"'")
		args = append(args, pattern)
	}

	var ids []model.UserID
	if err := s.db.Model(&model.User{}).
		Where(strings.Join(conds, " OR "), args...).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

// userColumnName maps an actor column to the real users column. The
// whitelist keeps column names out of caller control.
func userColumnName(column string) (string, error) {
	switch column {
	case ban.ColumnUserID:
		return "id", nil
	case ban.ColumnUserEmail:
		return "email", nil
	case ban.ColumnUserIP:
		return "last_ip", nil
	default:
		return "", errorUnsupportedColumn
	}
}

// CreateSession - open a session for an account
func (s *Storage) CreateSession(session *model.Session) error {
	return s.db.Create(session).Error
}

// CreateSessionKey - store a long-lived session credential
func (s *Storage) CreateSessionKey(key *model.SessionKey) error {
	return s.db.Create(key).Error
}

// SessionsByUser - get the active sessions of an account
func (s *Storage) SessionsByUser(id model.UserID) ([]model.Session, error) {
	var sessions []model.Session
	if err := s.db.Where("user_id = ?", id).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionKeysByUser - get the session credentials of an account
func (s *Storage) SessionKeysByUser(id model.UserID) ([]model.SessionKey, error) {
	var keys []model.SessionKey
	if err := s.db.Where("user_id = ?", id).Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteSessions - purge the active sessions of the given accounts
func (s *Storage) DeleteSessions(ids []model.UserID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Where("user_id IN ?", ids).Delete(&model.Session{}).Error
}

// DeleteSessionKeys - purge the session credentials of the given accounts
func (s *Storage) DeleteSessionKeys(ids []model.UserID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Where("user_id IN ?", ids).Delete(&model.SessionKey{}).Error
}

// AppendAuditEntry - append one audit log row
func (s *Storage) AppendAuditEntry(entry *model.AuditEntry) error {
	return s.db.Create(entry).Error
}

// AuditEntries - read the audit log, newest last
func (s *Storage) AuditEntries() ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	if err := s.db.Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
