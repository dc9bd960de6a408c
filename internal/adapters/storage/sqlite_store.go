package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/ports"
)

// SQLiteStore implements ports.SessionStore using GORM. It is the
// station's analog of browser session storage: a durable advisory
// cache, not a source of truth.
type SQLiteStore struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.SessionStore = (*SQLiteStore)(nil)

// gormLogger wraps the mostrador logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("MOSTRADOR_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteStore creates a SQLiteStore backed by the given file.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode so the TUI and the dashboard server can share the file
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&SessionModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the persisted session. A missing row is a zero session,
// not an error.
func (s *SQLiteStore) Load(ctx context.Context) (domain.Session, error) {
	var model SessionModel
	err := s.db.WithContext(ctx).First(&model, sessionRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return toDomain(model)
}

// Save writes the whole session snapshot, replacing whatever was
// persisted before.
func (s *SQLiteStore) Save(ctx context.Context, session domain.Session) error {
	model, err := toModel(session)
	if err != nil {
		return err
	}
	return withRetry(func() error {
		err := s.db.WithContext(ctx).Save(&model).Error
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	}, 3)
}

// Clear wipes all persisted session fields.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return withRetry(func() error {
		err := s.db.WithContext(ctx).Delete(&SessionModel{}, sessionRowID).Error
		if err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	}, 3)
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toModel(session domain.Session) (SessionModel, error) {
	model := SessionModel{
		ID:         sessionRowID,
		Token:      session.Token,
		AutoClosed: session.AutoClosed,
	}
	if session.User != nil {
		model.Username = session.User.Username
		model.Role = string(session.User.Role)
		model.Branch = session.User.Branch
	}
	if session.Employee != nil {
		id := session.Employee.ID
		model.EmployeeID = &id
		model.EmployeeName = session.Employee.Name
	}
	if session.ActiveShift != nil {
		data, err := json.Marshal(session.ActiveShift)
		if err != nil {
			return SessionModel{}, fmt.Errorf("failed to encode shift snapshot: %w", err)
		}
		model.ShiftJSON = string(data)
	}
	return model, nil
}

func toDomain(model SessionModel) (domain.Session, error) {
	session := domain.Session{
		Token:      model.Token,
		AutoClosed: model.AutoClosed,
	}
	if model.Username != "" {
		session.User = &domain.User{
			Username: model.Username,
			Role:     domain.Role(model.Role),
			Branch:   model.Branch,
		}
	}
	if model.EmployeeID != nil {
		session.Employee = &domain.Employee{
			ID:   *model.EmployeeID,
			Name: model.EmployeeName,
		}
	}
	if model.ShiftJSON != "" {
		var shift domain.Shift
		if err := json.Unmarshal([]byte(model.ShiftJSON), &shift); err != nil {
			// A corrupt snapshot is advisory data; drop it rather than
			// blocking startup.
			logging.Logger.Warn("Discarding unreadable shift snapshot", "error", err)
		} else {
			session.ActiveShift = &shift
		}
	}
	return session, nil
}

// withRetry retries operations on SQLITE_BUSY with backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
