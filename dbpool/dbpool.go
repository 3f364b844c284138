// Package dbpool opens the SQL databases a dataset can be queried from.
// It hides engine-specific DSN details and retries transient open
// failures (file locks, a database that is still starting).
//
// All code that needs a *sql.DB should go through DBManager instead of calling
// sql.Open directly.
package dbpool

import (
	"database/sql"
	"fmt"
	"time"
)

// Engine identifies the database engine to use.
type Engine string

const (
	EngineSQLite    Engine = "sqlite"
	EngineMySQL     Engine = "mysql"
	EngineSnowflake Engine = "snowflake"
)

// ParseEngine maps a name to an Engine.
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(name); e {
	case EngineSQLite, EngineMySQL, EngineSnowflake:
		return e, nil
	case "sqlite3":
		return EngineSQLite, nil
	}
	return "", fmt.Errorf("dbpool: unsupported engine %q", name)
}

// AccessMode controls whether the connection is read-only or read-write.
type AccessMode int

const (
	ModeReadWrite AccessMode = iota
	ModeReadOnly
)

// OpenOptions configures how a database connection is opened.
type OpenOptions struct {
	// Engine to use. Defaults to the manager's engine if empty.
	Engine Engine
	// Path is the file path for SQLite and the DSN for MySQL and Snowflake.
	Path string
	// Mode controls read-only vs read-write access. Only SQLite honors it.
	Mode AccessMode
	// MaxRetries overrides the default retry count (0 = use default).
	MaxRetries int
	// RetryBaseMs overrides the base retry interval in milliseconds (0 = use default).
	RetryBaseMs int
}

// Logger is a simple logging function signature.
type Logger func(string)

// DBManager is the central connection manager.
type DBManager struct {
	logger Logger
	engine Engine // default engine for the application
}

// New creates a new DBManager with the given default engine and logger.
func New(defaultEngine Engine, logger Logger) *DBManager {
	if logger == nil {
		logger = func(string) {}
	}
	if defaultEngine == "" {
		defaultEngine = EngineSQLite
	}
	return &DBManager{
		engine: defaultEngine,
		logger: logger,
	}
}

// DefaultEngine returns the manager's default engine.
func (m *DBManager) DefaultEngine() Engine {
	return m.engine
}

// Open opens and pings a database connection with the given options.
func (m *DBManager) Open(opts OpenOptions) (*sql.DB, error) {
	eng := opts.Engine
	if eng == "" {
		eng = m.engine
	}

	switch eng {
	case EngineSQLite:
		return m.openWithRetry("SQLite", "sqlite", sqliteDSN(opts), opts)
	case EngineMySQL:
		return m.openWithRetry("MySQL", "mysql", opts.Path, opts)
	case EngineSnowflake:
		return m.openWithRetry("Snowflake", "snowflake", opts.Path, opts)
	default:
		return nil, fmt.Errorf("dbpool: unsupported engine %q", eng)
	}
}

// OpenReadOnly is a convenience wrapper for read-only access.
func (m *DBManager) OpenReadOnly(path string) (*sql.DB, error) {
	return m.Open(OpenOptions{Path: path, Mode: ModeReadOnly})
}

func (m *DBManager) openWithRetry(label, driver, dsn string, opts OpenOptions) (*sql.DB, error) {
	maxRetries, baseMs := retryParams(opts)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := sql.Open(driver, dsn)
		if err == nil {
			configurePool(db)
			if err = db.Ping(); err != nil {
				db.Close()
			}
		}

		if err != nil {
			lastErr = err
			m.logger(fmt.Sprintf("[dbpool] %s attempt %d/%d failed: %v", label, i+1, maxRetries, err))
			if i+1 < maxRetries {
				time.Sleep(time.Duration(baseMs*(i+1)) * time.Millisecond)
			}
			continue
		}

		return db, nil
	}

	return nil, fmt.Errorf("dbpool: failed to open %s after %d retries: %w", label, maxRetries, lastErr)
}

// configurePool keeps a single connection so in-memory SQLite databases
// survive between statements and file locks are released on Close().
func configurePool(db *sql.DB) {
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)
}

// retryParams returns (maxRetries, baseMs) from opts or defaults.
func retryParams(opts OpenOptions) (int, int) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	baseMs := opts.RetryBaseMs
	if baseMs <= 0 {
		baseMs = 400
	}
	return maxRetries, baseMs
}
