package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/embeddings"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/logger"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/metrics"
)

// ErrNotFound marks a referenced node or edge that does not exist.
var ErrNotFound = errors.New("not found")

// DBManager handles all graph-store operations against a single libSQL database.
type DBManager struct {
	config   *Config
	db       *sql.DB
	log      *logger.Logger
	provider embeddings.Provider

	stmtMu    sync.RWMutex
	stmtCache map[string]*sql.Stmt
}

// NewDBManager opens the database, applies the schema and wires the
// embeddings provider from the environment.
func NewDBManager(config *Config, log *logger.Logger) (*DBManager, error) {
	if config.EmbeddingDims <= 0 || config.EmbeddingDims > 65536 {
		return nil, fmt.Errorf("EMBEDDING_DIMS must be between 1 and 65536 inclusive, got %d", config.EmbeddingDims)
	}
	if log == nil {
		log = logger.NewNop()
	}

	dbURL := config.URL
	if !strings.HasPrefix(dbURL, "file:") && config.AuthToken != "" {
		if u, perr := url.Parse(dbURL); perr == nil {
			q := u.Query()
			q.Set("authToken", config.AuthToken)
			u.RawQuery = q.Encode()
			dbURL = u.String()
		} else if strings.Contains(dbURL, "?") {
			dbURL = dbURL + "&authToken=" + url.QueryEscape(config.AuthToken)
		} else {
			dbURL = dbURL + "?authToken=" + url.QueryEscape(config.AuthToken)
		}
	}

	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connector: %w", err)
	}

	dm := &DBManager{
		config:    config,
		db:        db,
		log:       log,
		stmtCache: make(map[string]*sql.Stmt),
	}

	if err := dm.initialize(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxIdleSec > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.ConnMaxIdleSec) * time.Second)
	}
	if config.ConnMaxLifeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifeSec) * time.Second)
	}

	dm.provider = embeddings.WrapToDims(embeddings.NewFromEnv(), config.EmbeddingDims)

	stats := db.Stats()
	metrics.Default().ObservePoolStats(stats.InUse, stats.Idle)
	return dm, nil
}

// initialize creates tables and indexes if they don't exist.
func (dm *DBManager) initialize(db *sql.DB) error {
	done := metrics.TimeOp("db_initialize")
	success := false
	defer func() { done(success) }()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for initialization: %w", err)
	}
	defer tx.Rollback()

	for _, statement := range dynamicSchema(dm.config.EmbeddingDims) {
		if _, err := tx.Exec(statement); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	success = true
	return nil
}

// Config returns the active configuration.
func (dm *DBManager) Config() *Config { return dm.config }

// Provider returns the configured embeddings provider, or nil.
func (dm *DBManager) Provider() embeddings.Provider { return dm.provider }

// SetProvider swaps the embeddings provider. The provider is adapted to the
// configured embedding dimensions.
func (dm *DBManager) SetProvider(p embeddings.Provider) {
	dm.provider = embeddings.WrapToDims(p, dm.config.EmbeddingDims)
}

// PoolStats reports connections in use and idle.
func (dm *DBManager) PoolStats() (inUse, idle int) {
	stats := dm.db.Stats()
	return stats.InUse, stats.Idle
}

// Close closes prepared statements and the database connection.
func (dm *DBManager) Close() error {
	dm.stmtMu.Lock()
	for _, stmt := range dm.stmtCache {
		_ = stmt.Close()
	}
	dm.stmtCache = make(map[string]*sql.Stmt)
	dm.stmtMu.Unlock()
	return dm.db.Close()
}
