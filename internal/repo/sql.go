package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

type dialect struct {
	driver  string
	migrate string
	upsert  string
	get     string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	migrate: `CREATE TABLE IF NOT EXISTS kv_store (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	upsert: `INSERT INTO kv_store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	get: `SELECT value FROM kv_store WHERE key = ?`,
}

var mysqlDialect = dialect{
	driver: "mysql",
	migrate: `CREATE TABLE IF NOT EXISTS kv_store (
		` + "`key`" + ` VARCHAR(191) PRIMARY KEY,
		value LONGTEXT NOT NULL
	)`,
	upsert: "INSERT INTO kv_store (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
	get:    "SELECT value FROM kv_store WHERE `key` = ?",
}

// SQLRepo keeps the serialized collection as one row of a key/value table.
type SQLRepo struct {
	db      *sql.DB
	dialect dialect
}

const sqliteFile = "tasks.db"

// OpenSQLite opens (and creates) the embedded database inside dir.
func OpenSQLite(ctx context.Context, dir string) (*SQLRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", filepath.Join(dir, sqliteFile))
	return openSQL(ctx, sqliteDialect, dsn)
}

func OpenMySQL(ctx context.Context, dsn string) (*SQLRepo, error) {
	return openSQL(ctx, mysqlDialect, dsn)
}

func openSQL(ctx context.Context, d dialect, dsn string) (*SQLRepo, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	if _, err := db.ExecContext(ctx, d.migrate); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", d.driver, err)
	}
	return &SQLRepo{db: db, dialect: d}, nil
}

func (r *SQLRepo) Load(ctx context.Context) ([]model.Task, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.dialect.get, StorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode([]byte(value))
}

func (r *SQLRepo) Save(ctx context.Context, tasks []model.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.dialect.upsert, StorageKey, string(data))
	return err
}

func (r *SQLRepo) Close() error {
	return r.db.Close()
}
