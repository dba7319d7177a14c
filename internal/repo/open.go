package repo

import (
	"context"
	"fmt"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendMemory   = "memory"
)

type Options struct {
	Backend     string
	DataDir     string
	DatabaseURL string
	MySQLDSN    string
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (CollectionRepository, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileRepo(opts.DataDir)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.DataDir)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	case BackendMySQL:
		return OpenMySQL(ctx, opts.MySQLDSN)
	case BackendMemory:
		return NewMemoryRepo(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
