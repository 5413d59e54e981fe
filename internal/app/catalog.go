package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"dataplan/internal/ctxlog"
	"dataplan/internal/schema"
)

// ErrNoSchema is returned when neither a snapshot file nor a DSN is set.
var ErrNoSchema = errors.New("no schema source configured: set a schema path or a schema DSN")

// openCatalog loads the schema snapshot from a file or from the MySQL
// schema cache.
func (a *App) openCatalog(ctx context.Context) (schema.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	switch {
	case a.opts.SchemaPath != "":
		snap, err := schema.LoadFile(a.opts.SchemaPath)
		if err != nil {
			return nil, err
		}

		logger.Debug("Schema snapshot loaded.", "path", a.opts.SchemaPath, "objects", len(snap.List()))

		return snap, nil

	case a.opts.SchemaDSN != "":
		return openSQLCatalog(ctx, a.opts.SchemaDSN)

	default:
		return nil, ErrNoSchema
	}
}

func openSQLCatalog(ctx context.Context, dsn string) (schema.Catalog, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid schema DSN: %w", err)
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open schema cache: %w", err)
	}
	defer db.Close()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping schema cache (%s/%s): %w", cfg.Addr, cfg.DBName, err)
	}

	snap, err := schema.LoadSQL(ctx, db)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Schema cache loaded.",
		"addr", cfg.Addr, "database", cfg.DBName, "objects", len(snap.List()))

	return snap, nil
}
