package tabular

import (
	"context"
	"fmt"

	"github.com/pantryworks/trackhub/internal/config"
)

// Open selects and opens a Store implementation from config.
//
//	STORE_DRIVER: memory|sqlite|postgres (default sqlite)
//	STORE_DSN:    sqlite file path or postgres connection URL
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.DSN)
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", ErrNotConfigured, cfg.Driver)
	}
}
