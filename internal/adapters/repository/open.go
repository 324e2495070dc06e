package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/marathon/internal/config"
)

// Open constructs the store selected by cfg.StoreDriver. The caller owns the
// store and must Close it.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	if cfg.StoreTimeoutMS > 0 {
		opts = append(opts, WithConnectTimeout(time.Duration(cfg.StoreTimeoutMS)*time.Millisecond))
	}
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryStore(ctx, opts...), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, opts...)
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.StoreDriver)
}
