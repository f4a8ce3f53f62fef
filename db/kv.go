package db

// go generate: mockery --name KeyValueStore

import (
	"context"
	"fmt"

	"github.com/techagentng/wefixsa/config"
)

// Keys under which the application keeps its data
const (
	ReportsKey        = "reports"
	SessionUserKey    = "user"
	CitizensKey       = "citizens"
	TokenBlacklistKey = "token_blacklist"
)

// KeyValueStore is the durable string-to-string map the app persists into.
// Get reports a missing key with ok == false and a nil error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the KeyValueStore selected by conf.StorageDriver
func Open(ctx context.Context, conf *config.Config) (KeyValueStore, error) {
	switch conf.StorageDriver {
	case config.DriverSQLite, "":
		return OpenSQLite(ctx, conf.SQLitePath, conf)
	case config.DriverPostgres:
		return OpenPostgres(ctx, conf)
	case config.DriverRedis:
		return NewRedisStore(ctx, conf.RedisAddr, conf.RedisPassword, conf.RedisDB, conf.RedisKeyPrefix)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.StorageDriver)
	}
}
