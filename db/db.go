package db

import (
	"context"
	"embed"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/techagentng/wefixsa/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenSQLite opens (creating if needed) the on-device database file at path
func OpenSQLite(ctx context.Context, path string, c *config.Config) (*GormStore, error) {
	zap.S().Debugw("opening sqlite store", "path", path)
	gormDB, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, gormConfig(c))
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	// one writer at a time, sqlite locks the whole file anyway
	sqlDB.SetMaxOpenConns(1)
	if err := migrate(ctx, gormDB, "sqlite3"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return NewGormStore(gormDB), nil
}

// OpenPostgres connects to the server described by c
func OpenPostgres(ctx context.Context, c *config.Config) (*GormStore, error) {
	zap.S().Infow("connecting to postgres", "host", c.PostgresHost, "port", c.PostgresPort, "db", c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=Africa/Johannesburg",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig(c))
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := migrate(ctx, gormDB, "postgres"); err != nil {
		return nil, err
	}
	return NewGormStore(gormDB), nil
}

func gormConfig(c *config.Config) *gorm.Config {
	level := logger.Warn
	if c != nil && c.Debug && !c.IsProduction() {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func migrate(ctx context.Context, gormDB *gorm.DB, dialect string) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return errors.Wrap(err, "migrations error")
	}
	return nil
}
