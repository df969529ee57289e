package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hospital-directory/internal/config"
	"hospital-directory/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectRetries = 5

// Connect initializes and returns a GORM database connection.
// The initial ping is retried with backoff so the server can start alongside its database.
func Connect(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.GinMode == "release" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := Open(dialector, gormLogger)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.Database.Driver).Wrap(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test the connection
	backoff := retry.WithMaxRetries(connectRetries, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			log.Warn("database not reachable yet", "driver", cfg.Database.Driver, "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, oops.Code("DB_PING_FAILED").With("driver", cfg.Database.Driver).Wrap(err)
	}

	log.Info("connected to database", "driver", cfg.Database.Driver)

	return db, nil
}

// Open creates a GORM handle for an already chosen dialector. Timestamps are
// recorded in UTC and unique-index violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, gormLogger logger.Interface) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Migrate creates or updates the directory tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Hospital{}, &models.Service{}); err != nil {
		return oops.Code("DB_MIGRATE_FAILED").Wrap(err)
	}
	return nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Database,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path + "?_pragma=foreign_keys(1)"), nil
	default:
		return nil, oops.Code("DB_UNSUPPORTED_DRIVER").Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
