package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memCounter atomic.Int64

// NewTestDB returns a migrated in-memory SQLite database private to the test.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", memCounter.Add(1))
	db, err := Open(sqlite.Open(name), logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get test database handle: %v", err)
	}
	// a single connection keeps the shared in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
