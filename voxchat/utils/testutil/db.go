// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"voxchat/voxchat/sources/psql"
	"voxchat/voxchat/utils/logging"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	logging.InitNop()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), psql.GormConfig())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := psql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}
