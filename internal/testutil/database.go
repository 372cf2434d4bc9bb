// Package testutil provides test helpers for setting up in-memory stores,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/models"
)

// SetupTestDB creates a private in-memory SQLite database with the
// kv_records table migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", nextID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Record{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// NewTestRepository returns a repository over a fresh in-memory store.
func NewTestRepository(t *testing.T) *kvstore.Repository {
	t.Helper()
	return kvstore.NewRepository(kvstore.NewMemory())
}

// NewGormTestRepository returns a repository over a fresh SQLite database
// that is closed when the test ends.
func NewGormTestRepository(t *testing.T) *kvstore.Repository {
	t.Helper()
	db := SetupTestDB(t)
	t.Cleanup(func() { TeardownTestDB(t, db) })
	return kvstore.NewRepository(kvstore.NewGormStore(db))
}
