// Package storetest provides a migrated in-memory store for tests.
package storetest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pincorder/backend/models"
	"pincorder/backend/store"
)

// New returns a store backed by a private in-memory SQLite database.
func New(t testing.TB) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := store.New(db)
	require.NoError(t, s.Migrate())
	return s
}

// User creates a user (and its profile) with the given username.
func User(t testing.TB, s *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(u))
	return u
}

// Staff creates a staff user.
func Staff(t testing.TB, s *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x", IsStaff: true}
	require.NoError(t, s.CreateUser(u))
	return u
}
