// Package testutil provides throwaway databases for package tests.
package testutil

import (
	"errors"
	"fmt"
	migration "kitchenlog/cmd/database/migrate"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

// ErrInjected is returned by updates rejected through FailUpdates.
var ErrInjected = errors.New("injected update failure")

// FailUpdates makes every UPDATE against table fail on db from now on.
func FailUpdates(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	err := db.Callback().Update().Before("gorm:update").Register("testutil:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	})
	require.NoError(t, err)
}
