package service_test

import (
	"path/filepath"
	"testing"

	"github.com/mcpward/mcpward/internal/service"

	"gorm.io/gorm"
	"gotest.tools/v3/assert"
)

// newTestDatabase opens a fresh migrated sqlite database in a per-test
// temporary directory.
func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: filepath.Join(t.TempDir(), "mcpward.db"),
	})

	err := databaseService.Init()
	assert.NilError(t, err)

	return databaseService.GetDatabase()
}
