package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestBrowserStateMigrationShape(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_browser_state.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, check := range []string{
		"CREATE TABLE IF NOT EXISTS browser_state",
		"PRIMARY KEY (namespace, state_key)",
		"DROP TABLE IF EXISTS browser_state",
	} {
		assert.True(t, strings.Contains(content, check), "missing %q", check)
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(dir))
}

func TestValidateDirRejectsPostgresOnlySQL(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\nCREATE TABLE t (id SERIAL PRIMARY KEY);\n-- +goose Down\nDROP TABLE t;\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_t.sql"), []byte(body), 0o644))
	assert.ErrorContains(t, ValidateDir(dir), "SERIAL")
}

func TestCreateSQLMigrationNeverReusesVersion(t *testing.T) {
	dir := t.TempDir()
	future := "29990101000000_later.sql"
	require.NoError(t, os.WriteFile(filepath.Join(dir, future), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	path, err := CreateSQLMigration(dir, "next")
	require.NoError(t, err)
	assert.Equal(t, "29990101000001_next.sql", filepath.Base(path))
	require.NoError(t, ValidateDir(dir))
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Expiry Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_expiry_index.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestRunUpOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, "sqlite", "migrations", "up"))

	var count int64
	require.NoError(t, conn.Raw("SELECT COUNT(*) FROM browser_state").Scan(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, "sqlite", "migrations", "0"))
	err = conn.Exec("SELECT 1 FROM browser_state").Error
	assert.Error(t, err, "table should be dropped after migrating to version 0")
}

func TestRunRequiresConnection(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, "postgres", "migrations", "up"))
}
