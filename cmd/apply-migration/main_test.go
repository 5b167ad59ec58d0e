package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	sql := `-- leads; captured from the site
CREATE TABLE leads (id TEXT PRIMARY KEY, note TEXT DEFAULT 'a;b');
CREATE FUNCTION touch() RETURNS trigger AS $$
BEGIN
  NEW.updated_at = now();
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;

`
	got := splitStatements(sql)
	require.Len(t, got, 2)
	assert.Equal(t, "CREATE TABLE leads (id TEXT PRIMARY KEY, note TEXT DEFAULT 'a;b')", got[0])
	assert.Contains(t, got[1], "RETURN NEW;")
	assert.Contains(t, got[1], "LANGUAGE plpgsql")
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	files, err := migrationFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "001_a.sql"), filepath.Join(dir, "002_b.sql")}, files)

	_, err = migrationFiles([]string{filepath.Join(dir, "missing.sql")})
	assert.Error(t, err)
}
