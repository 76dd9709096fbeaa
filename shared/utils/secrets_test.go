package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecretOrEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("  \n"), 0o600))

	t.Setenv("DB_PASSWORD", "from-env")

	got, err := readSecretOrEnv(dir, "db_password", "DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-file", got, "file wins over env")

	got, err = readSecretOrEnv(dir, "missing", "DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = readSecretOrEnv(dir, "empty", "DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	_, err = readSecretOrEnv(dir, "missing", "UNSET_SECRET_ENV")
	assert.Error(t, err)
}
