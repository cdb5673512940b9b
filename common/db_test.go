package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDb(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "data", "newsroom.db")

	db, err := ConnectDb(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE smoke_rows (id INTEGER)").Error)

	_, err = os.Stat(filepath.Dir(dsn))
	assert.NoError(t, err)

	_, err = ConnectDb("")
	assert.Error(t, err)
}
