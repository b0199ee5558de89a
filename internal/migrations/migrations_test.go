package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent signups and daily log creation rely on these constraints to
// reject the losing insert.
func TestInitDeclaresUniqueConstraints(t *testing.T) {
	sql, err := FS.ReadFile("00001_init.sql")
	require.NoError(t, err)

	assert.Contains(t, string(sql), "CONSTRAINT uq_account_username UNIQUE (username)")
	assert.Contains(t, string(sql), "CONSTRAINT uq_daily_log_date UNIQUE (date)")
}
