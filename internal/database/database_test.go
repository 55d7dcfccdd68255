package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	var eventsTableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='events'").Scan(&eventsTableName)
	require.NoError(t, err, "Querying for events table should not produce an error")
	assert.Equal(t, "events", eventsTableName, "The 'events' table should be created")

	var version int64
	err = db.QueryRow("SELECT MAX(version_id) FROM goose_db_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version, "the first migration should be applied")
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := t.TempDir() + "/journal.db"

	_, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	teardown()

	_, teardown, err = InitDB(path, "", "")
	require.NoError(t, err, "re-running migrations on an up-to-date database should be a no-op")
	teardown()
}
