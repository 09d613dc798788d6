package tablestore

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "vero.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutTableAndReadBack(t *testing.T) {
	store := openTestStore(t)

	rows := []map[string]any{
		{"name": "alice", "role": "admin"},
		{"name": "bob", "role": "viewer"},
	}
	require.NoError(t, store.PutTable("crm.users", rows))

	got, err := store.Table("crm.users")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0]["name"])
	assert.Equal(t, "viewer", got[1]["role"])
}

func TestPutTableReplacesRows(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.PutTable("crm.users", []map[string]any{{"name": "alice"}}))
	require.NoError(t, store.PutTable("crm.users", []map[string]any{{"name": "carol"}, {"name": "dave"}}))

	got, err := store.Table("crm.users")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "carol", got[0]["name"])
}

func TestTableMissingIsEmpty(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Table("missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNamesAreSorted(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.PutTable("shop.orders", nil))
	require.NoError(t, store.PutTable("crm.users", nil))

	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"crm.users", "shop.orders"}, names)
}

func TestExportImportRoundTrip(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.PutTable("crm.users", []map[string]any{{"name": "alice"}}))
	require.NoError(t, store.PutTable("shop.orders", []map[string]any{{"total": "12.50"}}))

	data, err := store.ExportJSON()
	require.NoError(t, err)

	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "crm.users")
	require.Contains(t, decoded, "shop.orders")

	other := openTestStore(t)
	require.NoError(t, other.ImportJSON(data))
	got, err := other.Table("crm.users")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0]["name"])
}

func TestImportJSONRejectsGarbage(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.ImportJSON([]byte("not json")))
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, Migrate(store.db))
	require.NoError(t, Migrate(store.db))

	var version int
	require.NoError(t, store.db.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)
}
