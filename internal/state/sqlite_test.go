package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// sampleProject is a model bound to a data source.
func sampleProject() *core.ProjectConfig {
	model := &core.TypeDescriptor{Name: "model"}
	persisted := &core.TypeDescriptor{Name: "persisted-model", Extends: "model", Base: model}
	source := &core.TypeDescriptor{Name: "data-source"}

	db := core.NewConfigObject("db", source, map[string]any{"connector": "memory"},
		&core.RawConfig{Path: "db/config.json"})
	todo := core.NewConfigObject("todo", persisted, map[string]any{"plural": "todos"},
		&core.RawConfig{Path: "todo/config.json"})
	todo.Bind("data-source", db)

	return core.NewProjectConfig([]*core.ConfigObject{db, todo})
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"snapshots", "objects", "dependencies"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		require.NoError(t, err, "table %s", table)
		_ = rows.Close()
	}

	require.NoError(t, store.Migrate(), "migrating twice is a no-op")
}

func TestSQLiteStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	id, err := store.SaveSnapshot(ctx, "/proj", sampleProject())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	snap, err := store.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, "/proj", snap.Root)
	assert.Equal(t, 2, snap.ObjectCount)
	assert.WithinDuration(t, time.Now(), snap.CreatedAt, time.Minute)

	objects, err := store.ObjectsForSnapshot(ctx, id)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "db", objects[0].Name)
	assert.Equal(t, ObjectRecord{
		Type:             "persisted-model",
		Name:             "todo",
		BaseModule:       "model",
		Path:             "todo/config.json",
		InheritanceChain: []string{"persisted-model", "model"},
		Options:          map[string]any{"plural": "todos"},
	}, objects[1])

	deps, err := store.DependenciesForSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []DependencyRecord{{
		ObjectType:     "persisted-model",
		Object:         "todo",
		Slot:           "data-source",
		DependencyType: "data-source",
		Dependency:     "db",
	}}, deps)
}

func TestSQLiteStore_LatestSnapshot(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return base }
	_, err = store.SaveSnapshot(ctx, "/proj", sampleProject())
	require.NoError(t, err)

	store.now = func() time.Time { return base.Add(time.Hour) }
	second, err := store.SaveSnapshot(ctx, "/proj", core.NewProjectConfig(nil))
	require.NoError(t, err)

	snap, err := store.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, snap.ID)
	assert.Equal(t, 0, snap.ObjectCount)
	assert.True(t, snap.CreatedAt.Equal(base.Add(time.Hour)))
}

func TestSQLiteStore_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate())
	id, err := store.SaveSnapshot(ctx, "/proj", sampleProject())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	snap, err := reopened.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, path, reopened.Path())
}

func TestSQLiteStore_SaveSnapshotRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO snapshots").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO objects").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err = NewWithDB(db).SaveSnapshot(context.Background(), "/proj", sampleProject())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "insert object db")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := &SQLiteStore{}
	ctx := context.Background()

	_, err := store.SaveSnapshot(ctx, "/", core.NewProjectConfig(nil))
	assert.Error(t, err)
	_, err = store.LatestSnapshot(ctx)
	assert.Error(t, err)
	assert.Error(t, store.Migrate())
	assert.NoError(t, store.Close())
}
