package completion

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON;`)
	require.NoError(t, err)

	schema, err := os.ReadFile("../../docs/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return NewRepo(db)
}

func TestRegisterDevice(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.RegisterDevice(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	ok, err := repo.DeviceExists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeviceExists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutGetRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.RegisterDevice(ctx)
	require.NoError(t, err)

	payload := json.RawMessage(`["sec_01__defeat-beira-abc","sec_02__reward-x-def"]`)
	require.NoError(t, repo.Put(ctx, State{DeviceID: id, Revision: 4, Payload: payload}))

	state, err := repo.Get(ctx, id, 4)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.JSONEq(t, string(payload), string(state.Payload))
	assert.False(t, state.UpdatedAt.IsZero())

	// other revisions are independent
	state, err = repo.Get(ctx, id, 5)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestPutOverwrites(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.RegisterDevice(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Put(ctx, State{DeviceID: id, Revision: 1, Payload: json.RawMessage(`["a"]`)}))
	require.NoError(t, repo.Put(ctx, State{DeviceID: id, Revision: 1, Payload: json.RawMessage(`["a","b"]`)}))

	state, err := repo.Get(ctx, id, 1)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.JSONEq(t, `["a","b"]`, string(state.Payload))
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.RegisterDevice(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Put(ctx, State{DeviceID: id, Revision: 1, Payload: json.RawMessage(`[]`)}))

	ok, err := repo.Delete(ctx, id, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, id, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	state, err := repo.Get(ctx, id, 1)
	require.NoError(t, err)
	assert.Nil(t, state)
}
