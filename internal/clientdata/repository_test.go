package clientdata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lotwatch/internal/database"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepository(db.Conn())
	require.NoError(t, repo.EnsureSchema())
	return repo
}

type payload struct {
	Symbol string
	Price  float64
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := testRepo(t)

	err := repo.Store("quotes", "TEST", payload{Symbol: "TEST", Price: 60.5}, time.Hour)
	require.NoError(t, err)

	var got payload
	hit, err := repo.GetIfFresh("quotes", "TEST", &got)

	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "TEST", got.Symbol)
	assert.Equal(t, 60.5, got.Price)
}

func TestGetIfFresh_Expired(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Store("quotes", "TEST", payload{Symbol: "TEST"}, time.Hour))

	// Move the clock past the TTL.
	repo.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	var got payload
	hit, err := repo.GetIfFresh("quotes", "TEST", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	// Stale data is still reachable through Get.
	hit, err = repo.Get("quotes", "TEST", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "TEST", got.Symbol)
}

func TestGetIfFresh_Missing(t *testing.T) {
	repo := testRepo(t)

	var got payload
	hit, err := repo.GetIfFresh("quotes", "NOPE", &got)

	require.NoError(t, err)
	assert.False(t, hit)
}

func TestStore_Overwrites(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Store("quotes", "TEST", payload{Price: 1}, time.Hour))
	require.NoError(t, repo.Store("quotes", "TEST", payload{Price: 2}, time.Hour))

	var got payload
	hit, err := repo.GetIfFresh("quotes", "TEST", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 2.0, got.Price)
}

func TestInvalidTableRejected(t *testing.T) {
	repo := testRepo(t)

	err := repo.Store("users; DROP TABLE quotes", "x", payload{}, time.Hour)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestDeleteExpired(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Store("quotes", "FRESH", payload{}, time.Hour))
	require.NoError(t, repo.Store("quotes", "STALE", payload{}, -time.Hour))

	deleted, err := repo.DeleteExpired("quotes")

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var got payload
	hit, err := repo.Get("quotes", "STALE", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDeleteAllExpired(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Store("quotes", "STALE", payload{}, -time.Hour))
	require.NoError(t, repo.Store("transactions", "STALE", payload{}, -time.Hour))

	results, err := repo.DeleteAllExpired()

	require.NoError(t, err)
	assert.Equal(t, int64(1), results["quotes"])
	assert.Equal(t, int64(1), results["transactions"])
	assert.Equal(t, int64(0), results["price_history"])
}
