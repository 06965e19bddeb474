package clientdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaintainer struct {
	checkpoints int
	vacuums     int
}

func (f *fakeMaintainer) WALCheckpoint(mode string) error {
	f.checkpoints++
	return nil
}

func (f *fakeMaintainer) Vacuum() error {
	f.vacuums++
	return nil
}

func TestCleanupJob_RemovesExpiredAndCheckpoints(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.Store("quotes", "STALE", payload{}, -time.Hour))
	require.NoError(t, repo.Store("quotes", "FRESH", payload{}, time.Hour))

	db := &fakeMaintainer{}
	job := NewCleanupJob(repo, db, zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, job.Run())

	var got payload
	hit, err := repo.Get("quotes", "STALE", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = repo.Get("quotes", "FRESH", &got)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, 1, db.checkpoints)
	assert.Equal(t, 1, db.vacuums)
	assert.Equal(t, "cache_cleanup", job.Name())
}

func TestCleanupJob_NothingExpiredSkipsCheckpoint(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.Store("quotes", "FRESH", payload{}, time.Hour))

	db := &fakeMaintainer{}
	job := NewCleanupJob(repo, db, zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, job.Run())
	assert.Equal(t, 0, db.checkpoints)
	assert.Equal(t, 0, db.vacuums)
}
