package clientdata

import (
	"github.com/rs/zerolog"
)

// Maintainer runs post-cleanup database maintenance. Satisfied by
// database.DB.
type Maintainer interface {
	WALCheckpoint(mode string) error
	Vacuum() error
}

// CleanupJob removes expired entries from all cache tables. It should be
// scheduled to run daily.
type CleanupJob struct {
	repo *Repository
	db   Maintainer
	log  zerolog.Logger
}

// NewCleanupJob creates a new cache cleanup job. db may be nil to skip
// WAL maintenance.
func NewCleanupJob(repo *Repository, db Maintainer, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo: repo,
		db:   db,
		log:  log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Run executes the cleanup job, removing all expired entries.
func (j *CleanupJob) Run() error {
	results, err := j.repo.DeleteAllExpired()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired cache entries")
		return err
	}

	var totalDeleted int64
	for table, count := range results {
		if count > 0 {
			j.log.Info().
				Str("table", table).
				Int64("deleted", count).
				Msg("Cleaned up expired cache entries")
			totalDeleted += count
		}
	}

	if totalDeleted > 0 {
		j.log.Info().
			Int64("total_deleted", totalDeleted).
			Msg("Cache cleanup completed")

		if j.db != nil {
			if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
				j.log.Warn().Err(err).Msg("WAL checkpoint after cleanup failed")
			}
			if err := j.db.Vacuum(); err != nil {
				j.log.Warn().Err(err).Msg("Vacuum after cleanup failed")
			}
		}
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "cache_cleanup"
}
