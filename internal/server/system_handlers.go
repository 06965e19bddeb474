package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/lotwatch/internal/database"
	"github.com/aristath/lotwatch/internal/scheduler"
)

// SystemHandlers serves monitoring and operations endpoints.
type SystemHandlers struct {
	log        zerolog.Logger
	dataDir    string
	cacheDB    *database.DB
	cleanupJob scheduler.Job
	startedAt  time.Time
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, dataDir string, cacheDB *database.DB, cleanupJob scheduler.Job) *SystemHandlers {
	return &SystemHandlers{
		log:        log.With().Str("handler", "system").Logger(),
		dataDir:    dataDir,
		cacheDB:    cacheDB,
		cleanupJob: cleanupJob,
		startedAt:  time.Now(),
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	cacheHealthy := true
	if err := h.cacheDB.QuickCheck(r.Context()); err != nil {
		h.log.Warn().Err(err).Msg("Cache database quick check failed")
		cacheHealthy = false
	}

	h.writeJSON(w, map[string]interface{}{
		"service":        "lotwatch",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"cpu_percent":    cpuPercent,
		"ram_percent":    ramPercent,
		"cache_healthy":  cacheHealthy,
	})
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	sizeMB := 0.0
	if info, err := os.Stat(h.cacheDB.Path()); err == nil {
		sizeMB = float64(info.Size()) / 1024 / 1024
	}

	// Full integrity check here; the status endpoint keeps the cheap ping.
	healthy := true
	if err := h.cacheDB.HealthCheck(r.Context()); err != nil {
		h.log.Warn().Err(err).Msg("Cache database integrity check failed")
		healthy = false
	}

	h.writeJSON(w, map[string]interface{}{
		"name":    h.cacheDB.Name(),
		"path":    h.cacheDB.Path(),
		"size_mb": sizeMB,
		"healthy": healthy,
	})
}

// HandleDiskUsage handles GET /api/system/disk
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"data_dir":     h.dataDir,
		"data_size_mb": h.getDirSize(h.dataDir),
	})
}

// HandleTriggerCacheCleanup handles POST /api/system/jobs/cache-cleanup
func (h *SystemHandlers) HandleTriggerCacheCleanup(w http.ResponseWriter, r *http.Request) {
	if h.cleanupJob == nil {
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": "Cache cleanup job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual cache cleanup triggered")

	if err := h.cleanupJob.Run(); err != nil {
		h.log.Error().Err(err).Msg("Cache cleanup failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Cache cleanup completed",
	})
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages.
// A 100ms sample keeps the endpoint responsive for pollers.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
