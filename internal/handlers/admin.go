package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vacancy-analytics/internal/aggregate"
	"vacancy-analytics/internal/config"
	"vacancy-analytics/internal/database"
	"vacancy-analytics/internal/ingest"
	"vacancy-analytics/internal/models"
	"vacancy-analytics/internal/scheduler"
	"vacancy-analytics/internal/towercache"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	store     database.Store
	cache     *towercache.Cache
	scheduler *scheduler.Scheduler
	config    *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store database.Store, cache *towercache.Cache, sched *scheduler.Scheduler, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		store:     store,
		cache:     cache,
		scheduler: sched,
		config:    cfg,
	}
}

// UploadCSV ingests a delimited-text unit file: parse, normalize, replace the
// stored row set, invalidate the snapshot, record an import log.
func (h *AdminHandler) UploadCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	rows, err := ingest.ParseCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := ingest.NormalizeRows(rows)

	stored := make([]models.VacantUnitRow, 0, len(result.Records))
	towerSlugs := make(map[string]bool)
	for _, rec := range result.Records {
		stored = append(stored, ingest.StoredFromRecord(rec))
		towerSlugs[rec.TowerSlug] = true
	}

	if err := h.store.ReplaceUnits(stored); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Data changed; the next query rebuilds the aggregation pass.
	h.cache.Invalidate()

	importLog := &models.ImportLog{
		FileName:      fileHeader.Filename,
		RowsProcessed: len(result.Records),
		RowsSkipped:   result.Skipped,
		TowerCount:    len(towerSlugs),
	}
	if err := h.store.SaveImportLog(importLog); err != nil {
		log.Printf("[ingest] warning: failed to save import log: %v", err)
	}

	log.Printf("[ingest] file=%s rows=%d skipped=%d towers=%d",
		fileHeader.Filename, len(result.Records), result.Skipped, len(towerSlugs))

	c.JSON(http.StatusOK, gin.H{
		"message": "Upload processed",
		"rows":    len(result.Records),
		"skipped": result.Skipped,
		"towers":  len(towerSlugs),
	})
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	unitCount, err := h.store.CountUnits()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	leadCount, err := h.store.CountLeads()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats["units"] = map[string]interface{}{"stored_rows": unitCount}
	stats["leads"] = map[string]interface{}{"total": leadCount}

	if snap, err := h.cache.Get(); err != nil {
		log.Printf("Failed to build snapshot for admin stats: %v", err)
	} else {
		stats["aggregation"] = map[string]interface{}{
			"towers":                     snap.Stats.TotalTowers,
			"vacant_units":               snap.Stats.TotalVacantUnits,
			"average_rent":               snap.Stats.AverageRent,
			"unit_weighted_average_rent": aggregate.UnitWeightedAverageRent(snap.Towers),
			"occupancy_rate":             snap.Stats.OccupancyRate,
			"built_at":                   snap.BuiltAt,
		}
	}

	c.JSON(http.StatusOK, stats)
}

// GetAreaStats returns per-area tower and vacancy counts from the current
// aggregation pass.
func (h *AdminHandler) GetAreaStats(c *gin.Context) {
	snap, err := h.cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type areaStat struct {
		Area        string `json:"area"`
		Towers      int    `json:"towers"`
		VacantUnits int    `json:"vacant_units"`
		TotalUnits  int    `json:"total_units"`
	}

	byArea := make(map[string]*areaStat)
	var order []string
	for _, t := range snap.Towers {
		s, ok := byArea[t.Area]
		if !ok {
			s = &areaStat{Area: t.Area}
			byArea[t.Area] = s
			order = append(order, t.Area)
		}
		s.Towers++
		s.VacantUnits += t.VacantUnits
		s.TotalUnits += len(t.Units)
	}

	areas := make([]areaStat, 0, len(order))
	for _, a := range order {
		areas = append(areas, *byArea[a])
	}

	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

// GetImportLogs returns recent upload bookkeeping
func (h *AdminHandler) GetImportLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 {
		limit = 50
	}

	logs, err := h.store.GetImportLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(logs),
		"logs":  logs,
	})
}

// PurgeImportLogs deletes import logs past the configured retention window
func (h *AdminHandler) PurgeImportLogs(c *gin.Context) {
	retentionDays := h.config.Ingest.ImportLogRetentionDays
	if retentionDays <= 0 {
		retentionDays = 90
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	deleted, err := h.store.PurgeImportLogs(cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Admin: purged %d import logs older than %s", deleted, cutoff.Format("2006-01-02"))

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
		"cutoff":  cutoff,
	})
}

// TriggerRebuild manually triggers the rebuild/reindex pass
func (h *AdminHandler) TriggerRebuild(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available",
		})
		return
	}

	log.Println("Admin: Manual rebuild trigger requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual rebuild failed: %v", err)
		} else {
			log.Println("Admin: Manual rebuild completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Rebuild started in background",
		"status":  "running",
	})
}
