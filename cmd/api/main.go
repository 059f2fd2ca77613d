package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vacancy-analytics/internal/aggregate"
	"vacancy-analytics/internal/config"
	"vacancy-analytics/internal/database"
	"vacancy-analytics/internal/export"
	"vacancy-analytics/internal/handlers"
	"vacancy-analytics/internal/ingest"
	"vacancy-analytics/internal/models"
	"vacancy-analytics/internal/query"
	"vacancy-analytics/internal/ratelimit"
	"vacancy-analytics/internal/scheduler"
	"vacancy-analytics/internal/search"
	"vacancy-analytics/internal/towercache"
)

var (
	store         database.Store
	cache         *towercache.Cache
	engine        *query.Engine
	searchClient  *search.SearchClient
	appConfig     *config.Config
	leadLimiter   *ratelimit.RateLimiter
	uploadLimiter *ratelimit.RateLimiter
	appScheduler  *scheduler.Scheduler
)

func main() {
	// Load configuration
	configPath := getEnv("CONFIG_PATH", "/app/config/vacancy_config.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	if dbType == "postgres" {
		log.Println("Using PostgreSQL")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		pg, err := database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "vacancy_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "vacancy_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "vacancy_db"),
			pgCfg.SSLMode,
		)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		store = pg
	} else {
		log.Println("Using MySQL with GORM")
		mysqlCfg := appConfig.Database.MySQL

		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gdb, err := database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "vacancy_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "vacancy_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "vacancy_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		store = gdb
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Aggregation snapshot cache: owns the tower graph rebuilt from the row
	// store after every upload or scheduled pass.
	cache = towercache.New(buildSnapshot)
	engine = query.NewEngine()

	// Initialize Meilisearch when configured
	meilisearchHost := appConfig.Search.Meilisearch.Host
	if meilisearchHost == "" {
		meilisearchHost = getEnv("MEILISEARCH_HOST", "")
	}
	if meilisearchHost != "" {
		meilisearchKey := appConfig.Search.Meilisearch.APIKey
		if meilisearchKey == "" {
			meilisearchKey = getEnv("MEILISEARCH_KEY", "masterKey123")
		}

		searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Search index disabled (no Meilisearch host configured)")
	}

	// Initialize rate limiters for the public surface
	leadLimiter = ratelimit.NewRateLimiter(
		appConfig.RateLimit.LeadsPerMinute,
		appConfig.RateLimit.LeadsPerHour,
		appConfig.RateLimit.Enabled,
	)
	uploadLimiter = ratelimit.NewRateLimiter(
		0,
		appConfig.RateLimit.UploadsPerHour,
		appConfig.RateLimit.Enabled,
	)

	// Initialize and start scheduler
	appScheduler = scheduler.NewScheduler(cache, searchClient, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
	}))

	// Routes
	r.GET("/health", healthCheck)
	r.GET("/api/towers", getTowers)
	r.GET("/api/towers/:slug", getTower)
	r.GET("/api/towers/:slug/export", exportTower)
	r.GET("/api/stats", getGlobalStats)
	r.GET("/api/areas", getAreas)
	r.GET("/api/search", searchTowers)

	r.POST("/api/leads", rateLimitMiddleware(leadLimiter), submitLead)
	r.GET("/api/ratelimit/stats", getRateLimitStats)

	// Admin API routes (token-guarded when configured)
	adminHandler := handlers.NewAdminHandler(store, cache, appScheduler, appConfig)

	admin := r.Group("/api/admin", adminAuthMiddleware())
	{
		admin.POST("/upload-csv", rateLimitMiddleware(uploadLimiter), adminHandler.UploadCSV)
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/area-stats", adminHandler.GetAreaStats)
		admin.GET("/import-logs", adminHandler.GetImportLogs)
		admin.POST("/import-logs/purge", adminHandler.PurgeImportLogs)
		admin.POST("/rebuild", adminHandler.TriggerRebuild)
		admin.POST("/reindex", reindexAllTowers)
	}

	log.Println("Admin API routes registered at /api/admin/*")

	port := appConfig.Server.Port
	if port == "" {
		port = getEnv("PORT", "8084")
	}
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildSnapshot runs one full aggregation pass over the stored row set.
func buildSnapshot() (*towercache.Snapshot, error) {
	storedRows, err := store.GetUnits()
	if err != nil {
		return nil, fmt.Errorf("failed to load unit rows: %w", err)
	}

	rows := make([]ingest.Row, 0, len(storedRows))
	for _, r := range storedRows {
		rows = append(rows, ingest.RowFromStored(r))
	}

	result := ingest.NormalizeRows(rows)
	towers := aggregate.BuildTowers(result.Records, aggregate.Options{
		TotalOverrides: appConfig.Ingest.TotalUnitOverrides,
	})
	stats := aggregate.ComputeGlobalStats(towers)

	return &towercache.Snapshot{
		Towers:  towers,
		Stats:   stats,
		BuiltAt: time.Now(),
	}, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getTowers(c *gin.Context) {
	snap, err := cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Build filters from query parameters
	filters := query.Filters{
		Search:        c.Query("search"),
		Area:          c.Query("area"),
		UnitType:      c.Query("unit_type"),
		VacancyStatus: c.Query("vacancy_status"),
		DaysVacant:    c.Query("days_vacant"),
	}

	if minStr := c.Query("min_price"); minStr != "" {
		if min, parseErr := strconv.ParseFloat(minStr, 64); parseErr == nil && min > 0 {
			filters.PriceMin = min
		}
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		if max, parseErr := strconv.ParseFloat(maxStr, 64); parseErr == nil && max > 0 {
			filters.PriceMax = max
		}
	}

	page := query.Page{Page: 1, Limit: query.DefaultLimit}
	if pageStr := c.Query("page"); pageStr != "" {
		if p, parseErr := strconv.Atoi(pageStr); parseErr == nil && p > 0 {
			page.Page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, parseErr := strconv.Atoi(limitStr); parseErr == nil && l > 0 {
			page.Limit = l
		}
	}

	start := time.Now()
	result := engine.Query(snap.Towers, snap.Stats, filters, c.DefaultQuery("sort", "name"), page)
	duration := time.Since(start)

	// Log query performance for monitoring
	log.Printf("[Towers API] duration_ms=%d total=%d page=%d limit=%d sort=%s",
		duration.Milliseconds(), result.Pagination.Total, page.Page, page.Limit, c.Query("sort"))

	c.JSON(http.StatusOK, result)
}

func getTower(c *gin.Context) {
	snap, err := cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slug := c.Param("slug")
	tower, ok := aggregate.TowerBySlug(snap.Towers, slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tower not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tower": tower})
}

func exportTower(c *gin.Context) {
	snap, err := cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slug := c.Param("slug")
	tower, ok := aggregate.TowerBySlug(snap.Towers, slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tower not found"})
		return
	}

	fields, err := export.ParseFields(c.Query("fields"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := export.CSV(tower.Units, fields)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("%s-units.csv", tower.Slug)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", []byte(content))
}

func getGlobalStats(c *gin.Context) {
	snap, err := cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap.Stats)
}

// getAreas lists the distinct areas of the current pass, for filter dropdowns
func getAreas(c *gin.Context) {
	snap, err := cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	seen := make(map[string]bool)
	var areas []string
	for _, t := range snap.Towers {
		if t.Area != "" && !seen[t.Area] {
			seen[t.Area] = true
			areas = append(areas, t.Area)
		}
	}

	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

func searchTowers(c *gin.Context) {
	queryStr := c.Query("q")
	limitStr := c.DefaultQuery("limit", "20")

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		limit = 20
	}

	// Without an index (or an empty query) fall back to the snapshot
	if searchClient == nil || queryStr == "" {
		snap, err := cache.Get()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		towers := engine.Filter(snap.Towers, query.Filters{Search: queryStr})
		if int64(len(towers)) > limit {
			towers = towers[:limit]
		}
		c.JSON(http.StatusOK, gin.H{"towers": towers})
		return
	}

	docs, err := searchClient.Search(queryStr, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"towers": docs})
}

func submitLead(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone"`
		TowerName string `json:"tower_name"`
		Message   string `json:"message"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead := &models.Lead{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		TowerName: req.TowerName,
		Message:   req.Message,
	}

	if err := store.SaveLead(lead); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[leads] id=%s tower=%q", lead.ID, lead.TowerName)

	c.JSON(http.StatusOK, gin.H{"id": lead.ID})
}

// reindexAllTowers pushes the current aggregation pass to Meilisearch
func reindexAllTowers(c *gin.Context) {
	if searchClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Search index is not configured",
		})
		return
	}

	snap, err := cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[Reindex] Indexing %d towers", len(snap.Towers))

	if err := searchClient.IndexTowers(snap.Towers); err != nil {
		log.Printf("[Reindex] Error indexing towers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to index towers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reindex complete",
		"total":   len(snap.Towers),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

// rateLimitMiddleware returns a Gin middleware that enforces rate limiting
func rateLimitMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.AllowRequest() {
			stats := limiter.GetStats()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
				"stats":   stats,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// adminAuthMiddleware checks the admin token when one is configured.
// Authentication proper lives in front of this service in production.
func adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := appConfig.Server.AdminToken
		if token != "" && c.GetHeader("X-Admin-Token") != token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// getRateLimitStats returns current rate limiter statistics
func getRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"leads":   leadLimiter.GetStats(),
		"uploads": uploadLimiter.GetStats(),
	})
}
