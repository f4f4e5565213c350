package commands

import (
	"fmt"

	"github.com/wonny/swingrank/internal/bars"
	"github.com/wonny/swingrank/internal/external/profile"
	"github.com/wonny/swingrank/internal/external/stooq"
	"github.com/wonny/swingrank/internal/rankings"
	"github.com/wonny/swingrank/internal/scan"
	"github.com/wonny/swingrank/internal/scoring"
	"github.com/wonny/swingrank/internal/stocklists"
	"github.com/wonny/swingrank/pkg/config"
	"github.com/wonny/swingrank/pkg/database"
	"github.com/wonny/swingrank/pkg/httputil"
	"github.com/wonny/swingrank/pkg/logger"
	"github.com/wonny/swingrank/pkg/redis"
)

// app bundles the wired dependencies shared by the CLI commands.
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *database.DB
	redis    *redis.Client
	cache    *redis.Cache
	lists    *stocklists.Repository
	rankings *rankings.Repository
	runner   *scan.Runner
}

// initApp loads config and wires the full scan pipeline.
func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		// Redis is an optional cache, never fatal
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		redisClient = nil
	}

	var cache *redis.Cache
	if redisClient != nil && redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "swingrank")
	}

	barClient := stooq.NewClient(
		httpClientFor(cfg, log),
		cfg.MarketData.BarsBaseURL,
		log,
	)
	profileScraper := profile.NewScraper(
		httpClientFor(cfg, log),
		cfg.MarketData.ProfileBaseURL,
		log,
	)

	listRepo := stocklists.NewRepository(db.Pool)
	rankingRepo := rankings.NewRepository(db.Pool)
	barRepo := bars.NewRepository(db.Pool)

	engine := scoring.NewEngine(scoring.DefaultWeights(), cfg.Scan.Workers, log)

	runner := scan.NewRunner(
		barClient,
		barRepo,
		profileScraper,
		listRepo,
		rankingRepo,
		engine,
		cache,
		cfg.Scan,
		log,
	)

	return &app{
		cfg:      cfg,
		logger:   log,
		db:       db,
		redis:    redisClient,
		cache:    cache,
		lists:    listRepo,
		rankings: rankingRepo,
		runner:   runner,
	}, nil
}

// httpClientFor builds a rate-limited HTTP client for one data source.
// Each source gets its own limiter so a slow bar feed does not starve
// profile lookups.
func httpClientFor(cfg *config.Config, log *logger.Logger) *httputil.Client {
	return httputil.New(log, cfg.MarketData.RequestTimeout).
		WithRateLimit(cfg.MarketData.RequestsPerSec)
}

// close releases the app's connections.
func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
