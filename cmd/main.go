// 程序入口：仅负责读取配置、初始化依赖并启动服务；路由注册在 internal/api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"poi-api/internal/api"
	"poi-api/internal/config"
	"poi-api/internal/geoip"
	"poi-api/internal/logger"
	"poi-api/internal/metrics"
	"poi-api/internal/middleware"
	"poi-api/internal/migrate"
	"poi-api/internal/poi"
	"poi-api/internal/refcache"
	"poi-api/internal/store"
	"poi-api/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	cfg := config.Load()
	l.Debug("config_loaded", "addr", cfg.Addr, "api_base", cfg.APIBase, "poi_source", cfg.POISource, "events", cfg.EventsPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if cfg.PG.Enabled {
		db, err := utils.OpenPostgres(ctx, cfg.PG)
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		st = store.AttachDB(db)
		l.Info("db_open_ok")
	}

	var refs poi.Source
	switch cfg.POISource {
	case "db":
		refs = st
	default:
		refs = poi.NewFileSource(cfg.POIPath)
	}
	rc := utils.OpenRedis(cfg.RedisEnabled, cfg.Redis)
	if rc != nil {
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		refs = refcache.New(rc, refs, cfg.POISource, cfg.CacheTTL)
	} else {
		l.Info("redis_disabled")
	}

	opts := poi.Options{Strict: cfg.StrictRows, MemoSize: cfg.MemoSize}
	if cfg.GeoIPPath != "" {
		if r, err := geoip.Open(cfg.GeoIPPath); err == nil {
			defer r.Close()
			opts.Resolver = r
		} else {
			l.Error("geoip_open_error", "path", cfg.GeoIPPath, "err", err)
		}
	}
	var stats api.StatsReader
	if st != nil {
		stats = st
		if cfg.RecordStats {
			opts.Recorder = st
		}
	}
	pipeline := poi.NewPipeline(refs, poi.NewCSVFile(cfg.EventsPath), opts)

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(pipeline, stats, cfg.RunTimeout)
	if cfg.APIBase == "" {
		mux.Handle("/", apiMux)
	} else {
		mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	}
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", api.Health)

	handler := middleware.RateLimit(cfg.RateLimitEnabled, cfg.RateLimitQPS, mux)
	handler = logger.AccessMiddleware(l)(handler)
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		l.Info("listening", "addr", cfg.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("listen_error", "err", err)
			stop()
		}
	}()
	<-ctx.Done()
	l.Info("shutting_down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		l.Error("shutdown_error", "err", err)
	}
}
