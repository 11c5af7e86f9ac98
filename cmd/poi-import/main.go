package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"poi-api/internal/config"
	"poi-api/internal/logger"
	"poi-api/internal/migrate"
	"poi-api/internal/poi"
	"poi-api/internal/refcache"
	"poi-api/internal/store"
	"poi-api/internal/utils"

	"github.com/joho/godotenv"
)

// 文档注释：将参考兴趣点 JSON 导入 PostgreSQL
// 背景：POI_SOURCE=db 时服务从 _poi_points 读取参考集合；本工具整体替换该表并保持文件中的顺序。
// 约束：文件路径取第一个参数，缺省为 POI_PATH；导入成功后清除 Redis 中的参考集合缓存。
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	cfg := config.Load()
	path := cfg.POIPath
	if len(os.Args) > 1 && os.Args[1] != "" {
		path = os.Args[1]
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pts, err := poi.NewFileSource(path).Load(ctx)
	if err != nil {
		l.Error("poi_file_error", "path", path, "err", err)
		os.Exit(1)
	}
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
	if err := store.AttachDB(db).ReplacePOIs(ctx, pts); err != nil {
		l.Error("poi_import_error", "err", err)
		os.Exit(1)
	}
	if rc := utils.OpenRedis(cfg.RedisEnabled, cfg.Redis); rc != nil {
		if err := refcache.New(rc, nil, "db", 0).Invalidate(ctx); err != nil {
			l.Warn("refcache_invalidate_error", "err", err)
		}
		_ = rc.Close()
	}
	l.Info("poi_import_done", "path", path, "count", len(pts))
}
