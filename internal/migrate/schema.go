package migrate

import (
	"context"
	"database/sql"

	"poi-api/internal/logger"
)

// 首次运行自动创建参考集合与运行统计表；IF NOT EXISTS 保证可重复执行
var stmts = []string{
	`CREATE TABLE IF NOT EXISTS _poi_points (
        id SERIAL PRIMARY KEY,
        position INT NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL,
        name TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_poi_points_position ON _poi_points(position, id)`,
	`CREATE TABLE IF NOT EXISTS _poi_run_stats (
        run_id UUID PRIMARY KEY,
        started_at TIMESTAMPTZ NOT NULL,
        duration_ms BIGINT NOT NULL,
        pois INT NOT NULL,
        events BIGINT NOT NULL,
        matched BIGINT NOT NULL,
        resolved BIGINT NOT NULL DEFAULT 0,
        failed BOOLEAN NOT NULL,
        stage TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_poi_run_stats_started ON _poi_run_stats(started_at)`,
	`CREATE TABLE IF NOT EXISTS _poi_stats_total (
        id INT PRIMARY KEY,
        runs BIGINT NOT NULL DEFAULT 0,
        failures BIGINT NOT NULL DEFAULT 0,
        events BIGINT NOT NULL DEFAULT 0,
        matched BIGINT NOT NULL DEFAULT 0
    )`,
	`INSERT INTO _poi_stats_total(id) VALUES(1) ON CONFLICT (id) DO NOTHING`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
