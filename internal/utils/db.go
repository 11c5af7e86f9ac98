package utils

import (
	"context"
	"database/sql"
	"time"

	"poi-api/internal/config"
	"poi-api/internal/logger"

	_ "github.com/lib/pq"
)

// OpenPostgres：按配置打开连接池并做一次 Ping；连接失败时关闭并返回错误
func OpenPostgres(ctx context.Context, pg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", pg.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(pg.MaxOpen)
	db.SetMaxIdleConns(pg.MaxIdle)
	db.SetConnMaxIdleTime(5 * time.Minute)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.L().Debug("pg_open_ok", "host", pg.Host, "db", pg.DB)
	return db, nil
}
