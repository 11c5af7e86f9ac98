// 包 store: 提供与 PostgreSQL 的数据访问层，包含参考兴趣点读取与运行统计读写
package store

import (
	"context"
	"database/sql"
	"fmt"

	"poi-api/internal/logger"
	"poi-api/internal/poi"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Load: 读取全部兴趣点，按 position、id 排序以固定并列裁决顺序；实现 poi.Source
func (s *Store) Load(ctx context.Context) ([]poi.PointOfInterest, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT lat, lon, name FROM _poi_points ORDER BY position, id`)
	if err != nil {
		return nil, &poi.LoadError{Source: "postgres:_poi_points", Err: err}
	}
	defer rows.Close()
	out := []poi.PointOfInterest{}
	for rows.Next() {
		var p poi.PointOfInterest
		if err := rows.Scan(&p.Lat, &p.Lon, &p.Name); err != nil {
			return nil, &poi.LoadError{Source: "postgres:_poi_points", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &poi.LoadError{Source: "postgres:_poi_points", Err: err}
	}
	logger.L().Debug("db_pois_loaded", "count", len(out))
	return out, nil
}

// ReplacePOIs: 在一个事务内清空并写入参考集合，position 取切片下标
func (s *Store) ReplacePOIs(ctx context.Context, pts []poi.PointOfInterest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM _poi_points`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO _poi_points(position, lat, lon, name) VALUES($1,$2,$3,$4)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range pts {
		if _, err := stmt.ExecContext(ctx, i, p.Lat, p.Lon, p.Name); err != nil {
			return fmt.Errorf("insert poi %d (%s): %w", i, p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("db_pois_replaced", "count", len(pts))
	return nil
}

// RecordRun: 追加一次运行的统计并累加总计；实现 poi.RunRecorder
func (s *Store) RecordRun(ctx context.Context, st poi.RunStats) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO _poi_run_stats(run_id, started_at, duration_ms, pois, events, matched, resolved, failed, stage)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		st.RunID, st.StartedAt, st.Duration.Milliseconds(), st.POIs, st.Events, st.Matched, st.Resolved, st.Failed, st.Stage)
	if err != nil {
		return err
	}
	failed := 0
	if st.Failed {
		failed = 1
	}
	_, err = s.db.ExecContext(ctx, `UPDATE _poi_stats_total SET runs=runs+1, failures=failures+$1, events=events+$2, matched=matched+$3 WHERE id=1`,
		failed, st.Events, st.Matched)
	logger.L().Debug("stats_run_recorded", "run_id", st.RunID, "failed", st.Failed)
	return err
}

// Totals: 运行统计总计
type Totals struct {
	Runs     int64 `json:"runs"`
	Failures int64 `json:"failures"`
	Events   int64 `json:"events"`
	Matched  int64 `json:"matched"`
	Today    int64 `json:"today"`
}

// GetTotals: 读取累计与当日运行次数
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, `SELECT runs, failures, events, matched FROM _poi_stats_total WHERE id=1`)
	if err := row.Scan(&t.Runs, &t.Failures, &t.Events, &t.Matched); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	row2 := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM _poi_run_stats WHERE started_at >= current_date`)
	if err := row2.Scan(&t.Today); err != nil {
		return nil, err
	}
	return &t, nil
}
