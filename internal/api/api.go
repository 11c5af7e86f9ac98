// 包 api：集中注册 HTTP API 路由以解耦主入口
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"poi-api/internal/logger"
	"poi-api/internal/metrics"
	"poi-api/internal/poi"
	"poi-api/internal/store"
)

// Runner：一次完整的事件处理，每个请求调用一次
type Runner interface {
	Run(ctx context.Context) (poi.Results, error)
}

// StatsReader：运行统计读取；未配置数据库时为 nil
type StatsReader interface {
	GetTotals(ctx context.Context) (*store.Totals, error)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// 构建并返回 API 路由：独立 ServeMux，由主入口挂载到 API_BASE 前缀
// timeout>0 时为每次处理设置截止时间，超时按失败处理
func BuildRoutes(run Runner, stats StatsReader, timeout time.Duration) *http.ServeMux {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/points-of-interest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
			return
		}
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := run.Run(ctx)
		if err != nil {
			// 错误细节只进日志
			logger.FromContext(ctx).Error("points_of_interest_error", "err", err)
			metrics.RequestsTotal.WithLabelValues(strconv.Itoa(http.StatusInternalServerError)).Inc()
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
			return
		}
		metrics.RequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
		writeJSON(w, http.StatusOK, res)
	})

	apiMux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		if stats == nil {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "stats disabled"})
			return
		}
		t, err := stats.GetTotals(r.Context())
		if err != nil {
			logger.FromContext(r.Context()).Error("stats_error", "err", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, t)
	})

	return apiMux
}

// Health：存活探针
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
