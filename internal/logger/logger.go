// 包 logger：统一初始化与获取日志器；通过环境变量控制日志级别与输出格式，并在上下文中携带请求标识
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// Setup：按 LOG_LEVEL（debug/info/warn/error）与 LOG_FORMAT（json/text）初始化默认日志器
// 约束：输出固定为标准错误
func Setup() *slog.Logger {
	l := slog.New(newHandler(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return l
}

func newHandler(level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// ParseLevel：未识别的取值回退为 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		return Setup()
	}
	return l
}

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID 将请求标识写入上下文，供 FromContext 附加到日志字段。
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID 读取上下文中的请求标识，不存在时返回空串。
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// FromContext：默认日志器附加 request_id（若存在）
func FromContext(ctx context.Context) *slog.Logger {
	if id := RequestID(ctx); id != "" {
		return L().With("request_id", id)
	}
	return L()
}
