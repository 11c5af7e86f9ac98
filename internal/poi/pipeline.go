package poi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"poi-api/internal/logger"
	"poi-api/internal/metrics"

	"github.com/google/uuid"
)

// CoordResolver 为缺少有效坐标的事件按 IP 补全经纬度。
type CoordResolver interface {
	Resolve(ip string) (lat, lon float64, ok bool)
}

// RunRecorder 记录运行统计（不含聚合结果本身）。
type RunRecorder interface {
	RecordRun(ctx context.Context, st RunStats) error
}

// RunStats：一次运行的计数摘要
type RunStats struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	POIs      int
	Events    int64
	Matched   int64
	Resolved  int64
	Failed    bool
	Stage     string
}

// Options：编排器可选参数
type Options struct {
	// Strict 为 true 时数值或类型非法的行使运行失败；默认放行并按 NaN 处理。
	Strict bool
	// MemoSize>0 时启用精确坐标匹配缓存
	MemoSize int
	Resolver CoordResolver
	Recorder RunRecorder
}

// 文档注释：处理编排器（加载参考集合 → 打开事件流 → 逐条匹配聚合）
// 背景：HTTP 层每次请求调用一次 Run；Pipeline 自身只保存配置，聚合状态在 Run 内创建。
// 约束：要么返回完整结果，要么返回错误，绝不返回部分结果；事件源在所有路径上关闭。
type Pipeline struct {
	refs   Source
	events EventOpener
	opts   Options
}

func NewPipeline(refs Source, events EventOpener, opts Options) *Pipeline {
	return &Pipeline{refs: refs, events: events, opts: opts}
}

// Run 执行一次完整处理。
func (p *Pipeline) Run(ctx context.Context) (Results, error) {
	st := RunStats{RunID: uuid.NewString(), StartedAt: time.Now()}
	l := logger.FromContext(ctx).With("run_id", st.RunID)
	metrics.PipelineRunsInFlight.Inc()
	defer metrics.PipelineRunsInFlight.Dec()

	res, err := p.run(ctx, &st)
	st.Duration = time.Since(st.StartedAt)
	metrics.PipelineDurationMs.Observe(float64(st.Duration.Milliseconds()))
	if err != nil {
		st.Failed = true
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		l.Error("pipeline_error", "stage", st.Stage, "events", st.Events, "err", err)
	} else {
		metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
		l.Info("pipeline_done", "pois", st.POIs, "events", st.Events, "matched", st.Matched, "results", len(res), "ms", st.Duration.Milliseconds())
	}
	if p.opts.Recorder != nil {
		// 统计写入失败不影响本次结果
		if rerr := p.opts.Recorder.RecordRun(context.WithoutCancel(ctx), st); rerr != nil {
			l.Warn("run_stats_error", "err", rerr)
		}
	}
	if err != nil {
		return nil, &PipelineError{RunID: st.RunID, Stage: st.Stage, Err: err}
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, st *RunStats) (Results, error) {
	l := logger.FromContext(ctx).With("run_id", st.RunID)
	st.Stage = "load"
	pts, err := p.refs.Load(ctx)
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			err = &LoadError{Source: "reference", Err: err}
		}
		return nil, err
	}
	st.POIs = len(pts)
	metrics.ReferenceSetSize.Set(float64(len(pts)))
	l.Debug("pipeline_refs_loaded", "count", len(pts))

	st.Stage = "open"
	src, err := p.events.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	agg := NewAggregator(NewMatcher(pts, p.opts.MemoSize))
	for {
		st.Stage = "read"
		raw, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		st.Events++
		ev, perr := ParseEvent(raw)
		if perr != nil && p.opts.Resolver != nil && raw.IP != "" && (math.IsNaN(ev.Lat) || math.IsNaN(ev.Lon)) {
			if lat, lon, ok := p.opts.Resolver.Resolve(raw.IP); ok {
				ev.Lat, ev.Lon = lat, lon
				st.Resolved++
				perr = checkType(raw)
			}
		}
		if perr != nil {
			if p.opts.Strict {
				st.Stage = "parse"
				return nil, &StreamError{Source: "events", Line: raw.Line, Err: perr}
			}
			metrics.MalformedRowsTotal.Inc()
			l.Debug("pipeline_row_malformed", "line", raw.Line, "err", perr)
		}
		if agg.Add(ev) {
			st.Matched++
			metrics.EventsTotal.WithLabelValues("matched").Inc()
		} else {
			metrics.EventsTotal.WithLabelValues("unmatched").Inc()
		}
	}
	st.Stage = "done"
	return agg.Results(), nil
}

// ParseEvent 将原始字段转为事件；非数值坐标记为 NaN，并返回包装 ErrMalformedRow 的错误。
// 返回的事件在出错时仍然可用，由调用方决定放行或拒绝。
func ParseEvent(raw RawEvent) (Event, error) {
	ev := Event{Lat: parseCoord(raw.Lat), Lon: parseCoord(raw.Lon), Type: EventType(raw.EventType)}
	var bad []string
	if math.IsNaN(ev.Lat) {
		bad = append(bad, fmt.Sprintf("lat=%q", raw.Lat))
	}
	if math.IsNaN(ev.Lon) {
		bad = append(bad, fmt.Sprintf("lon=%q", raw.Lon))
	}
	if err := checkType(raw); err != nil {
		bad = append(bad, fmt.Sprintf("event_type=%q", raw.EventType))
	}
	if len(bad) > 0 {
		return ev, fmt.Errorf("%w: %s", ErrMalformedRow, strings.Join(bad, " "))
	}
	return ev, nil
}

func checkType(raw RawEvent) error {
	switch EventType(raw.EventType) {
	case Impression, Click:
		return nil
	}
	return fmt.Errorf("%w: event_type=%q", ErrMalformedRow, raw.EventType)
}

func parseCoord(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
