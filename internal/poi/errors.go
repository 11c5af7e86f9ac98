package poi

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad：参考集合缺失、不可读或格式非法
	ErrLoad = errors.New("reference set load failed")
	// ErrStream：事件源缺失、读取中断或行结构非法
	ErrStream = errors.New("event stream failed")
	// ErrMalformedRow：严格模式下数值或类型不合法的行
	ErrMalformedRow = errors.New("malformed event row")
)

// LoadError 包装参考集合加载失败的原因。
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load reference set %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// StreamError 包装事件源失败；Line 为 0 表示发生在读取任何数据行之前。
type StreamError struct {
	Source string
	Line   int
	Err    error
}

func (e *StreamError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("event stream %s line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("event stream %s: %v", e.Source, e.Err)
}

func (e *StreamError) Unwrap() []error { return []error{ErrStream, e.Err} }

// PipelineError 记录失败阶段（load/open/read/cancel），对调用方只暴露为一次失败。
type PipelineError struct {
	RunID string
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline run %s failed at %s: %v", e.RunID, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
