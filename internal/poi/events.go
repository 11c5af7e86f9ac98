package poi

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// EventSource 按顺序逐条产出原始事件，结束时返回 io.EOF。
// 只能消费一次；Close 释放底层句柄，可重复调用。
type EventSource interface {
	Next(ctx context.Context) (RawEvent, error)
	Close() error
}

// EventOpener 为每次运行打开一个新的事件源。
type EventOpener interface {
	Open(ctx context.Context) (EventSource, error)
}

// CSVFile：以表头驱动的事件 CSV 文件（默认 data/events.csv）
type CSVFile struct {
	Path string
}

func NewCSVFile(path string) *CSVFile {
	if path == "" {
		path = "data/events.csv"
	}
	return &CSVFile{Path: path}
}

func (f *CSVFile) Open(ctx context.Context) (EventSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StreamError{Source: f.Path, Err: err}
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, &StreamError{Source: f.Path, Err: err}
	}
	src, err := NewCSVEventSource(f.Path, fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return src, nil
}

// 文档注释：CSV 事件源
// 背景：列位置由表头决定，必需列 lat/lon/event_type，可选列 ip。
// 约束：字段数与表头不一致的行视为流错误；表头名不区分大小写并去除首尾空白与 BOM。
type CSVEventSource struct {
	name   string
	r      *csv.Reader
	c      io.Closer
	latIdx int
	lonIdx int
	typIdx int
	ipIdx  int
	closed bool
}

// NewCSVEventSource 读取表头并定位列；rd 实现 io.Closer 时由 Close 关闭。
func NewCSVEventSource(name string, rd io.Reader) (*CSVEventSource, error) {
	r := csv.NewReader(bufio.NewReader(rd))
	r.TrimLeadingSpace = true
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("missing header")
		}
		return nil, &StreamError{Source: name, Line: 1, Err: err}
	}
	s := &CSVEventSource{name: name, r: r, latIdx: -1, lonIdx: -1, typIdx: -1, ipIdx: -1}
	if c, ok := rd.(io.Closer); ok {
		s.c = c
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "lat":
			s.latIdx = i
		case "lon":
			s.lonIdx = i
		case "event_type":
			s.typIdx = i
		case "ip":
			s.ipIdx = i
		}
	}
	var missing []string
	if s.latIdx < 0 {
		missing = append(missing, "lat")
	}
	if s.lonIdx < 0 {
		missing = append(missing, "lon")
	}
	if s.typIdx < 0 {
		missing = append(missing, "event_type")
	}
	if len(missing) > 0 {
		return nil, &StreamError{Source: name, Line: 1, Err: fmt.Errorf("missing required columns: %s", strings.Join(missing, ","))}
	}
	return s, nil
}

// Next 返回下一行；上下文取消时立即返回错误，不再读取。
func (s *CSVEventSource) Next(ctx context.Context) (RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return RawEvent{}, err
	}
	if s.closed {
		return RawEvent{}, &StreamError{Source: s.name, Err: errors.New("source closed")}
	}
	rec, err := s.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RawEvent{}, io.EOF
		}
		line := 0
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			line = pe.StartLine
		}
		return RawEvent{}, &StreamError{Source: s.name, Line: line, Err: err}
	}
	line, _ := s.r.FieldPos(0)
	ev := RawEvent{
		Lat:       rec[s.latIdx],
		Lon:       rec[s.lonIdx],
		EventType: rec[s.typIdx],
		Line:      line,
	}
	if s.ipIdx >= 0 {
		ev.IP = rec[s.ipIdx]
	}
	return ev, nil
}

func (s *CSVEventSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}
