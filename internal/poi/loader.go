package poi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"

	"poi-api/internal/logger"
)

// 文档注释：参考集合来源
// 背景：匹配器需要完整集合做逐点扫描，因此 Load 必须一次性返回全部兴趣点。
// 约束：返回顺序即并列最近时的裁决顺序，实现方不得重排。
type Source interface {
	Load(ctx context.Context) ([]PointOfInterest, error)
}

// SourceFunc 将普通函数适配为 Source。
type SourceFunc func(ctx context.Context) ([]PointOfInterest, error)

func (f SourceFunc) Load(ctx context.Context) ([]PointOfInterest, error) { return f(ctx) }

// FileSource 从 JSON 数组文件读取参考集合，元素形如 {"lat":..,"lon":..,"name":..}。
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	if path == "" {
		path = "points-of-interest.json"
	}
	return &FileSource{Path: path}
}

// Load：文件缺失、不可读或非 JSON 数组时返回 *LoadError；空数组合法
func (s *FileSource) Load(ctx context.Context) ([]PointOfInterest, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	pts, err := DecodePOIs(b)
	if err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	logger.L().Debug("poi_file_loaded", "path", s.Path, "count", len(pts))
	return pts, nil
}

// DecodePOIs 解析 JSON 数组；顶层为 null 或非数组视为格式错误。
func DecodePOIs(b []byte) ([]PointOfInterest, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil, errors.New("reference set is not a JSON array")
	}
	var pts []PointOfInterest
	if err := json.Unmarshal(b, &pts); err != nil {
		return nil, err
	}
	if pts == nil {
		pts = []PointOfInterest{}
	}
	return pts, nil
}
