package poi

import (
	"math"

	"github.com/golang/groupcache/lru"
)

// 文档注释：最近兴趣点匹配（线性扫描）
// 约束：严格小于才替换当前最优，距离相等时保留参考集合中先出现者；NaN 距离永不命中。
type Matcher struct {
	points []PointOfInterest
	memo   *lru.Cache
}

// NewMatcher 基于参考集合构建匹配器；memoSize>0 时按精确坐标缓存匹配结果。
// 缓存键为坐标的位模式，命中时返回与扫描完全相同的兴趣点。
func NewMatcher(points []PointOfInterest, memoSize int) *Matcher {
	m := &Matcher{points: points}
	if memoSize > 0 {
		m.memo = lru.New(memoSize)
	}
	return m
}

type coordKey struct{ lat, lon uint64 }

type memoEntry struct {
	idx int
	ok  bool
}

// Nearest 返回距 (lat, lon) 最近的兴趣点；参考集合为空或坐标无效时 ok=false。
func (m *Matcher) Nearest(lat, lon float64) (PointOfInterest, bool) {
	idx, ok := m.nearestIndex(lat, lon)
	if !ok {
		return PointOfInterest{}, false
	}
	return m.points[idx], true
}

func (m *Matcher) nearestIndex(lat, lon float64) (int, bool) {
	var key coordKey
	if m.memo != nil {
		key = coordKey{math.Float64bits(lat), math.Float64bits(lon)}
		if v, hit := m.memo.Get(key); hit {
			e := v.(memoEntry)
			return e.idx, e.ok
		}
	}
	best := -1
	bestD := math.Inf(1)
	for i := range m.points {
		p := &m.points[i]
		d := Haversine(lat, lon, p.Lat, p.Lon)
		if d < bestD {
			best = i
			bestD = d
		}
	}
	if m.memo != nil {
		m.memo.Add(key, memoEntry{idx: best, ok: best >= 0})
	}
	return best, best >= 0
}

// Len 返回参考集合大小
func (m *Matcher) Len() int { return len(m.points) }

// 文档注释：按兴趣点名称累加曝光与点击
// 约束：单次运行独占，不做并发保护；未知类型的事件仍会在首次命中时创建结果，但不计数。
type Aggregator struct {
	matcher *Matcher
	results Results
}

func NewAggregator(m *Matcher) *Aggregator {
	return &Aggregator{matcher: m, results: make(Results)}
}

// Add 将事件归属到最近兴趣点，返回是否命中。
func (a *Aggregator) Add(ev Event) bool {
	p, ok := a.matcher.Nearest(ev.Lat, ev.Lon)
	if !ok {
		return false
	}
	r, exists := a.results[p.Name]
	if !exists {
		r = &Result{Lat: p.Lat, Lon: p.Lon, Name: p.Name}
		a.results[p.Name] = r
	}
	switch ev.Type {
	case Impression:
		r.Impressions++
	case Click:
		r.Clicks++
	}
	return true
}

// Results 返回累计结果；调用后聚合器不应再使用。
func (a *Aggregator) Results() Results { return a.results }
