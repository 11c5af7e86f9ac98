package poi

// 文档注释：兴趣点与事件的最小数据结构
// 背景：参考集合在一次运行内常驻内存并只读；事件逐行构造、匹配后即丢弃。
// 约束：兴趣点以 Name 作为聚合键；坐标为 WGS84 经纬度（度）。
type PointOfInterest struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

// EventType：事件类型，仅 impression/click 参与计数
type EventType string

const (
	Impression EventType = "impression"
	Click      EventType = "click"
)

// 事件（一次曝光或点击）
type Event struct {
	Lat  float64
	Lon  float64
	Type EventType
}

// RawEvent：事件源产出的原始字段，尚未解析
// Line 为源文件中的行号（表头为第 1 行），用于错误定位与日志。
type RawEvent struct {
	Lat       string
	Lon       string
	EventType string
	IP        string
	Line      int
}

// 文档注释：单个兴趣点的聚合结果
// 约束：坐标与名称取自参考集合，首次命中时创建，之后仅递增计数。
type Result struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Name        string  `json:"name"`
	Impressions uint64  `json:"impressions"`
	Clicks      uint64  `json:"clicks"`
}

// Results：按兴趣点名称索引的聚合结果
type Results map[string]*Result
