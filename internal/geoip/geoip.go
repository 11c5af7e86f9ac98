// 包 geoip：基于 MaxMind City 库的 IP → 经纬度补全
package geoip

import (
	"net"
	"strings"

	"poi-api/internal/logger"

	"github.com/oschwald/geoip2-golang"
)

// 文档注释：坐标补全器
// 背景：部分事件行缺失经纬度但带有 ip 列，可用城市库中心点近似定位后再参与匹配。
// 约束：仅在坐标无法解析时使用；库中无记录或坐标为 (0,0) 时视为未命中；只读，可并发调用。
type Resolver struct {
	db *geoip2.Reader
}

// Open 打开 mmdb 文件（GeoLite2-City / GeoIP2-City）
func Open(path string) (*Resolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	logger.L().Info("geoip_open_ok", "path", path, "type", db.Metadata().DatabaseType)
	return &Resolver{db: db}, nil
}

// Resolve 实现 poi.CoordResolver
func (r *Resolver) Resolve(ip string) (float64, float64, bool) {
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil {
		return 0, 0, false
	}
	rec, err := r.db.City(addr)
	if err != nil {
		logger.L().Debug("geoip_lookup_error", "ip", ip, "err", err)
		return 0, 0, false
	}
	lat, lon := rec.Location.Latitude, rec.Location.Longitude
	if lat == 0 && lon == 0 {
		return 0, 0, false
	}
	return lat, lon, true
}

func (r *Resolver) Close() error { return r.db.Close() }
