package poi

import "math"

// EarthRadiusKm：地球平均半径（千米）
const EarthRadiusKm = 6371.0

// Haversine 返回两点间的球面距离（千米）。
// 任一输入为 NaN 时结果为 NaN，与之比较恒为 false，因此该点不会成为最近点。
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 { return deg * (math.Pi / 180) }
