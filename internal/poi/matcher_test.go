package poi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threePOIs = []PointOfInterest{
	{Lat: 48.86, Lon: 2.35, Name: "Chatelet"},
	{Lat: 48.8759992, Lon: 2.3481253, Name: "Arc de triomphe"},
	{Lat: 48.8534, Lon: 2.3488, Name: "Notre-Dame"},
}

func TestNearestExactLocation(t *testing.T) {
	m := NewMatcher(threePOIs, 0)
	for _, want := range threePOIs {
		got, ok := m.Nearest(want.Lat, want.Lon)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestNearestEventAtPOICreatesOnlyThatAggregate(t *testing.T) {
	agg := NewAggregator(NewMatcher(threePOIs, 0))
	assert.True(t, agg.Add(Event{Lat: 48.8534, Lon: 2.3488, Type: Impression}))

	res := agg.Results()
	require.Len(t, res, 1)
	assert.Equal(t, &Result{Lat: 48.8534, Lon: 2.3488, Name: "Notre-Dame", Impressions: 1}, res["Notre-Dame"])
}

func TestNearestTieBreakFirstWins(t *testing.T) {
	// (0,1) and (0,-1) are equidistant from the origin
	pts := []PointOfInterest{{Lat: 0, Lon: 1, Name: "East"}, {Lat: 0, Lon: -1, Name: "West"}}
	for i := 0; i < 5; i++ {
		got, ok := NewMatcher(pts, 0).Nearest(0, 0)
		require.True(t, ok)
		assert.Equal(t, "East", got.Name)
	}
	reversed := []PointOfInterest{pts[1], pts[0]}
	got, ok := NewMatcher(reversed, 0).Nearest(0, 0)
	require.True(t, ok)
	assert.Equal(t, "West", got.Name)
}

func TestNearestTieBreakDuplicateCoordinates(t *testing.T) {
	pts := []PointOfInterest{{Lat: 5, Lon: 5, Name: "first"}, {Lat: 5, Lon: 5, Name: "second"}}
	got, ok := NewMatcher(pts, 16).Nearest(5.1, 5.1)
	require.True(t, ok)
	assert.Equal(t, "first", got.Name)
}

func TestNearestEmptyReferenceSet(t *testing.T) {
	_, ok := NewMatcher(nil, 0).Nearest(1, 1)
	assert.False(t, ok)

	agg := NewAggregator(NewMatcher([]PointOfInterest{}, 0))
	assert.False(t, agg.Add(Event{Lat: 1, Lon: 1, Type: Click}))
	assert.Empty(t, agg.Results())
}

// 坐标为 NaN 的事件与任何兴趣点的距离比较都为 false，因此被静默丢弃
func TestNearestNaNNeverMatches(t *testing.T) {
	m := NewMatcher(threePOIs, 4)
	_, ok := m.Nearest(math.NaN(), 2.35)
	assert.False(t, ok)
	_, ok = m.Nearest(48.86, math.NaN())
	assert.False(t, ok)

	agg := NewAggregator(m)
	assert.False(t, agg.Add(Event{Lat: math.NaN(), Lon: math.NaN(), Type: Impression}))
	assert.Empty(t, agg.Results())
}

func TestAggregatorTotals(t *testing.T) {
	pts := []PointOfInterest{{Lat: 0, Lon: 0, Name: "X"}, {Lat: 40, Lon: 40, Name: "Y"}, {Lat: -40, Lon: -40, Name: "Z"}}
	agg := NewAggregator(NewMatcher(pts, 0))
	const n, m = 7, 4
	for i := 0; i < n; i++ {
		agg.Add(Event{Lat: 0.01 * float64(i), Lon: -0.01, Type: Impression})
	}
	for i := 0; i < m; i++ {
		agg.Add(Event{Lat: -0.02, Lon: 0.01 * float64(i), Type: Click})
	}
	res := agg.Results()
	require.Len(t, res, 1)
	assert.Equal(t, uint64(n), res["X"].Impressions)
	assert.Equal(t, uint64(m), res["X"].Clicks)
	assert.NotContains(t, res, "Y")
	assert.NotContains(t, res, "Z")
}

// 未知类型：首次命中仍创建结果，但不计数
func TestAggregatorUnknownTypeCreatesEmptyResult(t *testing.T) {
	agg := NewAggregator(NewMatcher(threePOIs, 0))
	assert.True(t, agg.Add(Event{Lat: 48.86, Lon: 2.35, Type: "view"}))

	r := agg.Results()["Chatelet"]
	require.NotNil(t, r)
	assert.Equal(t, uint64(0), r.Impressions)
	assert.Equal(t, uint64(0), r.Clicks)
	assert.Equal(t, 48.86, r.Lat)
	assert.Equal(t, 2.35, r.Lon)
}

func TestMatcherMemoMatchesScan(t *testing.T) {
	pts := []PointOfInterest{
		{Lat: 0, Lon: 1, Name: "A"}, {Lat: 0, Lon: -1, Name: "B"},
		{Lat: 10, Lon: 10, Name: "C"}, {Lat: -10, Lon: 20, Name: "D"},
	}
	plain := NewMatcher(pts, 0)
	memo := NewMatcher(pts, 2)
	coords := [][2]float64{{0, 0}, {9, 9}, {0, 0}, {-9, 19}, {9, 9}, {0, 0}, {math.NaN(), 0}, {math.NaN(), 0}}
	for _, c := range coords {
		want, wantOK := plain.Nearest(c[0], c[1])
		got, gotOK := memo.Nearest(c[0], c[1])
		assert.Equal(t, wantOK, gotOK)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 4, memo.Len())
}
