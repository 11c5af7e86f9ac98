package refcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"poi-api/internal/poi"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	pts   []poi.PointOfInterest
	err   error
}

func (s *countingSource) Load(ctx context.Context) ([]poi.PointOfInterest, error) {
	s.calls++
	return s.pts, s.err
}

func TestCachedSource_NilClientPassesThrough(t *testing.T) {
	src := &countingSource{pts: []poi.PointOfInterest{{Lat: 1, Lon: 2, Name: "A"}}}
	c := New(nil, src, "file", 0)

	pts, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.pts, pts)
	assert.Equal(t, 1, src.calls)
	assert.NoError(t, c.Invalidate(context.Background()))
	assert.Equal(t, "poi:refset:file", c.Key())
}

func TestCachedSource_UnreachableRedisFallsBack(t *testing.T) {
	rc := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rc.Close()
	src := &countingSource{pts: []poi.PointOfInterest{{Lat: 0, Lon: 0, Name: "A"}, {Lat: 10, Lon: 10, Name: "B"}}}
	c := New(rc, src, "file", time.Minute)

	pts, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.pts, pts)
	assert.Equal(t, 1, src.calls)
}

func TestCachedSource_PropagatesLoadError(t *testing.T) {
	loadErr := &poi.LoadError{Source: "x", Err: errors.New("boom")}
	src := &countingSource{err: loadErr}
	c := New(nil, src, "file", 0)

	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, poi.ErrLoad)
}
