package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pt(ms int64, temp int) Point {
	return Point{
		Timestamp:         time.UnixMilli(ms).UTC(),
		TemperatureTenths: temp,
		HumidityTenths:    500,
	}
}

func timestamps(points []Point) []int64 {
	out := make([]int64, len(points))
	for i, p := range points {
		out[i] = p.Timestamp.UnixMilli()
	}
	return out
}

func TestMerge_OrdersAndDedupes(t *testing.T) {
	batch := []Point{pt(100, 380), pt(200, 385), pt(300, 390)}
	live := []Point{pt(250, 388)}

	merged := Merge(batch, live, 50)

	assert.Equal(t, []int64{100, 200, 250, 300}, timestamps(merged))
}

func TestMerge_Idempotent(t *testing.T) {
	batch := []Point{pt(300, 390), pt(100, 380), pt(200, 385)}
	live := []Point{pt(250, 388), pt(150, 382)}

	once := Merge(batch, live, 50)
	twice := Merge(once, nil, 50)

	assert.Equal(t, once, twice)
}

func TestMerge_FirstOccurrenceWins(t *testing.T) {
	// A batch entry and a live entry share a timestamp; the batch one is
	// kept.
	batch := []Point{pt(100, 380)}
	live := []Point{{Timestamp: time.UnixMilli(100).UTC(), TemperatureTenths: 999, HumidityTenths: 999}}

	merged := Merge(batch, live, 50)

	assert.Len(t, merged, 1)
	assert.Equal(t, 380, merged[0].TemperatureTenths)
}

func TestMerge_NoDuplicateTimestamps(t *testing.T) {
	var batch, live []Point
	for i := int64(0); i < 30; i++ {
		batch = append(batch, pt(i*100, 380))
		live = append(live, pt(i*100, 385))
		live = append(live, pt(i*100+50, 386))
	}

	merged := Merge(batch, live, 100)

	seen := make(map[int64]bool)
	for _, p := range merged {
		ms := p.Timestamp.UnixMilli()
		assert.False(t, seen[ms], "duplicate timestamp %d", ms)
		seen[ms] = true
	}
}

func TestMerge_Monotonic(t *testing.T) {
	batch := []Point{pt(500, 1), pt(100, 2), pt(900, 3)}
	live := []Point{pt(700, 4), pt(300, 5), pt(200, 6)}

	merged := Merge(batch, live, 50)

	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].Timestamp.Before(merged[i-1].Timestamp),
			"timestamps must be non-decreasing")
	}
}

func TestMerge_BoundAndKeepsNewest(t *testing.T) {
	var batch []Point
	for i := int64(0); i < 80; i++ {
		batch = append(batch, pt(i*1000, 380))
	}

	merged := Merge(batch, nil, 50)

	assert.Len(t, merged, 50)
	// Truncation drops the oldest entries.
	assert.Equal(t, int64(30*1000), merged[0].Timestamp.UnixMilli())
	assert.Equal(t, int64(79*1000), merged[len(merged)-1].Timestamp.UnixMilli())
}

func TestMerge_EmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, 50))
	assert.Equal(t, []int64{100}, timestamps(Merge([]Point{pt(100, 380)}, nil, 50)))
	assert.Equal(t, []int64{100}, timestamps(Merge(nil, []Point{pt(100, 380)}, 50)))
}

func TestHub_CapsWindowAtInsertion(t *testing.T) {
	hub := NewHub(3)

	for i := int64(1); i <= 5; i++ {
		hub.Append(7, pt(i*100, 380))
	}

	live := hub.Live(7)
	assert.Equal(t, []int64{300, 400, 500}, timestamps(live))
}

func TestHub_RoomsAreIndependent(t *testing.T) {
	hub := NewHub(10)
	hub.Append(1, pt(100, 380))
	hub.Append(2, pt(200, 390))

	assert.Equal(t, []int64{100}, timestamps(hub.Live(1)))
	assert.Equal(t, []int64{200}, timestamps(hub.Live(2)))
	assert.Empty(t, hub.Live(3))
}

func TestHub_Reset(t *testing.T) {
	hub := NewHub(10)
	hub.Append(1, pt(100, 380))
	hub.Reset()
	assert.Empty(t, hub.Live(1))
}
