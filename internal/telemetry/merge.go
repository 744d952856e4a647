// Package telemetry combines polled and pushed sensor readings into one
// ordered, deduplicated, bounded series per room.
package telemetry

import (
	"sort"
	"time"
)

// DefaultWindowSize is the chart window used when none is configured.
const DefaultWindowSize = 50

// Point is one chart sample. Temperature and humidity are fixed-point tenths.
type Point struct {
	Timestamp         time.Time `json:"timestamp"`
	TemperatureTenths int       `json:"temperatureTenths"`
	HumidityTenths    int       `json:"humidityTenths"`
}

// Merge combines a historical batch with live-pushed points into a single
// series: ascending by timestamp, at most one point per timestamp, truncated
// to the most recent n points. Batch entries win over live entries at the
// same timestamp. Merge is pure; callers thread their own state through it.
func Merge(batch, live []Point, n int) []Point {
	if n <= 0 {
		n = DefaultWindowSize
	}

	combined := make([]Point, 0, len(batch)+len(live))
	combined = append(combined, batch...)
	combined = append(combined, live...)

	// Stable sort keeps batch ahead of live among equal timestamps, so the
	// first occurrence that dedup keeps is the batch one.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Timestamp.Before(combined[j].Timestamp)
	})

	deduped := combined[:0]
	for _, p := range combined {
		if len(deduped) > 0 && deduped[len(deduped)-1].Timestamp.Equal(p.Timestamp) {
			continue
		}
		deduped = append(deduped, p)
	}

	if len(deduped) > n {
		deduped = deduped[len(deduped)-n:]
	}

	out := make([]Point, len(deduped))
	copy(out, deduped)
	return out
}
