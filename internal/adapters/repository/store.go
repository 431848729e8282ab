// Package repository keeps a short history of KPI totals.
package repository

import (
	"context"
	"maps"
	"time"
)

// Sample is one set of indicator totals recorded in the same cycle, so every
// value in a series lines up in time with the others.
type Sample struct {
	Values map[string]float64 `json:"values"`
	At     time.Time          `json:"at"`
}

// Store records KPI totals over time, grouped into named series.
type Store interface {
	// Append stores values unless they equal the series' last sample.
	// Returns true when a sample was written.
	Append(ctx context.Context, series string, values map[string]float64, at time.Time) (bool, error)

	// Series returns up to limit most recent samples, oldest first.
	Series(ctx context.Context, series string, limit int) ([]Sample, error)

	// Count returns the number of samples held across series.
	Count(ctx context.Context) int

	Close() error
}

// Values extracts one indicator from every sample, in order. A sample
// without the indicator contributes 0 so the result stays aligned.
func Values(samples []Sample, indicator string) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Values[indicator]
	}
	return out
}

func sameValues(a, b map[string]float64) bool { return maps.Equal(a, b) }
