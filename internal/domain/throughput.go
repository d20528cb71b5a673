package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNoThroughput = errors.New("no throughput recorded yet")

// ThroughputSnapshot is the latest derived state of the router link, served
// to dashboard clients. Rates are kilobytes per second. Available is false
// while no rate could be computed (warm-up, or the last poll failed).
type ThroughputSnapshot struct {
	Available bool `json:"available"`

	DownKBs float64 `json:"down_kbs"`
	UpKBs   float64 `json:"up_kbs"`

	DownSmoothKBs float64 `json:"down_smooth_kbs"`
	UpSmoothKBs   float64 `json:"up_smooth_kbs"`

	TotalDownKB int64 `json:"total_down_kb"`
	TotalUpKB   int64 `json:"total_up_kb"`

	SampledAt time.Time `json:"sampled_at"`
}

// ThroughputPoint is one entry of the in-memory history window.
type ThroughputPoint struct {
	DownKBs float64   `json:"down_kbs"`
	UpKBs   float64   `json:"up_kbs"`
	At      time.Time `json:"at"`
}

// ThroughputSample is one persisted row.
type ThroughputSample struct {
	ID          int64     `json:"id"`
	DownKBs     float64   `json:"down_kbs"`
	UpKBs       float64   `json:"up_kbs"`
	TotalDownKB int64     `json:"total_down_kb"`
	TotalUpKB   int64     `json:"total_up_kb"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type ThroughputRepository interface {
	InsertSamples(ctx context.Context, samples []ThroughputSample) error
	History(ctx context.Context, since time.Time) ([]ThroughputSample, error)
	Cleanup(ctx context.Context, cutoff time.Time) (int64, error)
}

// ThroughputService is the read side consumed by the dashboard transports.
type ThroughputService interface {
	Latest() (ThroughputSnapshot, error)
	History() []ThroughputPoint
}
