package ipfire

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// NoRate is the sentinel reported when no rate could be computed this tick:
// first sample after construction, empty body, or zero elapsed time. It is
// distinct from a genuine zero-throughput rate.
const NoRate = -1

// Rate is one throughput sample. Down and Up are kilobytes per millisecond
// of elapsed wall-clock time; callers apply their own display scaling.
// TotalDownKB/TotalUpKB carry the raw cumulative counters (0 when no sample
// was obtained).
type Rate struct {
	Down float64 `json:"down"`
	Up   float64 `json:"up"`

	TotalDownKB int64 `json:"total_down_kb"`
	TotalUpKB   int64 `json:"total_up_kb"`
}

// Unavailable reports whether this sample carries the sentinel instead of a
// computed rate.
func (r Rate) Unavailable() bool {
	return r.Down == NoRate || r.Up == NoRate
}

// Fetcher produces one raw speed.cgi body per call. *Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Provider turns successive cumulative counter samples into throughput
// rates. It keeps the last valid counters and timestamp as its baseline;
// the baseline only moves on a syntactically valid sample, so a failed poll
// never corrupts the reference point for the next one.
//
// A mutex serializes the read-modify-write of the baseline. The caller is
// still expected to poll sequentially; the lock just keeps an accidental
// overlap from racing.
type Provider struct {
	fetcher Fetcher
	clock   clock.Clock

	mu              sync.Mutex
	lastRefresh     time.Time
	lastTotalDownKB int64
	lastTotalUpKB   int64
}

// NewProvider builds a Provider around a fetcher. A nil clk falls back to
// the wall clock; tests inject a mock to control elapsed time.
func NewProvider(fetcher Fetcher, clk clock.Clock) *Provider {
	if clk == nil {
		clk = clock.New()
	}
	return &Provider{
		fetcher:     fetcher,
		clock:       clk,
		lastRefresh: clk.Now(),
	}
}

// Sample runs one poll: fetch, extract, derive. The returned error is one
// of the package sentinels (ErrAuthRequired, ErrUnavailable, ErrBadPayload)
// or nil; every error path returns the sentinel rate and leaves the stored
// baseline untouched. An empty body is not an error, just a tick with no
// data.
//
// The very first valid sample always yields the sentinel rate: there is no
// baseline to compare against until the stored counters are nonzero.
// Counters that decreased (router reboot) produce a negative rate.
func (p *Provider) Sample(ctx context.Context) (Rate, error) {
	none := Rate{Down: NoRate, Up: NoRate}

	body, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return none, err
	}
	if body == "" {
		return none, nil
	}

	downKB, upKB, err := parseSpeedReport(body)
	if err != nil {
		return none, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	elapsedMS := now.Sub(p.lastRefresh).Milliseconds()

	rate := Rate{
		Down:        NoRate,
		Up:          NoRate,
		TotalDownKB: downKB,
		TotalUpKB:   upKB,
	}

	// elapsedMS == 0 would divide by zero; report no rate this tick
	// instead.
	if elapsedMS > 0 && p.lastTotalDownKB != 0 && p.lastTotalUpKB != 0 {
		rate.Down = float64(downKB-p.lastTotalDownKB) / float64(elapsedMS)
		rate.Up = float64(upKB-p.lastTotalUpKB) / float64(elapsedMS)
	}

	p.lastRefresh = now
	p.lastTotalDownKB = downKB
	p.lastTotalUpKB = upKB

	return rate, nil
}
