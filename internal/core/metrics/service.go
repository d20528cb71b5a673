package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/pietervz/ipfire-tray/internal/domain"
	"github.com/pietervz/ipfire-tray/internal/ipfire"
	"github.com/pietervz/ipfire-tray/internal/logger"
	"github.com/pietervz/ipfire-tray/internal/storage/snapshot"
	"github.com/pietervz/ipfire-tray/internal/telemetry"
)

const (
	// KB per millisecond to KB per second. The core reports the literal
	// counter-delta arithmetic; this is the one place it gets scaled for
	// display.
	kbPerMSToKBs = 1000.0

	smoothingTau    = 10 * time.Second
	cleanupInterval = time.Hour
)

type Options struct {
	HistoryRetention time.Duration
	SampleRetention  time.Duration
	FlushInterval    time.Duration
	FlushBatchSize   int
}

// Service ingests poll rates and serves the dashboard's read side. Valid
// samples feed the latest-value snapshot, the smoothed rates, the in-memory
// history window and the persistence buffer; sentinel samples only publish
// an unavailable snapshot.
type Service struct {
	repo      domain.ThroughputRepository
	store     *snapshot.ThroughputStore
	telemetry *telemetry.Metrics
	log       logger.Logger
	opts      Options

	mu      sync.Mutex
	downEMA *EMA
	upEMA   *EMA
	history []domain.ThroughputPoint
	buffer  []domain.ThroughputSample

	flushMu sync.Mutex
}

func NewService(repo domain.ThroughputRepository, store *snapshot.ThroughputStore, tel *telemetry.Metrics, log logger.Logger, opts Options) *Service {
	if opts.HistoryRetention <= 0 {
		opts.HistoryRetention = 15 * time.Minute
	}
	if opts.SampleRetention <= 0 {
		opts.SampleRetention = 7 * 24 * time.Hour
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 15 * time.Second
	}
	if opts.FlushBatchSize <= 0 {
		opts.FlushBatchSize = 50
	}

	return &Service{
		repo:      repo,
		store:     store,
		telemetry: tel,
		log:       log,
		opts:      opts,
		downEMA:   NewEMA(smoothingTau),
		upEMA:     NewEMA(smoothingTau),
		buffer:    make([]domain.ThroughputSample, 0, opts.FlushBatchSize),
	}
}

// Ingest records one poll result and returns the snapshot it published.
func (s *Service) Ingest(rate ipfire.Rate) domain.ThroughputSnapshot {
	now := time.Now().UTC()

	if rate.Unavailable() {
		snap := domain.ThroughputSnapshot{
			Available:   false,
			TotalDownKB: rate.TotalDownKB,
			TotalUpKB:   rate.TotalUpKB,
			SampledAt:   now,
		}
		s.store.Set(snap)
		return snap
	}

	downKBs := rate.Down * kbPerMSToKBs
	upKBs := rate.Up * kbPerMSToKBs

	s.mu.Lock()
	snap := domain.ThroughputSnapshot{
		Available:     true,
		DownKBs:       downKBs,
		UpKBs:         upKBs,
		DownSmoothKBs: s.downEMA.Update(downKBs, now),
		UpSmoothKBs:   s.upEMA.Update(upKBs, now),
		TotalDownKB:   rate.TotalDownKB,
		TotalUpKB:     rate.TotalUpKB,
		SampledAt:     now,
	}

	s.history = append(s.history, domain.ThroughputPoint{
		DownKBs: downKBs,
		UpKBs:   upKBs,
		At:      now,
	})
	s.trimHistoryLocked(now)

	s.buffer = append(s.buffer, domain.ThroughputSample{
		DownKBs:     downKBs,
		UpKBs:       upKBs,
		TotalDownKB: rate.TotalDownKB,
		TotalUpKB:   rate.TotalUpKB,
		RecordedAt:  now,
	})
	bufferFull := len(s.buffer) >= s.opts.FlushBatchSize
	s.mu.Unlock()

	s.store.Set(snap)

	if s.telemetry != nil {
		s.telemetry.SetThroughput(downKBs, upKBs)
		s.telemetry.SetTotals(rate.TotalDownKB, rate.TotalUpKB)
	}

	if bufferFull {
		s.log.Debug("sample buffer full, flushing")
		go s.safeFlush()
	}

	return snap
}

// Latest returns the most recent snapshot, or ErrNoThroughput before the
// first poll completed.
func (s *Service) Latest() (domain.ThroughputSnapshot, error) {
	snap := s.store.Get()
	if snap.SampledAt.IsZero() {
		return domain.ThroughputSnapshot{}, domain.ErrNoThroughput
	}
	return snap, nil
}

// History returns a copy of the in-memory window, oldest first.
func (s *Service) History() []domain.ThroughputPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ThroughputPoint, len(s.history))
	copy(out, s.history)
	return out
}

// Flush writes the buffered samples to the repository. The buffer is put
// back on failure so samples are not lost to one bad write.
func (s *Service) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	batch := s.buffer
	s.buffer = make([]domain.ThroughputSample, 0, s.opts.FlushBatchSize)
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := s.repo.InsertSamples(ctx, batch); err != nil {
		s.mu.Lock()
		s.buffer = append(batch, s.buffer...)
		s.mu.Unlock()
		return err
	}

	s.log.Debug("flushed samples", "count", len(batch))
	return nil
}

// Run drives periodic flushing and retention cleanup until the context is
// cancelled, then flushes whatever is left.
func (s *Service) Run(ctx context.Context) error {
	flushTicker := time.NewTicker(s.opts.FlushInterval)
	cleanupTicker := time.NewTicker(cleanupInterval)
	defer flushTicker.Stop()
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Flush(flushCtx); err != nil {
				s.log.Error("final flush failed", "error", err)
			}
			return ctx.Err()

		case <-flushTicker.C:
			if err := s.Flush(ctx); err != nil {
				s.log.Error("flush failed", "error", err)
			}

		case <-cleanupTicker.C:
			cutoff := time.Now().UTC().Add(-s.opts.SampleRetention)
			deleted, err := s.repo.Cleanup(ctx, cutoff)
			if err != nil {
				s.log.Error("cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				s.log.Info("cleaned up old samples", "deleted", deleted, "cutoff", cutoff)
			}
		}
	}
}

func (s *Service) safeFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Flush(ctx); err != nil {
		s.log.Error("flush failed", "error", err)
	}
}

func (s *Service) trimHistoryLocked(now time.Time) {
	cutoff := now.Add(-s.opts.HistoryRetention)
	i := 0
	for ; i < len(s.history); i++ {
		if s.history[i].At.After(cutoff) {
			break
		}
	}
	if i > 0 {
		s.history = append(s.history[:0:0], s.history[i:]...)
	}
}
