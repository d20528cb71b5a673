package core

import (
	"context"
	"time"

	"github.com/pietervz/ipfire-tray/internal/ipfire"
	"github.com/pietervz/ipfire-tray/internal/logger"
)

// Scheduler serializes polls: the next tick only fires after the previous
// sample call returned, so there is never more than one request in flight.
type Scheduler struct {
	interval time.Duration
	log      logger.Logger
	sample   func(context.Context) (ipfire.Rate, error)
	sink     func(ipfire.Rate)
}

func NewScheduler(interval time.Duration, log logger.Logger, sample func(context.Context) (ipfire.Rate, error), sink func(ipfire.Rate)) *Scheduler {
	return &Scheduler{interval: interval, log: log, sample: sample, sink: sink}
}

// Run polls immediately, then on every interval tick until the context is
// cancelled. A sample error (authorization failure) stops the loop and is
// returned.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.tick(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) error {
	rate, err := s.sample(ctx)
	if err != nil {
		return err
	}

	s.sink(rate)
	return nil
}
