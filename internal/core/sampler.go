// Package core owns the poll loop: one sampler deciding what each poll
// outcome means for the daemon, and one scheduler driving it.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/pietervz/ipfire-tray/internal/ipfire"
	"github.com/pietervz/ipfire-tray/internal/logger"
	"github.com/pietervz/ipfire-tray/internal/telemetry"
)

// RateProvider is implemented by *ipfire.Provider.
type RateProvider interface {
	Sample(ctx context.Context) (ipfire.Rate, error)
}

// Sampler wraps the provider with the daemon's propagation policy:
// transient and payload failures are logged and degrade to a sentinel rate,
// only an authorization failure is returned to the caller. Every outcome is
// recorded in telemetry.
type Sampler struct {
	provider RateProvider
	metrics  *telemetry.Metrics
	log      logger.Logger
}

func NewSampler(provider RateProvider, metrics *telemetry.Metrics, log logger.Logger) *Sampler {
	return &Sampler{
		provider: provider,
		metrics:  metrics,
		log:      log,
	}
}

func (s *Sampler) Sample(ctx context.Context) (ipfire.Rate, error) {
	start := time.Now()
	rate, err := s.provider.Sample(ctx)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, ipfire.ErrAuthRequired):
		s.metrics.ObservePoll(telemetry.OutcomeAuthFailed, elapsed)
		return rate, err

	case errors.Is(err, ipfire.ErrBadPayload):
		s.metrics.ObservePoll(telemetry.OutcomeBadPayload, elapsed)
		s.log.Warn("poll: malformed speed report", "error", err)
		return rate, nil

	case err != nil:
		s.metrics.ObservePoll(telemetry.OutcomeUnavailable, elapsed)
		s.log.Warn("poll: router unavailable", "error", err)
		return rate, nil

	case rate.Unavailable():
		s.metrics.ObservePoll(telemetry.OutcomeNoData, elapsed)
		s.log.Debug("poll: no rate this tick", "total_down_kb", rate.TotalDownKB, "total_up_kb", rate.TotalUpKB)
		return rate, nil

	default:
		s.metrics.ObservePoll(telemetry.OutcomeOK, elapsed)
		return rate, nil
	}
}
