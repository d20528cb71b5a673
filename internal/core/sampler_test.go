package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pietervz/ipfire-tray/internal/ipfire"
	"github.com/pietervz/ipfire-tray/internal/logger"
	"github.com/pietervz/ipfire-tray/internal/telemetry"
)

type stubProvider struct {
	rate ipfire.Rate
	err  error
}

func (p *stubProvider) Sample(ctx context.Context) (ipfire.Rate, error) {
	return p.rate, p.err
}

func TestSamplerSwallowsTransientFailure(t *testing.T) {
	s := NewSampler(
		&stubProvider{rate: ipfire.Rate{Down: ipfire.NoRate, Up: ipfire.NoRate}, err: ipfire.ErrUnavailable},
		telemetry.New(),
		logger.NewNop(),
	)

	rate, err := s.Sample(context.Background())
	require.NoError(t, err)
	require.True(t, rate.Unavailable())
}

func TestSamplerSwallowsBadPayload(t *testing.T) {
	s := NewSampler(
		&stubProvider{rate: ipfire.Rate{Down: ipfire.NoRate, Up: ipfire.NoRate}, err: ipfire.ErrBadPayload},
		telemetry.New(),
		logger.NewNop(),
	)

	rate, err := s.Sample(context.Background())
	require.NoError(t, err)
	require.True(t, rate.Unavailable())
}

func TestSamplerPropagatesAuthFailure(t *testing.T) {
	s := NewSampler(
		&stubProvider{rate: ipfire.Rate{Down: ipfire.NoRate, Up: ipfire.NoRate}, err: ipfire.ErrAuthRequired},
		telemetry.New(),
		logger.NewNop(),
	)

	_, err := s.Sample(context.Background())
	require.ErrorIs(t, err, ipfire.ErrAuthRequired)
}

func TestSamplerPassesThroughValidRate(t *testing.T) {
	want := ipfire.Rate{Down: 1.0, Up: 0.2, TotalDownKB: 3000, TotalUpKB: 900}
	s := NewSampler(&stubProvider{rate: want}, telemetry.New(), logger.NewNop())

	rate, err := s.Sample(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, rate)
}
