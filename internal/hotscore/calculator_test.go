package hotscore

import (
	"testing"
	"time"

	"shortlink/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(DefaultConfig())
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T {
	return &v
}

func hotMetrics() models.LinkAccessMetrics {
	return models.LinkAccessMetrics{
		ShortCode:     "hot0001",
		TotalClicks:   100_000,
		RecentClicks:  10_000,
		UniqueUsers:   10_000,
		UniqueIPs:     12_000,
		UniqueRegions: 316,
		CreatedAt:     refTime.Add(-10 * 24 * time.Hour),
		LastAccessAt:  ptr(refTime.Add(-time.Minute)),
		Now:           refTime,
	}
}

func coldMetrics() models.LinkAccessMetrics {
	return models.LinkAccessMetrics{
		ShortCode:    "cold001",
		TotalClicks:  3,
		UniqueUsers:  1,
		UniqueIPs:    1,
		CreatedAt:    refTime.Add(-60 * 24 * time.Hour),
		LastAccessAt: ptr(refTime.Add(-30 * 24 * time.Hour)),
		Now:          refTime,
	}
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{name: "default", weights: DefaultWeights()},
		{name: "equal", weights: Weights{0.2, 0.2, 0.2, 0.2, 0.2}},
		{name: "single component", weights: Weights{AccessFrequency: 1}},
		{name: "sum below one", weights: Weights{0.2, 0.2, 0.2, 0.2, 0.1}, wantErr: true},
		{name: "negative", weights: Weights{1.2, -0.2, 0, 0, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeights)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewCalculator_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StaleHorizon = cfg.FreshWindow
	_, err := NewCalculator(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Weights.Trend = 0.5
	_, err = NewCalculator(cfg)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestCalculator_Score_IsPure(t *testing.T) {
	c := newCalculator(t)

	for _, m := range []models.LinkAccessMetrics{hotMetrics(), coldMetrics()} {
		first, err := c.Score(m)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := c.Score(m)
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
	}
}

func TestCalculator_Score_HotLink(t *testing.T) {
	c := newCalculator(t)

	s, err := c.Score(hotMetrics())
	require.NoError(t, err)

	assert.Equal(t, "hot0001", s.ShortCode)
	assert.InDelta(t, 100, s.AccessFrequencyScore, 0.01)
	assert.Equal(t, 100.0, s.TimelinessScore)
	assert.InDelta(t, 50, s.TrendScore, 0.01)
	assert.InDelta(t, 55, s.UserDistributionScore, 0.01)
	assert.InDelta(t, 100, s.GeographicScore, 0.1)
	assert.InDelta(t, 83.25, s.TotalScore, 0.1)
	assert.Equal(t, LevelHot, s.Level)
	assert.Equal(t, refTime, s.CalculatedAt)
}

func TestCalculator_Score_ColdLink(t *testing.T) {
	c := newCalculator(t)

	s, err := c.Score(coldMetrics())
	require.NoError(t, err)

	assert.Zero(t, s.TimelinessScore)
	assert.Zero(t, s.TrendScore)
	assert.Less(t, s.TotalScore, 30.0)
	assert.Equal(t, LevelCold, s.Level)
}

func TestCalculator_Score_TotalStaysInRange(t *testing.T) {
	c := newCalculator(t)

	m := hotMetrics()
	m.TotalClicks = 1 << 50
	m.RecentClicks = 1 << 49
	m.UniqueUsers = 1 << 50
	m.UniqueRegions = 1 << 20

	s, err := c.Score(m)
	require.NoError(t, err)
	assert.LessOrEqual(t, s.TotalScore, 100.0)
	assert.GreaterOrEqual(t, s.TotalScore, 0.0)
	for _, part := range []float64{s.AccessFrequencyScore, s.TimelinessScore, s.TrendScore, s.UserDistributionScore, s.GeographicScore} {
		assert.LessOrEqual(t, part, 100.0)
		assert.GreaterOrEqual(t, part, 0.0)
	}
}

func TestCalculator_TimelinessDecay(t *testing.T) {
	c := newCalculator(t)
	cfg := DefaultConfig()

	tests := []struct {
		name string
		last *time.Time
		want float64
	}{
		{name: "never accessed", last: nil, want: 0},
		{name: "just now", last: ptr(refTime), want: 100},
		{name: "edge of fresh window", last: ptr(refTime.Add(-cfg.FreshWindow)), want: 100},
		{name: "halfway", last: ptr(refTime.Add(-cfg.FreshWindow - (cfg.StaleHorizon-cfg.FreshWindow)/2)), want: 50},
		{name: "at horizon", last: ptr(refTime.Add(-cfg.StaleHorizon)), want: 0},
		{name: "beyond horizon", last: ptr(refTime.Add(-30 * 24 * time.Hour)), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := coldMetrics()
			m.LastAccessAt = tt.last
			s, err := c.Score(m)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, s.TimelinessScore, 0.01)
		})
	}
}

func TestCalculator_Trend(t *testing.T) {
	c := newCalculator(t)

	tests := []struct {
		name   string
		age    time.Duration
		total  int64
		recent int64
		want   float64
	}{
		{name: "no traffic", age: 10 * 24 * time.Hour, total: 0, recent: 0, want: 0},
		{name: "nothing recent", age: 10 * 24 * time.Hour, total: 100, recent: 0, want: 0},
		{name: "below average", age: 10 * 24 * time.Hour, total: 100, recent: 5, want: 25},
		{name: "steady", age: 10 * 24 * time.Hour, total: 100, recent: 10, want: 50},
		{name: "rising", age: 10 * 24 * time.Hour, total: 100, recent: 25, want: 75},
		{name: "spiking", age: 10 * 24 * time.Hour, total: 100, recent: 40, want: 100},
		{name: "young, all recent", age: 12 * time.Hour, total: 10, recent: 10, want: 100},
		{name: "young, half recent", age: 12 * time.Hour, total: 10, recent: 5, want: 50},
		{name: "recent above total is capped", age: 12 * time.Hour, total: 10, recent: 20, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := models.LinkAccessMetrics{
				ShortCode:    "trend01",
				TotalClicks:  tt.total,
				RecentClicks: tt.recent,
				CreatedAt:    refTime.Add(-tt.age),
				Now:          refTime,
			}
			s, err := c.Score(m)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, s.TrendScore, 0.01)
		})
	}
}

func TestCalculator_ReachBeatsRepeatTraffic(t *testing.T) {
	c := newCalculator(t)

	broad := coldMetrics()
	broad.TotalClicks = 1000
	broad.UniqueUsers = 900
	broad.UniqueIPs = 900
	broad.UniqueRegions = 40

	narrow := broad
	narrow.UniqueUsers = 2
	narrow.UniqueIPs = 2
	narrow.UniqueRegions = 1

	b, err := c.Score(broad)
	require.NoError(t, err)
	n, err := c.Score(narrow)
	require.NoError(t, err)

	assert.Greater(t, b.UserDistributionScore, n.UserDistributionScore)
	assert.Greater(t, b.GeographicScore, n.GeographicScore)
	assert.Greater(t, b.TotalScore, n.TotalScore)
}

func TestCalculator_GeographicFallsBackToIPs(t *testing.T) {
	c := newCalculator(t)

	m := coldMetrics()
	m.UniqueRegions = 0
	m.UniqueIPs = 1_000_000

	s, err := c.Score(m)
	require.NoError(t, err)
	assert.Equal(t, 60.0, s.GeographicScore)
}

func TestCalculator_Score_InvalidMetrics(t *testing.T) {
	c := newCalculator(t)

	tests := []struct {
		name   string
		mutate func(*models.LinkAccessMetrics)
	}{
		{name: "empty code", mutate: func(m *models.LinkAccessMetrics) { m.ShortCode = "" }},
		{name: "no reference time", mutate: func(m *models.LinkAccessMetrics) { m.Now = time.Time{} }},
		{name: "no creation time", mutate: func(m *models.LinkAccessMetrics) { m.CreatedAt = time.Time{} }},
		{name: "negative clicks", mutate: func(m *models.LinkAccessMetrics) { m.TotalClicks = -1 }},
		{name: "negative users", mutate: func(m *models.LinkAccessMetrics) { m.UniqueUsers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := hotMetrics()
			tt.mutate(&m)
			_, err := c.Score(m)
			assert.ErrorIs(t, err, ErrInvalidMetrics)
		})
	}
}
