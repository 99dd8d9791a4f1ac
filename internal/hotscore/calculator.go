// Package hotscore ranks short links by how likely they are to be requested
// soon. Scoring is a pure function of the metrics passed in.
package hotscore

import (
	"errors"
	"fmt"
	"math"
	"time"

	"shortlink/internal/domain/models"
)

var (
	ErrInvalidMetrics = errors.New("invalid link access metrics")
	ErrInvalidWeights = errors.New("invalid hot score weights")
	ErrInvalidConfig  = errors.New("invalid hot score config")
)

// Weights of the five components. They must be non-negative and sum to 1.
type Weights struct {
	AccessFrequency  float64 `yaml:"access_frequency"`
	Timeliness       float64 `yaml:"timeliness"`
	Trend            float64 `yaml:"trend"`
	UserDistribution float64 `yaml:"user_distribution"`
	Geographic       float64 `yaml:"geographic"`
}

func DefaultWeights() Weights {
	return Weights{
		AccessFrequency:  0.30,
		Timeliness:       0.25,
		Trend:            0.20,
		UserDistribution: 0.15,
		Geographic:       0.10,
	}
}

func (w Weights) Validate() error {
	parts := []float64{w.AccessFrequency, w.Timeliness, w.Trend, w.UserDistribution, w.Geographic}
	sum := 0.0
	for _, p := range parts {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

type Config struct {
	Weights Weights
	// FreshWindow is how long after the last access timeliness stays at 100.
	FreshWindow time.Duration
	// StaleHorizon is the idle time at which timeliness reaches 0.
	StaleHorizon time.Duration
}

func DefaultConfig() Config {
	return Config{
		Weights:      DefaultWeights(),
		FreshWindow:  time.Hour,
		StaleHorizon: 7 * 24 * time.Hour,
	}
}

// HotDataScore is a point-in-time ranking of one link. It is never persisted.
type HotDataScore struct {
	ShortCode             string    `json:"short_code"`
	AccessFrequencyScore  float64   `json:"access_frequency_score"`
	TimelinessScore       float64   `json:"timeliness_score"`
	TrendScore            float64   `json:"trend_score"`
	UserDistributionScore float64   `json:"user_distribution_score"`
	GeographicScore       float64   `json:"geographic_score"`
	TotalScore            float64   `json:"total_score"`
	Level                 Level     `json:"hot_level"`
	CalculatedAt          time.Time `json:"calculated_at"`
}

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.FreshWindow < 0 || cfg.StaleHorizon <= cfg.FreshWindow {
		return nil, fmt.Errorf("%w: stale horizon %s must exceed fresh window %s",
			ErrInvalidConfig, cfg.StaleHorizon, cfg.FreshWindow)
	}
	return &Calculator{cfg: cfg}, nil
}

// Score computes the composite score. It reads no clock: m.Now is the
// reference time, so identical metrics always give an identical score.
func (c *Calculator) Score(m models.LinkAccessMetrics) (HotDataScore, error) {
	if err := validateMetrics(m); err != nil {
		return HotDataScore{}, err
	}

	s := HotDataScore{
		ShortCode:             m.ShortCode,
		AccessFrequencyScore:  accessFrequencyScore(m),
		TimelinessScore:       c.timelinessScore(m),
		TrendScore:            trendScore(m),
		UserDistributionScore: userDistributionScore(m),
		GeographicScore:       geographicScore(m),
		CalculatedAt:          m.Now,
	}

	w := c.cfg.Weights
	total := w.AccessFrequency*s.AccessFrequencyScore +
		w.Timeliness*s.TimelinessScore +
		w.Trend*s.TrendScore +
		w.UserDistribution*s.UserDistributionScore +
		w.Geographic*s.GeographicScore

	s.TotalScore = clamp(total)
	s.Level = LevelForScore(s.TotalScore)
	return s, nil
}

func validateMetrics(m models.LinkAccessMetrics) error {
	switch {
	case m.ShortCode == "":
		return fmt.Errorf("%w: empty short code", ErrInvalidMetrics)
	case m.Now.IsZero():
		return fmt.Errorf("%w: %s: reference time missing", ErrInvalidMetrics, m.ShortCode)
	case m.CreatedAt.IsZero():
		return fmt.Errorf("%w: %s: creation time missing", ErrInvalidMetrics, m.ShortCode)
	case m.TotalClicks < 0, m.RecentClicks < 0, m.UniqueUsers < 0, m.UniqueIPs < 0, m.UniqueRegions < 0:
		return fmt.Errorf("%w: %s: negative counter", ErrInvalidMetrics, m.ShortCode)
	}
	return nil
}

// accessFrequencyScore: 100k lifetime clicks or 10k clicks in 24h saturate
// their half; recent traffic weighs more than lifetime traffic.
func accessFrequencyScore(m models.LinkAccessMetrics) float64 {
	lifetime := clamp(20 * math.Log10(1+float64(m.TotalClicks)))
	recent := clamp(25 * math.Log10(1+float64(m.RecentClicks)))
	return clamp(0.4*lifetime + 0.6*recent)
}

func (c *Calculator) timelinessScore(m models.LinkAccessMetrics) float64 {
	if m.LastAccessAt == nil {
		return 0
	}

	idle := m.Now.Sub(*m.LastAccessAt)
	if idle <= c.cfg.FreshWindow {
		return 100
	}
	if idle >= c.cfg.StaleHorizon {
		return 0
	}

	decay := float64(idle-c.cfg.FreshWindow) / float64(c.cfg.StaleHorizon-c.cfg.FreshWindow)
	return clamp(100 * (1 - decay))
}

// trendScore compares the last 24h to the lifetime daily average: a steady
// link scores 50, four times its average or more scores 100.
func trendScore(m models.LinkAccessMetrics) float64 {
	if m.TotalClicks == 0 || m.RecentClicks == 0 {
		return 0
	}

	recent := math.Min(float64(m.RecentClicks), float64(m.TotalClicks))
	ageDays := m.Now.Sub(m.CreatedAt).Hours() / 24
	if ageDays <= 1 {
		// no lifetime baseline yet, use the share of traffic that is recent
		return clamp(100 * recent / float64(m.TotalClicks))
	}

	ratio := recent / (float64(m.TotalClicks) / ageDays)
	switch {
	case ratio <= 1:
		return clamp(50 * ratio)
	case ratio >= 4:
		return 100
	default:
		return clamp(50 + 50*(ratio-1)/3)
	}
}

// userDistributionScore rewards many distinct users and penalises traffic
// dominated by a few repeat visitors.
func userDistributionScore(m models.LinkAccessMetrics) float64 {
	if m.TotalClicks == 0 || m.UniqueUsers == 0 {
		return 0
	}

	reach := clamp(25 * math.Log10(1+float64(m.UniqueUsers)))
	diversity := math.Min(1, float64(m.UniqueUsers)/float64(m.TotalClicks))
	return clamp(reach * (0.5 + 0.5*diversity))
}

// geographicScore uses distinct regions when geo data exists, otherwise
// distinct IPs capped at 60.
func geographicScore(m models.LinkAccessMetrics) float64 {
	if m.UniqueRegions > 0 {
		return clamp(40 * math.Log10(1+float64(m.UniqueRegions)))
	}
	if m.UniqueIPs > 0 {
		return math.Min(60, 20*math.Log10(1+float64(m.UniqueIPs)))
	}
	return 0
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
