package hotscore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0, LevelCold},
		{29, LevelCold},
		{29.999, LevelCold},
		{30, LevelNormal},
		{49, LevelNormal},
		{49.999, LevelNormal},
		{50, LevelWarm},
		{69, LevelWarm},
		{70, LevelHot},
		{89, LevelHot},
		{89.999, LevelHot},
		{90, LevelSuperHot},
		{100, LevelSuperHot},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %v", tt.score)
	}
}

func TestLevelForScore_OutOfRangeIsCold(t *testing.T) {
	for _, score := range []float64{-0.001, -50, 100.001, 1e9, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, LevelCold, LevelForScore(score), "score %v", score)
	}
}

func TestBands_ContiguousAndExhaustive(t *testing.T) {
	assert.Equal(t, 100.0, Bands[0].Max)
	assert.Equal(t, 0.0, Bands[len(Bands)-1].Min)

	for i := 1; i < len(Bands); i++ {
		assert.Equal(t, Bands[i-1].Min, Bands[i].Max, "gap between %s and %s", Bands[i-1].Level, Bands[i].Level)
	}

	for _, b := range Bands {
		assert.Equal(t, b.Level, LevelForScore(b.Min), "lower edge of %s", b.Level)
		assert.Equal(t, b.Level, LevelForScore((b.Min+b.Max)/2), "middle of %s", b.Level)
	}

	// every hundredth in [0, 100] lands in exactly one band
	for i := 0; i <= 10000; i++ {
		score := float64(i) / 100
		matches := 0
		for j, b := range Bands {
			if score >= b.Min && (score < b.Max || (j == 0 && score == b.Max)) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "score %v", score)
	}
}

func TestLevel_Rank(t *testing.T) {
	assert.Greater(t, LevelSuperHot.Rank(), LevelHot.Rank())
	assert.Greater(t, LevelHot.Rank(), LevelWarm.Rank())
	assert.Greater(t, LevelWarm.Rank(), LevelNormal.Rank())
	assert.Greater(t, LevelNormal.Rank(), LevelCold.Rank())
	assert.Zero(t, Level("UNKNOWN").Rank())
}
