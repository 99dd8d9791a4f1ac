package hotscore

// Level is the discrete hotness class derived from a total score.
type Level string

const (
	LevelSuperHot Level = "SUPER_HOT"
	LevelHot      Level = "HOT"
	LevelWarm     Level = "WARM"
	LevelNormal   Level = "NORMAL"
	LevelCold     Level = "COLD"
)

// Band covers [Min, Max). The top band also includes Max.
type Band struct {
	Level Level
	Min   float64
	Max   float64
}

// Bands is ordered hottest first. Together the bands cover [0, 100] exactly once.
var Bands = []Band{
	{Level: LevelSuperHot, Min: 90, Max: 100},
	{Level: LevelHot, Min: 70, Max: 90},
	{Level: LevelWarm, Min: 50, Max: 70},
	{Level: LevelNormal, Min: 30, Max: 50},
	{Level: LevelCold, Min: 0, Max: 30},
}

// LevelForScore maps a total score to its band. Scores outside [0, 100],
// including NaN, are COLD.
func LevelForScore(score float64) Level {
	for i, b := range Bands {
		if score >= b.Min && (score < b.Max || (i == 0 && score == b.Max)) {
			return b.Level
		}
	}
	return LevelCold
}

// Rank orders levels for comparisons, higher is hotter.
func (l Level) Rank() int {
	for i, b := range Bands {
		if b.Level == l {
			return len(Bands) - i
		}
	}
	return 0
}
