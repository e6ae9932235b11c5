package domain

import "time"

// Band is one of the three fixed ranges used to bucket average scores
// on the distribution chart.
type Band string

const (
	BandBelow  Band = "Abaixo de 5"
	BandMiddle Band = "Entre 5 e 7"
	BandAbove  Band = "Acima de 7"
)

// BandFor buckets an average score. The boundaries are closed on the
// middle band: exactly 5.0 and exactly 7.0 both fall in "Entre 5 e 7".
func BandFor(average float64) Band {
	switch {
	case average < 5:
		return BandBelow
	case average <= 7:
		return BandMiddle
	default:
		return BandAbove
	}
}

type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ScoreA    float64   `json:"score_a"`
	ScoreB    float64   `json:"score_b"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Student) Average() float64 {
	return (s.ScoreA + s.ScoreB) / 2
}

// ScoreEntry is one labeled value of the per-student bar chart.
type ScoreEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BandDistribution counts students per band. Order is fixed: below, middle, above.
type BandDistribution struct {
	Below  int `json:"below_5"`
	Middle int `json:"between_5_and_7"`
	Above  int `json:"above_7"`
}

// ClassStatistics is the dashboard aggregate over all registered students.
type ClassStatistics struct {
	Count        int              `json:"count"`
	Mean         float64          `json:"mean"`
	Averages     []ScoreEntry     `json:"averages"`
	Distribution BandDistribution `json:"distribution"`
}

// StatisticsFor derives the dashboard aggregates from a student list,
// preserving insertion order in the averages.
func StatisticsFor(students []Student) ClassStatistics {
	stats := ClassStatistics{
		Averages: make([]ScoreEntry, 0, len(students)),
	}
	var sum float64
	for _, s := range students {
		avg := s.Average()
		sum += avg
		stats.Averages = append(stats.Averages, ScoreEntry{Label: s.Name, Value: avg})
		switch BandFor(avg) {
		case BandBelow:
			stats.Distribution.Below++
		case BandMiddle:
			stats.Distribution.Middle++
		default:
			stats.Distribution.Above++
		}
	}
	stats.Count = len(students)
	if stats.Count > 0 {
		stats.Mean = sum / float64(stats.Count)
	}
	return stats
}
