package explorer

import (
	"math"
	"strconv"

	"game-pulse/catalog"
)

// Placeholder is shown for a statistic that is undefined on an empty view.
const Placeholder = "—"

// Stats summarises a filtered view.
type Stats struct {
	Count             int    `json:"count"`
	AverageHype       int    `json:"averageHype"`
	HasAverage        bool   `json:"hasAverage"`
	DistinctPlatforms int    `json:"distinctPlatforms"`
	TopQuarter        string `json:"topQuarter,omitempty"`
}

// Summarize computes count, rounded mean hype, distinct platform count and the
// most common quarter. On an empty slice the average and top quarter are
// left undefined.
func Summarize(games []catalog.Game) Stats {
	s := Stats{Count: len(games)}
	if len(games) == 0 {
		return s
	}

	total := 0
	platforms := make(map[string]struct{})
	counts := make(map[string]int)
	var order []string
	for _, g := range games {
		total += g.HypeScore
		for _, p := range g.Platforms {
			platforms[p] = struct{}{}
		}
		label := QuarterOf(g.ReleaseDate)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	s.AverageHype = int(math.Round(float64(total) / float64(len(games))))
	s.HasAverage = true
	s.DistinctPlatforms = len(platforms)

	// first encountered label wins a tie
	for _, label := range order {
		if s.TopQuarter == "" || counts[label] > counts[s.TopQuarter] {
			s.TopQuarter = label
		}
	}
	return s
}

// AverageLabel renders the average hype or the placeholder.
func (s Stats) AverageLabel() string {
	if !s.HasAverage {
		return Placeholder
	}
	return strconv.Itoa(s.AverageHype)
}

// PlatformsLabel renders the distinct platform count or the placeholder.
func (s Stats) PlatformsLabel() string {
	if s.Count == 0 {
		return Placeholder
	}
	return strconv.Itoa(s.DistinctPlatforms)
}

// TopQuarterLabel renders the most common quarter or the placeholder.
func (s Stats) TopQuarterLabel() string {
	if s.TopQuarter == "" {
		return Placeholder
	}
	return s.TopQuarter
}
