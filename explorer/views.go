package explorer

import (
	"slices"

	"game-pulse/catalog"
)

// QuarterGroup is one column of the release roadmap.
type QuarterGroup struct {
	Label string         `json:"label"`
	Games []catalog.Game `json:"games"`
}

// Roadmap buckets games by quarter, in the order of quarters. Games keep
// their dataset order inside a bucket and empty buckets are kept.
func Roadmap(games []catalog.Game, quarters []catalog.Quarter) []QuarterGroup {
	groups := make([]QuarterGroup, len(quarters))
	for i, q := range quarters {
		groups[i] = QuarterGroup{Label: q.Label, Games: []catalog.Game{}}
		for _, g := range games {
			if quarterIn(quarters, g.ReleaseDate) == q.Label {
				groups[i].Games = append(groups[i].Games, g)
			}
		}
	}
	return groups
}

// PlatformCount is the number of releases announced for a platform.
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// PlatformBalance counts platform occurrences across games, most common
// first. Equal counts keep the order in which platforms were first seen.
func PlatformBalance(games []catalog.Game) []PlatformCount {
	index := make(map[string]int)
	var out []PlatformCount
	for _, g := range games {
		for _, p := range g.Platforms {
			i, ok := index[p]
			if !ok {
				i = len(out)
				index[p] = i
				out = append(out, PlatformCount{Platform: p})
			}
			out[i].Count++
		}
	}
	slices.SortStableFunc(out, func(a, b PlatformCount) int {
		return b.Count - a.Count
	})
	return out
}

// TopHype returns up to n games with the highest hype score.
func TopHype(games []catalog.Game, n int) []catalog.Game {
	sorted := slices.Clone(games)
	sortByHype(sorted)
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Featured splits a filtered view into its top pick and the remaining games.
// ok is false when the view is empty.
func Featured(filtered []catalog.Game) (top catalog.Game, rest []catalog.Game, ok bool) {
	if len(filtered) == 0 {
		return catalog.Game{}, nil, false
	}
	return filtered[0], filtered[1:], true
}

// Result is everything the explorer panel shows for one set of criteria.
type Result struct {
	Criteria Criteria       `json:"criteria"`
	Games    []catalog.Game `json:"games"`
	Stats    Stats          `json:"stats"`
}

// Top returns the featured game, if any.
func (r Result) Top() (catalog.Game, bool) {
	top, _, ok := Featured(r.Games)
	return top, ok
}

// Others returns the games after the featured one.
func (r Result) Others() []catalog.Game {
	_, rest, _ := Featured(r.Games)
	return rest
}

// Empty reports whether no game matched.
func (r Result) Empty() bool {
	return len(r.Games) == 0
}

// Explore runs Filter and Summarize over games for c.
func Explore(games []catalog.Game, c Criteria) Result {
	filtered := Filter(games, c)
	return Result{
		Criteria: c.Normalize(),
		Games:    filtered,
		Stats:    Summarize(filtered),
	}
}
