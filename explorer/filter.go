// Package explorer derives filtered views and summary statistics from the
// game catalog. Every function is pure: inputs are never mutated and the same
// inputs always produce the same output.
package explorer

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"game-pulse/catalog"
)

// Criteria selects which games appear in the explorer.
// An empty Genre or Quarter means "all", as do catalog.AllGenres and catalog.AllQuarters.
type Criteria struct {
	Genre   string `json:"genre"`
	Quarter string `json:"quarter"`
	Query   string `json:"query"`
}

// AllCriteria matches every game.
func AllCriteria() Criteria {
	return Criteria{Genre: catalog.AllGenres, Quarter: catalog.AllQuarters}
}

func (c Criteria) anyGenre() bool {
	return c.Genre == "" || c.Genre == catalog.AllGenres
}

func (c Criteria) anyQuarter() bool {
	return c.Quarter == "" || c.Quarter == catalog.AllQuarters
}

// Normalize fills empty selectors with their "all" values.
func (c Criteria) Normalize() Criteria {
	if c.anyGenre() {
		c.Genre = catalog.AllGenres
	}
	if c.anyQuarter() {
		c.Quarter = catalog.AllQuarters
	}
	return c
}

// Validate rejects selectors outside the genre and quarter enumerations.
func (c Criteria) Validate() error {
	if !c.anyGenre() && !catalog.IsGenre(c.Genre) {
		return fmt.Errorf("unknown genre %q", c.Genre)
	}
	if !c.anyQuarter() && !catalog.IsQuarter(c.Quarter) {
		return fmt.Errorf("unknown quarter %q", c.Quarter)
	}
	return nil
}

// QuarterOf returns the label of the quarter containing the UTC month of
// date, or catalog.UnspecifiedQuarter if none does.
func QuarterOf(date time.Time) string {
	return quarterIn(catalog.Quarters(), date)
}

func quarterIn(quarters []catalog.Quarter, date time.Time) string {
	month := date.UTC().Month()
	for _, q := range quarters {
		if q.Contains(month) {
			return q.Label
		}
	}
	return catalog.UnspecifiedQuarter
}

// Matches reports whether a single game passes all three criteria.
func (c Criteria) Matches(g catalog.Game) bool {
	if !c.anyGenre() && !g.HasGenre(catalog.Genre(c.Genre)) {
		return false
	}
	if !c.anyQuarter() && QuarterOf(g.ReleaseDate) != c.Quarter {
		return false
	}
	if strings.TrimSpace(c.Query) == "" {
		return true
	}
	q := strings.ToLower(c.Query)
	return strings.Contains(strings.ToLower(g.Title), q) ||
		strings.Contains(strings.ToLower(g.Summary), q)
}

// Filter returns the games matching c, ordered by descending hype score.
// Games with equal scores keep their relative input order.
func Filter(games []catalog.Game, c Criteria) []catalog.Game {
	out := make([]catalog.Game, 0, len(games))
	for _, g := range games {
		if c.Matches(g) {
			out = append(out, g)
		}
	}
	sortByHype(out)
	return out
}

func sortByHype(games []catalog.Game) {
	slices.SortStableFunc(games, func(a, b catalog.Game) int {
		return b.HypeScore - a.HypeScore
	})
}
