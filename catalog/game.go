package catalog

import (
	"slices"
	"time"
)

// Genre is a gameplay category tag drawn from a fixed set.
type Genre string

const (
	GenreAction     Genre = "Action"
	GenreAdventure  Genre = "Adventure"
	GenreRPG        Genre = "RPG"
	GenreShooter    Genre = "Shooter"
	GenreStrategy   Genre = "Strategy"
	GenreSimulation Genre = "Simulation"
	GenreRacing     Genre = "Racing"
	GenreSports     Genre = "Sports"
	GenreHorror     Genre = "Horror"
	GenreIndie      Genre = "Indie"
)

// Selector values meaning "no restriction".
const (
	AllGenres   = "All genres"
	AllQuarters = "All quarters"
)

// UnspecifiedQuarter is reported for a release month no quarter covers.
const UnspecifiedQuarter = "Unspecified"

var genres = []Genre{
	GenreAction,
	GenreAdventure,
	GenreRPG,
	GenreShooter,
	GenreStrategy,
	GenreSimulation,
	GenreRacing,
	GenreSports,
	GenreHorror,
	GenreIndie,
}

// Genres returns the genre enumeration in display order.
func Genres() []Genre {
	return slices.Clone(genres)
}

// IsGenre reports whether s names a genre of the enumeration.
func IsGenre(s string) bool {
	return slices.Contains(genres, Genre(s))
}

// Highlight is a short titled selling point shown on a game card.
type Highlight struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Game is a single upcoming release.
type Game struct {
	Title       string      `json:"title"`
	Developer   string      `json:"developer"`
	ReleaseDate time.Time   `json:"releaseDate"`
	Platforms   []string    `json:"platforms"`
	Genres      []Genre     `json:"genres"`
	HypeScore   int         `json:"hypeScore"`
	Summary     string      `json:"summary"`
	Highlights  []Highlight `json:"highlights"`
	Website     string      `json:"website,omitempty"`
	TrailerURL  string      `json:"trailerUrl,omitempty"`
}

// HasGenre reports whether the game is tagged with genre.
func (g Game) HasGenre(genre Genre) bool {
	return slices.Contains(g.Genres, genre)
}

// clone deep-copies the slices so callers cannot reach the shared dataset.
func (g Game) clone() Game {
	g.Platforms = slices.Clone(g.Platforms)
	g.Genres = slices.Clone(g.Genres)
	g.Highlights = slices.Clone(g.Highlights)
	return g
}

// Quarter groups release months. Months holds zero-based month indices (0 = January).
type Quarter struct {
	Label  string `json:"label"`
	Months []int  `json:"months"`
}

// Contains reports whether the calendar month m falls in the quarter.
func (q Quarter) Contains(m time.Month) bool {
	return slices.Contains(q.Months, int(m)-1)
}

var quarters = []Quarter{
	{Label: "Q1 2026", Months: []int{0, 1, 2}},
	{Label: "Q2 2026", Months: []int{3, 4, 5}},
	{Label: "Q3 2026", Months: []int{6, 7, 8}},
	{Label: "Q4 2026", Months: []int{9, 10, 11}},
}

// Quarters returns the fixed quarter list in calendar order.
func Quarters() []Quarter {
	out := make([]Quarter, len(quarters))
	for i, q := range quarters {
		out[i] = Quarter{Label: q.Label, Months: slices.Clone(q.Months)}
	}
	return out
}

// IsQuarter reports whether s is the label of a quarter in the fixed list.
func IsQuarter(s string) bool {
	return slices.ContainsFunc(quarters, func(q Quarter) bool { return q.Label == s })
}
