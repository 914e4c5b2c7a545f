package explorer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-pulse/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func game(title string, hype int, month time.Month, genres ...catalog.Genre) catalog.Game {
	return catalog.Game{
		Title:       title,
		Developer:   "Studio " + title,
		ReleaseDate: date(2026, month, 10),
		Platforms:   []string{"PC"},
		Genres:      genres,
		HypeScore:   hype,
		Summary:     "Summary of " + title,
	}
}

func titles(games []catalog.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Title
	}
	return out
}

func sampleGames() []catalog.Game {
	return []catalog.Game{
		game("A", 90, time.February, catalog.GenreRPG),
		game("B", 70, time.May, catalog.GenreAction),
		game("C", 95, time.January, catalog.GenreRPG),
	}
}

func TestFilterByGenreAndSummarize(t *testing.T) {
	filtered := Filter(sampleGames(), Criteria{Genre: "RPG"})
	assert.Equal(t, []string{"C", "A"}, titles(filtered))

	stats := Summarize(filtered)
	assert.Equal(t, 2, stats.Count)
	assert.True(t, stats.HasAverage)
	assert.Equal(t, 93, stats.AverageHype)
	assert.Equal(t, "Q1 2026", stats.TopQuarter)
	assert.Equal(t, 1, stats.DistinctPlatforms)
}

func TestFilterAllReturnsEverythingStableByHype(t *testing.T) {
	games := []catalog.Game{
		game("first-80", 80, time.March, catalog.GenreAction),
		game("top", 99, time.July, catalog.GenreRPG),
		game("second-80", 80, time.January, catalog.GenreIndie),
		game("low", 10, time.December, catalog.GenreSports),
		game("third-80", 80, time.October, catalog.GenreHorror),
	}

	got := titles(Filter(games, AllCriteria()))
	want := []string{"top", "first-80", "second-80", "third-80", "low"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
	}

	// zero value criteria behave like "all"
	assert.Equal(t, want, titles(Filter(games, Criteria{})))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	games := sampleGames()
	before := titles(games)
	_ = Filter(games, AllCriteria())
	assert.Equal(t, before, titles(games))
}

func TestFilterIsIdempotent(t *testing.T) {
	games := catalog.MustDefault().Games()
	cases := []Criteria{
		AllCriteria(),
		{Genre: "RPG"},
		{Quarter: "Q3 2026"},
		{Query: "co-op"},
		{Genre: "Action", Quarter: "Q4 2026", Query: "a"},
	}
	for _, c := range cases {
		once := Filter(games, c)
		twice := Filter(once, c)
		assert.Equal(t, titles(once), titles(twice), "criteria %+v", c)
	}
}

func TestFilterQueryIsCaseInsensitive(t *testing.T) {
	games := []catalog.Game{
		game("Dragonfall", 50, time.March, catalog.GenreRPG),
		game("Other", 40, time.March, catalog.GenreRPG),
	}
	for _, q := range []string{"drag", "DRAG", "Drag", "dRaGoNf"} {
		got := Filter(games, Criteria{Query: q})
		assert.Equal(t, []string{"Dragonfall"}, titles(got), "query %q", q)
	}
}

func TestFilterQueryMatchesSummary(t *testing.T) {
	games := []catalog.Game{game("Plain", 50, time.March, catalog.GenreRPG)}
	games[0].Summary = "A story about Dragons"
	assert.Len(t, Filter(games, Criteria{Query: "dragons"}), 1)
	assert.Empty(t, Filter(games, Criteria{Query: "wizards"}))
}

func TestFilterWhitespaceQueryMatchesAll(t *testing.T) {
	assert.Len(t, Filter(sampleGames(), Criteria{Query: "   \t"}), 3)
}

func TestFilterByQuarter(t *testing.T) {
	got := Filter(sampleGames(), Criteria{Quarter: "Q2 2026"})
	assert.Equal(t, []string{"B"}, titles(got))

	assert.Empty(t, Filter(sampleGames(), Criteria{Quarter: "Q4 2026"}))
}

func TestFilterCombinesCriteria(t *testing.T) {
	got := Filter(sampleGames(), Criteria{Genre: "RPG", Quarter: "Q1 2026", Query: "of a"})
	assert.Equal(t, []string{"A"}, titles(got))
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	assert.Equal(t, Stats{}, stats)
	assert.Equal(t, Placeholder, stats.AverageLabel())
	assert.Equal(t, Placeholder, stats.PlatformsLabel())
	assert.Equal(t, Placeholder, stats.TopQuarterLabel())
}

func TestSummarizeLabels(t *testing.T) {
	stats := Summarize(sampleGames())
	assert.Equal(t, "85", stats.AverageLabel())
	assert.Equal(t, "1", stats.PlatformsLabel())
	assert.Equal(t, "Q1 2026", stats.TopQuarterLabel())
}

func TestSummarizeRoundsHalfUp(t *testing.T) {
	games := []catalog.Game{
		game("x", 92, time.January, catalog.GenreRPG),
		game("y", 93, time.January, catalog.GenreRPG),
	}
	assert.Equal(t, 93, Summarize(games).AverageHype)
}

func TestSummarizeTopQuarterTieUsesFirstEncountered(t *testing.T) {
	games := []catalog.Game{
		game("q3", 90, time.August, catalog.GenreRPG),
		game("q1", 80, time.January, catalog.GenreRPG),
		game("q1b", 70, time.February, catalog.GenreRPG),
		game("q3b", 60, time.September, catalog.GenreRPG),
	}
	assert.Equal(t, "Q3 2026", Summarize(games).TopQuarter)
}

func TestSummarizeDistinctPlatforms(t *testing.T) {
	games := sampleGames()
	games[0].Platforms = []string{"PC", "PlayStation 5"}
	games[1].Platforms = []string{"PlayStation 5", "Nintendo Switch 2"}
	assert.Equal(t, 3, Summarize(games).DistinctPlatforms)
}

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{date(2026, time.January, 1), "Q1 2026"},
		{date(2026, time.March, 31), "Q1 2026"},
		{date(2026, time.April, 1), "Q2 2026"},
		{date(2026, time.September, 30), "Q3 2026"},
		{date(2026, time.December, 31), "Q4 2026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuarterOf(tt.date), tt.date.String())
	}
}

func TestQuarterOfUsesUTCMonth(t *testing.T) {
	// 1 April 01:00 in UTC+3 is still 31 March in UTC
	loc := time.FixedZone("UTC+3", 3*60*60)
	d := time.Date(2026, time.April, 1, 1, 0, 0, 0, loc)
	assert.Equal(t, "Q1 2026", QuarterOf(d))
}

func TestQuarterInFallsBackToUnspecified(t *testing.T) {
	partial := []catalog.Quarter{{Label: "Only January", Months: []int{0}}}
	assert.Equal(t, catalog.UnspecifiedQuarter, quarterIn(partial, date(2026, time.June, 1)))
}

func TestEveryCatalogGameHasExactlyOneQuarter(t *testing.T) {
	for _, g := range catalog.MustDefault().Games() {
		label := QuarterOf(g.ReleaseDate)
		assert.True(t, catalog.IsQuarter(label), "%s -> %s", g.Title, label)
	}
}

func TestRoadmap(t *testing.T) {
	games := []catalog.Game{
		game("jan", 10, time.January, catalog.GenreRPG),
		game("aug", 20, time.August, catalog.GenreRPG),
		game("feb", 90, time.February, catalog.GenreRPG),
	}
	groups := Roadmap(games, catalog.Quarters())
	require.Len(t, groups, 4)

	assert.Equal(t, "Q1 2026", groups[0].Label)
	assert.Equal(t, []string{"jan", "feb"}, titles(groups[0].Games))
	assert.Empty(t, groups[1].Games)
	assert.NotNil(t, groups[1].Games)
	assert.Equal(t, []string{"aug"}, titles(groups[2].Games))
	assert.Empty(t, groups[3].Games)
}

func TestRoadmapCoversWholeCatalog(t *testing.T) {
	c := catalog.MustDefault()
	total := 0
	for _, g := range Roadmap(c.Games(), catalog.Quarters()) {
		total += len(g.Games)
	}
	assert.Equal(t, c.Len(), total)
}

func TestPlatformBalance(t *testing.T) {
	games := sampleGames()
	games[0].Platforms = []string{"PC", "PlayStation 5"}
	games[1].Platforms = []string{"Nintendo Switch 2", "PlayStation 5"}
	games[2].Platforms = []string{"PlayStation 5", "PC", "Xbox Series X|S"}

	got := PlatformBalance(games)
	want := []PlatformCount{
		{Platform: "PlayStation 5", Count: 3},
		{Platform: "PC", Count: 2},
		{Platform: "Nintendo Switch 2", Count: 1},
		{Platform: "Xbox Series X|S", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PlatformBalance() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlatformBalanceSumsToPlatformListLengths(t *testing.T) {
	games := catalog.MustDefault().Games()
	want := 0
	for _, g := range games {
		want += len(g.Platforms)
	}

	got := 0
	for _, pc := range PlatformBalance(games) {
		got += pc.Count
	}
	assert.Equal(t, want, got)
}

func TestTopHype(t *testing.T) {
	games := sampleGames()
	assert.Equal(t, []string{"C", "A"}, titles(TopHype(games, 2)))
	assert.Len(t, TopHype(games, 10), 3)
	assert.Empty(t, TopHype(games, 0))
	assert.Empty(t, TopHype(games, -1))
	assert.Equal(t, []string{"A", "B", "C"}, titles(games))
}

func TestFeatured(t *testing.T) {
	top, rest, ok := Featured(Filter(sampleGames(), AllCriteria()))
	require.True(t, ok)
	assert.Equal(t, "C", top.Title)
	assert.Equal(t, []string{"A", "B"}, titles(rest))

	_, rest, ok = Featured(nil)
	assert.False(t, ok)
	assert.Empty(t, rest)
}

func TestExploreEmptyQuarter(t *testing.T) {
	res := Explore(sampleGames(), Criteria{Quarter: "Q4 2026"})
	assert.True(t, res.Empty())
	_, ok := res.Top()
	assert.False(t, ok)
	assert.Empty(t, res.Others())
	assert.Equal(t, 0, res.Stats.Count)
	assert.Equal(t, catalog.AllGenres, res.Criteria.Genre)
}

func TestCriteriaValidate(t *testing.T) {
	assert.NoError(t, AllCriteria().Validate())
	assert.NoError(t, Criteria{}.Validate())
	assert.NoError(t, Criteria{Genre: "Horror", Quarter: "Q2 2026"}.Validate())
	assert.ErrorContains(t, Criteria{Genre: "Puzzle"}.Validate(), `unknown genre "Puzzle"`)
	assert.ErrorContains(t, Criteria{Quarter: "Q5 2026"}.Validate(), `unknown quarter "Q5 2026"`)
}
