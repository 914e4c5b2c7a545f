// Package site renders the release guide page.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"game-pulse/catalog"
	"game-pulse/config"
	"game-pulse/explorer"
)

//go:embed templates/page.html templates/trends.md
var templateFS embed.FS

// EmptyMessage is shown when no game matches the explorer criteria.
const EmptyMessage = "No games match the selected filters. Try changing the search criteria."

// HeroSize is the number of games in the top-of-page hype strip.
const HeroSize = 3

// Page is the data the page template renders.
type Page struct {
	Lang         string
	Site         config.SiteConfig
	Hero         []catalog.Game
	Roadmap      []explorer.QuarterGroup
	Trends       template.HTML
	Platforms    []explorer.PlatformCount
	Explorer     explorer.Result
	Featured     *catalog.Game
	Others       []catalog.Game
	Genres       []catalog.Genre
	Quarters     []catalog.Quarter
	AllGenres    string
	AllQuarters  string
	EmptyMessage string
	// FormAction is where the explorer form submits. Empty omits the form.
	FormAction  string
	GeneratedAt time.Time
}

// Renderer turns a catalog and explorer criteria into HTML.
type Renderer struct {
	site   config.SiteConfig
	tmpl   *template.Template
	trends template.HTML
}

// NewRenderer parses the page template and renders the trend commentary once.
func NewRenderer(site config.SiteConfig) (*Renderer, error) {
	tmpl, err := template.New("page.html").Funcs(templateFuncs()).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	src, err := templateFS.ReadFile("templates/trends.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read trends: %w", err)
	}
	var trends bytes.Buffer
	if err := goldmark.Convert(src, &trends); err != nil {
		return nil, fmt.Errorf("failed to render trends: %w", err)
	}

	return &Renderer{
		site: site,
		tmpl: tmpl,
		// goldmark drops raw HTML unless html.WithUnsafe is set
		trends: template.HTML(trends.String()),
	}, nil
}

// NewPage assembles the page for one set of explorer criteria.
func (r *Renderer) NewPage(c *catalog.Catalog, criteria explorer.Criteria, now time.Time) Page {
	games := c.Games()
	quarters := catalog.Quarters()
	result := explorer.Explore(games, criteria)

	p := Page{
		Lang:         lang(r.site.Locale),
		Site:         r.site,
		Hero:         explorer.TopHype(games, HeroSize),
		Roadmap:      explorer.Roadmap(games, quarters),
		Trends:       r.trends,
		Platforms:    explorer.PlatformBalance(games),
		Explorer:     result,
		Others:       result.Others(),
		Genres:       catalog.Genres(),
		Quarters:     quarters,
		AllGenres:    catalog.AllGenres,
		AllQuarters:  catalog.AllQuarters,
		EmptyMessage: EmptyMessage,
		FormAction:   "/",
		GeneratedAt:  now.UTC(),
	}
	if top, ok := result.Top(); ok {
		p.Featured = &top
	}
	return p
}

// Render writes the page as HTML.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if err := r.tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"longDate":  LongDate,
		"shortDate": ShortDate,
		"quarterOf": explorer.QuarterOf,
		"join": func(items []string) string {
			return strings.Join(items, ", ")
		},
		"joinGenres": JoinGenres,
		"releases": func(n int) string {
			if n == 1 {
				return "1 release"
			}
			return fmt.Sprintf("%d releases", n)
		},
	}
}

// LongDate formats a release date for game cards, e.g. "19 February 2026".
func LongDate(t time.Time) string {
	return t.UTC().Format("2 January 2006")
}

// ShortDate formats a release date for the roadmap, e.g. "19 Feb".
func ShortDate(t time.Time) string {
	return t.UTC().Format("02 Jan")
}

// JoinGenres renders genre tags as a comma separated list.
func JoinGenres(genres []catalog.Genre) string {
	parts := make([]string, len(genres))
	for i, g := range genres {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}

func lang(locale string) string {
	if i := strings.IndexAny(locale, "_-"); i > 0 {
		return locale[:i]
	}
	if locale == "" {
		return "en"
	}
	return locale
}
