// Package scraper crawls a rendered release guide and reports what a visitor
// would actually see, so a build or a deployed page can be checked against
// the catalog it was rendered from.
package scraper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocolly/colly"
	"go.uber.org/zap"

	"game-pulse/catalog"
)

// QuarterTitles is one roadmap column as rendered.
type QuarterTitles struct {
	Quarter string
	Titles  []string
}

// StatsText holds the explorer statistics exactly as displayed.
type StatsText struct {
	Count      string
	Average    string
	Platforms  string
	TopQuarter string
}

// Report is what Verify found on a page.
type Report struct {
	URL       string
	Title     string
	Hero      []string
	Roadmap   []QuarterTitles
	Platforms []string
	Stats     StatsText
	Featured  string
	Explorer  []string
	Empty     bool
}

// RoadmapTitles flattens the roadmap columns.
func (r *Report) RoadmapTitles() []string {
	var titles []string
	for _, q := range r.Roadmap {
		titles = append(titles, q.Titles...)
	}
	return titles
}

type Verifier interface {
	Verify(url string) (*Report, error)
}

type Scraper struct {
	logger *zap.Logger
}

func NewScraper(logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{logger: logger}
}

// Verify fetches url and extracts the page sections.
func (s *Scraper) Verify(url string) (*Report, error) {
	c := colly.NewCollector()
	report := &Report{URL: url}

	c.OnRequest(func(r *colly.Request) {
		s.logger.Debug("Visiting", zap.String("url", r.URL.String()))
	})

	c.OnResponse(func(r *colly.Response) {
		s.logger.Debug("Response received", zap.Int("status", r.StatusCode), zap.Int("bytes", len(r.Body)))
	})

	c.OnHTML("head > title", func(e *colly.HTMLElement) {
		report.Title = strings.TrimSpace(e.Text)
	})

	c.OnHTML("#hero", func(e *colly.HTMLElement) {
		e.ForEach(".hero-card .title", func(_ int, el *colly.HTMLElement) {
			report.Hero = append(report.Hero, strings.TrimSpace(el.Text))
		})
	})

	c.OnHTML("#roadmap .quarter", func(e *colly.HTMLElement) {
		q := QuarterTitles{Quarter: e.Attr("data-quarter"), Titles: []string{}}
		e.ForEach("li .title", func(_ int, el *colly.HTMLElement) {
			q.Titles = append(q.Titles, strings.TrimSpace(el.Text))
		})
		report.Roadmap = append(report.Roadmap, q)
	})

	c.OnHTML("#platforms .platform", func(e *colly.HTMLElement) {
		report.Platforms = append(report.Platforms, e.Attr("data-platform"))
	})

	c.OnHTML("#explorer", func(e *colly.HTMLElement) {
		report.Stats = StatsText{
			Count:      e.ChildText("#stat-count"),
			Average:    e.ChildText("#stat-average"),
			Platforms:  e.ChildText("#stat-platforms"),
			TopQuarter: e.ChildText("#stat-quarter"),
		}
		report.Featured = e.ChildText(".featured .title")
		if report.Featured != "" {
			report.Explorer = append(report.Explorer, report.Featured)
		}
		e.ForEach(".game-card .title", func(_ int, el *colly.HTMLElement) {
			report.Explorer = append(report.Explorer, strings.TrimSpace(el.Text))
		})
		report.Empty = e.DOM.Find(".empty-state").Length() > 0
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", url, err)
	}

	s.logger.Info("Page scraped",
		zap.String("url", url),
		zap.Int("roadmap_quarters", len(report.Roadmap)),
		zap.Int("explorer_games", len(report.Explorer)))
	return report, nil
}

// Check compares an unfiltered page against the catalog it was rendered from.
// Every mismatch is reported.
func (r *Report) Check(c *catalog.Catalog) error {
	var errs []error

	quarters := catalog.Quarters()
	if len(r.Roadmap) != len(quarters) {
		errs = append(errs, fmt.Errorf("roadmap has %d quarters, want %d", len(r.Roadmap), len(quarters)))
	}
	for i, q := range r.Roadmap {
		if i < len(quarters) && q.Quarter != quarters[i].Label {
			errs = append(errs, fmt.Errorf("roadmap column %d is %q, want %q", i, q.Quarter, quarters[i].Label))
		}
	}

	onRoadmap := make(map[string]bool)
	for _, title := range r.RoadmapTitles() {
		onRoadmap[title] = true
	}
	inExplorer := make(map[string]bool)
	for _, title := range r.Explorer {
		inExplorer[title] = true
	}
	for _, g := range c.Games() {
		if !onRoadmap[g.Title] {
			errs = append(errs, fmt.Errorf("%q missing from roadmap", g.Title))
		}
		if !inExplorer[g.Title] {
			errs = append(errs, fmt.Errorf("%q missing from explorer", g.Title))
		}
	}

	if len(r.Explorer) != c.Len() {
		errs = append(errs, fmt.Errorf("explorer shows %d games, catalog has %d", len(r.Explorer), c.Len()))
	}
	if n, err := strconv.Atoi(r.Stats.Count); err != nil || n != c.Len() {
		errs = append(errs, fmt.Errorf("explorer count reads %q, catalog has %d", r.Stats.Count, c.Len()))
	}
	if c.Len() > 0 && r.Empty {
		errs = append(errs, errors.New("empty state shown for a non-empty catalog"))
	}

	return errors.Join(errs...)
}
