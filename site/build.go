package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"game-pulse/catalog"
	"game-pulse/explorer"
)

// Output file names inside the build directory.
const (
	IndexFile = "index.html"
	FeedFile  = "games.json"
)

// Feed is the machine-readable companion of the page.
type Feed struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	Quarters    []catalog.Quarter        `json:"quarters"`
	Games       []FeedGame               `json:"games"`
	Stats       explorer.Stats           `json:"stats"`
	Platforms   []explorer.PlatformCount `json:"platforms"`
}

// FeedGame is a game annotated with its computed quarter.
type FeedGame struct {
	catalog.Game
	Quarter string `json:"quarter"`
}

// NewFeed builds the JSON feed for the whole catalog, ordered by hype.
func NewFeed(c *catalog.Catalog, now time.Time) Feed {
	games := c.Games()
	result := explorer.Explore(games, explorer.AllCriteria())

	feed := Feed{
		GeneratedAt: now.UTC(),
		Quarters:    catalog.Quarters(),
		Games:       make([]FeedGame, len(result.Games)),
		Stats:       result.Stats,
		Platforms:   explorer.PlatformBalance(games),
	}
	for i, g := range result.Games {
		feed.Games[i] = FeedGame{Game: g, Quarter: explorer.QuarterOf(g.ReleaseDate)}
	}
	return feed
}

// Builder writes the static site.
type Builder struct {
	renderer *Renderer
	catalog  *catalog.Catalog
	logger   *zap.Logger
}

// NewBuilder creates a builder for the given catalog.
func NewBuilder(r *Renderer, c *catalog.Catalog, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{renderer: r, catalog: c, logger: logger}
}

// Build renders index.html and games.json into dir. Each file is replaced
// atomically so a concurrent reader never sees a partial page.
func (b *Builder) Build(dir string, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var page bytes.Buffer
	p := b.renderer.NewPage(b.catalog, explorer.AllCriteria(), now)
	// a static host ignores the query string, so the filter form would do nothing
	p.FormAction = ""
	if err := b.renderer.Render(&page, p); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(dir, IndexFile), page.Bytes()); err != nil {
		return err
	}

	feed, err := json.MarshalIndent(NewFeed(b.catalog, now), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, FeedFile), feed); err != nil {
		return err
	}

	b.logger.Info("Site built",
		zap.String("dir", dir),
		zap.Int("games", b.catalog.Len()),
		zap.Int("page_bytes", page.Len()))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
