package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"gopkg.in/yaml.v3"
)

//go:embed games.yaml
var embeddedGames []byte

// DateLayout is the authoring format of release dates.
const DateLayout = "2006-01-02"

// Catalog is the read-only set of games bundled with the application.
type Catalog struct {
	games []Game
}

// gameRecord is the YAML authoring shape of a game.
type gameRecord struct {
	Title       string      `yaml:"title"`
	Developer   string      `yaml:"developer"`
	ReleaseDate string      `yaml:"releaseDate"`
	Platforms   []string    `yaml:"platforms"`
	Genres      []string    `yaml:"genres"`
	HypeScore   *int        `yaml:"hypeScore"`
	Summary     string      `yaml:"summary"`
	Highlights  []Highlight `yaml:"highlights"`
	Website     string      `yaml:"website"`
	TrailerURL  string      `yaml:"trailerUrl"`
}

type datasetFile struct {
	Games []gameRecord `yaml:"games"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded dataset. It is parsed once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(embeddedGames)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is like Default but panics on an authoring defect in the embedded dataset.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from already constructed games, validating them the
// same way Parse does.
func New(games []Game) (*Catalog, error) {
	var errs []error
	seen := make(map[string]bool, len(games))
	for i, g := range games {
		if err := validateGame(g, seen); err != nil {
			errs = append(errs, fmt.Errorf("game #%d %q: %w", i+1, g.Title, err))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid dataset: %w", errors.Join(errs...))
	}

	c := &Catalog{games: make([]Game, len(games))}
	for i, g := range games {
		c.games[i] = g.clone()
	}
	return c, nil
}

// Parse decodes a YAML dataset and validates every record. All authoring
// defects are reported together.
func Parse(data []byte) (*Catalog, error) {
	var file datasetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	games := make([]Game, 0, len(file.Games))
	seen := make(map[string]bool, len(file.Games))
	var errs []error
	for i, rec := range file.Games {
		g, recErr := rec.toGame()
		if err := errors.Join(recErr, validateGame(g, seen)); err != nil {
			errs = append(errs, fmt.Errorf("game #%d %q: %w", i+1, rec.Title, err))
			continue
		}
		games = append(games, g)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid dataset: %w", errors.Join(errs...))
	}

	return &Catalog{games: games}, nil
}

// toGame converts a record even when some fields are unusable, so the
// remaining fields still go through validateGame. A bad date is left zero.
func (r gameRecord) toGame() (Game, error) {
	var errs []error
	var date time.Time
	if strings.TrimSpace(r.ReleaseDate) != "" {
		d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(r.ReleaseDate), time.UTC)
		if err != nil {
			errs = append(errs, fmt.Errorf("bad release date %q: %w", r.ReleaseDate, err))
		} else {
			date = d
		}
	}

	hype := 0
	if r.HypeScore == nil {
		errs = append(errs, errors.New("hype score is required"))
	} else {
		hype = *r.HypeScore
	}

	genres := make([]Genre, len(r.Genres))
	for i, name := range r.Genres {
		genres[i] = Genre(name)
	}

	return Game{
		Title:       r.Title,
		Developer:   r.Developer,
		ReleaseDate: date,
		Platforms:   r.Platforms,
		Genres:      genres,
		HypeScore:   hype,
		Summary:     r.Summary,
		Highlights:  r.Highlights,
		Website:     r.Website,
		TrailerURL:  r.TrailerURL,
	}, errors.Join(errs...)
}

func validateGame(g Game, seen map[string]bool) error {
	var errs []error

	switch {
	case strings.TrimSpace(g.Title) == "":
		errs = append(errs, errors.New("title is required"))
	case seen[g.Title]:
		errs = append(errs, errors.New("duplicate title"))
	default:
		seen[g.Title] = true
	}
	if strings.TrimSpace(g.Developer) == "" {
		errs = append(errs, errors.New("developer is required"))
	}
	if strings.TrimSpace(g.Summary) == "" {
		errs = append(errs, errors.New("summary is required"))
	}
	if g.ReleaseDate.IsZero() {
		errs = append(errs, errors.New("release date is required"))
	}
	if len(g.Platforms) == 0 {
		errs = append(errs, errors.New("at least one platform is required"))
	}
	if len(g.Genres) == 0 {
		errs = append(errs, errors.New("at least one genre is required"))
	}
	for _, genre := range g.Genres {
		if !IsGenre(string(genre)) {
			errs = append(errs, fmt.Errorf("unknown genre %q", genre))
		}
	}
	if !govalidator.InRangeInt(g.HypeScore, 0, 100) {
		errs = append(errs, fmt.Errorf("hype score %d out of range [0,100]", g.HypeScore))
	}
	if g.Website != "" && !govalidator.IsRequestURL(g.Website) {
		errs = append(errs, fmt.Errorf("malformed website %q", g.Website))
	}
	if g.TrailerURL != "" && !govalidator.IsRequestURL(g.TrailerURL) {
		errs = append(errs, fmt.Errorf("malformed trailer url %q", g.TrailerURL))
	}

	return errors.Join(errs...)
}

// Games returns a copy of the games in dataset order.
func (c *Catalog) Games() []Game {
	out := make([]Game, len(c.games))
	for i, g := range c.games {
		out[i] = g.clone()
	}
	return out
}

// Len returns the number of games.
func (c *Catalog) Len() int {
	return len(c.games)
}

// Lookup finds a game by its title.
func (c *Catalog) Lookup(title string) (Game, bool) {
	for _, g := range c.games {
		if g.Title == title {
			return g.clone(), true
		}
	}
	return Game{}, false
}
