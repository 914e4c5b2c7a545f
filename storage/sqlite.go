package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"game-pulse/catalog"
	"game-pulse/explorer"
)

// SQLiteStorage holds a relational snapshot of the catalog for offline
// analysis. The page never reads from it.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
	logger   *zap.Logger
}

func NewSQLiteStorage(dataPath string, logger *zap.Logger) *SQLiteStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteStorage{
		dbPath:   filepath.Join(dataPath, DBFile),
		dataPath: dataPath,
		logger:   logger,
	}
}

// Path returns the database file location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

func (s *SQLiteStorage) Initialize() error {
	if err := os.MkdirAll(s.dataPath, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := s.GetDB()
	if err != nil {
		return err
	}

	migrationManager := NewMigrationManager(db, s.logger)
	if err := migrationManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	if err := migrationManager.Up(); err != nil {
		return err
	}

	s.logger.Info("SQLite database initialized", zap.String("path", s.dbPath))
	return nil
}

// Export replaces the stored snapshot with the catalog in one transaction.
func (s *SQLiteStorage) Export(ctx context.Context, c *catalog.Catalog, now time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin export: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"game_genres", "game_platforms", "games"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertGame, err := tx.PrepareContext(ctx, `
	INSERT INTO games (title, developer, release_date, quarter, hype_score, summary, website, trailer_url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare game insert: %w", err)
	}
	defer insertGame.Close()

	insertPlatform, err := tx.PrepareContext(ctx, `INSERT INTO game_platforms (game_id, position, platform) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare platform insert: %w", err)
	}
	defer insertPlatform.Close()

	insertGenre, err := tx.PrepareContext(ctx, `INSERT INTO game_genres (game_id, position, genre) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare genre insert: %w", err)
	}
	defer insertGenre.Close()

	games := c.Games()
	for _, g := range games {
		res, err := insertGame.ExecContext(ctx,
			g.Title, g.Developer, g.ReleaseDate.UTC().Format(catalog.DateLayout),
			explorer.QuarterOf(g.ReleaseDate), g.HypeScore, g.Summary, g.Website, g.TrailerURL)
		if err != nil {
			return fmt.Errorf("failed to insert game %q: %w", g.Title, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read id of %q: %w", g.Title, err)
		}
		for i, p := range g.Platforms {
			if _, err := insertPlatform.ExecContext(ctx, id, i, p); err != nil {
				return fmt.Errorf("failed to insert platform of %q: %w", g.Title, err)
			}
		}
		for i, genre := range g.Genres {
			if _, err := insertGenre.ExecContext(ctx, id, i, string(genre)); err != nil {
				return fmt.Errorf("failed to insert genre of %q: %w", g.Title, err)
			}
		}
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO exports (exported_at, game_count) VALUES (?, ?)`, now.UTC(), len(games)); err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}

	s.logger.Info("Catalog exported", zap.String("path", s.dbPath), zap.Int("games", len(games)))
	return nil
}

func (s *SQLiteStorage) CountGames(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return total, nil
}

// PlatformCounts mirrors explorer.PlatformBalance over the stored snapshot.
// Rows were inserted in dataset order, so rowid gives first-seen order.
func (s *SQLiteStorage) PlatformCounts(ctx context.Context) ([]explorer.PlatformCount, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT platform, COUNT(*) AS n
	FROM game_platforms
	GROUP BY platform
	ORDER BY n DESC, MIN(rowid) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform counts: %w", err)
	}
	defer rows.Close()

	var counts []explorer.PlatformCount
	for rows.Next() {
		var pc explorer.PlatformCount
		if err := rows.Scan(&pc.Platform, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan platform count: %w", err)
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

// GenreTitles lists stored titles tagged with genre, highest hype first.
func (s *SQLiteStorage) GenreTitles(ctx context.Context, genre catalog.Genre) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT g.title
	FROM games g
	JOIN game_genres gg ON gg.game_id = g.id
	WHERE gg.genre = ?
	ORDER BY g.hype_score DESC, g.id ASC
	`, string(genre))
	if err != nil {
		return nil, fmt.Errorf("failed to query genre %s: %w", genre, err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// LastExport returns the most recent export record.
func (s *SQLiteStorage) LastExport(ctx context.Context) (ExportInfo, error) {
	var info ExportInfo
	err := s.db.QueryRowContext(ctx,
		"SELECT exported_at, game_count FROM exports ORDER BY id DESC LIMIT 1").
		Scan(&info.ExportedAt, &info.GameCount)
	if errors.Is(err, sql.ErrNoRows) {
		return ExportInfo{}, fmt.Errorf("no export recorded in %s", s.dbPath)
	}
	if err != nil {
		return ExportInfo{}, fmt.Errorf("failed to read last export: %w", err)
	}
	return info, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		db, err := sql.Open("sqlite3", "file:"+s.dbPath+"?_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		s.db = db
	}
	return s.db, nil
}

// Migration management methods
func (s *SQLiteStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db, s.logger)
}

func (s *SQLiteStorage) GetDatabaseVersion() (int64, error) {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return 0, err
	}
	return migrationManager.Version()
}

func (s *SQLiteStorage) RunMigrations() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Up()
}

func (s *SQLiteStorage) RollbackMigration() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Down()
}

func (s *SQLiteStorage) ResetDatabase() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Reset()
}
