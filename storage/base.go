package storage

import (
	"context"
	"time"

	"game-pulse/catalog"
	"game-pulse/explorer"
)

// DBFile is the export database name inside the data directory.
const DBFile = "game_pulse.db"

// ExportInfo describes the latest snapshot written by Export.
type ExportInfo struct {
	ExportedAt time.Time `json:"exported_at"`
	GameCount  int       `json:"game_count"`
}

type StorageInterface interface {
	Initialize() error
	Export(ctx context.Context, c *catalog.Catalog, now time.Time) error
	CountGames(ctx context.Context) (int, error)
	PlatformCounts(ctx context.Context) ([]explorer.PlatformCount, error)
	LastExport(ctx context.Context) (ExportInfo, error)
	Close() error
}
