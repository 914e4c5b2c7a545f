package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SiteBuilder renders the static site into a directory.
type SiteBuilder interface {
	Build(dir string, now time.Time) error
}

// SiteBuildJob re-renders the static site into a fixed directory.
type SiteBuildJob struct {
	builder   SiteBuilder
	outputDir string
	logger    *zap.Logger
	now       func() time.Time
}

// NewSiteBuildJob creates a job that builds into outputDir.
func NewSiteBuildJob(builder SiteBuilder, outputDir string, logger *zap.Logger) *SiteBuildJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteBuildJob{
		builder:   builder,
		outputDir: outputDir,
		logger:    logger,
		now:       time.Now,
	}
}

// Name returns the name of the job
func (j *SiteBuildJob) Name() string {
	return "site_build"
}

// Run executes the job
func (j *SiteBuildJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.logger.Debug("Rebuilding site", zap.String("dir", j.outputDir))
	return j.builder.Build(j.outputDir, j.now())
}
