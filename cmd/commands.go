package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"game-pulse/config"
	"game-pulse/notifier"
	"game-pulse/scheduler"
	"game-pulse/scraper"
	"game-pulse/server"
	"game-pulse/site"
	"game-pulse/storage"
	"game-pulse/tui"
)

func (a *app) buildCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the static page and JSON feed",
		Long: `Writes index.html and games.json. The static page shows the explorer
over the whole catalog without the filter form; use serve for filtering.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = a.cfg.OutputDir
			}
			c, err := a.catalog()
			if err != nil {
				return err
			}
			r, err := site.NewRenderer(a.cfg.Site)
			if err != nil {
				return err
			}
			if err := site.NewBuilder(r, c, a.logger).Build(out, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s to %s\n", site.IndexFile, site.FeedFile, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default $OUTPUT_DIR or ./public)")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var port, rebuild, out string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live preview server",
		Long: `Serves the page with the explorer driven by query parameters
(?genre=&quarter=&q=), plus /api/games, /games.json and /healthz.

With --rebuild the static output is also re-rendered on a cron schedule
(six fields, seconds first), e.g. "0 0 6 * * *".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.cfg.Port
			}
			if err := config.ValidatePort(port); err != nil {
				return fmt.Errorf("invalid --port: %w", err)
			}
			if rebuild == "" {
				rebuild = a.cfg.RebuildSchedule
			}
			if out == "" {
				out = a.cfg.OutputDir
			}

			c, err := a.catalog()
			if err != nil {
				return err
			}
			r, err := site.NewRenderer(a.cfg.Site)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if rebuild != "" {
				sched := scheduler.NewScheduler(a.logger)
				job := scheduler.NewSiteBuildJob(site.NewBuilder(r, c, a.logger), out, a.logger)
				if err := sched.AddJob(rebuild, job); err != nil {
					return err
				}
				if err := sched.RunJobNow(ctx, job.Name()); err != nil {
					a.logger.Error("Initial site build failed", zap.Error(err))
				}
				sched.Start()
				defer sched.Stop()
			}

			return server.New(r, c, a.logger).ListenAndServe(ctx, net.JoinHostPort("", port))
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT or 8080)")
	cmd.Flags().StringVar(&rebuild, "rebuild", "", "cron spec for static rebuilds (default $REBUILD_SCHEDULE)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory for rebuilds")
	return cmd
}

func (a *app) exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Browse the catalog in an interactive terminal explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}
			return tui.Run(c)
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a SQLite snapshot of the catalog for offline analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataPath == "" {
				dataPath = a.cfg.DataPath
			}
			c, err := a.catalog()
			if err != nil {
				return err
			}

			db := storage.NewSQLiteStorage(dataPath, a.logger)
			if err := db.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := db.Export(ctx, c, time.Now()); err != nil {
				return err
			}
			n, err := db.CountGames(ctx)
			if err != nil {
				return err
			}
			counts, err := db.PlatformCounts(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Exported %d games to %s\n", n, db.Path())
			for _, pc := range counts {
				fmt.Fprintf(w, "  %-20s %d\n", pc.Platform, pc.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "database directory (default $DATA_PATH or ./data)")
	return cmd
}

func (a *app) digestCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the digest email, or print it when SMTP is not configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}
			n, err := notifier.NewEmailNotifier(a.cfg.Email, a.cfg.Site.BaseURL, a.logger)
			if err != nil {
				return err
			}
			m, err := n.ComposeDigest(c, time.Now())
			if err != nil {
				return err
			}

			if dryRun || !a.cfg.Email.Enabled() {
				if !dryRun {
					a.logger.Info("Email not configured, printing digest")
				}
				if _, err := m.WriteTo(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("failed to write digest: %w", err)
				}
				return nil
			}
			return n.Send(m)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the message instead of sending it")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [url]",
		Short: "Crawl a rendered page and check it against the catalog",
		Long: `Fetches the page at url and checks that every game of the catalog is on
the roadmap and in the unfiltered explorer. Without a url a preview server is
started on a free local port and checked instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}

			url := ""
			if len(args) == 1 {
				url = args[0]
			} else {
				r, err := site.NewRenderer(a.cfg.Site)
				if err != nil {
					return err
				}
				ln, err := net.Listen("tcp", "127.0.0.1:0")
				if err != nil {
					return fmt.Errorf("failed to listen: %w", err)
				}
				ctx, cancel := context.WithCancel(cmd.Context())
				done := make(chan error, 1)
				go func() { done <- server.New(r, c, a.logger).Serve(ctx, ln) }()
				defer func() {
					cancel()
					<-done
				}()
				url = "http://" + ln.Addr().String() + "/"
			}

			report, err := scraper.NewScraper(a.logger).Verify(url)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Page:     %s\n", report.URL)
			fmt.Fprintf(w, "Hero:     %s\n", strings.Join(report.Hero, ", "))
			for _, q := range report.Roadmap {
				fmt.Fprintf(w, "%-9s %d games\n", q.Quarter+":", len(q.Titles))
			}
			fmt.Fprintf(w, "Explorer: %d games, average %s, top quarter %s\n",
				len(report.Explorer), report.Stats.Average, report.Stats.TopQuarter)

			if err := report.Check(c); err != nil {
				return fmt.Errorf("page does not match catalog:\n%w", err)
			}
			fmt.Fprintln(w, "OK")
			return nil
		},
	}
}
