package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/infrastructure/config"
	"github.com/felixgeelhaar/upgrowth/infrastructure/ingest"
	"github.com/felixgeelhaar/upgrowth/interfaces/api"
)

// mineOptions holds options for the mine command.
type mineOptions struct {
	configPath  string
	minUtility  float64
	maxItemsets int
	maxDepth    int
	workers     int
	output      string
	verify      bool
	watchDir    string
}

// newMineCmd creates the mine command.
func (a *App) newMineCmd() *cobra.Command {
	opts := &mineOptions{}

	cmd := &cobra.Command{
		Use:   "mine [dataset...]",
		Short: "Mine high-utility itemsets from dataset files",
		Long: `Mine high-utility itemsets from one or more dataset files.

Each file is loaded into the configured store first; malformed lines are
skipped and counted, never fatal. The run then reports every itemset whose
exact utility reaches the threshold.

Examples:
  # Mine a dataset at threshold 500
  upgrowth mine --min-utility 500 retail.txt

  # Mine with a config file and JSON output
  upgrowth mine -c config.yaml -o json retail.txt

  # Mine in parallel and cross-check against exhaustive enumeration
  upgrowth mine --min-utility 100 --workers 4 --verify small.txt

  # Keep watching a directory and re-mine as files arrive
  upgrowth mine --min-utility 500 --watch ./incoming retail.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMine(cmd.Context(), cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().Float64Var(&opts.minUtility, "min-utility", 0, "Minimum-utility threshold")
	cmd.Flags().IntVar(&opts.maxItemsets, "max-itemsets", 0, "Cap on emitted itemsets (0 = unlimited)")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "Cap on itemset size (0 = unlimited)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parallel mining workers")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, json, or csv")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "Cross-check results by exhaustive enumeration (small datasets only)")
	cmd.Flags().StringVar(&opts.watchDir, "watch", "", "Directory to watch for new dataset files")

	return cmd
}

func (a *App) runMine(ctx context.Context, cmd *cobra.Command, opts *mineOptions, datasets []string) error {
	cfg, err := a.loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("min-utility") {
		cfg.Mining.MinUtility = opts.minUtility
	}
	if cmd.Flags().Changed("max-itemsets") {
		cfg.Mining.MaxItemsets = opts.maxItemsets
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Mining.MaxDepth = opts.maxDepth
	}
	if cmd.Flags().Changed("workers") {
		cfg.Mining.Workers = opts.workers
	}

	rt, err := api.Open(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	for _, path := range datasets {
		report, err := api.LoadFile(ctx, path, rt.Service.Store())
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if report.Skipped > 0 {
			fmt.Fprintf(a.stderr, "warning: %s: skipped %d malformed lines\n", path, report.Skipped)
		}
	}

	rs, err := rt.Service.Mine(ctx)
	if err != nil {
		return err
	}
	if err := a.render(rs, opts.output); err != nil {
		return err
	}

	if opts.verify {
		ok, err := rt.Service.Verify(ctx)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if !ok {
			return fmt.Errorf("verify: miner disagrees with exhaustive enumeration")
		}
		fmt.Fprintln(a.stderr, "verify: results match exhaustive enumeration")
	}

	if opts.watchDir != "" {
		return a.watchAndRemine(ctx, rt, opts)
	}
	return nil
}

// watchAndRemine re-mines after every ingested file until the context
// is cancelled.
func (a *App) watchAndRemine(ctx context.Context, rt *api.Runtime, opts *mineOptions) error {
	watcher, err := ingest.NewWatcher(opts.watchDir, rt.Service.Store())
	if err != nil {
		return fmt.Errorf("watch %s: %w", opts.watchDir, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Run(ctx) }()

	fmt.Fprintf(a.stderr, "watching %s for new dataset files\n", opts.watchDir)
	for {
		select {
		case report := <-watcher.Reports():
			if report.Skipped > 0 {
				fmt.Fprintf(a.stderr, "warning: skipped %d malformed lines\n", report.Skipped)
			}
			rs, err := rt.Service.Mine(ctx)
			if err != nil {
				return err
			}
			if err := a.render(rs, opts.output); err != nil {
				return err
			}
		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// loadConfig returns the defaults when no path is given.
func (a *App) loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.NewLoader().LoadFile(path)
}

func (a *App) render(rs mining.ResultSet, format string) error {
	switch format {
	case "text":
		return renderText(a.stdout, rs)
	case "json":
		return renderJSON(a.stdout, rs)
	case "csv":
		return renderCSV(a.stdout, rs)
	default:
		return fmt.Errorf("unknown output format %q (want text, json, or csv)", format)
	}
}
