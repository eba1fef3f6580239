// Command pathway opens the learning path viewer.
//
//	pathway run --catalog course.yaml --config look.toml --watch
//	pathway validate course.yaml
//	pathway dump-config > look.toml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/pathway"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	catalogPath string
	watch       bool
	verbose     bool
	seed        uint64
	script      string
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "pathway",
		Short:         "Interactive 3D learning path viewer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file (defaults are used for missing keys)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	run := &cobra.Command{
		Use:   "run",
		Short: "Open the viewer window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViewer(cmd.Context(), opts)
		},
	}
	run.Flags().StringVar(&opts.catalogPath, "catalog", "", "YAML or TOML catalog file (default: built-in course)")
	run.Flags().BoolVar(&opts.watch, "watch", false, "rebuild the scene when the catalog file changes")
	run.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for the background (0 = config value)")
	run.Flags().StringVar(&opts.script, "script", "", "JSON input script to run against the window")

	validate := &cobra.Command{
		Use:   "validate <catalog>",
		Short: "Check a catalog file and list its waypoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := pathway.LoadCatalog(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d waypoints\n", args[0], cat.Len())
			for i, title := range cat.Titles() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, title)
			}
			return nil
		},
	}

	dump := &cobra.Command{
		Use:   "dump-config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			_, err = cfg.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	root.AddCommand(run, validate, dump)
	return root
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(path string) (pathway.Config, error) {
	if path == "" {
		return pathway.DefaultConfig(), nil
	}
	return pathway.LoadConfig(path)
}

func loadCatalog(path string) (*pathway.Catalog, error) {
	if path == "" {
		return pathway.DefaultCatalog(), nil
	}
	return pathway.LoadCatalog(path)
}

func runViewer(ctx context.Context, opts options) error {
	logger := newLogger(opts.verbose)
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Debug = true
	}
	cat, err := loadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}

	w := pathway.NewWindow(cfg.Window, logger)
	h, err := newHUD(w)
	if err != nil {
		return err
	}
	w.OnOpen = h.bind
	w.AddOverlay(h)
	if cfg.Debug {
		w.AddOverlay(pathway.NewStatsOverlay())
	}

	ctrlOpts := []pathway.Option{pathway.WithConfig(cfg)}
	if opts.seed != 0 {
		ctrlOpts = append(ctrlOpts, pathway.WithSeed(opts.seed))
	}
	if _, err := w.Open(cat, ctrlOpts...); err != nil {
		return err
	}

	if opts.script != "" {
		data, err := os.ReadFile(opts.script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := pathway.LoadScript(data)
		if err != nil {
			return err
		}
		runner.ExitWhenDone = true
		w.SetScriptRunner(runner)
	}

	if opts.watch && opts.catalogPath != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		watcher, err := pathway.NewCatalogWatcher(opts.catalogPath, w.QueueReload, logger)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("catalog watcher stopped", slog.Any("error", err))
			}
		}()
	}

	return w.Run()
}
