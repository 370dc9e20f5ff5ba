package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fardream/relhist"
	"github.com/fardream/relhist/cmd"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(-1)
	}
}

type rootCmd struct {
	*cobra.Command

	opts relhist.Options

	configPath string
	verbose    bool
}

func newRootCmd() *rootCmd {
	c := &rootCmd{
		Command: &cobra.Command{
			Use:   "relhist",
			Short: "extract the relevant history of selected files into a new git repo",
			Long: `relhist extracts enough git history to keep git blame accurate for the
selected files, and wipes everything unrelated to the current state of those
files. The result is a drop-in replacement for the filtered subtree with all
the history needed for typical git use. Requires git-filter-repo.`,
			Args: cobra.NoArgs,
		},
	}

	c.Flags().StringVar(&c.opts.Source, "source", c.opts.Source, "source git repository to process")
	c.MarkFlagRequired("source")
	c.MarkFlagDirname("source")
	c.Flags().StringVar(&c.opts.Filter, "filter", c.opts.Filter, "subdirectory of the source, or a file with paths or glob patterns relative to it")
	c.MarkFlagRequired("filter")
	c.Flags().StringVar(&c.opts.Target, "target", c.opts.Target, "where to store the resulting repository")
	c.MarkFlagRequired("target")
	c.Flags().StringVar(&c.opts.Branch, "branch", c.opts.Branch, `branch to process on the source (default "master")`)
	c.Flags().BoolVar(&c.opts.OnlySpecs, "only-specs", c.opts.OnlySpecs, "only print the git filter-repo specs file and stop")
	c.Flags().BoolVarP(&c.opts.Force, "force", "f", c.opts.Force, "remove the target if it exists")
	c.Flags().BoolVarP(&c.opts.Glob, "glob", "g", c.opts.Glob, "filter file contains glob patterns instead of literal paths")
	c.Flags().StringVar(&c.opts.CachePath, "cache", c.opts.CachePath, "bbolt database caching rename resolution results")
	c.MarkFlagFilename("cache")
	c.Flags().StringVarP(&c.configPath, "config", "c", c.configPath, "path to a yaml file with flag defaults")
	c.MarkFlagFilename("config")
	c.Flags().BoolVarP(&c.verbose, "verbose", "v", c.verbose, "print status messages")

	c.Run = func(*cobra.Command, []string) {
		c.run()
	}

	return c
}

func (c *rootCmd) run() {
	if c.configPath != "" {
		c.applyConfig(cmd.GetOrPanic(relhist.ParseConfigYAML(cmd.GetOrPanic(os.ReadFile(c.configPath)))))
	}

	logger := newLogger(c.verbose)
	slog.SetDefault(logger)
	c.opts.Logger = logger

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := relhist.Run(ctx, &c.opts); err != nil {
		logger.Error(err.Error())
		os.Exit(-1)
	}
}

// applyConfig fills in flags the user left unset from the defaults file.
func (c *rootCmd) applyConfig(cfg *relhist.Config) {
	if c.opts.Branch == "" && cfg.Branch != "" {
		c.opts.Branch = cfg.Branch
	}
	if c.opts.CachePath == "" && cfg.CachePath != "" {
		c.opts.CachePath = cfg.CachePath
	}
	if !c.verbose {
		c.verbose = cfg.Verbose
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
