package relhist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultBranch is processed when no branch is requested.
const DefaultBranch = "master"

// Options configures a single run of the pipeline.
type Options struct {
	// Source is the repository to extract history from.
	Source string
	// Filter selects the files to keep: a subdirectory of the source, or a
	// file with literal paths or glob patterns. See [NewFilterSpec].
	Filter string
	// Target is where the resulting repository is moved to.
	Target string

	// Branch of the source to process. Defaults to [DefaultBranch].
	Branch string

	// Glob marks the filter file as a glob pattern list.
	Glob bool
	// Force permits replacing an existing target.
	Force bool
	// OnlySpecs stops the run after the path-list artifact is produced and
	// prints its contents to SpecsOut. The target is never touched.
	OnlySpecs bool

	// CachePath, when set, names the bbolt database used to cache rename
	// resolution results between runs.
	CachePath string

	// SpecsOut receives the artifact contents in only-specs mode.
	// Defaults to [os.Stdout].
	SpecsOut io.Writer

	// Logger defaults to [slog.Default].
	Logger *slog.Logger
}

// Run executes the full pipeline: clone the source at the requested branch
// into an ephemeral working directory, resolve the complete set of
// historical path names for the filtered files, rewrite the clone's history
// down to those paths, restore the working tree to the originally filtered
// entries, and move the clone to the target.
//
// Nothing outside the ephemeral working directory is modified before the
// final move, so a failed run leaves the target untouched. The working
// directory is removed on every exit path; on success its clone has already
// been moved out of it.
func Run(ctx context.Context, opts *Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	out := opts.SpecsOut
	if out == nil {
		out = os.Stdout
	}

	branch := opts.Branch
	if branch == "" {
		branch = DefaultBranch
	}

	if err := CheckFilterRepo(ctx); err != nil {
		return err
	}

	source, err := filepath.Abs(opts.Source)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	if err := ValidateSource(source); err != nil {
		return err
	}

	target, err := filepath.Abs(opts.Target)
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	targetExists := false
	if _, err := os.Stat(target); err == nil {
		targetExists = true
	}
	if targetExists && !opts.OnlySpecs {
		if !opts.Force {
			return fmt.Errorf("%w: %s", ErrTargetExists, target)
		}
		logger.Info("will remove existing target to store the result", "target", target)
	}

	spec := NewFilterSpec(opts.Filter, opts.Glob)

	workdir, err := os.MkdirTemp("", "relhist-")
	if err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	defer os.RemoveAll(workdir)

	// all work happens in a fresh clone: git-filter-repo requires one, and
	// it keeps the source repository's state and history out of reach.
	workclone := filepath.Join(workdir, "repo")
	if _, err := runGit(ctx, logger, workdir,
		"clone", "--branch", branch, "--single-branch", "file://"+source, workclone); err != nil {
		return fmt.Errorf("failed to clone source: %w", err)
	}

	var cache *HistCache
	if opts.CachePath != "" {
		cache, err = OpenHistCache(opts.CachePath)
		if err != nil {
			return fmt.Errorf("failed to open history cache %s: %w", opts.CachePath, err)
		}
		defer cache.Close()
	}

	resolved, initial, err := Resolve(ctx, logger, workclone, spec, cache)
	if err != nil {
		return err
	}

	specfile := filepath.Join(workdir, "filter_path_specs.txt")
	if err := SavePathSpec(specfile, resolved); err != nil {
		return err
	}
	logger.Debug("stored filter repo specs", "file", specfile)

	if opts.OnlySpecs {
		contents, err := os.ReadFile(specfile)
		if err != nil {
			return fmt.Errorf("failed to read back path spec file: %w", err)
		}
		if _, err := out.Write(contents); err != nil {
			return fmt.Errorf("failed to print path specs: %w", err)
		}

		return nil
	}

	if err := RunFilterRepo(ctx, logger, workclone, specfile); err != nil {
		return err
	}

	if err := Reconcile(ctx, logger, workclone, initial); err != nil {
		return err
	}

	logger.Debug("moving final result", "from", workclone, "to", target)
	if targetExists {
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to remove existing target %s: %w", target, err)
		}
	}
	// ownership of the clone transfers to the target by moving, never by
	// copying, so large histories are not duplicated.
	if err := os.Rename(workclone, target); err != nil {
		return fmt.Errorf("failed to move result to target: %w", err)
	}

	if targetExists {
		logger.Info("replaced target with filtering result", "target", target)
	} else {
		logger.Info("stored filtering result", "target", target)
	}

	return nil
}
