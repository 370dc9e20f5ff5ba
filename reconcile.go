package relhist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// reconcileCommitMessage is the fixed message of the single commit that
// captures the wipe and restore as one atomic change.
const reconcileCommitMessage = "Remove not directly related content from the repository"

// Reconcile restores the working tree of the rewritten clone at dir to
// exactly the originally filtered entries.
//
// Every tracked file is first removed from the working tree and the index,
// then each entry of initialFiles is restored from the rewritten HEAD. If
// the index then differs from HEAD, the change is committed with
// [reconcileCommitMessage]; when the restore reconstructed HEAD's tree
// exactly, no commit is made.
//
// Restoring the original pre-rewrite listing instead of re-deriving it from
// the rewritten tree keeps this step agnostic to how the filter was
// specified, at the cost of redundant IO for a plain subdirectory filter.
func Reconcile(ctx context.Context, logger *slog.Logger, dir string, initialFiles []string) error {
	if _, err := runGit(ctx, logger, dir, "rm", "-rf", "."); err != nil {
		return fmt.Errorf("failed to wipe tracked content: %w", err)
	}

	for _, relpath := range initialFiles {
		if _, err := runGit(ctx, logger, dir, "checkout", "HEAD", "--", relpath); err != nil {
			return fmt.Errorf("failed to restore %s: %w", relpath, err)
		}
	}

	dirty, err := indexDirty(ctx, logger, dir)
	if err != nil {
		return err
	}

	if !dirty {
		logger.Debug("restore reconstructed HEAD exactly, skipping commit")
		return nil
	}

	if _, err := runGit(ctx, logger, dir, "commit", "-m", reconcileCommitMessage); err != nil {
		return fmt.Errorf("failed to commit reconciled tree: %w", err)
	}

	return nil
}

// indexDirty reports whether the cached index differs from HEAD.
// git diff-index exits 1 on a difference, which is not a failure here.
func indexDirty(ctx context.Context, logger *slog.Logger, dir string) (bool, error) {
	args := []string{"-C", dir, "diff-index", "--quiet", "--cached", "HEAD", "--"}

	logger.Debug("calling git", "args", strings.Join(args, " "))

	err := exec.CommandContext(ctx, "git", args...).Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return false, nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
		return true, nil
	default:
		return false, fmt.Errorf("failed to check index against HEAD: %w", err)
	}
}
