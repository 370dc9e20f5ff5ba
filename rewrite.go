package relhist

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// CheckFilterRepo probes that the git-filter-repo extension is reachable
// through the git binary.
func CheckFilterRepo(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "git", "filter-repo", "--version").Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrFilterRepoMissing, err)
	}

	return nil
}

// RunFilterRepo rewrites the history of the clone at dir to retain only the
// commits and blobs touching the paths listed in the spec file.
//
// The rewrite mutates the clone in place, is irreversible, and requires
// exclusive access to a freshly created clone with no concurrent git
// operations. Any failure is fatal for the run.
func RunFilterRepo(ctx context.Context, logger *slog.Logger, dir string, specFile string) error {
	if _, err := runGit(ctx, logger, dir, "filter-repo", "--paths-from-file", specFile); err != nil {
		return fmt.Errorf("failed to rewrite history: %w", err)
	}

	return nil
}
