package relhist

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// runGit runs the git binary against the repository at dir and returns its
// combined output. The error of a failed invocation names the full command
// line, since warnings surfacing such failures must show what was called.
func runGit(ctx context.Context, logger *slog.Logger, dir string, args ...string) (string, error) {
	fullargs := append([]string{"-C", dir}, args...)

	logger.Debug("calling git", "args", strings.Join(fullargs, " "))

	output, err := exec.CommandContext(ctx, "git", fullargs...).CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf(
			"git %s failed: %s (%w)",
			strings.Join(fullargs, " "),
			strings.TrimSpace(string(output)),
			err)
	}

	return string(output), nil
}
