package relhist

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// fileHistory is the outcome of the rename-following history query for one
// file. A failed query keeps its error here instead of aborting the whole
// resolution.
type fileHistory struct {
	path  string
	names []string
	err   error
}

// historicalNames queries the commit history of the file at relpath,
// following renames, and collects every name the history reports for it.
// Only names are requested from git, no commit metadata.
func historicalNames(ctx context.Context, logger *slog.Logger, repoRoot string, relpath string) fileHistory {
	out, err := runGit(ctx, logger, repoRoot,
		"log", "--pretty=format:", "--name-only", "--follow", "--", relpath)
	if err != nil {
		return fileHistory{path: relpath, err: err}
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}

	return fileHistory{path: relpath, names: names}
}

// Resolve computes every historical path name of the files selected by spec
// in the repository at repoRoot.
//
// The returned [PathSet] holds, for every regular file in the initial
// listing, its current relative path plus every name its history reports
// across renames; a file that never moved contributes exactly its own path.
// The second return value is the initial listing itself, which is what
// [Reconcile] later restores. Directories in the listing are skipped for
// history purposes but stay in the listing.
//
// A history query failing for one file logs a warning naming the failed
// command and skips only that file's historical names; the file still
// contributes its current path. This is the only recoverable error class.
//
// When cache is non-nil, per-file results are looked up and stored under the
// repository's current HEAD hash.
func Resolve(
	ctx context.Context,
	logger *slog.Logger,
	repoRoot string,
	spec *FilterSpec,
	cache *HistCache,
) (PathSet, []string, error) {
	initial, err := spec.InitialFiles(repoRoot, logger)
	if err != nil {
		return nil, nil, err
	}

	head := ""
	if cache != nil {
		head, err = headHash(repoRoot)
		if err != nil {
			logger.Warn("cannot determine HEAD for the cache key, cache disabled", "error", err)
			cache = nil
		}
	}

	var sets []PathSet

	for _, relpath := range initial {
		info, err := os.Stat(filepath.Join(repoRoot, filepath.FromSlash(relpath)))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		logger.Debug("including file with history", "path", relpath)

		// the per-file set is seeded with the file's current path, so a
		// failed history query still contributes that path
		perfile := NewPathSet(relpath)

		if cache != nil {
			names, found, err := cache.Get(head, relpath)
			if err == nil && found {
				logger.Debug("cache hit", "path", relpath)
				for _, n := range names {
					perfile[n] = empty{}
				}
				sets = append(sets, perfile)
				continue
			}
		}

		h := historicalNames(ctx, logger, repoRoot, relpath)
		if h.err != nil {
			// one file failing to report its renames must not block the rest
			logger.Warn("failed to get historical names", "path", relpath, "error", h.err)
			sets = append(sets, perfile)
			continue
		}

		for _, n := range h.names {
			perfile[n] = empty{}
		}

		if cache != nil {
			if err := cache.Put(head, relpath, h.names); err != nil {
				logger.Warn("failed to store resolution in the cache", "path", relpath, "error", err)
			}
		}

		sets = append(sets, perfile)
	}

	return UnionPathSets(sets...), initial, nil
}
