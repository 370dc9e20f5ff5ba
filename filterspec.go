package relhist

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FilterKind tags the three ways a filter argument can select files.
type FilterKind int

const (
	// FilterSubdir selects everything under a subdirectory of the repository.
	FilterSubdir FilterKind = iota
	// FilterFileList reads literal paths, one per line, from a filter file.
	FilterFileList
	// FilterGlobList reads glob patterns, one per line, from a filter file.
	FilterGlobList
)

func (k FilterKind) String() string {
	switch k {
	case FilterSubdir:
		return "subdir"
	case FilterFileList:
		return "file-list"
	case FilterGlobList:
		return "glob-list"
	default:
		return fmt.Sprintf("filter-kind-%d", int(k))
	}
}

// FilterSpec is the decided form of the filter argument. The variant is
// determined once at construction instead of re-probing the filesystem on
// every use.
type FilterSpec struct {
	Kind FilterKind

	// Subdir is the directory relative to the repository root, with a
	// trailing separator. Only set for [FilterSubdir].
	Subdir string

	// File is the filter file for [FilterFileList] and [FilterGlobList].
	File string
}

// NewFilterSpec decides the variant for the filter argument:
//
//   - an existing regular file with glob unset is a literal path list,
//   - an existing regular file with glob set is a glob pattern list,
//   - anything else names a subdirectory of the repository root.
//
// Whether the subdirectory actually exists is checked against the
// repository root in [FilterSpec.InitialFiles].
func NewFilterSpec(filterArg string, glob bool) *FilterSpec {
	if info, err := os.Stat(filterArg); err == nil && info.Mode().IsRegular() {
		if glob {
			return &FilterSpec{Kind: FilterGlobList, File: filterArg}
		}

		return &FilterSpec{Kind: FilterFileList, File: filterArg}
	}

	subdir := filepath.ToSlash(filterArg)
	if !strings.HasSuffix(subdir, "/") {
		subdir = subdir + "/"
	}

	return &FilterSpec{Kind: FilterSubdir, Subdir: subdir}
}

func (s *FilterSpec) String() string {
	if s.Kind == FilterSubdir {
		return s.Subdir
	}

	return s.File
}

// InitialFiles lists the filesystem entries matched by the spec at the
// current state of repoRoot. Paths are slash-separated and relative to
// repoRoot. For [FilterFileList] the lines are taken as given and may name
// entries that do not exist on disk. A spec matching nothing is an error
// ([ErrEmptyFilterMatch]), never an empty success.
func (s *FilterSpec) InitialFiles(repoRoot string, logger *slog.Logger) ([]string, error) {
	var files []string
	var err error

	switch s.Kind {
	case FilterSubdir:
		files, err = listSubdir(repoRoot, s.Subdir, logger)
	case FilterFileList:
		files, err = readPathList(s.File, logger)
	case FilterGlobList:
		files, err = expandGlobList(repoRoot, s.File, logger)
	default:
		return nil, fmt.Errorf("unknown filter kind: %d", int(s.Kind))
	}
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFilterMatch, s)
	}

	return files, nil
}

// listSubdir recursively lists every entry under the subdirectory,
// directories included. The git metadata directory is skipped so that a
// filter of the whole repository root stays restorable.
func listSubdir(repoRoot string, subdir string, logger *slog.Logger) ([]string, error) {
	dir := filepath.Join(repoRoot, filepath.FromSlash(subdir))

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFilterNotDirectory, subdir)
	}

	logger.Debug("globbing files", "dir", dir)

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(repoRoot, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	return files, nil
}

// readPathList reads the literal path list, one path per line. Blank lines
// are list formatting, not paths, and are skipped.
func readPathList(file string, logger *slog.Logger) ([]string, error) {
	logger.Debug("filter is a file, assuming it contains paths relative to the repository", "file", file)

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter file %s: %w", file, err)
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, filepath.ToSlash(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filter file %s: %w", file, err)
	}

	return files, nil
}

// expandGlobList reads glob patterns from the filter file until the first
// blank line or EOF and matches each recursively against repoRoot. The
// union of all matches, deduplicated and sorted, is returned.
func expandGlobList(repoRoot string, file string, logger *slog.Logger) ([]string, error) {
	logger.Debug("filter is a file, assuming it contains glob patterns", "file", file)

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter file %s: %w", file, err)
	}
	defer f.Close()

	matched := NewPathSet()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		pattern := strings.TrimSpace(scanner.Text())
		// patterns are read until the first blank line
		if pattern == "" {
			break
		}

		found, err := doublestar.Glob(os.DirFS(repoRoot), "**/"+pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to match pattern %s: %w", pattern, err)
		}

		for _, m := range found {
			if m == ".git" || strings.HasPrefix(m, ".git/") {
				continue
			}
			matched[m] = empty{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filter file %s: %w", file, err)
	}

	return SortedPaths(matched), nil
}
