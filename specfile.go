package relhist

import (
	"fmt"
	"io"
	"os"
)

// WritePathSpec writes the path-list artifact consumed by git-filter-repo's
// --paths-from-file option: one path per line, verbatim, single '\n'
// separators, no quoting. The framing is a compatibility surface and must
// stay byte-exact.
func WritePathSpec(w io.Writer, paths []string) error {
	for _, p := range paths {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

// SavePathSpec writes the path-list artifact for set to the file at path.
// Paths are written in sorted order so the artifact is deterministic.
func SavePathSpec(path string, set PathSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create path spec file %s: %w", path, err)
	}

	if err := WritePathSpec(f, SortedPaths(set)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write path spec file %s: %w", path, err)
	}

	return f.Close()
}
