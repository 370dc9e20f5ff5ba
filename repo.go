package relhist

import (
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
)

// ValidateSource checks that dir is the root of an existing git repository.
// Opening the repository with go-git covers both the directory check and the
// presence of the git metadata subdirectory.
func ValidateSource(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceNotRepo, dir)
	}

	if _, err := git.PlainOpen(dir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceNotRepo, dir, err)
	}

	return nil
}

// headHash returns the hex hash of HEAD of the repository at repoRoot.
func headHash(repoRoot string) (string, error) {
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", repoRoot, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD of %s: %w", repoRoot, err)
	}

	return head.Hash().String(), nil
}
