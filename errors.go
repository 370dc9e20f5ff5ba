// errors

package relhist

import "errors"

var (
	ErrFilterRepoMissing  = errors.New("'git filter-repo' is not available, check you have added it to your PATH")
	ErrSourceNotRepo      = errors.New("source is not the root of an existing git repository")
	ErrTargetExists       = errors.New("target directory already exists, use force to override")
	ErrFilterNotDirectory = errors.New("filter is not a file and does not name a subdirectory of the repository")
	ErrEmptyFilterMatch   = errors.New("filter did not match any files")
	ErrNilCache           = errors.New("nil cache")
)
