// relhist extracts the relevant history of selected files from a git
// repository into a new repository.
//
// Given a source repository, a branch, and a path filter (a subdirectory, a
// file with literal paths, or a file with glob patterns), it produces a
// repository that contains only the filtered files while keeping every
// commit that ever touched them, following renames, so that git blame stays
// accurate for every remaining line. The heavy lifting of rewriting history
// is delegated to the external git-filter-repo tool; this package resolves
// the complete set of historical path names ([Resolve]), drives the rewrite
// ([RunFilterRepo]), restores the working tree to the originally filtered
// files ([Reconcile]), and sequences the whole pipeline ([Run]).
package relhist
