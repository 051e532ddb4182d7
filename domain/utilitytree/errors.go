package utilitytree

import "errors"

var (
	// ErrTreeNotBuilt indicates an operation on a tree that has not
	// been constructed yet.
	ErrTreeNotBuilt = errors.New("tree not built")

	// ErrRebuildRequired indicates pending items crossed the utility
	// threshold and the tree is incomplete for them.
	ErrRebuildRequired = errors.New("tree rebuild required for pending items")
)
