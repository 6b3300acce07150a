// Package fsbridge builds go-git storage on top of billy filesystems.
package fsbridge

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// MinCacheSize is used when a non-positive cache size is requested.
const MinCacheSize = 100

// NewStorage creates git storage rooted at billyFS with an LRU object cache of
// cacheSize entries.
func NewStorage(billyFS billy.Filesystem, cacheSize int) *filesystem.Storage {
	if cacheSize <= 0 {
		cacheSize = MinCacheSize
	}

	objCache := cache.NewObjectLRU(cache.FileSize(cacheSize))
	return filesystem.NewStorage(billyFS, objCache)
}

// Layout splits a worktree filesystem into the storage and worktree roots.
// Bare repositories keep storage at the root and have no worktree.
func Layout(root billy.Filesystem, bare bool, cacheSize int) (*filesystem.Storage, billy.Filesystem, error) {
	if bare {
		return NewStorage(root, cacheSize), nil, nil
	}

	dotGit, err := root.Chroot(".git")
	if err != nil {
		return nil, nil, err
	}
	return NewStorage(dotGit, cacheSize), root, nil
}
