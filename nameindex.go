// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	art "github.com/plar/go-adaptive-radix-tree/v2"
)

// nameIndex is an adaptive radix tree mapping canonicalized paths to
// block table indices, built once from a listfile so repeated
// prefix/exact lookups by name don't re-hash and re-probe the MPQ
// hash table.
type nameIndex struct {
	tree art.Tree
}

// BuildNameIndex reads the archive's listfile and indexes every entry
// it can still resolve, skipping names the listfile mentions but the
// archive no longer carries (a common occurrence in stripped
// archives). It replaces any index built by a previous call.
func (a *Archive) BuildNameIndex() error {
	names, err := a.ListFiles()
	if err != nil {
		return err
	}

	tree := art.New()
	for _, name := range names {
		idx, err := a.lookup(name)
		if err != nil {
			continue
		}
		tree.Insert(art.Key(canonicalPath(name)), idx)
	}

	a.index = &nameIndex{tree: tree}
	return nil
}

// LookupIndexed resolves name through the name index built by
// BuildNameIndex, falling back to the hash table walk in lookup if no
// index has been built yet.
func (a *Archive) LookupIndexed(name string) (uint32, error) {
	if a.index == nil {
		return a.lookup(name)
	}
	if v, found := a.index.tree.Search(art.Key(canonicalPath(name))); found {
		return v.(uint32), nil
	}
	return a.lookup(name)
}

// FilesWithPrefix returns every indexed name (in its canonicalized,
// upper-cased form) whose path starts with prefix. BuildNameIndex
// must have been called first; it returns nil otherwise.
func (a *Archive) FilesWithPrefix(prefix string) []string {
	if a.index == nil {
		return nil
	}

	var out []string
	a.index.tree.ForEachPrefix(art.Key(canonicalPath(prefix)), func(n art.Node) bool {
		if n.Kind() == art.Leaf {
			out = append(out, string(n.Key()))
		}
		return true
	})
	return out
}
