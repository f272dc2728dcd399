// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "github.com/duskvault/mpqkit/mpqerr"

// lookup resolves name to its block table entry by linear-probing the
// hash table. The matched hash entry's BlockIndex is used directly as
// a block-table index — not routed through the live-block-index
// vector, which this package keeps only for enumeration (table.go,
// archive.go).
//
// Locale and platform are deliberately not filtered: the first
// matching (HashB, HashC) pair wins regardless of locale, a known,
// intentional limitation.
func (a *Archive) lookup(name string) (uint32, error) {
	name = canonicalPath(name)

	hashA := hashString(name, BankTableOffset)
	hashB := hashString(name, BankNameA)
	hashC := hashString(name, BankNameB)

	size := a.header.HashTableEntries
	if size == 0 {
		return 0, mpqerr.New(mpqerr.FileNotFound, op+".lookup", name)
	}
	start := hashA & (size - 1)

	for i := uint32(0); i < size; i++ {
		idx := (start + i) % size
		entry := &a.tables.hash[idx]

		if entry.BlockIndex == hashEmpty {
			break
		}
		if entry.BlockIndex == hashDeleted {
			continue
		}
		if entry.HashB == hashB && entry.HashC == hashC {
			if entry.BlockIndex >= uint32(len(a.tables.block)) {
				continue
			}
			block := &a.tables.block[entry.BlockIndex]
			if block.Flags&flagExists != 0 {
				return entry.BlockIndex, nil
			}
		}
	}

	return 0, mpqerr.New(mpqerr.FileNotFound, op+".lookup", name)
}

// canonicalPath applies the same normalization the hasher applies
// internally, so callers can compare/display the exact key a lookup
// will hash.
func canonicalPath(name string) string {
	buf := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 0x20
		}
		if ch == '/' {
			ch = '\\'
		}
		buf[i] = ch
	}
	return string(buf)
}
