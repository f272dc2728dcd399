// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/duskvault/mpqkit/mpqerr"
)

// Archive is a read-only view over an MPQ archive's tables and the
// byte source they describe. Its tables and live-block index are
// materialized once, eagerly, at construction, and never mutated
// afterward; the only mutable shared resource is the backing
// ByteSource, which the Archive borrows rather than owns.
type Archive struct {
	src    ByteSource
	header *header
	tables *tables
	index  *nameIndex // optional, built by BuildNameIndex
}

// Open opens path as a file-backed archive.
func Open(path string) (*Archive, error) {
	src, err := OpenFile(path)
	if err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".Open")
	}
	a, err := OpenSource(src)
	if err != nil {
		src.Close()
		return nil, err
	}
	return a, nil
}

// OpenSource builds an Archive over an already-open ByteSource. The
// Archive takes no ownership of src; the caller must Close it (or
// call Archive.Close, which forwards to it) when done.
func OpenSource(src ByteSource) (*Archive, error) {
	h, err := readHeader(src)
	if err != nil {
		return nil, err
	}
	if h.FormatVersion > formatVersion2 {
		return nil, mpqerr.New(mpqerr.UnsupportedFeature, op+".OpenSource", "format version beyond v2 is not supported")
	}

	t, err := loadTables(src, h)
	if err != nil {
		return nil, err
	}

	return &Archive{src: src, header: h, tables: t}, nil
}

// Close releases the archive's backing byte source.
func (a *Archive) Close() error {
	return a.src.Close()
}

// FileCount returns the number of live (exists-flagged) block table
// entries.
func (a *Archive) FileCount() int {
	return len(a.tables.liveBlockIndices)
}

// HasFile reports whether name resolves to a live, non-deleted-marker
// entry.
func (a *Archive) HasFile(name string) bool {
	idx, err := a.lookup(name)
	if err != nil {
		return false
	}
	return a.tables.block[idx].Flags&flagDeleteMarker == 0
}

// IsDeleteMarker reports whether name is present but marked as a
// deletion marker (used by patch archives; see patch_chain.go).
func (a *Archive) IsDeleteMarker(name string) bool {
	idx, err := a.lookup(name)
	if err != nil {
		return false
	}
	return a.tables.block[idx].Flags&flagDeleteMarker != 0
}

// IsPatchFile reports whether name is marked as a patch file.
func (a *Archive) IsPatchFile(name string) bool {
	idx, err := a.lookup(name)
	if err != nil {
		return false
	}
	return a.tables.block[idx].Flags&flagPatchFile != 0
}

// ExtractBytes resolves name and returns its fully decoded payload.
func (a *Archive) ExtractBytes(name string) ([]byte, error) {
	idx, err := a.lookup(name)
	if err != nil {
		return nil, err
	}
	return a.readFile(idx)
}

// ExtractFile resolves name and writes its decoded payload to
// destPath, creating parent directories as needed. Output-path
// canonicalization beyond that is left to the caller.
func (a *Archive) ExtractFile(name, destPath string) error {
	data, err := a.ExtractBytes(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return mpqerr.Wrap(err, mpqerr.ReadError, op+".ExtractFile")
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return mpqerr.Wrap(err, mpqerr.ReadError, op+".ExtractFile")
	}
	return nil
}

// ListFiles extracts and parses the special "(listfile)" entry, one
// path per line. It returns mpqerr.FileNotFound if the archive has no
// listfile — many archives don't ship one.
func (a *Archive) ListFiles() ([]string, error) {
	data, err := a.ExtractBytes("(listfile)")
	if err != nil {
		return nil, err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	var files []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
