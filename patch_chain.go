// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/duskvault/mpqkit/mpqerr"
)

// PatchMetadata is the parsed content of the optional
// "(patch_metadata)" special file.
type PatchMetadata struct {
	BaseMD5      [16]byte
	PatchMD5     [16]byte
	BaseFileSize uint32
}

// ReadPatchMetadata extracts and parses the "(patch_metadata)"
// special file.
func (a *Archive) ReadPatchMetadata() (*PatchMetadata, error) {
	data, err := a.ExtractBytes("(patch_metadata)")
	if err != nil {
		return nil, err
	}
	if len(data) < 36 {
		return nil, mpqerr.New(mpqerr.FormatError, op+".ReadPatchMetadata", "patch_metadata too small")
	}

	meta := &PatchMetadata{}
	copy(meta.BaseMD5[:], data[0:16])
	copy(meta.PatchMD5[:], data[16:32])
	meta.BaseFileSize = binary.LittleEndian.Uint32(data[32:36])
	return meta, nil
}

// PatchChain is a prioritized list of archives, highest priority last,
// the base-plus-patches layout used to resolve a file to the most
// recent version that supplies it.
type PatchChain struct {
	archives []*Archive
	metadata map[string]*PatchMetadata
}

// OpenPatchChain opens paths in increasing priority order.
func OpenPatchChain(paths []string) (*PatchChain, error) {
	archives := make([]*Archive, 0, len(paths))
	metadata := make(map[string]*PatchMetadata)

	for _, path := range paths {
		archive, err := Open(path)
		if err != nil {
			for _, opened := range archives {
				opened.Close()
			}
			return nil, err
		}
		archives = append(archives, archive)

		if meta, err := archive.ReadPatchMetadata(); err == nil {
			metadata[path] = meta
		}
	}

	return &PatchChain{archives: archives, metadata: metadata}, nil
}

// Close closes every archive in the chain, returning the first error
// encountered (if any) after attempting all of them.
func (p *PatchChain) Close() error {
	var firstErr error
	for _, archive := range p.archives {
		if err := archive.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ArchiveCount returns the number of archives in the chain.
func (p *PatchChain) ArchiveCount() int {
	return len(p.archives)
}

// Metadata returns the patch metadata recorded for archivePath, or
// nil if that archive carries none.
func (p *PatchChain) Metadata(archivePath string) *PatchMetadata {
	return p.metadata[archivePath]
}

// HasFile reports whether the highest-priority archive supplying
// mpqPath has it as a live, non-deleted entry.
func (p *PatchChain) HasFile(mpqPath string) bool {
	for i := len(p.archives) - 1; i >= 0; i-- {
		if p.archives[i].HasFile(mpqPath) {
			return true
		}
		if p.archives[i].IsDeleteMarker(mpqPath) {
			return false
		}
	}
	return false
}

// ExtractBytes returns the highest-priority version of mpqPath,
// honoring deletion markers in higher-priority archives.
func (p *PatchChain) ExtractBytes(mpqPath string) ([]byte, error) {
	for i := len(p.archives) - 1; i >= 0; i-- {
		archive := p.archives[i]
		if archive.IsDeleteMarker(mpqPath) {
			return nil, mpqerr.New(mpqerr.FileNotFound, op+".PatchChain.ExtractBytes", mpqPath)
		}
		if archive.HasFile(mpqPath) {
			return archive.ExtractBytes(mpqPath)
		}
	}
	return nil, mpqerr.New(mpqerr.FileNotFound, op+".PatchChain.ExtractBytes", mpqPath)
}

// ExtractFile is ExtractBytes followed by a write to destPath.
func (p *PatchChain) ExtractFile(mpqPath, destPath string) error {
	for i := len(p.archives) - 1; i >= 0; i-- {
		archive := p.archives[i]
		if archive.IsDeleteMarker(mpqPath) {
			return mpqerr.New(mpqerr.FileNotFound, op+".PatchChain.ExtractFile", mpqPath)
		}
		if archive.HasFile(mpqPath) {
			return archive.ExtractFile(mpqPath, destPath)
		}
	}
	return mpqerr.New(mpqerr.FileNotFound, op+".PatchChain.ExtractFile", mpqPath)
}

// HasPatchFile reports whether mpqPath is marked as a patch file in
// any archive, highest priority first.
func (p *PatchChain) HasPatchFile(mpqPath string) bool {
	for i := len(p.archives) - 1; i >= 0; i-- {
		if p.archives[i].IsPatchFile(mpqPath) {
			return true
		}
	}
	return false
}

// ListFiles returns the union of every archive's listfile, in
// first-seen order, deduplicated by canonicalized path.
func (p *PatchChain) ListFiles() ([]string, error) {
	seen := make(map[string]struct{})
	var result []string
	for _, archive := range p.archives {
		files, err := archive.ListFiles()
		if err != nil {
			continue
		}
		for _, file := range files {
			key := strings.ToLower(filepath.Clean(strings.ReplaceAll(file, "/", "\\")))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, file)
		}
	}
	if len(result) == 0 {
		return nil, mpqerr.New(mpqerr.FileNotFound, op+".PatchChain.ListFiles", "(listfile)")
	}
	return result, nil
}
