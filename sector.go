// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"
	"hash/adler32"

	"github.com/duskvault/mpqkit/mpqerr"
)

// readFile reads and decodes the full payload of the file whose
// block table entry is blockIdx: sector-offset reconstruction
// (on-disk, or synthesized when the file isn't compressed),
// per-sector compression-tag dispatch, and optional per-sector
// Adler-32 checksum verification.
func (a *Archive) readFile(blockIdx uint32) ([]byte, error) {
	block := &a.tables.block[blockIdx]

	if block.Flags&flagEncrypted != 0 {
		return nil, mpqerr.New(mpqerr.UnsupportedFeature, op+".readFile", "encrypted file payloads are not supported")
	}

	filePos := int64(a.tables.filePos64(blockIdx))
	sectorSize := a.header.sectorSize()
	single := block.Flags&flagSingleUnit != 0
	compressed := block.Flags&flagCompressedMask != 0
	multi := block.Flags&flagMultiCompress != 0
	hasChecksums := block.Flags&flagSectorChecksums != 0

	var n uint32 = 1
	if !single {
		n = (block.FileSize + sectorSize - 1) / sectorSize
		if n == 0 {
			n = 1
		}
	}

	offsets, checksums, err := a.readOffsets(filePos, n, block, single, compressed, hasChecksums)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, block.FileSize)
	for k := uint32(0); k < n; k++ {
		start, end := offsets[k], offsets[k+1]
		if end < start {
			return nil, mpqerr.New(mpqerr.FormatError, op+".readFile", "sector offsets out of order")
		}

		expected := sectorSize
		if single {
			expected = block.FileSize
		} else if k == n-1 {
			expected = block.FileSize - sectorSize*(n-1)
		}

		raw := make([]byte, end-start)
		if _, err := readFullAt(a.src, raw, filePos+int64(start)); err != nil {
			return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".readFile")
		}

		var sectorOut []byte
		switch {
		case multi:
			if uint32(len(raw)) == expected {
				// Producer skipped compression because it didn't help.
				sectorOut = raw
			} else {
				sectorOut, err = decompressSector(raw, expected)
				if err != nil {
					return nil, err
				}
			}
		case compressed:
			// compressed but not multi-compression: a bare PKWARE-implode blob.
			return nil, mpqerr.New(mpqerr.UnsupportedFeature, op+".readFile", "PKWARE implode is not supported")
		default:
			sectorOut = raw
		}

		if checksums != nil {
			if got := adler32.Checksum(sectorOut); got != checksums[k] {
				return nil, mpqerr.New(mpqerr.DecompressionError, op+".readFile", "sector checksum mismatch")
			}
		}

		out = append(out, sectorOut...)
	}

	return out, nil
}

// readOffsets builds the sector boundary vector (and, when present,
// the per-sector checksum vector) for one file.
func (a *Archive) readOffsets(filePos int64, n uint32, block *blockTableEntry, single, compressed, hasChecksums bool) ([]uint32, []uint32, error) {
	switch {
	case compressed && single:
		return []uint32{0, block.CompressedSize}, nil, nil

	case compressed && !single:
		entries := n + 1
		if hasChecksums {
			entries = n + 2
		}
		buf := make([]byte, int(entries)*4)
		if _, err := readFullAt(a.src, buf, filePos); err != nil {
			return nil, nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".readOffsets")
		}
		offsets := make([]uint32, entries)
		for i := range offsets {
			offsets[i] = binary.LittleEndian.Uint32(buf[i*4:])
		}

		if !hasChecksums {
			return offsets, nil, nil
		}

		checksumStart := int64(offsets[n])
		checksumEnd := int64(offsets[n+1])
		if checksumEnd < checksumStart {
			return nil, nil, mpqerr.New(mpqerr.FormatError, op+".readOffsets", "checksum block out of order")
		}
		checksumBuf := make([]byte, checksumEnd-checksumStart)
		if _, err := readFullAt(a.src, checksumBuf, filePos+checksumStart); err != nil {
			return nil, nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".readOffsets")
		}
		checksums := make([]uint32, n)
		for i := uint32(0); i < n && int(i)*4+4 <= len(checksumBuf); i++ {
			checksums[i] = binary.LittleEndian.Uint32(checksumBuf[i*4:])
		}
		return offsets[:n+1], checksums, nil

	default: // not compressed: synthesize the offset vector
		offsets := make([]uint32, n+1)
		for k := uint32(0); k < n; k++ {
			offsets[k] = k * a.header.sectorSize()
		}
		offsets[n] = block.CompressedSize
		return offsets, nil, nil
	}
}
