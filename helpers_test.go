// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"testing"
)

// memSource is an in-memory ByteSource for tests.
type memSource []byte

func (m memSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m)) {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (m memSource) Size() (int64, error) { return int64(len(m)), nil }
func (m memSource) Close() error         { return nil }

// encryptWords is the forward direction of the MPQ table stream
// cipher, the exact mirror of decryptBlock. Production code never
// writes archives, so this exists only to build synthetic fixtures
// and to prove decryptBlock's self-inverse property in tests.
func encryptWords(data []uint32, key uint32) {
	seed := uint32(0xEEEEEEEE)

	for i := range data {
		seed += cryptTable[0x400+(key&0xFF)]
		plain := data[i]
		encrypted := plain ^ (key + seed)
		key = ((^key << 0x15) + 0x11111111) | (key >> 0x0B)
		seed = plain + seed + (seed << 5) + 3
		data[i] = encrypted
	}
}

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("zlib compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib compress close: %v", err)
	}
	return buf.Bytes()
}

// fileSpec describes one file to embed in a synthetic archive built
// by buildTestArchive.
type fileSpec struct {
	name          string
	data          []byte
	singleUnit    bool
	multiCompress bool
	deleteMarker  bool
}

const testSectorSize = 4096

// buildTestArchive assembles a complete, decryptable v0 MPQ archive
// in memory: header, sector-encoded file payloads, then the
// encrypted hash and block tables. It mirrors the on-disk layout
// table.go/sector.go expect, without depending on any of them.
func buildTestArchive(t *testing.T, specs []fileSpec) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(make([]byte, headerSizeV1))

	type builtFile struct {
		name           string
		filePos        uint32
		compressedSize uint32
		fileSize       uint32
		flags          uint32
	}
	built := make([]builtFile, 0, len(specs))

	for _, spec := range specs {
		filePos := uint32(buf.Len())
		fileSize := uint32(len(spec.data))
		flags := uint32(flagExists)
		if spec.deleteMarker {
			flags |= flagDeleteMarker
		}
		var compressedSize uint32

		switch {
		case spec.singleUnit && spec.multiCompress:
			flags |= flagSingleUnit | flagCompressedMask | flagMultiCompress
			payload := append([]byte{tagZlib}, zlibCompress(t, spec.data)...)
			buf.Write(payload)
			compressedSize = uint32(len(payload))

		case spec.singleUnit:
			flags |= flagSingleUnit
			buf.Write(spec.data)
			compressedSize = fileSize

		default:
			n := (fileSize + testSectorSize - 1) / testSectorSize
			if n == 0 {
				n = 1
			}
			if spec.multiCompress {
				flags |= flagCompressedMask | flagMultiCompress
			}

			var payload bytes.Buffer
			offsets := make([]uint32, n+1)
			for k := uint32(0); k < n; k++ {
				offsets[k] = uint32(payload.Len())
				start := k * testSectorSize
				end := start + testSectorSize
				if end > fileSize {
					end = fileSize
				}
				sector := spec.data[start:end]
				if spec.multiCompress {
					payload.WriteByte(tagZlib)
					payload.Write(zlibCompress(t, sector))
				} else {
					payload.Write(sector)
				}
			}
			offsets[n] = uint32(payload.Len())

			// Only compressed files carry an on-disk offset table;
			// sector.go synthesizes the offsets of uncompressed ones.
			if spec.multiCompress {
				for _, off := range offsets {
					var b [4]byte
					binary.LittleEndian.PutUint32(b[:], off)
					buf.Write(b[:])
				}
			}
			buf.Write(payload.Bytes())
			compressedSize = uint32(payload.Len())
			if spec.multiCompress {
				compressedSize += uint32(4 * len(offsets))
			}
		}

		built = append(built, builtFile{
			name: spec.name, filePos: filePos,
			compressedSize: compressedSize, fileSize: fileSize, flags: flags,
		})
	}

	hashSize := uint32(4)
	for hashSize < uint32(len(built))*2 {
		hashSize <<= 1
	}

	entries := make([]hashTableEntry, hashSize)
	for i := range entries {
		entries[i].BlockIndex = hashEmpty
	}
	for i, bf := range built {
		hA := hashString(bf.name, BankTableOffset)
		hB := hashString(bf.name, BankNameA)
		hC := hashString(bf.name, BankNameB)
		start := hA & (hashSize - 1)
		for j := uint32(0); j < hashSize; j++ {
			idx := (start + j) % hashSize
			if entries[idx].BlockIndex == hashEmpty {
				entries[idx] = hashTableEntry{HashB: hB, HashC: hC, BlockIndex: uint32(i)}
				break
			}
		}
	}

	hashTableOffset := uint32(buf.Len())
	hashWords := make([]uint32, hashSize*4)
	for i, e := range entries {
		hashWords[i*4] = e.HashB
		hashWords[i*4+1] = e.HashC
		hashWords[i*4+2] = uint32(e.Locale) | uint32(e.Platform)<<16
		hashWords[i*4+3] = e.BlockIndex
	}
	encryptWords(hashWords, hashString("(hash table)", BankFileKey))
	for _, w := range hashWords {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], w)
		buf.Write(b[:])
	}

	blockTableOffset := uint32(buf.Len())
	blockWords := make([]uint32, len(built)*4)
	for i, bf := range built {
		blockWords[i*4] = bf.filePos
		blockWords[i*4+1] = bf.compressedSize
		blockWords[i*4+2] = bf.fileSize
		blockWords[i*4+3] = bf.flags
	}
	encryptWords(blockWords, hashString("(block table)", BankFileKey))
	for _, w := range blockWords {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], w)
		buf.Write(b[:])
	}

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[0:4], magicArchive)
	binary.LittleEndian.PutUint32(data[4:8], headerSizeV1)
	binary.LittleEndian.PutUint32(data[8:12], uint32(len(data)))
	binary.LittleEndian.PutUint16(data[12:14], formatVersion1)
	binary.LittleEndian.PutUint16(data[14:16], defaultSectorSizeShift)
	binary.LittleEndian.PutUint32(data[16:20], hashTableOffset)
	binary.LittleEndian.PutUint32(data[20:24], blockTableOffset)
	binary.LittleEndian.PutUint32(data[24:28], hashSize)
	binary.LittleEndian.PutUint32(data[28:32], uint32(len(built)))

	return data
}
