// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"

	"github.com/duskvault/mpqkit/mpqerr"
)

// tables holds the materialized hash table, block table, and the
// per-entry high file-position words from the optional v2 hi-block
// table, plus the derived live-block index vector.
type tables struct {
	hash             []hashTableEntry
	block            []blockTableEntry
	blockPosHigh     []uint16 // len(block) if a hi-block table was present, else nil
	liveBlockIndices []uint32
}

// filePos64 returns the full file position of block table entry i,
// folding in the hi-block table word when present.
func (t *tables) filePos64(i uint32) uint64 {
	pos := uint64(t.block[i].FilePosition)
	if t.blockPosHigh != nil {
		pos |= uint64(t.blockPosHigh[i]) << 32
	}
	return pos
}

// loadTables reads, decrypts, and materializes the hash and block
// tables described by h, then builds the live-block index.
func loadTables(src ByteSource, h *header) (*tables, error) {
	hashWords, err := readEncryptedWords(src, h.hashTableOffset64(), h.HashTableEntries*4, hashString("(hash table)", BankFileKey))
	if err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".loadTables")
	}

	hashTable := make([]hashTableEntry, h.HashTableEntries)
	for i := range hashTable {
		hashTable[i] = hashTableEntry{
			HashB:      hashWords[i*4],
			HashC:      hashWords[i*4+1],
			Locale:     uint16(hashWords[i*4+2]),
			Platform:   uint16(hashWords[i*4+2] >> 16),
			BlockIndex: hashWords[i*4+3],
		}
	}

	blockWords, err := readEncryptedWords(src, h.blockTableOffset64(), h.BlockTableEntries*4, hashString("(block table)", BankFileKey))
	if err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".loadTables")
	}

	blockTable := make([]blockTableEntry, h.BlockTableEntries)
	for i := range blockTable {
		blockTable[i] = blockTableEntry{
			FilePosition:   blockWords[i*4],
			CompressedSize: blockWords[i*4+1],
			FileSize:       blockWords[i*4+2],
			Flags:          blockWords[i*4+3],
		}
	}

	t := &tables{hash: hashTable, block: blockTable}

	if h.hasExtended && h.ExtendedBlockTableOffset != 0 {
		hiBuf := make([]byte, int(h.BlockTableEntries)*2)
		if _, err := readFullAt(src, hiBuf, int64(h.ExtendedBlockTableOffset)); err != nil {
			return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".loadTables")
		}
		hi := make([]uint16, h.BlockTableEntries)
		for i := range hi {
			hi[i] = binary.LittleEndian.Uint16(hiBuf[i*2:])
		}
		t.blockPosHigh = hi
	}

	for i, b := range blockTable {
		if b.Flags&flagExists != 0 {
			t.liveBlockIndices = append(t.liveBlockIndices, uint32(i))
		}
	}

	return t, nil
}

// readEncryptedWords reads count little-endian uint32 words starting
// at off and decrypts them in place with key.
func readEncryptedWords(src ByteSource, off uint64, count uint32, key uint32) ([]uint32, error) {
	buf := make([]byte, int(count)*4)
	if _, err := readFullAt(src, buf, int64(off)); err != nil {
		return nil, err
	}

	words := make([]uint32, count)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	decryptBlock(words, key)
	return words, nil
}
