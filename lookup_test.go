// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildArchiveWithDeletedSlot constructs a single-file archive whose
// hash table places a hashDeleted sentinel entry at the file's natural
// probe-start slot, with the file's real entry one slot further along.
// This exercises the requirement that a deleted entry doesn't terminate
// probing the way an empty entry does.
func buildArchiveWithDeletedSlot(t *testing.T, name string, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(make([]byte, headerSizeV1))

	filePos := uint32(buf.Len())
	buf.Write(content)
	fileSize := uint32(len(content))

	const hashSize = 4
	hashA := hashString(name, BankTableOffset)
	hashB := hashString(name, BankNameA)
	hashC := hashString(name, BankNameB)
	start := hashA & (hashSize - 1)
	deletedSlot := start
	realSlot := (start + 1) % hashSize

	entries := make([]hashTableEntry, hashSize)
	for i := range entries {
		entries[i].BlockIndex = hashEmpty
	}
	entries[deletedSlot].BlockIndex = hashDeleted
	entries[realSlot] = hashTableEntry{HashB: hashB, HashC: hashC, BlockIndex: 0}

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
	blockWords := []uint32{filePos, fileSize, fileSize, flagExists | flagSingleUnit}
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
	binary.LittleEndian.PutUint32(data[28:32], 1)

	return data
}

func TestLookupSkipsDeletedEntries(t *testing.T) {
	content := []byte("content behind a deleted-slot probe")
	data := buildArchiveWithDeletedSlot(t, "Data\\Real.txt", content)

	a, err := OpenSource(memSource(data))
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer a.Close()

	idx, err := a.lookup("Data\\Real.txt")
	if err != nil {
		t.Fatalf("lookup should probe past a deleted entry, got: %v", err)
	}
	if idx != 0 {
		t.Fatalf("lookup resolved to block index %d, want 0", idx)
	}

	got, err := a.ExtractBytes("Data\\Real.txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("got %q, want %q", got, content)
	}
}

func TestLookupEmptyEntryTerminatesProbe(t *testing.T) {
	// No file at all: every slot is hashEmpty, so the very first probe
	// slot must terminate the search immediately.
	data := buildTestArchive(t, nil)

	a, err := OpenSource(memSource(data))
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer a.Close()

	if _, err := a.lookup("Data\\Anything.txt"); err == nil {
		t.Fatal("expected FileNotFound when every hash slot is empty")
	}
}
