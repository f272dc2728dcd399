// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"

	"github.com/duskvault/mpqkit/mpqerr"
)

const (
	attributesVersion = 100

	attributesFlagCRC32    = 0x00000001
	attributesFlagTimes    = 0x00000002
	attributesFlagMD5      = 0x00000004
	attributesFlagPatchBit = 0x00000008
)

// Attributes is the parsed content of the optional "(attributes)"
// special file: per-block-table-entry metadata laid out as parallel
// arrays, one array per flag bit set in the header.
type Attributes struct {
	Version uint32
	Flags   uint32
	CRC32   []uint32 // present when Flags&attributesFlagCRC32 != 0
}

// ReadAttributes extracts and parses the "(attributes)" special file.
// Only the CRC32 sub-table, which starts right after the 8-byte
// version/flags prefix, is parsed; any FILETIME and MD5 sub-tables
// that follow it are not read.
func (a *Archive) ReadAttributes() (*Attributes, error) {
	data, err := a.ExtractBytes("(attributes)")
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, mpqerr.New(mpqerr.FormatError, op+".ReadAttributes", "attributes file too short")
	}

	attrs := &Attributes{
		Version: binary.LittleEndian.Uint32(data[0:4]),
		Flags:   binary.LittleEndian.Uint32(data[4:8]),
	}

	n := len(a.tables.block)
	offset := 8

	if attrs.Flags&attributesFlagCRC32 != 0 {
		need := offset + n*4
		if len(data) < need {
			return nil, mpqerr.New(mpqerr.FormatError, op+".ReadAttributes", "truncated crc32 table")
		}
		crc := make([]uint32, n)
		for i := 0; i < n; i++ {
			crc[i] = binary.LittleEndian.Uint32(data[offset+i*4:])
		}
		attrs.CRC32 = crc
	}

	return attrs, nil
}
