// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"
	"io"

	"github.com/duskvault/mpqkit/mpqerr"
)

const op = "mpq"

// readHeader reads and validates the fixed-layout MPQ header from the
// start of src. It does not scan for an embedded header at a later
// offset — user-data-wrapped archives (magic "MPQ\x1B") are
// recognized but explicitly unsupported, since user-data handling is
// out of this module's scope.
func readHeader(src ByteSource) (*header, error) {
	buf := make([]byte, headerSizeV1)
	if _, err := readFullAt(src, buf, 0); err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".readHeader")
	}

	var h header
	r := byteReader{buf: buf}
	if err := binary.Read(&r, binary.LittleEndian, &h.baseHeader); err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".readHeader")
	}

	switch h.Magic {
	case magicArchive:
		// fall through
	case magicUserData:
		return nil, mpqerr.New(mpqerr.UnsupportedFeature, op+".readHeader", "user-data wrapper header not supported")
	default:
		return nil, mpqerr.New(mpqerr.FormatError, op+".readHeader", "bad magic")
	}

	if h.HashTableEntries != 0 && h.HashTableEntries&(h.HashTableEntries-1) != 0 {
		return nil, mpqerr.New(mpqerr.FormatError, op+".readHeader", "hash table entry count is not a power of two")
	}

	if h.FormatVersion >= formatVersion2 && h.HeaderSize >= headerSizeV2 {
		extBuf := make([]byte, headerSizeV2-headerSizeV1)
		if _, err := readFullAt(src, extBuf, int64(headerSizeV1)); err != nil {
			return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".readHeader")
		}
		er := byteReader{buf: extBuf}
		if err := binary.Read(&er, binary.LittleEndian, &h.extendedHeader); err != nil {
			return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".readHeader")
		}
		h.hasExtended = true
	}

	return &h, nil
}

// byteReader adapts a fully-buffered slice to io.Reader for
// encoding/binary, so readHeader only needs one ReadAt per segment.
type byteReader struct {
	buf []byte
	pos int
}

func (b *byteReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += n
	return n, nil
}

// readFullAt reads exactly len(p) bytes from src at off, translating
// a short read into io.ErrUnexpectedEOF like io.ReadFull would.
func readFullAt(src ByteSource, p []byte, off int64) (int, error) {
	n, err := src.ReadAt(p, off)
	if err == nil && n < len(p) {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}
