// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"bytes"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zlib"

	"github.com/duskvault/mpqkit/mpqerr"
)

// Compression tag bytes, the first byte of a multi-compression
// sector. These are the only two this module understands; any other
// value is InvalidCompressionTag.
const (
	tagZlib  = 0x02
	tagBzip2 = 0x03
)

// decompressSector dispatches on the multi-compression tag byte and
// returns exactly uncompressedSize bytes.
func decompressSector(data []byte, uncompressedSize uint32) ([]byte, error) {
	if len(data) == 0 {
		return nil, mpqerr.New(mpqerr.DecompressionError, op+".decompressSector", "empty sector")
	}

	tag := data[0]
	payload := data[1:]

	switch tag {
	case tagZlib:
		return decompressZlib(payload, uncompressedSize)
	case tagBzip2:
		return decompressBzip2(payload, uncompressedSize)
	default:
		return nil, mpqerr.New(mpqerr.InvalidCompressionTag, op+".decompressSector", "unrecognized compression tag")
	}
}

func decompressZlib(data []byte, uncompressedSize uint32) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.DecompressionError, op+".decompressZlib")
	}
	defer r.Close()

	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF {
		return nil, mpqerr.Wrap(err, mpqerr.DecompressionError, op+".decompressZlib")
	}
	if n != int(uncompressedSize) {
		return nil, mpqerr.New(mpqerr.DecompressionError, op+".decompressZlib", "decompressed length does not match declared sector size")
	}
	return out, nil
}

func decompressBzip2(data []byte, uncompressedSize uint32) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.DecompressionError, op+".decompressBzip2")
	}
	defer r.Close()

	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF {
		return nil, mpqerr.Wrap(err, mpqerr.DecompressionError, op+".decompressBzip2")
	}
	if n != int(uncompressedSize) {
		return nil, mpqerr.New(mpqerr.DecompressionError, op+".decompressBzip2", "decompressed length does not match declared sector size")
	}
	return out, nil
}
