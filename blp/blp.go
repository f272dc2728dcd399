// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// Package blp reads the BLP2 texture container, the fixed-header
// format used for DXT1-compressed game textures, and decodes its
// base mip level via the dxt1 package.
package blp

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/go-restruct/restruct"

	"github.com/duskvault/mpqkit/dxt1"
	"github.com/duskvault/mpqkit/mpqerr"
)

const (
	magic = "BLP2"

	colorEncodingDXT1   = 2
	preferredFormatDXT1 = 0
	alphaDepthNone      = 0
	alphaDepthOne       = 1
	headerSize          = 148
	mipLevelCount       = 16
)

const op = "blp"

// Header is the fixed 148-byte BLP2 header.
type Header struct {
	Magic           [4]byte                `struct:"[4]byte"`
	FormatVersion   uint32                 `struct:"uint32"`
	ColorEncoding   uint8                  `struct:"uint8"`
	AlphaDepth      uint8                  `struct:"uint8"`
	PreferredFormat uint8                  `struct:"uint8"`
	MipLevelAndFlag uint8                  `struct:"uint8"`
	Width           uint32                 `struct:"uint32"`
	Height          uint32                 `struct:"uint32"`
	MipOffsets      [mipLevelCount]uint32  `struct:"[16]uint32"`
	MipSizes        [mipLevelCount]uint32  `struct:"[16]uint32"`
}

// Texture is a parsed BLP2 file: its header plus the raw bytes it was
// read from. Only mip 0 is decoded, by Decode; the raw bytes are not
// exposed.
type Texture struct {
	Header Header
	data   []byte
}

// Open reads the fixed header from r and validates that the texture
// is DXT1-encoded with a supported alpha depth.
func Open(r io.ReaderAt) (*Texture, error) {
	buf := make([]byte, headerSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".Open")
	}

	var h Header
	if err := restruct.Unpack(buf, binary.LittleEndian, &h); err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.FormatError, op+".Open")
	}
	if string(h.Magic[:]) != magic {
		return nil, mpqerr.New(mpqerr.FormatError, op+".Open", "bad BLP2 magic")
	}
	if h.ColorEncoding != colorEncodingDXT1 || h.PreferredFormat != preferredFormatDXT1 {
		return nil, mpqerr.New(mpqerr.UnsupportedFeature, op+".Open", "only DXT1-encoded BLP2 textures are supported")
	}
	if h.AlphaDepth != alphaDepthNone && h.AlphaDepth != alphaDepthOne {
		return nil, mpqerr.New(mpqerr.UnsupportedFeature, op+".Open", "unsupported alpha depth")
	}

	size, err := sizeOf(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".Open")
	}

	return &Texture{Header: h, data: data}, nil
}

// OpenBytes is a convenience wrapper for Open over an in-memory
// buffer, the common case when the texture was just extracted from
// an MPQ archive.
func OpenBytes(data []byte) (*Texture, error) {
	return Open(byteReaderAt(data))
}

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (b byteReaderAt) Size() (int64, error) { return int64(len(b)), nil }

func sizeOf(r io.ReaderAt) (int64, error) {
	if s, ok := r.(interface{ Size() (int64, error) }); ok {
		return s.Size()
	}
	return 0, mpqerr.New(mpqerr.UnsupportedFeature, op+".sizeOf", "byte source does not report its size")
}

// Decode decodes mip level 0 into an RGBA8888 image.
func (t *Texture) Decode() (*image.RGBA, error) {
	offset := t.Header.MipOffsets[0]
	size := t.Header.MipSizes[0]
	if uint64(offset)+uint64(size) > uint64(len(t.data)) {
		return nil, mpqerr.New(mpqerr.FormatError, op+".Decode", "mip 0 extent exceeds file size")
	}

	payload := t.data[offset : offset+size]
	img, err := dxt1.Decode(payload, int(t.Header.Width), int(t.Header.Height))
	if err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.FormatError, op+".Decode")
	}
	return img, nil
}
