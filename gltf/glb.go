// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// Package gltf reads the binary glTF (GLB) container: a 12-byte
// header followed by a sequence of typed, length-prefixed chunks.
// Chunk content (JSON scene description, binary buffer data) is
// returned as raw bytes; unmarshaling the JSON chunk is the caller's
// job, using encoding/json.
package gltf

import (
	"encoding/binary"
	"io"

	"github.com/duskvault/mpqkit/mpqerr"
)

const (
	magic         = 0x46546C67 // "glTF" little-endian
	chunkTypeJSON = 0x4E4F534A // "JSON"
	chunkTypeBIN  = 0x004E4942 // "BIN\x00"
)

const op = "gltf"

// Chunk is one typed, length-prefixed section of a GLB file.
type Chunk struct {
	Type uint32
	Data []byte
}

// IsJSON reports whether c is the JSON chunk.
func (c Chunk) IsJSON() bool { return c.Type == chunkTypeJSON }

// IsBIN reports whether c is the binary buffer chunk.
func (c Chunk) IsBIN() bool { return c.Type == chunkTypeBIN }

// GLB is a parsed binary glTF container.
type GLB struct {
	Version uint32
	Length  uint32
	Chunks  []Chunk
}

// JSON returns the JSON chunk's raw bytes, or nil if none is present.
func (g *GLB) JSON() []byte {
	for _, c := range g.Chunks {
		if c.IsJSON() {
			return c.Data
		}
	}
	return nil
}

// BIN returns the binary buffer chunk's raw bytes, or nil if none is
// present.
func (g *GLB) BIN() []byte {
	for _, c := range g.Chunks {
		if c.IsBIN() {
			return c.Data
		}
	}
	return nil
}

// Read parses a GLB stream from r.
func Read(r io.Reader) (*GLB, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".Read")
	}

	if binary.LittleEndian.Uint32(hdr[0:4]) != magic {
		return nil, mpqerr.New(mpqerr.FormatError, op+".Read", "bad GLB magic")
	}

	glb := &GLB{
		Version: binary.LittleEndian.Uint32(hdr[4:8]),
		Length:  binary.LittleEndian.Uint32(hdr[8:12]),
	}

	for {
		var chunkHdr [8]byte
		_, err := io.ReadFull(r, chunkHdr[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, mpqerr.Wrap(err, mpqerr.ReadError, op+".Read")
		}

		chunkLength := binary.LittleEndian.Uint32(chunkHdr[0:4])
		chunkType := binary.LittleEndian.Uint32(chunkHdr[4:8])

		data := make([]byte, chunkLength)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, mpqerr.Wrap(err, mpqerr.FormatError, op+".Read")
		}

		glb.Chunks = append(glb.Chunks, Chunk{Type: chunkType, Data: data})
	}

	return glb, nil
}

// Write serializes glb back into the 12-byte-header-plus-chunks wire
// format, recomputing Length from the chunks actually present. It
// exists mainly to support round-trip testing of Read.
func Write(w io.Writer, glb *GLB) error {
	total := uint32(12)
	for _, c := range glb.Chunks {
		total += 8 + uint32(len(c.Data))
	}

	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:4], magic)
	binary.LittleEndian.PutUint32(hdr[4:8], glb.Version)
	binary.LittleEndian.PutUint32(hdr[8:12], total)
	if _, err := w.Write(hdr[:]); err != nil {
		return mpqerr.Wrap(err, mpqerr.ReadError, op+".Write")
	}

	for _, c := range glb.Chunks {
		var chunkHdr [8]byte
		binary.LittleEndian.PutUint32(chunkHdr[0:4], uint32(len(c.Data)))
		binary.LittleEndian.PutUint32(chunkHdr[4:8], c.Type)
		if _, err := w.Write(chunkHdr[:]); err != nil {
			return mpqerr.Wrap(err, mpqerr.ReadError, op+".Write")
		}
		if _, err := w.Write(c.Data); err != nil {
			return mpqerr.Wrap(err, mpqerr.ReadError, op+".Write")
		}
	}

	return nil
}
