// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"

	"github.com/duskvault/mpqkit/mpqerr"
)

// Signature holds the parsed content of the optional "(signature)"
// special file.
type Signature struct {
	Version   uint32
	Signature []byte
}

// ReadSignature extracts and parses the "(signature)" special file.
// It returns mpqerr.FileNotFound if the archive carries no signature
// — most archives don't.
func (a *Archive) ReadSignature() (*Signature, error) {
	data, err := a.ExtractBytes("(signature)")
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, mpqerr.New(mpqerr.FormatError, op+".ReadSignature", "signature data too small")
	}

	version := binary.LittleEndian.Uint32(data[0:4])
	sigLength := binary.LittleEndian.Uint32(data[4:8])
	if uint64(len(data)) < 8+uint64(sigLength) {
		return nil, mpqerr.New(mpqerr.FormatError, op+".ReadSignature", "signature data truncated")
	}

	sig := make([]byte, sigLength)
	copy(sig, data[8:8+sigLength])

	return &Signature{Version: version, Signature: sig}, nil
}

// Validate performs the structural checks a signature's version
// implies (size-only; this module does not carry Blizzard's public
// keys and so cannot perform the RSA/DSA verification itself).
func (s *Signature) Validate() error {
	if s == nil {
		return mpqerr.New(mpqerr.FormatError, op+".Validate", "no signature available")
	}
	switch s.Version {
	case 0: // weak signature
		if len(s.Signature) < 64 {
			return mpqerr.New(mpqerr.FormatError, op+".Validate", "weak signature too short")
		}
	case 1: // strong signature
		if len(s.Signature) < 256 {
			return mpqerr.New(mpqerr.FormatError, op+".Validate", "strong signature too short")
		}
	default:
		return mpqerr.New(mpqerr.UnsupportedFeature, op+".Validate", "unknown signature version")
	}
	return nil
}
