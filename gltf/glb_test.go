// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package gltf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	original := &GLB{
		Version: 2,
		Chunks: []Chunk{
			{Type: chunkTypeJSON, Data: []byte(`{"asset":{"version":"2.0"}}`)},
			{Type: chunkTypeBIN, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, original.Version, got.Version)
	require.Equal(t, original.JSON(), got.JSON())
	require.Equal(t, original.BIN(), got.BIN())
}

func TestRejectsBadMagic(t *testing.T) {
	data := []byte{'X', 'X', 'X', 'X', 2, 0, 0, 0, 20, 0, 0, 0}
	_, err := Read(bytes.NewReader(data))
	require.Error(t, err)
}

func TestRejectsTruncatedChunk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &GLB{
		Version: 2,
		Chunks:  []Chunk{{Type: chunkTypeJSON, Data: []byte(`{}`)}},
	}))

	truncated := buf.Bytes()[:buf.Len()-1] // lop off the last byte of chunk data

	_, err := Read(bytes.NewReader(truncated))
	require.Error(t, err)
}
