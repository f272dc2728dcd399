// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package blp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func dxt1Block(color0, color1 uint16, indices uint32) []byte {
	return []byte{
		byte(color0), byte(color0 >> 8),
		byte(color1), byte(color1 >> 8),
		byte(indices), byte(indices >> 8), byte(indices >> 16), byte(indices >> 24),
	}
}

// buildFixture synthesizes a 64x64 BLP2/DXT1 file whose top-left 4x4
// tile is the pure-red block from the known-answer DXT1 test, as
// scenario 5 describes.
func buildFixture(t *testing.T) []byte {
	t.Helper()

	const size = 64
	blocksPerSide := size / 4
	numBlocks := blocksPerSide * blocksPerSide
	payload := make([]byte, 0, numBlocks*8)
	payload = append(payload, dxt1Block(0xF800, 0x0000, 0)...) // first block: solid red
	for i := 1; i < numBlocks; i++ {
		payload = append(payload, dxt1Block(0x0000, 0x0000, 0)...) // solid black filler
	}

	header := make([]byte, headerSize)
	copy(header[0:4], magic)
	// FormatVersion = 1 at [4:8], already zero-able but set for realism.
	header[4] = 1
	header[8] = colorEncodingDXT1
	header[9] = alphaDepthOne
	header[10] = preferredFormatDXT1
	header[11] = 0 // mip_level_and_flag
	putU32(header[12:16], size)
	putU32(header[16:20], size)
	putU32(header[20:24], uint32(headerSize)) // mip_offsets[0]
	putU32(header[84:88], uint32(len(payload))) // mip_sizes[0]

	return append(header, payload...)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func TestOpenAndDecode(t *testing.T) {
	data := buildFixture(t)

	tex, err := OpenBytes(data)
	require.NoError(t, err)
	require.EqualValues(t, 64, tex.Header.Width)
	require.EqualValues(t, 64, tex.Header.Height)

	img, err := tex.Decode()
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := img.RGBAAt(x, y)
			require.Equal(t, uint8(255), c.R)
			require.Equal(t, uint8(0), c.G)
			require.Equal(t, uint8(0), c.B)
			require.Equal(t, uint8(255), c.A)
		}
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	data := buildFixture(t)
	data[0] = 'X'

	_, err := OpenBytes(data)
	require.Error(t, err)
}

func TestOpenRejectsNonDXT1(t *testing.T) {
	data := buildFixture(t)
	data[8] = 1 // color_encoding = palettized, not DXT1

	_, err := OpenBytes(data)
	require.Error(t, err)
}
