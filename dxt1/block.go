// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// Package dxt1 decodes the DXT1 (BC1) block texture compression
// format into an RGBA8888 image. It is decoupled from any container
// format: callers hand it a raw stream of 8-byte blocks and a target
// size.
package dxt1

import (
	"fmt"
	"image"
	"image/color"

	"github.com/duskvault/mpqkit/mpqerr"
)

const blockSize = 8

// Decode reads width/4 * height/4 8-byte blocks from data, row-major,
// and produces an *image.RGBA. width and height must both be
// multiples of 4; non-multiples are the caller's responsibility to
// pad and crop.
func Decode(data []byte, width, height int) (*image.RGBA, error) {
	if width%4 != 0 || height%4 != 0 {
		return nil, mpqerr.New(mpqerr.FormatError, "dxt1.Decode", fmt.Sprintf("width and height must be multiples of 4, got %dx%d", width, height))
	}

	blocksX := width / 4
	blocksY := height / 4
	need := blocksX * blocksY * blockSize
	if len(data) < need {
		return nil, mpqerr.New(mpqerr.FormatError, "dxt1.Decode", fmt.Sprintf("need %d bytes, got %d", need, len(data)))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	pos := 0
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			decodeBlock(data[pos:pos+blockSize], img, bx*4, by*4)
			pos += blockSize
		}
	}

	return img, nil
}

// decodeBlock decodes one 4x4 block into img at pixel origin (ox, oy).
func decodeBlock(block []byte, img *image.RGBA, ox, oy int) {
	color0Raw := uint16(block[0]) | uint16(block[1])<<8
	color1Raw := uint16(block[2]) | uint16(block[3])<<8
	indices := uint32(block[4]) | uint32(block[5])<<8 | uint32(block[6])<<16 | uint32(block[7])<<24

	palette := buildPalette(color0Raw, color1Raw)

	for sy := 0; sy < 4; sy++ {
		for sx := 0; sx < 4; sx++ {
			k := sy*4 + sx
			selector := (indices >> uint(2*k)) & 0x3
			c := palette[selector]
			img.SetRGBA(ox+sx, oy+sy, color.RGBA{R: c.r, G: c.g, B: c.b, A: c.a})
		}
	}
}

func buildPalette(color0Raw, color1Raw uint16) [4]rgba {
	c0 := expand565(color0Raw)
	c1 := expand565(color1Raw)

	var p [4]rgba
	p[0] = c0
	p[1] = c1

	if color0Raw > color1Raw {
		p[2] = lerp(c0, c1, 1, 3)
		p[3] = lerp(c0, c1, 2, 3)
	} else {
		p[2] = lerp(c0, c1, 1, 2)
		p[3] = rgba{0, 0, 0, 0}
	}

	return p
}

type rgba struct {
	r, g, b, a uint8
}

func expand565(v uint16) rgba {
	r5 := (v >> 11) & 0x1F
	g6 := (v >> 5) & 0x3F
	b5 := v & 0x1F

	r8 := uint8((r5 << 3) | (r5 >> 2))
	g8 := uint8((g6 << 2) | (g6 >> 4))
	b8 := uint8((b5 << 3) | (b5 >> 2))

	return rgba{r8, g8, b8, 255}
}

// lerp computes round(a*(1-t) + b*t) per channel where t = num/den,
// keeping alpha at 255.
func lerp(a, b rgba, num, den int) rgba {
	mix := func(av, bv uint8) uint8 {
		v := (int(av)*(den-num) + int(bv)*num + den/2) / den
		return uint8(v)
	}
	return rgba{mix(a.r, b.r), mix(a.g, b.g), mix(a.b, b.b), 255}
}
