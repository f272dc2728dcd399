// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// mpqkitcat extracts a single file from an MPQ archive and, for
// recognized asset kinds, decodes it: BLP2/DXT1 textures are written
// out as PNG, GLB containers have their JSON chunk written out
// (indented when it parses as JSON). Anything else is written out as
// raw bytes. Output goes to -out, or to stdout when -out is empty.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	mpq "github.com/duskvault/mpqkit"
	"github.com/duskvault/mpqkit/blp"
	"github.com/duskvault/mpqkit/gltf"
)

func usage() {
	fmt.Fprintf(os.Stderr, `mpqkitcat extracts and decodes a file from an MPQ archive.

Usage:

	mpqkitcat -archive path.mpq -file "Textures\\foo.blp" -out path.png

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mpqkitcat:", err)
		os.Exit(1)
	}
}

func run() error {
	archivePath := flag.String("archive", "", "path to the MPQ archive")
	filePath := flag.String("file", "", "path of the file inside the archive")
	outPath := flag.String("out", "", "output path (defaults to stdout for raw/JSON output)")
	flag.Usage = usage
	flag.Parse()

	if *archivePath == "" || *filePath == "" {
		usage()
		os.Exit(2)
	}

	a, err := mpq.Open(*archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer a.Close()

	data, err := a.ExtractBytes(*filePath)
	if err != nil {
		return fmt.Errorf("extract %s: %w", *filePath, err)
	}

	switch strings.ToLower(filepath.Ext(*filePath)) {
	case ".blp":
		return decodeBLP(data, *outPath)
	case ".glb":
		return decodeGLB(data, *outPath)
	default:
		return writeOutput(data, *outPath)
	}
}

func decodeBLP(data []byte, outPath string) error {
	tex, err := blp.OpenBytes(data)
	if err != nil {
		return fmt.Errorf("parse BLP2 header: %w", err)
	}
	img, err := tex.Decode()
	if err != nil {
		return fmt.Errorf("decode DXT1 payload: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return writeOutput(buf.Bytes(), outPath)
}

func decodeGLB(data []byte, outPath string) error {
	glb, err := gltf.Read(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse GLB: %w", err)
	}

	raw := glb.JSON()
	if raw == nil {
		return fmt.Errorf("GLB has no JSON chunk")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return writeOutput(raw, outPath)
	}
	return writeOutput(pretty.Bytes(), outPath)
}

func writeOutput(data []byte, outPath string) error {
	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
