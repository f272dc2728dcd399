// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

/*
Package mpq provides pure Go support for reading MPQ (Mo'PaQ) archives.

MPQ is an archive format created by Blizzard Entertainment, used in games like
Diablo, StarCraft, and World of Warcraft. This package reads MPQ format
versions 1 and 2 (format v3/v4 Het/Bet tables are not supported).

# Features

  - Pure Go read path - no CGO
  - Zlib and bzip2 sector decompression
  - File- and mmap-backed byte sources, with optional parallel extraction
  - Read-only patch chains, plus the (signature) and (attributes) special files

# Basic Usage

	archive, err := mpq.Open("game.mpq")
	if err != nil {
		log.Fatal(err)
	}
	defer archive.Close()

	if archive.HasFile("Data\\file.txt") {
		data, err := archive.ExtractBytes("Data\\file.txt")
		if err != nil {
			log.Fatal(err)
		}
		_ = data
	}

# Path Conventions

MPQ archives use backslash (\) as the path separator. This package automatically
converts forward slashes to backslashes, so both formats work:

	archive.ExtractBytes("Data\\SubDir\\file.txt")  // Native MPQ format
	archive.ExtractBytes("Data/SubDir/file.txt")    // Also works

# Limitations

  - No support for MPQ writing/creation
  - No support for encrypted file payloads (only hash/block table encryption)
  - No support for PKWare implode compression
  - No support for ADPCM audio or LZMA/Sparse compression
  - No support for MPQ format V3/V4 (Cataclysm+) Het/Bet tables
*/
package mpq
