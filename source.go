// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ByteSource is the small behavioural trait an Archive reads through.
// ReadAt is pread-style: it carries no shared cursor, so a single
// ByteSource can safely service concurrent ExtractFile calls (see
// parallel.go) without the external synchronization a seek-then-read
// cursor would need.
type ByteSource interface {
	ReadAt(p []byte, off int64) (int, error)
	Size() (int64, error)
	Close() error
}

// fileSource is a ByteSource backed by an *os.File.
type fileSource struct {
	f *os.File
}

// OpenFile opens path as a file-backed ByteSource.
func OpenFile(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &fileSource{f: f}, nil
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }

func (s *fileSource) Size() (int64, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (s *fileSource) Close() error { return s.f.Close() }

// mmapSource is a ByteSource backed by a read-only memory mapping of
// the whole archive, via github.com/edsrzf/mmap-go.
type mmapSource struct {
	f *os.File
	m mmap.MMap
}

// OpenMmap memory-maps path read-only as a ByteSource. It is a drop-in
// replacement for OpenFile when the archive is read repeatedly (the
// OS page cache backs every subsequent read) or when many goroutines
// extract files from it concurrently.
func OpenMmap(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &mmapSource{f: f, m: m}, nil
}

func (s *mmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(s.m)) {
		return 0, os.ErrInvalid
	}
	n := copy(p, s.m[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (s *mmapSource) Size() (int64, error) { return int64(len(s.m)), nil }

func (s *mmapSource) Close() error {
	if err := s.m.Unmap(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
