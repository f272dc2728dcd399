// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ExtractResult is one entry of an ExtractFilesParallel call.
type ExtractResult struct {
	Name string
	Data []byte
	Err  error
}

// ExtractFilesParallel resolves and decodes names concurrently. The
// ByteSource backing a is read through ReadAt, which carries no
// shared cursor, so concurrent lookups and sector reads need no
// external locking here. The first unrecoverable error (anything
// other than a per-file extraction failure) aborts the whole group
// and is also returned as err; individual file errors are instead
// reported through each result's Err field so the caller gets a
// partial result set for free.
func (a *Archive) ExtractFilesParallel(ctx context.Context, names []string) ([]ExtractResult, error) {
	results := make([]ExtractResult, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			data, err := a.ExtractBytes(name)
			results[i] = ExtractResult{Name: name, Data: data, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
