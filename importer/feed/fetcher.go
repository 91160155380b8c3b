// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package feed reads customer feeds and imports them through the pipeline.
package feed

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/sphereio/customer-import/importer/validator"
)

// StdinPath makes a fetcher read the feed from standard input.
const StdinPath = "-"

// decoder turns a feed stream into records. A yielded error for a single
// record does not end the sequence.
type decoder func(r io.Reader) iter.Seq2[validator.Raw, error]

// Fetcher implements the pipeline.Fetcher interface for feed files.
type Fetcher struct {
	path   string
	stdin  io.Reader
	decode decoder
}

func newFetcher(path string, decode decoder) *Fetcher {
	return &Fetcher{
		path:   path,
		stdin:  os.Stdin,
		decode: decode,
	}
}

// NewJSONFetcher creates a fetcher for a JSON array or a stream of JSON objects.
func NewJSONFetcher(path string) *Fetcher {
	return newFetcher(path, decodeJSON)
}

// NewNDJSONFetcher creates a fetcher for newline delimited JSON.
func NewNDJSONFetcher(path string) *Fetcher {
	return newFetcher(path, decodeNDJSON)
}

// NewCSVFetcher creates a fetcher for CSV with a header row.
func NewCSVFetcher(path string) *Fetcher {
	return newFetcher(path, decodeCSV)
}

// Fetch reads records from the feed and sends them to the output channel.
func (f *Fetcher) Fetch(ctx context.Context) (<-chan validator.Raw, <-chan error) {
	// Use buffered channel to allow fetcher to work ahead of batching
	outputCh := make(chan validator.Raw, 50) //nolint:mnd
	errCh := make(chan error, 1)

	go func() {
		defer close(outputCh)
		defer close(errCh)

		r, closeFn, err := f.open()
		if err != nil {
			errCh <- err

			return
		}
		defer closeFn()

		for raw, err := range f.decode(r) {
			if err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}

				continue
			}

			select {
			case outputCh <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	return outputCh, errCh
}

func (f *Fetcher) open() (io.Reader, func(), error) {
	if f.path == StdinPath {
		return f.stdin, func() {}, nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open feed: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
