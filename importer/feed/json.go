// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package feed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	jsoniter "github.com/json-iterator/go"
	"github.com/sphereio/customer-import/importer/validator"
)

const (
	readBufferSize = 64 * 1024
	maxLineSize    = 4 * 1024 * 1024
)

var (
	jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

	errInvalidFeed = errors.New("invalid JSON feed: expected an array or objects")
)

// decodeJSON reads either a top level array of objects or a sequence of
// concatenated objects. An element that is not an object only fails that
// element; malformed JSON ends the feed.
func decodeJSON(r io.Reader) iter.Seq2[validator.Raw, error] {
	return func(yield func(validator.Raw, error) bool) {
		it := jsoniter.Parse(jsonCodec, r, readBufferSize)

		switch it.WhatIsNext() {
		case jsoniter.ArrayValue:
			for index := 0; it.ReadArray(); index++ {
				raw, err := readObject(it)
				if it.Error != nil {
					break
				}

				if err != nil {
					err = fmt.Errorf("record %d: %w", index, err)
				}

				if !yield(raw, err) {
					return
				}
			}
		case jsoniter.ObjectValue:
		stream:
			for index := 0; ; index++ {
				switch it.WhatIsNext() {
				case jsoniter.ObjectValue:
				case jsoniter.InvalidValue:
					if errors.Is(it.Error, io.EOF) {
						return
					}

					if it.Error == nil {
						yield(nil, fmt.Errorf("invalid JSON feed: unexpected input after record %d", index))

						return
					}

					break stream
				default:
					yield(nil, fmt.Errorf("invalid JSON feed: record %d is not an object", index))

					return
				}

				raw, err := readObject(it)
				if it.Error != nil {
					break
				}

				if !yield(raw, err) {
					return
				}
			}
		case jsoniter.InvalidValue:
			if errors.Is(it.Error, io.EOF) {
				return
			}

			if it.Error == nil {
				yield(nil, errInvalidFeed)

				return
			}
		default:
			yield(nil, errInvalidFeed)

			return
		}

		switch {
		case it.Error == nil:
		case errors.Is(it.Error, io.EOF):
			yield(nil, errors.New("invalid JSON feed: unexpected end of input"))
		default:
			yield(nil, fmt.Errorf("invalid JSON feed: %w", it.Error))
		}
	}
}

func readObject(it *jsoniter.Iterator) (validator.Raw, error) {
	var value any

	it.ReadVal(&value)

	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", value)
	}

	return raw, nil
}

// decodeNDJSON reads one object per line. Blank lines are skipped and a
// malformed line only fails that line.
func decodeNDJSON(r io.Reader) iter.Seq2[validator.Raw, error] {
	return func(yield func(validator.Raw, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, readBufferSize), maxLineSize)

		line := 0

		for scanner.Scan() {
			line++

			data := scanner.Bytes()
			if len(bytes.TrimSpace(data)) == 0 {
				continue
			}

			var raw validator.Raw
			if err := jsonCodec.Unmarshal(data, &raw); err != nil {
				if !yield(nil, fmt.Errorf("line %d: %w", line, err)) {
					return
				}

				continue
			}

			if raw == nil {
				if !yield(nil, fmt.Errorf("line %d: expected an object", line)) {
					return
				}

				continue
			}

			if !yield(raw, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("failed to read feed: %w", err))
		}
	}
}
