// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/sphereio/customer-import/importer/validator"
)

// pathSeparator splits nested column names, e.g. addresses.0.city.
const pathSeparator = "."

// decodeCSV reads a header row followed by one customer per row. Dotted
// column names build nested values and numeric segments build lists, so
// addresses.0.city and addresses.1.city become two addresses. Empty cells
// are left out.
func decodeCSV(r io.Reader) iter.Seq2[validator.Raw, error] {
	return func(yield func(validator.Raw, error) bool) {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1

		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil {
			yield(nil, fmt.Errorf("failed to read CSV header: %w", err))

			return
		}

		columns := make([][]string, len(header))
		for i, name := range header {
			if i == 0 {
				name = strings.TrimPrefix(name, "\ufeff")
			}

			columns[i] = strings.Split(strings.TrimSpace(name), pathSeparator)
		}

		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				var parseErr *csv.ParseError
				if !errors.As(err, &parseErr) {
					yield(nil, fmt.Errorf("failed to read CSV feed: %w", err))

					return
				}

				if !yield(nil, err) {
					return
				}

				continue
			}

			line, _ := reader.FieldPos(0)

			raw, err := rowToRaw(columns, row)
			if err != nil {
				err = fmt.Errorf("line %d: %w", line, err)
			}

			if !yield(raw, err) {
				return
			}
		}
	}
}

// rowToRaw builds a record from one CSV row.
func rowToRaw(columns [][]string, row []string) (validator.Raw, error) {
	if len(row) > len(columns) {
		return nil, fmt.Errorf("row has %d fields, header has %d", len(row), len(columns))
	}

	tree := make(map[string]any)

	for i, value := range row {
		if value == "" {
			continue
		}

		if err := setPath(tree, columns[i], value); err != nil {
			return nil, err
		}
	}

	converted, err := listify(tree, nil)
	if err != nil {
		return nil, err
	}

	raw, _ := converted.(map[string]any)

	return raw, nil
}

func setPath(tree map[string]any, path []string, value string) error {
	node := tree

	for _, key := range path[:len(path)-1] {
		next, exists := node[key]
		if !exists {
			child := make(map[string]any)
			node[key] = child
			node = child

			continue
		}

		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("column %q conflicts with column %q", strings.Join(path, pathSeparator), key)
		}

		node = child
	}

	last := path[len(path)-1]
	if _, exists := node[last]; exists {
		return fmt.Errorf("column %q is set twice", strings.Join(path, pathSeparator))
	}

	node[last] = value

	return nil
}

// listify turns maps whose keys are all indices into lists ordered by index.
// Indices must run from 0 without gaps so that address indices keep pointing
// at the same entries.
func listify(value any, path []string) (any, error) {
	node, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}

	for key, child := range node {
		converted, err := listify(child, append(path[:len(path):len(path)], key))
		if err != nil {
			return nil, err
		}

		node[key] = converted
	}

	list := make([]any, len(node))

	for key, child := range node {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || strconv.Itoa(idx) != key {
			return node, nil
		}

		if idx >= len(node) {
			return nil, fmt.Errorf("column %q skips an index, indices must run from 0 without gaps",
				strings.Join(append(path[:len(path):len(path)], key), pathSeparator))
		}

		list[idx] = child
	}

	if len(list) == 0 {
		return node, nil
	}

	return list, nil
}
