// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fidl

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ExpandPrefix is prepended to the base name of an expanded table.
const ExpandPrefix = "tr_"

// Expand turns every event row whose label (column col) has a duration in
// timing into one row per covered time unit. The first field of each
// produced row is the event's time unit plus the offset, and the offset is
// appended as a trailing trtime field.
//
// Rows with an unmapped label are copied unchanged (without a trtime field),
// or omitted when drop is set.
func Expand(t *Table, col Column, timing TimingMap, drop bool) (*Table, error) {
	idx, err := t.Resolve(col)
	if err != nil {
		return nil, err
	}

	out := &Table{Header: cloneHeader(t.Header, ColumnTRTime)}

	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: missing column %s", i, col)}
		}

		d, ok := timing.Duration(row[idx])
		if !ok {
			if drop {
				Logger().Debug("dropped unmapped row", "row", i, "label", row[idx])
			} else {
				out.Rows = append(out.Rows, cloneRow(row, 0))
			}
			continue
		}
		if d < 1 {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: duration of %q must be positive, got %d", i, row[idx], d)}
		}

		tr, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: invalid time unit %q", i, row[0]), Err: err}
		}

		for offset := 0; offset < d; offset++ {
			expanded := append(cloneRow(row, 1), strconv.Itoa(offset))
			expanded[0] = strconv.Itoa(tr + offset)
			out.Rows = append(out.Rows, expanded)
		}
	}

	return out, nil
}

// ExpandedPath returns the path ExpandFile writes the expansion of path to.
func ExpandedPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, ExpandPrefix+base)
}

// ExpandFile expands the table at path and writes the result next to it
// (see ExpandedPath), returning the path written. The input is not modified.
func ExpandFile(path string, col Column, timing TimingMap, drop, header bool) (string, error) {
	t, err := ReadTableFile(path, header)
	if err != nil {
		return "", err
	}

	out, err := Expand(t, col, timing, drop)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	dst := ExpandedPath(path)
	if err := WriteTableFile(dst, out); err != nil {
		return "", err
	}

	Logger().Info("expanded timeline", "src", path, "dst", dst, "events", len(t.Rows), "rows", len(out.Rows))
	return dst, nil
}
