// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fidl

import "fmt"

// Relabel classifies the value of col in every row against m and returns a
// new table with the resolved label appended as a column called name.
// Values matching no pattern get NA; values matching several patterns are
// an AmbiguousMappingError. t is not modified.
func Relabel(t *Table, col Column, m *LabelMap, name string) (*Table, error) {
	out, _, err := relabel(t, col, m, name)
	return out, err
}

// relabel is Relabel that also reports how many rows matched no pattern.
func relabel(t *Table, col Column, m *LabelMap, name string) (*Table, int, error) {
	idx, err := t.Resolve(col)
	if err != nil {
		return nil, 0, err
	}

	out := &Table{
		Header: cloneHeader(t.Header, name),
		Rows:   make([][]string, 0, len(t.Rows)),
	}

	var unmatched int
	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, 0, &FormatError{Msg: fmt.Sprintf("row %d: missing column %s", i, col)}
		}

		label := NA
		switch matched := m.Match(row[idx]); len(matched) {
		case 0:
			unmatched++
		case 1:
			label = matched[0].Label
		default:
			patterns := make([]string, len(matched))
			for j, rule := range matched {
				patterns[j] = rule.Pattern.String()
			}
			return nil, 0, &AmbiguousMappingError{Row: i, Value: row[idx], Patterns: patterns}
		}

		out.Rows = append(out.Rows, append(cloneRow(row, 1), label))
	}

	return out, unmatched, nil
}

// RelabelFile applies Relabel to the table at path and replaces it with the
// result. On error the file is left untouched.
func RelabelFile(path string, col Column, m *LabelMap, name string, header bool) error {
	t, err := ReadTableFile(path, header)
	if err != nil {
		return err
	}

	out, unmatched, err := relabel(t, col, m, name)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := WriteTableFile(path, out); err != nil {
		return err
	}

	Logger().Info("relabeled table", "path", path, "rows", len(out.Rows), "unmatched", unmatched)
	return nil
}
