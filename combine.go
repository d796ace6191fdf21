// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fidl

// CombineKeyColumns is the number of leading key columns of the second table
// that Combine skips (TR, condindex, condname).
const CombineKeyColumns = 3

// Combine zips a and b row by row: each combined row is the row of a
// followed by the row of b without its key columns. The result has as many
// rows as the shorter table. Key columns are not compared, so the caller
// must make sure the tables are aligned.
func Combine(a, b *Table) *Table {
	out := &Table{}
	if a.HasHeader() {
		out.Header = append(cloneRow(a.Header, 0), tail(b.Header)...)
	}

	n := min(len(a.Rows), len(b.Rows))
	out.Rows = make([][]string, n)
	for i := 0; i < n; i++ {
		extra := tail(b.Rows[i])
		out.Rows[i] = append(cloneRow(a.Rows[i], len(extra)), extra...)
	}

	return out
}

func tail(row []string) []string {
	if len(row) <= CombineKeyColumns {
		return nil
	}
	return row[CombineKeyColumns:]
}

// CombineFiles combines the tables at a and b and writes the result to dst.
func CombineFiles(a, b, dst string, header bool) error {
	ta, err := ReadTableFile(a, header)
	if err != nil {
		return err
	}
	tb, err := ReadTableFile(b, header)
	if err != nil {
		return err
	}

	if len(ta.Rows) != len(tb.Rows) {
		Logger().Warn("combining tables of different length", "a", a, "rows_a", len(ta.Rows), "b", b, "rows_b", len(tb.Rows))
	}

	out := Combine(ta, tb)
	if err := WriteTableFile(dst, out); err != nil {
		return err
	}

	Logger().Info("combined tables", "a", a, "b", b, "dst", dst, "rows", len(out.Rows))
	return nil
}
