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
	"strconv"
	"strings"
)

// FillGaps makes an expanded timeline dense. Whenever the time unit in the
// first column jumps by more than one between consecutive rows, a filler row
// is synthesized for every missing time unit. Fillers copy the row before the
// gap, with the time unit set to the missing value and the trtime counter
// continuing from that row's own counter.
//
// The counter is the column named trtime in the header. Tables without one,
// and rows too short to reach it (unmapped events left in by Expand), carry
// no counter and their fillers only get a new time unit. Headerless
// timelines name their counter with FillGapsCounter.
//
// trailing extra fillers are appended after the final row. t is not
// modified.
func FillGaps(t *Table, trailing int) (*Table, error) {
	counter := -1
	for i, name := range t.Header {
		if name == ColumnTRTime {
			counter = i
		}
	}
	return fillGaps(t, counter, trailing)
}

// FillGapsCounter is FillGaps with the trtime counter read from column
// counter instead of being looked up by name.
func FillGapsCounter(t *Table, counter Column, trailing int) (*Table, error) {
	if len(t.Rows) == 0 {
		return fillGaps(t, -1, trailing)
	}

	idx, err := t.Resolve(counter)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, fmt.Errorf("counter column %s is the time unit column", counter)
	}
	return fillGaps(t, idx, trailing)
}

func fillGaps(t *Table, counterIdx, trailing int) (*Table, error) {
	if trailing < 0 {
		return nil, fmt.Errorf("trailing must not be negative, got %d", trailing)
	}

	var err error
	times := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) == 0 {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: empty row", i)}
		}
		times[i], err = strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: invalid time unit %q", i, row[0]), Err: err}
		}
	}

	out := &Table{
		Header: cloneHeader(t.Header),
		Rows:   make([][]string, 0, len(t.Rows)+trailing),
	}

	for i, row := range t.Rows {
		out.Rows = append(out.Rows, cloneRow(row, 0))

		// Rows to synthesize after this one.
		missing := trailing
		if i+1 < len(t.Rows) {
			missing = times[i+1] - times[i] - 1
		}
		if missing < 1 {
			continue
		}

		var counter int
		hasCounter := counterIdx > 0 && counterIdx < len(row)
		if hasCounter {
			counter, err = strconv.Atoi(strings.TrimSpace(row[counterIdx]))
			if err != nil {
				return nil, &FormatError{Msg: fmt.Sprintf("row %d: invalid counter %q", i, row[counterIdx]), Err: err}
			}
		}

		Logger().Debug("filling gap", "row", i, "tr", times[i], "fillers", missing)
		for k := 1; k <= missing; k++ {
			filler := cloneRow(row, 0)
			filler[0] = strconv.Itoa(times[i] + k)
			if hasCounter {
				filler[counterIdx] = strconv.Itoa(counter + k)
			}
			out.Rows = append(out.Rows, filler)
		}
	}

	return out, nil
}

// FillGapsFile applies FillGaps to the table at path and replaces it with
// the result. On error the file is left untouched.
func FillGapsFile(path string, trailing int, header bool) error {
	return fillFile(path, header, func(t *Table) (*Table, error) {
		return FillGaps(t, trailing)
	})
}

// FillGapsCounterFile is FillGapsFile with an explicit counter column.
func FillGapsCounterFile(path string, counter Column, trailing int, header bool) error {
	return fillFile(path, header, func(t *Table) (*Table, error) {
		return FillGapsCounter(t, counter, trailing)
	})
}

func fillFile(path string, header bool, fill func(*Table) (*Table, error)) error {
	t, err := ReadTableFile(path, header)
	if err != nil {
		return err
	}

	out, err := fill(t)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := WriteTableFile(path, out); err != nil {
		return err
	}

	Logger().Info("filled timeline gaps", "path", path, "rows", len(t.Rows), "fillers", len(out.Rows)-len(t.Rows))
	return nil
}
