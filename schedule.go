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

// Column names of a schedule table, as read by design matrix exporters.
const (
	ColumnConditionNames = "condition names"
	ColumnOnsetTimes     = "onset times"
	ColumnDurations      = "durations"
)

// ScheduleHeader is the header row of a schedule table.
var ScheduleHeader = []string{ColumnConditionNames, ColumnOnsetTimes, ColumnDurations}

// Schedule builds the condition name, onset and duration columns consumed by
// design matrix exporters. Onsets are read from onsetCol and durations come
// from timing; rows whose condition has no duration are skipped. Rows are
// grouped by condition in order of first appearance, keeping event order
// within each group.
func Schedule(t *Table, nameCol, onsetCol Column, timing TimingMap) (*Table, error) {
	nameIdx, err := t.Resolve(nameCol)
	if err != nil {
		return nil, err
	}
	onsetIdx, err := t.Resolve(onsetCol)
	if err != nil {
		return nil, err
	}

	var order []string
	groups := make(map[string][][]string)

	for i, row := range t.Rows {
		if nameIdx >= len(row) || onsetIdx >= len(row) {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: expected at least %d fields, got %d", i, max(nameIdx, onsetIdx)+1, len(row))}
		}

		name := row[nameIdx]
		d, ok := timing.Duration(name)
		if !ok {
			continue
		}

		onset := strings.TrimSpace(row[onsetIdx])
		if _, err := strconv.ParseFloat(onset, 64); err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: invalid onset %q", i, row[onsetIdx]), Err: err}
		}

		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], []string{name, onset, strconv.Itoa(d)})
	}

	out := &Table{Header: cloneHeader(ScheduleHeader)}
	for _, name := range order {
		out.Rows = append(out.Rows, groups[name]...)
	}

	return out, nil
}

// ScheduleFile writes the schedule of the table at src to dst.
func ScheduleFile(src, dst string, nameCol, onsetCol Column, timing TimingMap, header bool) error {
	t, err := ReadTableFile(src, header)
	if err != nil {
		return err
	}

	out, err := Schedule(t, nameCol, onsetCol, timing)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	if err := WriteTableFile(dst, out); err != nil {
		return err
	}

	Logger().Info("wrote schedule", "src", src, "dst", dst, "rows", len(out.Rows))
	return nil
}
