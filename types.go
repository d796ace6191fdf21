// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fidl

import "strconv"

// NA marks a missing or unresolved categorical value in a table.
const NA = "NA"

// Column names written by the converter and the timeline expander.
const (
	ColumnTR         = "TR"
	ColumnCondIndex  = "condindex"
	ColumnCondName   = "condname"
	ColumnTrialCount = "trialcount"
	ColumnTRTime     = "trtime"
)

// Header represents the first line of a fidl file.
type Header struct {
	Resolution float64  // Duration of one time unit (TR), e.g. seconds
	Conditions []string // Condition names, condition index i is Conditions[i-1]
}

// Condition returns the name of the 1-based condition index.
func (h *Header) Condition(index int) (string, error) {
	if index < 1 || index > len(h.Conditions) {
		return "", &LookupError{Kind: "condition index", Key: strconv.Itoa(index), Row: -1}
	}
	return h.Conditions[index-1], nil
}

// Event is a single fidl body row discretized into time units.
type Event struct {
	TR    int    // floor(onset / resolution)
	Index int    // Condition index
	Name  string // Condition name
	Trial int    // 0-based ordinal among the non-empty body rows
}

// Record returns the event as a table row.
func (e Event) Record() []string {
	return []string{
		strconv.Itoa(e.TR),
		strconv.Itoa(e.Index),
		e.Name,
		strconv.Itoa(e.Trial),
	}
}

// Table is an in-memory CSV table. Every data row is expected to carry as
// many fields as the header, but this is not enforced.
type Table struct {
	Header []string   // Column names, nil if the table has no header row
	Rows   [][]string // Data rows
}

// HasHeader reports whether the table carries a header row.
func (t *Table) HasHeader() bool {
	return t.Header != nil
}

// Width returns the number of columns, taken from the header when present
// and from the widest row otherwise.
func (t *Table) Width() int {
	if t.HasHeader() {
		return len(t.Header)
	}
	var w int
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func cloneRow(row []string, extra int) []string {
	out := make([]string, len(row), len(row)+extra)
	copy(out, row)
	return out
}

func cloneHeader(h []string, extra ...string) []string {
	if h == nil {
		return nil
	}
	return append(cloneRow(h, len(extra)), extra...)
}
