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
	"errors"
	"fmt"
	"slices"
	"sort"
)

// Counts maps each distinct value of a column to its number of occurrences.
type Counts map[string]int

// Keys returns the counted values in sorted order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	var total int
	for _, n := range c {
		total += n
	}
	return total
}

// Mean divides every count by n, e.g. the number of files summed by
// GroupCounts.
func (c Counts) Mean(n int) map[string]float64 {
	mean := make(map[string]float64, len(c))
	if n <= 0 {
		return mean
	}
	for k, v := range c {
		mean[k] = float64(v) / float64(n)
	}
	return mean
}

// Count tallies the values of col. NA is counted like any other value
// unless it (or any other value) is listed in exclude.
func Count(t *Table, col Column, exclude ...string) (Counts, error) {
	idx, err := t.Resolve(col)
	if err != nil {
		return nil, err
	}

	counts := make(Counts)
	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, &FormatError{Msg: fmt.Sprintf("row %d: missing column %s", i, col)}
		}
		if slices.Contains(exclude, row[idx]) {
			continue
		}
		counts[row[idx]]++
	}

	return counts, nil
}

// CountFile tallies the values of col in the table at path.
func CountFile(path string, col Column, header bool, exclude ...string) (Counts, error) {
	t, err := ReadTableFile(path, header)
	if err != nil {
		return nil, err
	}

	counts, err := Count(t, col, exclude...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return counts, nil
}

// GroupCounts sums the counts of col over every table in paths. The first
// table defines the set of values: a value that appears in a later table but
// not in the first is a LookupError.
func GroupCounts(paths []string, col Column, header bool, exclude ...string) (Counts, error) {
	if len(paths) == 0 {
		return nil, errors.New("no tables to count")
	}

	group, err := CountFile(paths[0], col, header, exclude...)
	if err != nil {
		return nil, err
	}

	for _, path := range paths[1:] {
		counts, err := CountFile(path, col, header, exclude...)
		if err != nil {
			return nil, err
		}
		for _, k := range counts.Keys() {
			if _, ok := group[k]; !ok {
				return nil, fmt.Errorf("%s: %w", path, &LookupError{Kind: "count key", Key: k, Row: -1})
			}
			group[k] += counts[k]
		}
	}

	Logger().Debug("group counts", "tables", len(paths), "keys", len(group), "total", group.Total())
	return group, nil
}
