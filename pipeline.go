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

// Result reports what a pipeline run produced.
type Result struct {
	Table    string // Converted (and relabeled) table
	Timeline string // Expanded timeline, empty if no timing was configured
	Events   int    // Number of fidl events converted
}

// Run converts cfg.Fidl to cfg.Output, relabels it when a label map is
// configured, and expands (and optionally gap fills) it when a timing map is
// configured. Each step replaces its output atomically, so a failing step
// leaves the files of the previous steps intact.
func Run(cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	labels, err := cfg.Labels()
	if err != nil {
		return nil, err
	}
	timing, err := cfg.Durations()
	if err != nil {
		return nil, err
	}

	res := &Result{Table: cfg.Output}
	header := cfg.HasHeader()

	conv := ConvertFile
	if !header {
		conv = func(src, dst string) (int, error) {
			return convertFile(src, dst, convertRows)
		}
	}
	res.Events, err = conv(cfg.Fidl, cfg.Output)
	if err != nil {
		return nil, err
	}

	// Headerless tables are addressed by position; every step appends its
	// column after the ones already there.
	width := len(ConvertHeader)
	labelCol := ParseColumn(cfg.LabelColumn)
	if labels != nil {
		if err := RelabelFile(cfg.Output, labelCol, labels, cfg.LabelName, header); err != nil {
			return res, err
		}
		labelCol = ColumnName(cfg.LabelName)
		if !header {
			labelCol = ColumnIndex(width)
		}
		width++
	}

	if timing == nil {
		return res, nil
	}

	res.Timeline, err = ExpandFile(cfg.Output, labelCol, timing, cfg.Drop, header)
	if err != nil {
		return res, err
	}

	if cfg.Fill.Enabled {
		if header {
			err = FillGapsFile(res.Timeline, cfg.Fill.Trailing, true)
		} else {
			err = FillGapsCounterFile(res.Timeline, ColumnIndex(width), cfg.Fill.Trailing, false)
		}
		if err != nil {
			return res, err
		}
	}

	return res, nil
}
