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
	"io"
	"os"
)

// ConvertHeader is the header row written by Convert.
var ConvertHeader = []string{ColumnTR, ColumnCondIndex, ColumnCondName, ColumnTrialCount}

// Position of condname in a converted table.
const condNameIndex = 2

// Convert reads a fidl file from r and writes one CSV row per event to w,
// preceded by ConvertHeader. It returns the number of events written.
func Convert(w io.Writer, r io.Reader) (int, error) {
	return convert(w, r, true, true)
}

// ConvertAttributes is like Convert but writes bare TR,condindex,condname
// rows without a header, the layout sample attribute loaders expect.
func ConvertAttributes(w io.Writer, r io.Reader) (int, error) {
	return convert(w, r, false, false)
}

// convertRows writes the full event rows of Convert without the header.
func convertRows(w io.Writer, r io.Reader) (int, error) {
	return convert(w, r, false, true)
}

func convert(w io.Writer, r io.Reader, header, trials bool) (int, error) {
	fr, err := Open(r)
	if err != nil {
		return 0, err
	}

	tw := NewWriter(w)
	if header {
		if err := tw.WriteHeader(ConvertHeader); err != nil {
			return 0, err
		}
	}

	for {
		ev, err := fr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tw.Rows(), err
		}

		record := ev.Record()
		if !trials {
			record = record[:3]
		}
		if err := tw.Write(record); err != nil {
			return tw.Rows(), err
		}
	}

	if err := tw.Flush(); err != nil {
		return tw.Rows(), err
	}
	return tw.Rows(), nil
}

// ConvertFile converts the fidl file at src into a CSV table at dst. dst is
// only replaced once the whole file has been converted.
func ConvertFile(src, dst string) (int, error) {
	return convertFile(src, dst, Convert)
}

// ConvertAttributesFile is the file variant of ConvertAttributes.
func ConvertAttributesFile(src, dst string) (int, error) {
	return convertFile(src, dst, ConvertAttributes)
}

func convertFile(src, dst string, conv func(io.Writer, io.Reader) (int, error)) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var n int
	err = replaceFile(dst, func(w io.Writer) error {
		var err error
		n, err = conv(w, f)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src, err)
	}

	Logger().Info("converted fidl", "src", src, "dst", dst, "events", n)
	return n, nil
}
