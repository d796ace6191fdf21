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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Column references a table column either by header name or by 0-based
// position.
type Column struct {
	name     string
	index    int
	named    bool
	fallback bool // Named reference that may also be read as a position.
}

// ColumnName references a column by its header name.
func ColumnName(name string) Column {
	return Column{name: name, named: true}
}

// ColumnIndex references a column by its 0-based position.
func ColumnIndex(index int) Column {
	return Column{index: index}
}

// ParseColumn turns a user supplied reference into a Column. The token is
// looked up as a header name first; if no such name exists and the token is
// an integer it is used as a position instead.
func ParseColumn(s string) Column {
	return Column{name: s, named: true, fallback: true}
}

func (c Column) String() string {
	if c.named {
		return c.name
	}
	return strconv.Itoa(c.index)
}

// Resolve returns the 0-based position of the column in the table.
func (t *Table) Resolve(c Column) (int, error) {
	if c.named {
		for i, name := range t.Header {
			if name == c.name {
				return i, nil
			}
		}
		if !c.fallback {
			return 0, &LookupError{Kind: "column", Key: c.name, Row: -1}
		}
		idx, err := strconv.Atoi(c.name)
		if err != nil {
			return 0, &LookupError{Kind: "column", Key: c.name, Row: -1}
		}
		c = ColumnIndex(idx)
	}

	if c.index < 0 || c.index >= t.Width() {
		return 0, &LookupError{Kind: "column", Key: strconv.Itoa(c.index), Row: -1}
	}
	return c.index, nil
}

// ReadTable reads a comma delimited table. When header is true the first
// record is taken as the header row. Rows may be ragged.
func ReadTable(r io.Reader, header bool) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	t := &Table{}
	if header {
		record, err := cr.Read()
		switch {
		case errors.Is(err, io.EOF):
			t.Header = []string{}
			return t, nil
		case err != nil:
			return nil, fmt.Errorf("error reading header: %w", err)
		}
		t.Header = record
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", len(t.Rows), err)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// ReadTableFile reads the table stored at path.
func ReadTableFile(path string, header bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadTable(f, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
