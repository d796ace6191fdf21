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
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseHeader parses the first line of a fidl file: the resolution unit
// followed by the space separated condition names.
func ParseHeader(line string) (*Header, error) {
	// Some files carry a trailing tab or carriage return after the last name.
	line = strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	if line == "" {
		return nil, &FormatError{Line: 1, Msg: "empty header"}
	}

	fields := strings.Split(line, " ")

	res, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, &FormatError{Line: 1, Msg: fmt.Sprintf("invalid resolution %q", fields[0]), Err: err}
	}
	if !(res > 0) || math.IsInf(res, 0) {
		return nil, &FormatError{Line: 1, Msg: fmt.Sprintf("resolution must be positive, got %v", res)}
	}

	return &Header{
		Resolution: res,
		Conditions: fields[1:],
	}, nil
}

// Reader reads events from a fidl file.
type Reader struct {
	cr    *csv.Reader
	hdr   *Header
	trial int // Number of events returned so far
}

// Open parses the fidl header and returns a reader positioned at the first
// body row.
func Open(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	hdr, err := ParseHeader(line)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	return &Reader{
		cr:  cr,
		hdr: hdr,
	}, nil
}

// Header returns the parsed fidl header.
func (fr *Reader) Header() *Header {
	return fr.hdr
}

// Next returns the next event, or io.EOF once the body is exhausted.
func (fr *Reader) Next() (Event, error) {
	for {
		record, err := fr.cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("error reading event: %w", err)
		}

		// The header line was consumed before the csv reader saw the input.
		line, _ := fr.cr.FieldPos(0)
		line++

		if blank(record) {
			continue
		}

		ev, err := fr.parseEvent(record, line)
		if err != nil {
			return Event{}, err
		}
		fr.trial++

		return ev, nil
	}
}

func (fr *Reader) parseEvent(record []string, line int) (Event, error) {
	if len(record) < 2 {
		return Event{}, &FormatError{Line: line, Msg: fmt.Sprintf("expected at least 2 fields, got %d", len(record))}
	}

	onset, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return Event{}, &FormatError{Line: line, Msg: fmt.Sprintf("invalid onset time %q", record[0]), Err: err}
	}
	if math.IsNaN(onset) || math.IsInf(onset, 0) {
		return Event{}, &FormatError{Line: line, Msg: fmt.Sprintf("invalid onset time %q", record[0])}
	}
	tr, ok := discretize(onset, fr.hdr.Resolution)
	if !ok {
		return Event{}, &FormatError{Line: line, Msg: fmt.Sprintf("onset time %q out of range", record[0])}
	}

	index, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return Event{}, &FormatError{Line: line, Msg: fmt.Sprintf("invalid condition index %q", record[1]), Err: err}
	}

	name, err := fr.hdr.Condition(index)
	if err != nil {
		return Event{}, &FormatError{Line: line, Msg: "unknown condition", Err: err}
	}

	return Event{
		TR:    tr,
		Index: index,
		Name:  name,
		Trial: fr.trial,
	}, nil
}

// discretize truncates onset/resolution toward zero. It reports false if the
// result does not fit in an int.
func discretize(onset, resolution float64) (int, bool) {
	q := math.Trunc(onset / resolution)
	if q < math.MinInt || q >= math.MaxInt {
		return 0, false
	}
	return int(q), true
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
