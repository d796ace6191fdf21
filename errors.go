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
	"strings"
)

// FormatError reports a malformed fidl header, fidl row or table field.
type FormatError struct {
	Line int    // 1-based line (fidl) or 0-based data row (table), 0 if unknown
	Msg  string // What was wrong
	Err  error  // Underlying parse error, if any
}

func (e *FormatError) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// LookupError reports a column, condition index or mapping key that was
// expected to exist but does not.
type LookupError struct {
	Kind string // e.g. "column", "condition index", "count key"
	Key  string
	Row  int // 0-based data row, -1 when not tied to a row
}

func (e *LookupError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("row %d: unknown %s %q", e.Row, e.Kind, e.Key)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
}

// AmbiguousMappingError reports a value matched by more than one label
// pattern.
type AmbiguousMappingError struct {
	Row      int      // 0-based data row
	Value    string   // The value that was matched
	Patterns []string // Every pattern that matched, sorted
}

func (e *AmbiguousMappingError) Error() string {
	return fmt.Sprintf("row %d: value %q matches %d patterns (%s)",
		e.Row, e.Value, len(e.Patterns), strings.Join(e.Patterns, ", "))
}
