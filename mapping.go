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
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// LabelRule maps every value matched by Pattern to Label.
type LabelRule struct {
	Pattern *regexp.Regexp
	Label   string
}

// LabelMap classifies values against a set of regular expressions. Patterns
// are searched for anywhere in the value, they do not need to match it whole.
type LabelMap struct {
	rules []LabelRule
}

// NewLabelMap compiles a pattern to label mapping.
func NewLabelMap(m map[string]string) (*LabelMap, error) {
	patterns := make([]string, 0, len(m))
	for p := range m {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	lm := &LabelMap{rules: make([]LabelRule, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("invalid label pattern %q", p), Err: err}
		}
		lm.rules = append(lm.rules, LabelRule{Pattern: re, Label: m[p]})
	}

	return lm, nil
}

// Len returns the number of rules.
func (lm *LabelMap) Len() int {
	return len(lm.rules)
}

// Match returns every rule whose pattern matches value.
func (lm *LabelMap) Match(value string) []LabelRule {
	var matched []LabelRule
	for _, rule := range lm.rules {
		if rule.Pattern.MatchString(value) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// ParseLabelMap decodes a YAML mapping of pattern to label.
func ParseLabelMap(r io.Reader) (*LabelMap, error) {
	var m map[string]string
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, &FormatError{Msg: "invalid label map", Err: err}
	}
	return NewLabelMap(m)
}

// LoadLabelMap reads a YAML label map from path.
func LoadLabelMap(path string) (*LabelMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lm, err := ParseLabelMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lm, nil
}

// TimingMap maps a label to its duration in time units.
type TimingMap map[string]int

// NewTimingMap validates that every duration is at least one time unit.
func NewTimingMap(m map[string]int) (TimingMap, error) {
	tm := make(TimingMap, len(m))
	for label, d := range m {
		if d < 1 {
			return nil, &FormatError{Msg: fmt.Sprintf("duration of %q must be positive, got %d", label, d)}
		}
		tm[label] = d
	}
	return tm, nil
}

// Duration returns the duration of label and whether it is mapped.
func (tm TimingMap) Duration(label string) (int, bool) {
	d, ok := tm[label]
	return d, ok
}

// ParseTimingMap decodes a YAML mapping of label to duration.
func ParseTimingMap(r io.Reader) (TimingMap, error) {
	var m map[string]int
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, &FormatError{Msg: "invalid timing map", Err: err}
	}
	return NewTimingMap(m)
}

// LoadTimingMap reads a YAML timing map from path.
func LoadTimingMap(path string) (TimingMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tm, err := ParseTimingMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tm, nil
}
