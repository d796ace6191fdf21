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
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config describes one conversion run: a fidl file converted to a table,
// optionally relabeled, expanded to a timeline and gap filled.
type Config struct {
	Fidl   string `yaml:"fidl"`   // Input fidl file
	Output string `yaml:"output"` // Converted table
	Header *bool  `yaml:"header"` // Write and read tables with a header row (default true)

	LabelColumn  string            `yaml:"label_column"`   // Column matched against the label map
	LabelName    string            `yaml:"label_name"`     // Name of the appended label column
	LabelMap     map[string]string `yaml:"label_map"`      // Inline pattern to label mapping
	LabelMapFile string            `yaml:"label_map_file"` // YAML file with the pattern to label mapping

	Timing     map[string]int `yaml:"timing"`      // Inline label to duration mapping
	TimingFile string         `yaml:"timing_file"` // YAML file with the label to duration mapping
	Drop       bool           `yaml:"drop"`        // Drop rows without a duration when expanding

	Fill struct {
		Enabled  bool `yaml:"enabled"`
		Trailing int  `yaml:"trailing"` // Extra rows appended after the last event
	} `yaml:"fill"`
}

// ParseConfig decodes a YAML run configuration and applies defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &FormatError{Msg: "invalid config", Err: err}
	}

	if cfg.LabelColumn == "" {
		cfg.LabelColumn = ColumnCondName
		if !cfg.HasHeader() {
			cfg.LabelColumn = strconv.Itoa(condNameIndex)
		}
	}
	if cfg.LabelName == "" {
		cfg.LabelName = "label"
	}

	return cfg, nil
}

// HasHeader reports whether the tables of the run carry a header row.
func (c *Config) HasHeader() bool {
	return c.Header == nil || *c.Header
}

// LoadConfig reads a run configuration from path. Relative paths in the
// configuration are resolved against the directory holding it.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.Fidl, &cfg.Output, &cfg.LabelMapFile, &cfg.TimingFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	return cfg, nil
}

// Validate checks that the configuration describes a runnable pipeline.
func (c *Config) Validate() error {
	var errs []error
	if c.Fidl == "" {
		errs = append(errs, errors.New("fidl: path is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output: path is required"))
	}
	if len(c.LabelMap) > 0 && c.LabelMapFile != "" {
		errs = append(errs, errors.New("label_map and label_map_file are mutually exclusive"))
	}
	if len(c.Timing) > 0 && c.TimingFile != "" {
		errs = append(errs, errors.New("timing and timing_file are mutually exclusive"))
	}
	if c.Fill.Trailing < 0 {
		errs = append(errs, fmt.Errorf("fill.trailing: must not be negative, got %d", c.Fill.Trailing))
	}
	if c.Fill.Enabled && len(c.Timing) == 0 && c.TimingFile == "" {
		errs = append(errs, errors.New("fill: requires timing or timing_file"))
	}
	return errors.Join(errs...)
}

// Labels returns the configured label map, or nil if none is configured.
func (c *Config) Labels() (*LabelMap, error) {
	switch {
	case c.LabelMapFile != "":
		return LoadLabelMap(c.LabelMapFile)
	case len(c.LabelMap) > 0:
		return NewLabelMap(c.LabelMap)
	}
	return nil, nil
}

// Durations returns the configured timing map, or nil if none is configured.
func (c *Config) Durations() (TimingMap, error) {
	switch {
	case c.TimingFile != "":
		return LoadTimingMap(c.TimingFile)
	case len(c.Timing) > 0:
		return NewTimingMap(c.Timing)
	}
	return nil, nil
}
