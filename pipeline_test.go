// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fidl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenPSG/fidl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyTestdata copies the named testdata files into a fresh directory.
func copyTestdata(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := fidl.ParseConfig(strings.NewReader("fidl: a.fidl\noutput: a.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, fidl.ColumnCondName, cfg.LabelColumn)
	assert.Equal(t, "label", cfg.LabelName)
	assert.NoError(t, cfg.Validate())

	labels, err := cfg.Labels()
	require.NoError(t, err)
	assert.Nil(t, labels)
}

func TestParseConfigHeaderless(t *testing.T) {
	cfg, err := fidl.ParseConfig(strings.NewReader("fidl: a.fidl\noutput: a.csv\nheader: false\n"))
	require.NoError(t, err)

	assert.False(t, cfg.HasHeader())
	assert.Equal(t, "2", cfg.LabelColumn)

	cfg, err = fidl.ParseConfig(strings.NewReader("fidl: a.fidl\noutput: a.csv\n"))
	require.NoError(t, err)
	assert.True(t, cfg.HasHeader())
}

func TestParseConfigErrors(t *testing.T) {
	_, err := fidl.ParseConfig(strings.NewReader("fidl: a.fidl\nunknown: 1\n"))
	var formatErr *fidl.FormatError
	require.ErrorAs(t, err, &formatErr)

	cfg, err := fidl.ParseConfig(strings.NewReader("timing: {feline: 3}\ntiming_file: t.yaml\nfill: {trailing: -1}\n"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	for _, msg := range []string{"fidl", "output", "mutually exclusive", "fill.trailing"} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestLoadConfigResolvesPaths(t *testing.T) {
	dir := copyTestdata(t, "run.yaml")

	cfg, err := fidl.LoadConfig(filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "sample.fidl"), cfg.Fidl)
	assert.Equal(t, filepath.Join(dir, "sample.csv"), cfg.Output)
	assert.Equal(t, filepath.Join(dir, "labels.yaml"), cfg.LabelMapFile)
	assert.Equal(t, filepath.Join(dir, "timing.yaml"), cfg.TimingFile)
	assert.True(t, cfg.Drop)
	assert.True(t, cfg.Fill.Enabled)
	assert.Equal(t, 1, cfg.Fill.Trailing)
}

func TestRun(t *testing.T) {
	dir := copyTestdata(t, "run.yaml", "sample.fidl", "labels.yaml", "timing.yaml")

	cfg, err := fidl.LoadConfig(filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)

	res, err := fidl.Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Events)
	assert.Equal(t, filepath.Join(dir, "sample.csv"), res.Table)
	assert.Equal(t, filepath.Join(dir, "tr_sample.csv"), res.Timeline)

	data, err := os.ReadFile(res.Table)
	require.NoError(t, err)
	assert.Equal(t, "TR,condindex,condname,trialcount,label\n"+
		"0,1,fix,0,NA\n"+
		"2,2,cat_face,1,feline\n"+
		"4,3,dog_face,2,canine\n"+
		"6,1,fix,3,NA\n", string(data))

	data, err = os.ReadFile(res.Timeline)
	require.NoError(t, err)
	assert.Equal(t, "TR,condindex,condname,trialcount,label,trtime\n"+
		"2,2,cat_face,1,feline,0\n"+
		"3,2,cat_face,1,feline,1\n"+
		"4,2,cat_face,1,feline,2\n"+
		"4,3,dog_face,2,canine,0\n"+
		"5,3,dog_face,2,canine,1\n"+
		"6,3,dog_face,2,canine,2\n", string(data))
}

func TestRunHeaderless(t *testing.T) {
	dir := copyTestdata(t, "sample.fidl")

	cfg, err := fidl.ParseConfig(strings.NewReader(`header: false
label_map: {"^cat": feline, "^dog": canine}
timing: {feline: 3, canine: 2}
fill: {enabled: true, trailing: 1}
`))
	require.NoError(t, err)
	cfg.Fidl = filepath.Join(dir, "sample.fidl")
	cfg.Output = filepath.Join(dir, "sample.csv")

	res, err := fidl.Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Events)

	data, err := os.ReadFile(res.Table)
	require.NoError(t, err)
	assert.Equal(t, "0,1,fix,0,NA\n"+
		"2,2,cat_face,1,feline\n"+
		"4,3,dog_face,2,canine\n"+
		"6,1,fix,3,NA\n", string(data))

	// Unmapped rows are kept and their fillers leave trialcount alone.
	data, err = os.ReadFile(res.Timeline)
	require.NoError(t, err)
	assert.Equal(t, "0,1,fix,0,NA\n"+
		"1,1,fix,0,NA\n"+
		"2,2,cat_face,1,feline,0\n"+
		"3,2,cat_face,1,feline,1\n"+
		"4,2,cat_face,1,feline,2\n"+
		"4,3,dog_face,2,canine,0\n"+
		"5,3,dog_face,2,canine,1\n"+
		"6,1,fix,3,NA\n"+
		"7,1,fix,3,NA\n", string(data))
}

func TestRunConvertOnly(t *testing.T) {
	dir := copyTestdata(t, "sample.fidl")

	res, err := fidl.Run(&fidl.Config{
		Fidl:        filepath.Join(dir, "sample.fidl"),
		Output:      filepath.Join(dir, "sample.csv"),
		LabelColumn: fidl.ColumnCondName,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Events)
	assert.Empty(t, res.Timeline)
	assert.NoFileExists(t, filepath.Join(dir, "tr_sample.csv"))
}

func TestRunInvalidConfig(t *testing.T) {
	_, err := fidl.Run(&fidl.Config{})
	require.Error(t, err)
}
