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
	"testing"

	"github.com/OpenPSG/fidl"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillGaps(t *testing.T) {
	tbl := &fidl.Table{
		Header: []string{"TR", "condname", "label", "trtime"},
		Rows: [][]string{
			{"1", "cat_face", "feline", "0"},
			{"1", "dog_face", "canine", "0"},
			{"4", "cat_face", "feline", "0"},
		},
	}

	out, err := fidl.FillGaps(tbl, 0)
	require.NoError(t, err)

	assert.Equal(t, tbl.Header, out.Header)
	// Fillers copy the row right before the gap and the final row is kept.
	want := [][]string{
		{"1", "cat_face", "feline", "0"},
		{"1", "dog_face", "canine", "0"},
		{"2", "dog_face", "canine", "1"},
		{"3", "dog_face", "canine", "2"},
		{"4", "cat_face", "feline", "0"},
	}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFillGapsTrailing(t *testing.T) {
	tbl := &fidl.Table{Rows: [][]string{
		{"3", "feline", "1"},
		{"4", "feline", "2"},
	}}

	out, err := fidl.FillGapsCounter(tbl, fidl.ColumnIndex(2), 2)
	require.NoError(t, err)

	want := [][]string{
		{"3", "feline", "1"},
		{"4", "feline", "2"},
		{"5", "feline", "3"},
		{"6", "feline", "4"},
	}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	_, err = fidl.FillGaps(tbl, -1)
	require.Error(t, err)
}

func TestFillGapsHeaderlessWithoutCounter(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want [][]string
	}{
		{
			name: "label last",
			rows: [][]string{
				{"0", "1", "fix", "0", fidl.NA},
				{"3", "1", "fix", "1", fidl.NA},
			},
			want: [][]string{
				{"0", "1", "fix", "0", fidl.NA},
				{"1", "1", "fix", "0", fidl.NA},
				{"2", "1", "fix", "0", fidl.NA},
				{"3", "1", "fix", "1", fidl.NA},
			},
		},
		{
			name: "trialcount last",
			rows: [][]string{
				{"0", "1", "fix", "0"},
				{"3", "1", "fix", "1"},
			},
			want: [][]string{
				{"0", "1", "fix", "0"},
				{"1", "1", "fix", "0"},
				{"2", "1", "fix", "0"},
				{"3", "1", "fix", "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := fidl.FillGaps(&fidl.Table{Rows: tt.rows}, 0)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, out.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFillGapsCounterRaggedRows(t *testing.T) {
	// Headerless Expand output with one unmapped row left in.
	tbl := &fidl.Table{Rows: [][]string{
		{"0", "1", "fix", "0", fidl.NA},
		{"2", "2", "cat_face", "1", "feline", "0"},
		{"5", "1", "fix", "2", fidl.NA},
	}}

	out, err := fidl.FillGapsCounter(tbl, fidl.ColumnIndex(5), 0)
	require.NoError(t, err)

	want := [][]string{
		{"0", "1", "fix", "0", fidl.NA},
		{"1", "1", "fix", "0", fidl.NA},
		{"2", "2", "cat_face", "1", "feline", "0"},
		{"3", "2", "cat_face", "1", "feline", "1"},
		{"4", "2", "cat_face", "1", "feline", "2"},
		{"5", "1", "fix", "2", fidl.NA},
	}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	_, err = fidl.FillGapsCounter(tbl, fidl.ColumnIndex(0), 0)
	require.Error(t, err)

	var lookupErr *fidl.LookupError
	_, err = fidl.FillGapsCounter(tbl, fidl.ColumnIndex(6), 0)
	require.ErrorAs(t, err, &lookupErr)
}

func TestFillGapsRaggedRows(t *testing.T) {
	tbl := &fidl.Table{
		Header: []string{"TR", "label", "trtime"},
		Rows: [][]string{
			{"0", fidl.NA},
			{"2", "feline", "0"},
		},
	}

	out, err := fidl.FillGaps(tbl, 0)
	require.NoError(t, err)

	want := [][]string{
		{"0", fidl.NA},
		{"1", fidl.NA},
		{"2", "feline", "0"},
	}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFillGapsErrors(t *testing.T) {
	_, err := fidl.FillGaps(&fidl.Table{Rows: [][]string{{"one", "x", "0"}}}, 0)
	var formatErr *fidl.FormatError
	require.ErrorAs(t, err, &formatErr)

	_, err = fidl.FillGapsCounter(&fidl.Table{Rows: [][]string{{"1", "x", "zero"}, {"3", "x", "0"}}}, fidl.ColumnIndex(2), 0)
	require.ErrorAs(t, err, &formatErr)
}

func TestFillGapsFileIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tr_sample.csv")
	dense := "TR,label,trtime\n1,feline,0\n2,feline,1\n3,feline,2\n3,canine,0\n4,canine,1\n"
	require.NoError(t, os.WriteFile(path, []byte(dense), 0o644))

	for i := 0; i < 2; i++ {
		require.NoError(t, fidl.FillGapsFile(path, 0, true))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, dense, string(data))
	}
}

func TestFillGapsFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tr_empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	require.NoError(t, fidl.FillGapsFile(path, 2, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFillGapsCounterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tr_sample.csv")
	require.NoError(t, os.WriteFile(path, []byte("2,feline,0\n4,feline,2\n"), 0o644))

	require.NoError(t, fidl.FillGapsCounterFile(path, fidl.ParseColumn("2"), 1, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2,feline,0\n3,feline,1\n4,feline,2\n5,feline,3\n", string(data))
}

func TestFillGapsFileErrorKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tr_sample.csv")
	original := "TR,label,trtime\n1,feline,0\nbad,feline,1\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	err := fidl.FillGapsFile(path, 0, true)
	var formatErr *fidl.FormatError
	require.ErrorAs(t, err, &formatErr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}
