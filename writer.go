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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Writer writes table rows as comma delimited records.
type Writer struct {
	cw   *csv.Writer
	rows int // Number of data rows written so far.
}

// NewWriter returns a writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w)}
}

// WriteHeader writes a header row. It does not count as a data row.
func (tw *Writer) WriteHeader(header []string) error {
	if err := tw.cw.Write(header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	return nil
}

// Write writes a single data row.
func (tw *Writer) Write(record []string) error {
	if err := tw.cw.Write(record); err != nil {
		return fmt.Errorf("error writing row %d: %w", tw.rows, err)
	}
	tw.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (tw *Writer) Rows() int {
	return tw.rows
}

// Flush writes any buffered data to the underlying writer.
func (tw *Writer) Flush() error {
	tw.cw.Flush()
	return tw.cw.Error()
}

// WriteTable writes the header (if any) and every row of t to w.
func WriteTable(w io.Writer, t *Table) error {
	tw := NewWriter(w)

	// An empty input read with a header has an empty header row.
	if len(t.Header) > 0 {
		if err := tw.WriteHeader(t.Header); err != nil {
			return err
		}
	}

	for _, row := range t.Rows {
		if err := tw.Write(row); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// WriteTableFile atomically replaces (or creates) path with the contents of t.
func WriteTableFile(path string, t *Table) error {
	return replaceFile(path, func(w io.Writer) error {
		return WriteTable(w, t)
	})
}

// replaceFile stages everything write produces in a uniquely named file
// next to path and renames it over path once write and the sync succeed.
// On failure the staging file is removed and path is left as it was.
func replaceFile(path string, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	mode := fs.FileMode(0o644)
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode().Perm()
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("error creating staging file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("error writing staging file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("error syncing staging file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("error closing staging file: %w", err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error replacing %s: %w", path, err)
	}

	return nil
}
