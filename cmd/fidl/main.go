// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Command fidl converts fidl event timing files to CSV tables and reshapes
// them into per-TR timelines.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenPSG/fidl"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var cleanup func()

	return &cli.App{
		Name:      "fidl",
		Usage:     "convert fidl event files to CSV timelines",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "debug",
				Usage: "write debug logs to `FILE`",
			},
			&cli.BoolFlag{
				Name:  "no-header",
				Usage: "tables have no header row",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			cleanup, err = setupLogging(c.String("debug"), stderr)
			if err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
		Commands: []*cli.Command{
			convertCommand(),
			relabelCommand(),
			expandCommand(),
			fillCommand(),
			combineCommand(),
			countCommand(),
			scheduleCommand(),
			runCommand(),
		},
	}
}

func header(c *cli.Context) bool {
	return !c.Bool("no-header")
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%s: expected %d arguments, got %d (usage: %s %s)",
			c.Command.Name, n, c.NArg(), c.Command.Name, c.Command.ArgsUsage)
	}
	return nil
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert a fidl file to a CSV table",
		ArgsUsage: "FIDL CSV",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "attributes",
				Usage: "write TR,condindex,condname rows without header",
			},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			src, dst := c.Args().Get(0), c.Args().Get(1)

			conv := fidl.ConvertFile
			if c.Bool("attributes") {
				conv = fidl.ConvertAttributesFile
			}
			n, err := conv(src, dst)
			if err != nil {
				return err
			}

			size := "?"
			if fi, err := os.Stat(dst); err == nil {
				size = humanize.Bytes(uint64(fi.Size()))
			}
			fmt.Fprintf(c.App.Writer, "%s: %s events (%s)\n", dst, humanize.Comma(int64(n)), size)
			return nil
		},
	}
}

func relabelCommand() *cli.Command {
	return &cli.Command{
		Name:      "relabel",
		Usage:     "append a label column by matching a column against regular expressions",
		ArgsUsage: "CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "column", Value: fidl.ColumnCondName, Usage: "column `NAME` or position to match"},
			&cli.StringFlag{Name: "map", Required: true, Usage: "YAML `FILE` mapping patterns to labels"},
			&cli.StringFlag{Name: "name", Value: "label", Usage: "name of the appended column"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			lm, err := fidl.LoadLabelMap(c.String("map"))
			if err != nil {
				return err
			}
			return fidl.RelabelFile(c.Args().First(), fidl.ParseColumn(c.String("column")), lm, c.String("name"), header(c))
		},
	}
}

func expandCommand() *cli.Command {
	return &cli.Command{
		Name:      "expand",
		Usage:     "expand events to one row per TR",
		ArgsUsage: "CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "column", Value: "label", Usage: "label column `NAME` or position"},
			&cli.StringFlag{Name: "timing", Required: true, Usage: "YAML `FILE` mapping labels to durations in TRs"},
			&cli.BoolFlag{Name: "drop", Usage: "drop rows whose label has no duration"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			tm, err := fidl.LoadTimingMap(c.String("timing"))
			if err != nil {
				return err
			}
			dst, err := fidl.ExpandFile(c.Args().First(), fidl.ParseColumn(c.String("column")), tm, c.Bool("drop"), header(c))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, dst)
			return nil
		},
	}
}

func fillCommand() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "fill TR gaps in an expanded timeline",
		ArgsUsage: "CSV",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "trailing", Usage: "extra rows to append after the last event"},
			&cli.StringFlag{Name: "counter", Usage: "trtime counter `COLUMN` (defaults to the column named trtime)"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			if c.IsSet("counter") {
				return fidl.FillGapsCounterFile(c.Args().First(), fidl.ParseColumn(c.String("counter")), c.Int("trailing"), header(c))
			}
			return fidl.FillGapsFile(c.Args().First(), c.Int("trailing"), header(c))
		},
	}
}

func combineCommand() *cli.Command {
	return &cli.Command{
		Name:      "combine",
		Usage:     "zip two aligned tables column-wise",
		ArgsUsage: "A B OUT",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 3); err != nil {
				return err
			}
			return fidl.CombineFiles(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2), header(c))
		},
	}
}

func countCommand() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "count the values of a column over one or more tables",
		ArgsUsage: "CSV...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "column", Value: fidl.ColumnCondName, Usage: "column `NAME` or position to count"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "`VALUE` not to count (repeatable)"},
			&cli.BoolFlag{Name: "mean", Usage: "print per-table means instead of sums"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("count: expected at least one table")
			}
			counts, err := fidl.GroupCounts(c.Args().Slice(), fidl.ParseColumn(c.String("column")), header(c), c.StringSlice("exclude")...)
			if err != nil {
				return err
			}

			mean := counts.Mean(c.NArg())
			for _, k := range counts.Keys() {
				if c.Bool("mean") {
					fmt.Fprintf(c.App.Writer, "%s\t%s\n", k, humanize.FormatFloat("#,###.##", mean[k]))
				} else {
					fmt.Fprintf(c.App.Writer, "%s\t%s\n", k, humanize.Comma(int64(counts[k])))
				}
			}
			fmt.Fprintf(c.App.Writer, "total\t%s\n", humanize.Comma(int64(counts.Total())))
			return nil
		},
	}
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:      "schedule",
		Usage:     "write condition names, onsets and durations grouped by condition",
		ArgsUsage: "CSV OUT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name-column", Value: "label", Usage: "condition name column"},
			&cli.StringFlag{Name: "onset-column", Value: fidl.ColumnTR, Usage: "onset column"},
			&cli.StringFlag{Name: "timing", Required: true, Usage: "YAML `FILE` mapping labels to durations in TRs"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			tm, err := fidl.LoadTimingMap(c.String("timing"))
			if err != nil {
				return err
			}
			return fidl.ScheduleFile(c.Args().Get(0), c.Args().Get(1),
				fidl.ParseColumn(c.String("name-column")), fidl.ParseColumn(c.String("onset-column")), tm, header(c))
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run the conversion pipeline described by a YAML config",
		ArgsUsage: "CONFIG",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			cfg, err := fidl.LoadConfig(c.Args().First())
			if err != nil {
				return err
			}
			res, err := fidl.Run(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "%s: %s events\n", res.Table, humanize.Comma(int64(res.Events)))
			if res.Timeline != "" {
				fmt.Fprintln(c.App.Writer, res.Timeline)
			}
			return nil
		},
	}
}
