package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/alnah/go-rfcnotes/internal/dateutil"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable renders rows under headers. Rounded borders are used on
// terminals, ASCII borders otherwise.
func renderTable(w io.Writer, headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printResults prints the annotate summary table to stdout and failures to
// stderr. It returns the number of failed documents.
func printResults(results []DocumentResult, quiet, verbose bool, env *Environment) int {
	succeeded, failed := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Job.Name, r.Err)
		}
	}
	if quiet || succeeded == 0 {
		return failed
	}

	headers := []string{"Document", "Records", "Blocks", "Orphans", "Warnings", "Last annotation", "Output"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft}
	if verbose {
		headers = append(headers, "Duration")
		aligns = append(aligns, alignRight)
	}

	rows := make([][]string, 0, succeeded)
	for _, r := range results {
		if r.Err != nil || r.Result == nil {
			continue
		}
		last := lastAnnotation(r.Result.LastDate, env.Now())
		row := []string{
			r.Job.Name,
			strconv.Itoa(r.Result.Records),
			strconv.Itoa(r.Result.Blocks),
			strconv.Itoa(len(r.Result.Orphans)),
			strconv.Itoa(len(r.Result.Diagnostics)),
			last,
			r.OutputPath,
		}
		if verbose {
			row = append(row, r.Duration.Round(time.Millisecond).String())
		}
		rows = append(rows, row)
	}

	fmt.Fprintln(env.Stdout, renderTable(env.Stdout, headers, rows, aligns))
	fmt.Fprintf(env.Stdout, "%d annotated, %d failed\n", succeeded, failed)
	return failed
}

// lastAnnotation formats an annotation date with its age.
func lastAnnotation(date string, now time.Time) string {
	if date == "" {
		return "-"
	}
	days, err := dateutil.DaysSince(date, now)
	if err != nil {
		return date
	}
	switch days {
	case 0:
		return date + " (today)"
	case 1:
		return date + " (1 day ago)"
	}
	return fmt.Sprintf("%s (%d days ago)", date, days)
}

// countResults returns the number of succeeded and failed documents.
func countResults(results []DocumentResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}

// printGenerateSummary prints the files written by a generate run.
func printGenerateSummary(s *generateSummary, quiet bool, env *Environment) {
	if quiet {
		return
	}
	if len(s.Written) > 0 {
		rows := make([][]string, len(s.Written))
		for i, p := range s.Written {
			rows[i] = []string{p}
		}
		fmt.Fprintln(env.Stdout, renderTable(env.Stdout, []string{"Written"}, rows, nil))
	}
	fmt.Fprintf(env.Stdout, "%s: %d written, %d skipped (existing)", s.Kind, len(s.Written), len(s.Skipped))
	if n := len(s.Diagnostics); n > 0 {
		fmt.Fprintf(env.Stdout, ", %d diagnostic(s)", n)
	}
	fmt.Fprintln(env.Stdout)
}
