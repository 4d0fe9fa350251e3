// Package report renders run results for humans: console tables after each
// video, the history listing, the off-topic text report and the docx run
// report.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nguyentantai21042004/lecture-flow/internal/ledger"
	"github.com/nguyentantai21042004/lecture-flow/internal/refine"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// ShouldColorize reports whether the writer is an interactive terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RenderRunSummary returns the post-run table for one video.
func RenderRunSummary(run *ledger.Run, result *refine.Result, colorize bool) string {
	rows := [][]string{
		{"Video", run.VideoName},
		{"Status", statusCell(run.Status, colorize)},
		{"Input duration", formatClock(run.InputDuration)},
		{"Output duration", formatClock(run.OutputDuration)},
		{"Removed silence", formatClock(run.RemovedSilence)},
		{"Cuts", fmt.Sprintf("%d", run.Cuts)},
		{"Entries", fmt.Sprintf("%d -> %d", run.InputEntries, run.FinalEntries)},
		{"Degraded chunks", fmt.Sprintf("%d", run.DegradedChunks)},
		{"Off-topic flags", fmt.Sprintf("%d", run.OffTopicFlags)},
	}
	if run.OutputPath != "" {
		rows = append(rows, []string{"Output", run.OutputPath})
	}
	if run.ErrorMessage != "" {
		rows = append(rows, []string{"Error", run.ErrorMessage})
	}

	out := renderTable([]string{"Result", ""}, rows, []columnAlignment{alignLeft, alignLeft})
	if result != nil && len(result.Stages) > 0 {
		stageRows := make([][]string, 0, len(result.Stages))
		for _, s := range result.Stages {
			stageRows = append(stageRows, []string{StageDisplayName(s.Stage), fmt.Sprintf("%d", s.Entries)})
		}
		out += "\n" + renderTable([]string{"Stage", "Entries"}, stageRows, []columnAlignment{alignLeft, alignRight})
	}
	return out
}

// RenderHistory returns the table for recent runs, newest first.
func RenderHistory(runs []ledger.Run) string {
	if len(runs) == 0 {
		return "No runs recorded."
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.VideoName,
			string(run.Status),
			formatClock(run.RemovedSilence),
			fmt.Sprintf("%d", run.FinalEntries),
		})
	}
	headers := []string{"Started", "Video", "Status", "Removed", "Entries"}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight})
}

// StageDisplayName turns a stage identifier into its human form, e.g.
// "flash_refinement" becomes "Flash Refinement".
func StageDisplayName(stage string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(stage, "_", " "))
}

// DisplayTitle derives a document title from a file name:
// "algorithms_lecture-03.mp4" becomes "Algorithms Lecture 03".
func DisplayTitle(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	return cases.Title(language.Und).String(stem)
}

func statusCell(status ledger.Status, colorize bool) string {
	label := strings.ToUpper(string(status))
	if !colorize {
		return label
	}
	switch status {
	case ledger.StatusCompleted:
		return ansiGreen + label + ansiReset
	case ledger.StatusFailed:
		return ansiRed + label + ansiReset
	default:
		return label
	}
}

// formatClock renders seconds as H:MM:SS, rounded to the nearest second.
func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

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
