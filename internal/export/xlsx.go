// Package export writes the local session history to spreadsheets.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/stats"
	"github.com/verte-zerg/tecla/internal/store"
)

// Sheet names of the exported workbook.
const (
	SessionsSheet   = "Sessions"
	CharactersSheet = "Characters"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	sessionHeaders = []any{
		"Started", "Ended", "Mode", "Total Words", "Written Words", "Correct Words",
		"Incorrect Words", "Correct Chars", "Incorrect Chars", "Accuracy (%)", "WPM",
		"Duration (s)", "Completed", "Session ID",
	}
	charHeaders = []any{"Char", "Accuracy (%)", "Avg Latency (ms)", "Correct", "Incorrect", "Total"}
)

// Summary reports what was exported.
type Summary struct {
	Sessions   int
	Characters int
}

// Build creates a workbook with one row per session and one row per
// character.
func Build(records []model.SessionRecord, aggs []model.CharAggregate) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SessionsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CharactersSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, sessionRow(rec))
	}
	if err := writeSheet(f, SessionsSheet, sessionHeaders, rows, bold); err != nil {
		_ = f.Close()
		return nil, err
	}

	charRows := stats.CharRows(aggs)
	rows = make([][]any, 0, len(charRows))
	for _, r := range charRows {
		rows = append(rows, []any{
			r.Label,
			round2(r.Accuracy * 100),
			round2(r.LatencyMs),
			r.Correct,
			r.Incorrect,
			r.Correct + r.Incorrect,
		})
	}
	if err := writeSheet(f, CharactersSheet, charHeaders, rows, bold); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func sessionRow(rec model.SessionRecord) []any {
	mode := "online"
	if rec.Offline {
		mode = "offline"
	}
	completed := "no"
	if rec.Completed {
		completed = "yes"
	}
	return []any{
		rec.StartedAt.Local().Format(timeLayout),
		rec.EndedAt.Local().Format(timeLayout),
		mode,
		rec.TotalWords,
		rec.WrittenWords,
		rec.CorrectWords,
		rec.IncorrectWords,
		rec.CorrectChars,
		rec.IncorrectChars,
		rec.Accuracy,
		rec.WPM,
		round2(float64(rec.DurationMs) / 1000),
		completed,
		rec.RemoteID,
	}
}

func writeSheet(f *excelize.File, sheet string, headers []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}

// Write exports the sessions matching cfg to w.
func Write(ctx context.Context, st *store.Store, cfg model.StatsConfig, w io.Writer) (Summary, error) {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return Summary{}, fmt.Errorf("load history: %w", err)
	}
	f, err := Build(report.Records, report.CharAggsAll)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.Write(w); err != nil {
		return Summary{}, fmt.Errorf("write workbook: %w", err)
	}
	return Summary{Sessions: len(report.Records), Characters: len(report.CharAggsAll)}, nil
}

// SaveFile exports the sessions matching cfg to an .xlsx file at path.
func SaveFile(ctx context.Context, st *store.Store, cfg model.StatsConfig, path string) (Summary, error) {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return Summary{}, fmt.Errorf("load history: %w", err)
	}
	f, err := Build(report.Records, report.CharAggsAll)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.SaveAs(path); err != nil {
		return Summary{}, fmt.Errorf("save %s: %w", path, err)
	}
	return Summary{Sessions: len(report.Records), Characters: len(report.CharAggsAll)}, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
