// Package export writes assembled lessons as printable lesson plans.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/route"
)

// SheetName is the worksheet holding the plan.
const SheetName = "Lesson Plan"

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var phaseColumns = []string{"Phase", "Activity", "Minutes", "Presentation", "Description", "Steps", "Tips"}

// WriteLessonPlan writes l as an .xlsx workbook. The header block carries the
// lesson classification; one row per phase follows in teaching order.
func WriteLessonPlan(w io.Writer, l lesson.Lesson, plan route.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return fmt.Errorf("creating body style: %w", err)
	}

	header := [][2]any{
		{"Lesson", l.ID},
		{"Subject", l.Subject},
		{"Year group", l.YearGroup},
		{"Class", l.ClassID},
		{"Theme", l.Theme},
		{"Week", weekValue(l.Week)},
		{"Total minutes", l.TotalMinutes()},
	}
	row := 1
	for _, h := range header {
		if err := setRow(f, row, h[0], h[1]); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellStyle(SheetName, "A1", fmt.Sprintf("A%d", row-1), bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	row++
	cols := make([]any, len(phaseColumns))
	for i, c := range phaseColumns {
		cols[i] = c
	}
	if err := setRow(f, row, cols...); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(phaseColumns))
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), bold); err != nil {
		return fmt.Errorf("styling columns: %w", err)
	}
	row++

	first := row
	for _, p := range lesson.Phases() {
		act, ok := l.Activity(p)
		if !ok {
			continue
		}
		var steps, tips string
		if act.Details != nil {
			steps = numbered(act.Details.Steps)
			tips = strings.Join(act.Details.Tips, "\n")
		}
		if err := setRow(f, row, p.String(), act.Title, act.DurationMinutes,
			presentationLabel(plan[p]), act.Description, steps, tips); err != nil {
			return err
		}
		row++
	}
	if row > first {
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", first), fmt.Sprintf("%s%d", last, row-1), wrap); err != nil {
			return fmt.Errorf("styling rows: %w", err)
		}
	}

	widths := map[string]float64{"A": 14, "B": 32, "C": 9, "D": 28, "E": 48, "F": 48, "G": 32}
	for col, width := range widths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

func presentationLabel(d route.Decision) string {
	if !d.IsSpecialized() {
		return "Standard lesson view"
	}
	return d.Presentation
}

func weekValue(week int) any {
	if week <= 0 {
		return ""
	}
	return week
}

func numbered(steps []string) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
