// Package export renders shopping lists and meal-plan weeks as .xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"recipebox/internal/store"
	"recipebox/models"
)

const (
	ShoppingSheet = "Shopping List"
	WeekSheet     = "Meal Plan"

	// ContentType is the media type of the generated workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ShoppingList builds a workbook with one row per entry. The caller closes it.
func ShoppingList(entries []store.ShoppingEntry) (*excelize.File, error) {
	f, sheet, err := newWorkbook(ShoppingSheet)
	if err != nil {
		return nil, err
	}

	rows := [][]any{{"Ingredient", "Quantity", "Purchased"}}
	for _, entry := range entries {
		quantity := ""
		if entry.Quantity != nil {
			quantity = *entry.Quantity
		}
		purchased := "no"
		if entry.Purchased {
			purchased = "yes"
		}
		rows = append(rows, []any{entry.Name, quantity, purchased})
	}

	if err := writeRows(f, sheet, rows); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := finish(f, sheet, 3, []float64{32, 18, 12}); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Week builds a slot-by-day grid. Cells list the planned meals one per line.
func Week(week store.Week) (*excelize.File, error) {
	f, sheet, err := newWorkbook(WeekSheet)
	if err != nil {
		return nil, err
	}

	header := []any{"Meal"}
	for _, day := range week.Days {
		header = append(header, day.Date.Format("Mon 02 Jan"))
	}
	rows := [][]any{header}

	for _, slot := range models.MealSlots {
		row := []any{slot}
		for _, day := range week.Days {
			labels := make([]string, 0, len(day.Slots[slot]))
			for _, entry := range day.Slots[slot] {
				labels = append(labels, entry.Label())
			}
			row = append(row, strings.Join(labels, "\n"))
		}
		rows = append(rows, row)
	}

	if err := writeRows(f, sheet, rows); err != nil {
		_ = f.Close()
		return nil, err
	}
	widths := []float64{12, 22, 22, 22, 22, 22, 22, 22}
	if err := finish(f, sheet, len(header), widths); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Write streams f to w and closes it.
func Write(w io.Writer, f *excelize.File) error {
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func newWorkbook(sheet string) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("name sheet: %w", err)
	}
	return f, sheet, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}

// finish bolds the header row, wraps text and sets column widths.
func finish(f *excelize.File, sheet string, columns int, widths []float64) error {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E8EEF4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return fmt.Errorf("body style: %w", err)
	}

	lastColumn, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	if err := f.SetColStyle(sheet, "A:"+lastColumn, wrap); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastColumn+"1", header); err != nil {
		return err
	}
	for i, width := range widths {
		if i >= columns {
			break
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}
