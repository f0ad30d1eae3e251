// Package export writes the manual-recovery workbook for failed generation
// attempts: the attempt context plus the raw service payload, so a
// psychopedagogue can salvage usable content by hand.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"piar/entities"
)

// excelize rejects cell values beyond 32767 characters; raw payloads are
// split across rows.
const maxCellRunes = 30000

func FailureWorkbook(l *entities.GenerationLog, student *entities.Student) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Recovery"
	f.SetSheetName("Sheet1", sheet)

	studentName := ""
	if student != nil {
		studentName = student.FullName
	}
	rows := [][]any{
		{"Generation attempt", l.ID},
		{"Student", studentName},
		{"Student ID", l.StudentID},
		{"Plan type", l.PlanType},
		{"Requested by", l.RequestedBy},
		{"Attempted at", l.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Error", l.ErrorMessage},
		{},
		{"Raw response"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	line := len(rows) + 1
	for _, part := range splitRunes(l.RawResponse, maxCellRunes) {
		cell := fmt.Sprintf("A%d", line)
		if err := f.SetCellStr(sheet, cell, part); err != nil {
			return nil, err
		}
		line++
	}

	if err := f.SetColWidth(sheet, "A", "A", 100); err != nil {
		return nil, err
	}
	return f, nil
}

func splitRunes(s string, size int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var parts []string
	for len(runes) > size {
		parts = append(parts, string(runes[:size]))
		runes = runes[size:]
	}
	return append(parts, string(runes))
}
