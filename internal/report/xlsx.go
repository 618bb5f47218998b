package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// WriteXLSX writes the file reports and summary to an XLSX workbook at path.
func WriteXLSX(path string, reports []FileReport, summary *Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	for i, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	row := 2
	for i := range reports {
		r := &reports[i]
		write := func(col int, v interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		write(1, r.FileName)
		write(2, r.DocumentType)
		write(3, r.TotalFields)
		write(4, r.MissingFields)
		write(5, yesNo(r.FallbackUsed))
		write(6, fmt.Sprintf("%.2f%%", r.CompletionRate))
		row++
	}

	// Summary block below the table.
	row++
	summaryRows := [][2]interface{}{
		{"Total Files", summary.TotalFiles},
		{"Average Completion", fmt.Sprintf("%.2f%%", summary.AverageCompletion)},
		{"Files Using Fallback", summary.FallbackCount},
	}
	for _, entry := range summaryRows {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheetName, labelCell, entry[0])
		_ = f.SetCellValue(sheetName, valueCell, entry[1])
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
