package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the fixed worksheet name in exported workbooks.
	SheetName = "Receipts"
	// ExportFilename is the fixed download filename.
	ExportFilename = "TrackMate_Receipts.xlsx"
	// ExportMIMEType is the content type of the exported workbook.
	ExportMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// exportColumns is the fixed header row, in order.
var exportColumns = []string{"id", "vendor", "date", "amount", "filename"}

// Export serializes records to an xlsx workbook: one header row followed by
// one row per record, columns in the fixed order.
func Export(records []Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for col, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("locating header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []interface{}{rec.ID, rec.Vendor, rec.Date, rec.Amount, rec.Filename}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("locating cell: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
