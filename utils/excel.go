package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportDir is where generated report files are written. Files here are
// transient; the scheduled cleanup removes them after their TTL.
const ExportDir = "./public/exports"

// ExcelSheet describes one sheet of a generated workbook.
type ExcelSheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}
	return nil
}

// GenerateExcel creates an Excel file with the given sheets and returns its path.
func GenerateExcel(reportName string, sheets []ExcelSheet) (string, error) {
	if err := EnsureDirectoryExists(ExportDir); err != nil {
		return "", err
	}

	f := excelize.NewFile()

	for i, sheet := range sheets {
		if i == 0 {
			f.SetSheetName("Sheet1", sheet.Name)
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return "", fmt.Errorf("error creating sheet %s: %v", sheet.Name, err)
			}
		}

		for col, header := range sheet.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return "", fmt.Errorf("error resolving header cell: %v", err)
			}
			if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
				return "", fmt.Errorf("error setting header %s: %v", header, err)
			}
		}

		for rowIdx, row := range sheet.Rows {
			for col, value := range row {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return "", fmt.Errorf("error resolving cell: %v", err)
				}
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					return "", fmt.Errorf("error writing cell %s: %v", cell, err)
				}
			}
		}
	}

	fileName := fmt.Sprintf("%s-%s.xlsx", reportName, time.Now().Format("20060102-150405"))
	filePath := filepath.Join(ExportDir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving excel file: %v", err)
	}

	return filePath, nil
}
