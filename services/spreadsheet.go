package services

import (
	"bytes"
	"encoding/csv"
	"finsight/utils/helpers"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var zipSignature = []byte("PK\x03\x04")

// spreadsheetToText renders every sheet of a workbook as a CSV block headed by the sheet name.
// Workbooks stored as ZIP containers (XLSX, including mislabelled .xls files) are read with
// excelize, legacy BIFF workbooks with xls.
func spreadsheetToText(data []byte) (string, error) {
	if bytes.HasPrefix(data, zipSignature) {
		return xlsxToText(data)
	}
	return xlsToText(data)
}

func xlsxToText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	var blocks []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("error reading rows from sheet %q: %w", sheet, err)
		}
		block, err := renderSheet(sheet, rows)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	if len(blocks) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	return strings.Join(blocks, "\n"), nil
}

func xlsToText(data []byte) (text string, err error) {
	// the BIFF reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Panic while reading xls workbook", zap.Any("panic", r))
			text, err = "", fmt.Errorf("error reading xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", fmt.Errorf("error opening xls workbook: %w", err)
	}

	var blocks []string
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		block, err := renderSheet(sheet.Name, rows)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	if len(blocks) == 0 {
		return "", fmt.Errorf("xls workbook has no sheets")
	}
	return strings.Join(blocks, "\n"), nil
}

// renderSheet writes the sheet header followed by its non-blank rows as CSV.
func renderSheet(name string, rows [][]string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Sheet: %s ---\n", name)

	w := csv.NewWriter(&b)
	for _, row := range rows {
		if helpers.IsBlankRow(row) {
			continue
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing sheet %q: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error writing sheet %q: %w", name, err)
	}
	return b.String(), nil
}

