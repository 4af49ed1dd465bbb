package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders datasets into an Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces a single-sheet workbook from the dataset.
func (e *XLSXExporter) Render(data Dataset, sheet string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	if sheet == "" {
		sheet = defaultSheet
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	if _, err := e.writeDataset(f, sheet, 1, data); err != nil {
		return nil, err
	}

	return e.output(f)
}

// RenderSections produces a workbook where every section becomes a titled
// block on a single sheet, mirroring the CSV section layout.
func (e *XLSXExporter) RenderSections(sections []Section, sheet string) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one section")
	}
	if sheet == "" {
		sheet = defaultSheet
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	row := 1
	for _, section := range sections {
		if section.Title != "" {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, fmt.Errorf("section title cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, section.Title); err != nil {
				return nil, fmt.Errorf("write section title: %w", err)
			}
			row++
		}
		next, err := e.writeDataset(f, sheet, row, section.Data)
		if err != nil {
			return nil, err
		}
		row = next + 1
	}

	return e.output(f)
}

func (e *XLSXExporter) writeDataset(f *excelize.File, sheet string, startRow int, data Dataset) (int, error) {
	if len(data.Headers) == 0 {
		return 0, fmt.Errorf("xlsx requires at least one header")
	}
	headerRow := make([]interface{}, len(data.Headers))
	for i, h := range data.Headers {
		headerRow[i] = h
	}
	cell, err := excelize.CoordinatesToCellName(1, startRow)
	if err != nil {
		return 0, fmt.Errorf("header cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &headerRow); err != nil {
		return 0, fmt.Errorf("write xlsx headers: %w", err)
	}

	row := startRow + 1
	for _, record := range data.Rows {
		values := make([]interface{}, len(data.Headers))
		for i, header := range data.Headers {
			values[i] = record[header]
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return 0, fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return 0, fmt.Errorf("write xlsx row: %w", err)
		}
		row++
	}
	return row, nil
}

func (e *XLSXExporter) output(f *excelize.File) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
