package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetProvider reads .xlsx workbooks
type SpreadsheetProvider struct {
	defaultSheet string
}

// Ensure SpreadsheetProvider implements TabularSource
var _ TabularSource = (*SpreadsheetProvider)(nil)

// NewSpreadsheetProvider creates a reader that falls back to defaultSheet when no sheet is requested
func NewSpreadsheetProvider(defaultSheet string) *SpreadsheetProvider {
	return &SpreadsheetProvider{defaultSheet: strings.TrimSpace(defaultSheet)}
}

func (p *SpreadsheetProvider) ReadFile(ctx context.Context, path string, opts ReadOptions) ([]SourceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrSourceFormat, path, err)
	}
	defer f.Close()

	return p.readWorkbook(ctx, f, opts)
}

func (p *SpreadsheetProvider) Read(ctx context.Context, r io.Reader, opts ReadOptions) ([]SourceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrSourceFormat, err)
	}
	defer f.Close()

	return p.readWorkbook(ctx, f, opts)
}

func (p *SpreadsheetProvider) readWorkbook(ctx context.Context, f *excelize.File, opts ReadOptions) ([]SourceRow, error) {
	sheet, err := p.pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrSourceFormat, sheet, err)
	}

	if len(raw) == 0 {
		if len(opts.Columns) > 0 {
			return nil, fmt.Errorf("%w: sheet %q has no header row", ErrSourceFormat, sheet)
		}
		return []SourceRow{}, nil
	}

	// First row is header; the first occurrence of a label wins
	header := make(map[int]string)
	seen := make(map[string]bool)
	for i, label := range raw[0] {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		header[i] = label
	}

	if len(opts.Columns) > 0 {
		keep := make(map[string]bool, len(opts.Columns))
		for _, col := range opts.Columns {
			if !seen[col] {
				return nil, fmt.Errorf("%w: column %q not found in sheet %q", ErrSourceFormat, col, sheet)
			}
			keep[col] = true
		}
		for i, label := range header {
			if !keep[label] {
				delete(header, i)
			}
		}
	}

	rows := make([]SourceRow, 0, len(raw)-1)
	for i, values := range raw[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := i + 2
		row := SourceRow{Line: line, Values: make(map[string]Cell, len(header))}
		empty := true

		for col, label := range header {
			cell := MissingCell()
			if col < len(values) {
				cell, err = classifyCell(f, sheet, col, line, values[col])
				if err != nil {
					return nil, err
				}
			}
			if !cell.IsMissing() {
				empty = false
			}
			row.Values[label] = cell
		}

		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// pickSheet resolves the requested sheet, then the default, then the first sheet
func (p *SpreadsheetProvider) pickSheet(f *excelize.File, requested string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: no sheets found in workbook", ErrSourceFormat)
	}

	name := strings.TrimSpace(requested)
	if name == "" {
		name = p.defaultSheet
	}
	if name == "" {
		return sheets[0], nil
	}

	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q not found", ErrSourceFormat, name)
}

// classifyCell turns a raw cell value into a typed Cell.
// Blank and whitespace-only cells are missing; string-typed cells stay strings even when they look numeric.
// Text is kept as typed, surrounding spaces included, since names are matched exactly.
func classifyCell(f *excelize.File, sheet string, col, line int, raw string) (Cell, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return MissingCell(), nil
	}

	axis, err := excelize.CoordinatesToCellName(col+1, line)
	if err != nil {
		return Cell{}, fmt.Errorf("%w: %v", ErrSourceFormat, err)
	}

	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return Cell{}, fmt.Errorf("%w: cell %s: %v", ErrSourceFormat, axis, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		if value == "1" {
			return StringCell("TRUE"), nil
		}
		return StringCell("FALSE"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeError:
		return StringCell(raw), nil
	}

	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return NumberCell(n), nil
	}
	return StringCell(raw), nil
}
