package providers

import (
	"context"
	"errors"
	"io"
	"strconv"
)

// Source errors abort a batch before anything is resolved
var (
	ErrSourceNotFound = errors.New("spreadsheet source not found")
	ErrSourceFormat   = errors.New("spreadsheet cannot be parsed")
)

// TabularSource loads a spreadsheet into ordered rows keyed by header label
type TabularSource interface {
	// ReadFile reads the workbook at path
	ReadFile(ctx context.Context, path string, opts ReadOptions) ([]SourceRow, error)

	// Read reads a workbook from an open stream, e.g. an uploaded file
	Read(ctx context.Context, r io.Reader, opts ReadOptions) ([]SourceRow, error)
}

// ReadOptions selects what part of the workbook is read
type ReadOptions struct {
	Sheet   string   // Sheet name; empty means the provider default, then the first sheet
	Columns []string // Header labels to keep; empty keeps all
}

// CellKind tells a number from a string from an empty cell
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellString
)

func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellString:
		return "string"
	default:
		return "missing"
	}
}

// Cell is one raw spreadsheet value in its native scalar type
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

func MissingCell() Cell         { return Cell{Kind: CellMissing} }
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }
func StringCell(s string) Cell  { return Cell{Kind: CellString, Text: s} }
func (c Cell) IsMissing() bool  { return c.Kind == CellMissing }

// String renders the cell the way it is used as a name; missing cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellString:
		return c.Text
	default:
		return ""
	}
}

// SourceRow is one data row of the sheet
type SourceRow struct {
	Line   int             // 1-based line number in the sheet, header is line 1
	Values map[string]Cell // header label -> cell
}

// Get returns the cell under label, or a missing cell when the column is absent
func (r SourceRow) Get(label string) Cell {
	if c, ok := r.Values[label]; ok {
		return c
	}
	return MissingCell()
}
