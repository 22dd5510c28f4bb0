package eop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/litescript/ls-epoch/internal/timescale"
)

var (
	ErrMissingHeader = errors.New("eop: no header row")
	ErrMissingColumn = errors.New("eop: missing column")
	ErrMissingField  = errors.New("missing field")
	ErrBadField      = errors.New("malformed field")
)

// ColumnError reports a required column absent from the header.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("eop: header has no %s column", e.Column)
}

func (e *ColumnError) Unwrap() error { return ErrMissingColumn }

// FieldError reports a bad cell. Row counts data rows from 0, header excluded.
type FieldError struct {
	Row    int
	Column string
	Value  string
	Err    error // ErrMissingField or ErrBadField
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("eop: row %d: %s: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("eop: row %d: %s: %v %q", e.Row, e.Column, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Column names, as they appear in the header.
const (
	ColMJD      = "MJD"
	ColX        = "X"
	ColY        = "Y"
	ColUT1UTC   = "UT1-UTC"
	ColLOD      = "LOD"
	ColDPSI     = "DPSI"
	ColDEPS     = "DEPS"
	ColDX       = "DX"
	ColDY       = "DY"
	ColDAT      = "DAT"
	ColDataType = "DATA_TYPE"
)

// Columns lists the required columns in the order they are checked.
var Columns = []string{
	ColMJD, ColX, ColY, ColUT1UTC, ColLOD, ColDPSI, ColDEPS, ColDX, ColDY, ColDAT, ColDataType,
}

// Parse reads a table from CSV. Columns are located by header name and may
// appear in any order; unknown columns are ignored. Fields are split on
// commas without quoting. Nothing is returned unless every row parses, and a
// blank data row is an error.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() || sc.Err() != nil {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("eop: read header: %w", err)
		}
		return nil, ErrMissingHeader
	}
	header := strings.Split(sc.Text(), ",")
	if len(header) == 1 && strings.TrimSpace(header[0]) == "" {
		return nil, ErrMissingHeader
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	cols := make(map[string]int, len(Columns))
	for _, name := range Columns {
		i, ok := index[name]
		if !ok {
			return nil, &ColumnError{Column: name}
		}
		cols[name] = i
	}

	var records []Record
	for row := 0; sc.Scan(); row++ {
		if err := sc.Err(); err != nil {
			// a read error hands back the partial line as a final token
			return nil, fmt.Errorf("eop: read row %d: %w", row, err)
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			return nil, &FieldError{Row: row, Column: ColMJD, Err: ErrBadField}
		}
		rec, err := parseRow(row, strings.Split(line, ","), cols)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("eop: read row %d: %w", len(records), err)
	}

	return New(records), nil
}

// rowParser pulls typed fields out of one row and remembers the first
// failure, so parseRow can read every column before checking.
type rowParser struct {
	row    int
	fields []string
	cols   map[string]int
	err    error
}

func (p *rowParser) raw(col string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	i := p.cols[col]
	if i >= len(p.fields) {
		p.err = &FieldError{Row: p.row, Column: col, Err: ErrMissingField}
		return "", false
	}
	return strings.TrimSpace(p.fields[i]), true
}

func (p *rowParser) fail(col, value string) {
	p.err = &FieldError{Row: p.row, Column: col, Value: value, Err: ErrBadField}
}

func (p *rowParser) float(col string) float64 {
	s, ok := p.raw(col)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(col, s)
		return 0
	}
	return v
}

func (p *rowParser) integer(col string) int64 {
	s, ok := p.raw(col)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.fail(col, s)
	}
	return v
}

func (p *rowParser) provenance(col string) Provenance {
	s, ok := p.raw(col)
	if !ok {
		return Observed
	}
	v, ok := ParseProvenance(s)
	if !ok {
		p.fail(col, s)
	}
	return v
}

func parseRow(row int, fields []string, cols map[string]int) (Record, error) {
	p := &rowParser{row: row, fields: fields, cols: cols}
	rec := Record{
		Time:       timescale.FromMJD[timescale.UTC](p.float(ColMJD)),
		X:          p.float(ColX),
		Y:          p.float(ColY),
		UT1UTC:     p.float(ColUT1UTC),
		LOD:        p.float(ColLOD),
		DPSI:       p.float(ColDPSI),
		DEPS:       p.float(ColDEPS),
		DX:         p.float(ColDX),
		DY:         p.float(ColDY),
		DAT:        p.integer(ColDAT),
		Provenance: p.provenance(ColDataType),
	}
	if p.err != nil {
		return Record{}, p.err
	}
	return rec, nil
}
