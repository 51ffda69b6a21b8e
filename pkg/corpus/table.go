package corpus

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Table is a parsed CSV file: an ordered column list and string-valued rows.
// Tables are immutable once loaded; filters and masking always produce copies.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// LoadTable reads and parses a CSV file. The first record is the header.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	columns := make([]string, len(records[0]))
	for i, col := range records[0] {
		columns[i] = strings.TrimSpace(strings.ToLower(col))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// Predicate filters rows post-load. Implementations mirror the filter kinds
// the tabular interface promises: contains, exact match, set membership.
type Predicate interface {
	Match(row map[string]string) bool
}

// FieldContains matches rows whose field contains the value, case-insensitive.
type FieldContains struct {
	Field string
	Value string
}

func (p FieldContains) Match(row map[string]string) bool {
	return strings.Contains(strings.ToLower(row[strings.ToLower(p.Field)]), strings.ToLower(p.Value))
}

// FieldEquals matches rows whose field equals the value, case-insensitive.
type FieldEquals struct {
	Field string
	Value string
}

func (p FieldEquals) Match(row map[string]string) bool {
	return strings.EqualFold(row[strings.ToLower(p.Field)], p.Value)
}

// FieldIn matches rows whose field is one of the given values.
type FieldIn struct {
	Field  string
	Values []string
}

func (p FieldIn) Match(row map[string]string) bool {
	v := row[strings.ToLower(p.Field)]
	for _, want := range p.Values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// Filter returns the rows matching every predicate.
func (t *Table) Filter(preds ...Predicate) []map[string]string {
	if len(preds) == 0 {
		return t.Rows
	}
	var out []map[string]string
	for _, row := range t.Rows {
		keep := true
		for _, p := range preds {
			if !p.Match(row) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}
