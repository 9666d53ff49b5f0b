package db

import (
	"database/sql"
	"strconv"
	"strings"
)

// Row is a table row passed through to JSON as-is.
type Row = map[string]any

// ScanRows reads every row into a column->value map. Byte slices become strings,
// integer and decimal columns become numbers when the driver reports their type.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	kinds := make([]string, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			if i < len(kinds) {
				kinds[i] = strings.ToUpper(t.DatabaseTypeName())
			}
		}
	}

	out := []Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(vals[i], kinds[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func normalize(v any, kind string) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	switch kind {
	case "INT", "BIGINT", "SMALLINT", "MEDIUMINT", "TINYINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "DECIMAL", "FLOAT", "DOUBLE":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "JSON":
		return RawJSON(b)
	}
	return s
}

// RawJSON embeds a JSON column value without re-encoding it as a string.
type RawJSON []byte

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}
