package db

import "strings"

// Field is one column assignment in an INSERT or UPDATE.
type Field struct {
	Col string
	Val any
}

// Fields keeps column order stable so generated SQL is predictable.
type Fields []Field

func (f Fields) Set(col string, val any) Fields {
	for i := range f {
		if f[i].Col == col {
			f[i].Val = val
			return f
		}
	}
	return append(f, Field{Col: col, Val: val})
}

func (f Fields) Without(cols ...string) Fields {
	drop := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		drop[c] = struct{}{}
	}
	out := make(Fields, 0, len(f))
	for _, fld := range f {
		if _, ok := drop[fld.Col]; ok {
			continue
		}
		out = append(out, fld)
	}
	return out
}

func (f Fields) Has(col string) bool {
	for _, fld := range f {
		if fld.Col == col {
			return true
		}
	}
	return false
}

func (f Fields) Map() map[string]any {
	out := make(map[string]any, len(f))
	for _, fld := range f {
		out[fld.Col] = fld.Val
	}
	return out
}

// InsertSQL builds "INSERT INTO table (a,b) VALUES (?,?)".
func InsertSQL(table string, f Fields) (string, []any) {
	cols := make([]string, 0, len(f))
	marks := make([]string, 0, len(f))
	args := make([]any, 0, len(f))
	for _, fld := range f {
		cols = append(cols, Ident(fld.Col))
		marks = append(marks, "?")
		args = append(args, fld.Val)
	}
	return "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")", args
}

// UpsertSQL builds an INSERT ... ON DUPLICATE KEY UPDATE for every non-key column.
func UpsertSQL(table string, f Fields, keys ...string) (string, []any) {
	query, args := InsertSQL(table, f)
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	updates := []string{}
	for _, fld := range f {
		if isKey[fld.Col] {
			continue
		}
		updates = append(updates, Ident(fld.Col)+"=VALUES("+Ident(fld.Col)+")")
	}
	if len(updates) == 0 {
		return strings.Replace(query, "INSERT INTO", "INSERT IGNORE INTO", 1), args
	}
	return query + " ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", "), args
}

// UpdateSQL builds "UPDATE table SET a=?, b=? WHERE <where>".
func UpdateSQL(table string, f Fields, where string, whereArgs ...any) (string, []any) {
	sets := make([]string, 0, len(f))
	args := make([]any, 0, len(f)+len(whereArgs))
	for _, fld := range f {
		sets = append(sets, Ident(fld.Col)+"=?")
		args = append(args, fld.Val)
	}
	args = append(args, whereArgs...)
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE " + where, args
}
