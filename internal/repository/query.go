package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/entityhub/internal/errs"
)

// Where is a filter over a model's scalar fields, keyed by API field name.
// Plain values compare with equality (nil means IS NULL); Contains values
// match a substring.
type Where map[string]any

// Contains is a substring-containment condition. An empty Value matches every
// non-null row.
type Contains struct {
	Value string
}

// Order sorts a window by one field. Direction is "asc", "desc" or empty for
// the database default.
type Order struct {
	Field     string
	Direction string
}

// Window selects one page of rows.
type Window struct {
	Where Where
	Skip  int
	Take  int
	Order *Order
}

// Column maps an API field name to its SQL column.
type Column struct {
	Field string
	Name  string
}

// Columns is the ordered set of scalar columns of a model.
type Columns []Column

// Lookup returns the SQL column for an API field.
func (cs Columns) Lookup(field string) (string, bool) {
	for _, c := range cs {
		if c.Field == field {
			return c.Name, true
		}
	}
	return "", false
}

// Fields lists the API field names in declaration order.
func (cs Columns) Fields() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Field
	}
	return out
}

func (cs Columns) selectList() string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// Pager runs the two queries behind a paginated listing.
type Pager interface {
	FindPage(ctx context.Context, w Window) ([]any, error)
	Count(ctx context.Context, where Where) (int64, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// tablePager implements Pager over a single table.
type tablePager[T any] struct {
	db    *sql.DB
	table string
	cols  Columns
	scan  func(scanner) (T, error)
}

func (p *tablePager[T]) FindPage(ctx context.Context, w Window) ([]any, error) {
	cond, args, err := buildWhere(p.cols, w.Where)
	if err != nil {
		return nil, err
	}
	order, err := buildOrder(p.cols, w.Order)
	if err != nil {
		return nil, err
	}
	q := "SELECT " + p.cols.selectList() + " FROM " + p.table + " WHERE " + cond + order + " LIMIT ? OFFSET ?"
	args = append(args, w.Take, w.Skip)

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]any, 0, w.Take)
	for rows.Next() {
		v, err := p.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (p *tablePager[T]) Count(ctx context.Context, where Where) (int64, error) {
	cond, args, err := buildWhere(p.cols, where)
	if err != nil {
		return 0, err
	}
	var total int64
	err = p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+p.table+" WHERE "+cond, args...).Scan(&total)
	return total, err
}

// buildWhere renders w as a SQL condition. Keys are sorted so the statement
// text is stable. Unknown fields are rejected with ErrInvalidParameter.
func buildWhere(cols Columns, w Where) (string, []any, error) {
	if len(w) == 0 {
		return "1=1", nil, nil
	}
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		col, ok := cols.Lookup(k)
		if !ok {
			return "", nil, errs.New(errs.ErrInvalidParameter, errs.MsgWrongParam)
		}
		switch v := w[k].(type) {
		case nil:
			parts = append(parts, col+" IS NULL")
		case Contains:
			parts = append(parts, col+" LIKE ?")
			args = append(args, "%"+escapeLike(v.Value)+"%")
		case string, bool, float64, int, int64:
			parts = append(parts, col+" = ?")
			args = append(args, v)
		default:
			return "", nil, errs.New(errs.ErrInvalidParameter, fmt.Sprintf("%s: unsupported value", errs.MsgWrongParam))
		}
	}
	return strings.Join(parts, " AND "), args, nil
}

func buildOrder(cols Columns, o *Order) (string, error) {
	if o == nil || o.Field == "" {
		return "", nil
	}
	col, ok := cols.Lookup(o.Field)
	if !ok {
		return "", errs.New(errs.ErrInvalidParameter, errs.MsgWrongParam)
	}
	switch strings.ToLower(o.Direction) {
	case "":
		return " ORDER BY " + col, nil
	case "asc":
		return " ORDER BY " + col + " ASC", nil
	case "desc":
		return " ORDER BY " + col + " DESC", nil
	}
	return "", errs.New(errs.ErrInvalidParameter, errs.MsgWrongOrder)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
