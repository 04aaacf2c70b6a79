package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// Table is a statically declared table the service reads from.
type Table struct {
	Name    string
	Columns []string
}

// ValidateSchema checks that every declared table exists with at least the
// declared columns. Extra columns in the live schema are allowed.
func ValidateSchema(ctx context.Context, q Querier, tables ...Table) error {
	var problems []string
	for _, t := range tables {
		live, err := tableColumns(ctx, q, t.Name)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", t.Name, err)
		}
		if len(live) == 0 {
			problems = append(problems, fmt.Sprintf("table %q not found", t.Name))
			continue
		}
		for _, c := range t.Columns {
			if !live[strings.ToLower(c)] {
				problems = append(problems, fmt.Sprintf("column %s.%s not found", t.Name, c))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(problems, "; "))
	}
	return nil
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tableColumns(ctx context.Context, q Querier, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close table_info rows", "table", table, "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = true
	}
	return out, rows.Err()
}
