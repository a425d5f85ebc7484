package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	name   string
	driver string
}

var (
	SQLite   = Dialect{name: "sqlite", driver: "sqlite"}
	MySQL    = Dialect{name: "mysql", driver: "mysql"}
	Postgres = Dialect{name: "postgres", driver: "postgres"}
)

// ParseDialect maps a configured driver name to its dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
}

func (d Dialect) Name() string { return d.name }

// rebind rewrites ? placeholders to $n for postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upsert returns the conflict clause that overwrites cols on a key clash.
func (d Dialect) upsert(key []string, cols []string) string {
	sets := make([]string, len(cols))
	if d == MySQL {
		for i, c := range cols {
			sets[i] = fmt.Sprintf("%s=VALUES(%s)", c, c)
		}
		return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s=excluded.%s", c, c)
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", strings.Join(key, ", "), strings.Join(sets, ", "))
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertID runs an INSERT and returns the generated id column.
func (d Dialect) insertID(ctx context.Context, ex execer, q string, args ...any) (int64, error) {
	if d == Postgres {
		var id int64
		err := ex.QueryRowContext(ctx, d.rebind(q+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := ex.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
