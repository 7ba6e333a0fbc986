package export

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"electricity-dataset/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteTable is the table name the merged dataset is written to.
const SQLiteTable = "training_data"

// SQLite caps bound variables per statement; stay well below it.
const sqliteMaxVars = 32000

// WriteSQLite writes the table into a fresh SQLite database at path. The
// database is built under a temp name and renamed into place.
func WriteSQLite(path string, t *model.Table) (err error) {
	tmp, err := tempPath(path)
	if err != nil {
		return err
	}
	_ = os.Remove(tmp)
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	db, err := sql.Open("sqlite", tmp)
	if err != nil {
		return err
	}
	if err = fillSQLite(db, t); err != nil {
		db.Close()
		return err
	}
	if err = db.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func fillSQLite(db *sql.DB, t *model.Table) error {
	cols := make([]string, 0, len(t.Columns)+1)
	defs := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, quoteIdent(model.IndexColumn))
	defs = append(defs, quoteIdent(model.IndexColumn)+" TEXT PRIMARY KEY")
	for _, c := range t.Columns {
		cols = append(cols, quoteIdent(c))
		defs = append(defs, quoteIdent(c)+" REAL")
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(SQLiteTable), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	perRow := len(cols)
	batch := sqliteMaxVars / perRow
	if batch < 1 {
		batch = 1
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", perRow), ",") + ")"

	for start := 0; start < len(t.Rows); start += batch {
		end := start + batch
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		groups := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*perRow)
		for r := start; r < end; r++ {
			groups = append(groups, placeholder)
			args = append(args, fmtTime(t.Times[r]))
			for _, v := range t.Rows[r] {
				if v.Valid {
					args = append(args, v.Float64)
				} else {
					args = append(args, nil)
				}
			}
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			quoteIdent(SQLiteTable), strings.Join(cols, ", "), strings.Join(groups, ", "))
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return tx.Commit()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
