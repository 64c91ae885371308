package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"reflect"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

type Execer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func Make(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		pragma journal_mode = WAL;
		pragma synchronous = normal;
		pragma temp_store = memory;
		pragma busy_timeout = 5000;

		create table if not exists sessions (
			id text primary key,
			did text not null,
			handle text not null,
			pds_url text not null,
			access_jwt text not null,
			refresh_jwt text not null,
			expiry text not null,
			created text not null default (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		);

		create table if not exists settings (
			-- id
			id integer primary key autoincrement,
			did text not null,

			-- banner
			custom_banner text,
			banner_scale integer not null default 100,
			banner_position_x integer not null default 50,
			banner_position_y integer not null default 50,
			banner_rotation integer not null default 0,

			-- layout
			theme text,
			compact_layout integer not null default 0,

			-- meta
			created text not null default (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			edited text,

			-- constraints
			unique(did)
		);

		create table if not exists starter_packs (
			-- identifiers for the record
			id integer primary key autoincrement,
			did text not null,
			rkey text not null,

			-- content
			name text not null,
			description text,
			category text not null,

			-- meta
			creator_handle text,
			created text not null default (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			edited text,

			-- constraints
			unique(did, rkey)
		);

		create table if not exists starter_pack_members (
			-- id
			id integer primary key autoincrement,
			pack_id integer not null,

			-- data
			did text not null,
			handle text not null,
			display_name text,
			avatar text,
			added text not null default (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),

			-- constraints
			unique(pack_id, did),
			foreign key (pack_id) references starter_packs(id) on delete cascade
		);

		create table if not exists migrations (
			id integer primary key autoincrement,
			name text unique
		);
	`)
	if err != nil {
		return nil, err
	}

	runMigration(db, "add-theme-accent-to-settings", func(tx *sql.Tx) error {
		tx.Exec(`
			alter table settings add column accent_color text;
		`)
		return nil
	})

	return &DB{db}, nil
}

type migrationFn = func(*sql.Tx) error

func runMigration(d *sql.DB, name string, migrationFn migrationFn) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow("select exists (select 1 from migrations where name = ?)", name).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		err = migrationFn(tx)
		if err != nil {
			log.Printf("Failed to run migration %s: %v", name, err)
			return err
		}

		_, err = tx.Exec("insert into migrations (name) values (?)", name)
		if err != nil {
			log.Printf("Failed to mark migration %s as complete: %v", name, err)
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

type Filter struct {
	key string
	arg any
	cmp string
}

func newFilter(key, cmp string, arg any) Filter {
	return Filter{
		key: key,
		arg: arg,
		cmp: cmp,
	}
}

func FilterEq(key string, arg any) Filter    { return newFilter(key, "=", arg) }
func FilterNotEq(key string, arg any) Filter { return newFilter(key, "<>", arg) }
func FilterIn(key string, arg any) Filter    { return newFilter(key, "in", arg) }

func (f Filter) Condition() string {
	rv := reflect.ValueOf(f.arg)
	kind := rv.Kind()

	// if we have `FilterIn(k, [1, 2, 3])`, compile it down to `k in (?, ?, ?)`
	if (kind == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8) || kind == reflect.Array {
		if rv.Len() == 0 {
			// always false
			return "1 = 0"
		}

		placeholders := make([]string, rv.Len())
		for i := range placeholders {
			placeholders[i] = "?"
		}

		return fmt.Sprintf("%s %s (%s)", f.key, f.cmp, strings.Join(placeholders, ", "))
	}

	return fmt.Sprintf("%s %s ?", f.key, f.cmp)
}

func (f Filter) Arg() []any {
	rv := reflect.ValueOf(f.arg)
	kind := rv.Kind()
	if (kind == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8) || kind == reflect.Array {
		if rv.Len() == 0 {
			return nil
		}

		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}

	return []any{f.arg}
}

func whereClause(filters []Filter) (string, []any) {
	var conditions []string
	var args []any
	for _, filter := range filters {
		conditions = append(conditions, filter.Condition())
		args = append(args, filter.Arg()...)
	}

	clause := ""
	if conditions != nil {
		clause = " where " + strings.Join(conditions, " and ")
	}

	return clause, args
}
