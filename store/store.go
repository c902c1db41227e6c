// Package store keeps named glyph tables in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/LafeLabs/freepants"
)

// ErrTableNotFound is returned when loading a table which was never saved.
var ErrTableNotFound = errors.New("table not found")

const schema = `CREATE TABLE IF NOT EXISTS glyphs (
	tbl     TEXT    NOT NULL,
	address INTEGER NOT NULL,
	glyph   TEXT    NOT NULL,
	PRIMARY KEY (tbl, address)
)`

// Store is a database of address spaces, each saved under a table name.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	log commonlog.Logger
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// Set busy timeout for concurrent access.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "setting busy timeout")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating table")
	}
	return &Store{db: db, log: commonlog.GetLogger("freepants.store")}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the table name with the non-empty slots of the address space.
func (s *Store) Save(ctx context.Context, name string, space *freepants.AddressSpace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM glyphs WHERE tbl = ?", name); err != nil {
		return errors.Wrapf(err, "clearing table %q", name)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO glyphs (tbl, address, glyph) VALUES (?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	n := 0
	space.Each(func(a freepants.Address, g freepants.Glyph) bool {
		if _, err = stmt.ExecContext(ctx, name, int(a), string(g)); err != nil {
			return false
		}
		n++
		return true
	})
	if err != nil {
		return errors.Wrapf(err, "saving table %q", name)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing")
	}
	s.log.Infof("saved %d glyphs to table %q", n, name)
	return nil
}

// Load reads the table name into a new address space.
func (s *Store) Load(ctx context.Context, name string) (*freepants.AddressSpace, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT address, glyph FROM glyphs WHERE tbl = ? ORDER BY address", name)
	if err != nil {
		return nil, errors.Wrapf(err, "querying table %q", name)
	}
	defer rows.Close()

	space := freepants.NewAddressSpace()
	n := 0
	for rows.Next() {
		var (
			addr  int
			glyph string
		)
		if err := rows.Scan(&addr, &glyph); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		if addr < 0 || addr >= freepants.AddressCount {
			return nil, errors.Wrapf(&freepants.AddressError{Value: int64(addr)}, "table %q", name)
		}
		if err := space.Set(freepants.Address(addr), freepants.Glyph(glyph)); err != nil {
			return nil, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading rows")
	}
	if n == 0 {
		return nil, errors.Wrap(ErrTableNotFound, name)
	}
	return space, nil
}

// Tables lists the saved table names in alphabetical order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT tbl FROM glyphs ORDER BY tbl")
	if err != nil {
		return nil, errors.Wrap(err, "listing tables")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the table name.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM glyphs WHERE tbl = ?", name)
	if err != nil {
		return errors.Wrapf(err, "deleting table %q", name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrap(ErrTableNotFound, name)
	}
	return nil
}
