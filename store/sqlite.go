package store

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/iov-one/cep47/errors"
)

// ErrDatabase is returned when the backing database engine fails. This is an
// infrastructure failure, not a domain one, and usually means the operation
// can be retried once the storage is healthy again.
var ErrDatabase = errors.Register(1000, "database")

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key   BLOB PRIMARY KEY,
	value BLOB NOT NULL
) WITHOUT ROWID;
`

// SQLiteStore is a KVStore persisted in a single SQLite database file. It is
// the production counterpart of MemStore, providing read-your-writes
// consistency within a single connection.
type SQLiteStore struct {
	db *sql.DB
}

var _ KVStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating when missing) a SQLite backed store at given
// path. Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// A kv table is the only relation. Writes are serialized through a
	// single connection to keep the read-your-writes contract.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get reads the value stored under given key, nil if the key was never set.
func (s *SQLiteStore) Get(key []byte) ([]byte, error) {
	assertValidKey(key)
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	switch {
	case err == nil:
		return value, nil
	case err == sql.ErrNoRows:
		return nil, nil
	default:
		return nil, errors.Wrap(ErrDatabase, err.Error())
	}
}

// Has checks if the key was set.
func (s *SQLiteStore) Has(key []byte) (bool, error) {
	assertValidKey(key)
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM kv WHERE key = ?`, key).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case err == sql.ErrNoRows:
		return false, nil
	default:
		return false, errors.Wrap(ErrDatabase, err.Error())
	}
}

// Set writes the value under given key, overwriting any previous value.
func (s *SQLiteStore) Set(key, value []byte) error {
	assertValidKey(key)
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return errors.Wrap(ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes the key. Deleting a missing key is a noop.
func (s *SQLiteStore) Delete(key []byte) error {
	assertValidKey(key)
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.Wrap(ErrDatabase, err.Error())
	}
	return nil
}

// Iterator over a domain of keys in ascending order. The matching range is
// read eagerly, so the iterator observes a snapshot.
func (s *SQLiteStore) Iterator(start, end []byte) (Iterator, error) {
	return s.rangeQuery(start, end, `ASC`)
}

// ReverseIterator over the same domain of keys as Iterator, but in
// descending order.
func (s *SQLiteStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return s.rangeQuery(start, end, `DESC`)
}

func (s *SQLiteStore) rangeQuery(start, end []byte, order string) (Iterator, error) {
	query := `SELECT key, value FROM kv`
	var args []interface{}
	switch {
	case start != nil && end != nil:
		query += ` WHERE key >= ? AND key < ?`
		args = append(args, start, end)
	case start != nil:
		query += ` WHERE key >= ?`
		args = append(args, start)
	case end != nil:
		query += ` WHERE key < ?`
		args = append(args, end)
	}
	query += ` ORDER BY key ` + order

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(ErrDatabase, err.Error())
	}
	defer rows.Close()

	var data []Model
	for rows.Next() {
		var m Model
		if err := rows.Scan(&m.Key, &m.Value); err != nil {
			return nil, errors.Wrap(ErrDatabase, err.Error())
		}
		data = append(data, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(ErrDatabase, err.Error())
	}
	return NewSliceIterator(data), nil
}
