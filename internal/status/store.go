package status

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const (
	queryPing   = `SELECT 1`
	queryList   = `SELECT id, status, created_at FROM service_status ORDER BY created_at DESC`
	queryInsert = `INSERT INTO service_status (status) VALUES (?) RETURNING id`
)

// Connector hands out a fresh connection per call. The store closes it.
type Connector interface {
	Connect(ctx context.Context) (*sqlx.DB, error)
}

// Store runs exactly one statement per call, each on its own connection.
type Store struct {
	conn Connector
}

func NewStore(conn Connector) *Store {
	return &Store{conn: conn}
}

// Ping runs SELECT 1.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn.Connect(ctx)
	if err != nil {
		return connectionError("ping", err)
	}
	defer db.Close()

	var one int
	if err := db.GetContext(ctx, &one, queryPing); err != nil {
		return queryError("ping", err)
	}
	return nil
}

// List returns every record, newest first. An empty table yields an empty,
// non-nil slice.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	db, err := s.conn.Connect(ctx)
	if err != nil {
		return nil, connectionError("list", err)
	}
	defer db.Close()

	records := []Record{}
	if err := db.SelectContext(ctx, &records, queryList); err != nil {
		return nil, queryError("list", err)
	}
	return records, nil
}

// Insert stores a new record and commits. It returns the generated id.
func (s *Store) Insert(ctx context.Context, status string) (int64, error) {
	db, err := s.conn.Connect(ctx)
	if err != nil {
		return 0, connectionError("insert", err)
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, queryError("insert", err)
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRowxContext(ctx, tx.Rebind(queryInsert), status).Scan(&id); err != nil {
		return 0, queryError("insert", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, queryError("insert", err)
	}
	return id, nil
}
