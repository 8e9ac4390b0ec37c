package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/vtodo/internal/db"
	"github.com/alexanderramin/vtodo/internal/domain"
)

const listColumns = `id, name, color, sort_order`

// SQLiteListRepo implements ListRepo using a SQLite database.
type SQLiteListRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteListRepo creates a new SQLiteListRepo. The unit of work is
// used for multi-row batches.
func NewSQLiteListRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteListRepo {
	return &SQLiteListRepo{db: conn, uow: uow}
}

func (r *SQLiteListRepo) Get(ctx context.Context, id string) (*domain.List, error) {
	query := `SELECT ` + listColumns + ` FROM lists WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var l domain.List
	if err := row.Scan(&l.ID, &l.Name, &l.Color, &l.SortOrder); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("list %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning list: %w", unavailable(err))
	}
	return &l, nil
}

// ListAll returns every list ordered by sort_order (the sidebar order).
func (r *SQLiteListRepo) ListAll(ctx context.Context) ([]*domain.List, error) {
	query := `SELECT ` + listColumns + ` FROM lists ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", unavailable(err))
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		var l domain.List
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning list row: %w", unavailable(err))
		}
		lists = append(lists, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lists: %w", unavailable(err))
	}
	return lists, nil
}

func (r *SQLiteListRepo) Put(ctx context.Context, l *domain.List) error {
	return putList(ctx, r.db, l)
}

func (r *SQLiteListRepo) PutMany(ctx context.Context, lists []*domain.List) error {
	if len(lists) == 0 {
		return nil
	}
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, l := range lists {
			if err := putList(ctx, tx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch writing lists: %w", err)
	}
	return nil
}

func (r *SQLiteListRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM lists WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting list: %w", unavailable(err))
	}
	return nil
}

// putList is insert-or-replace keyed by id, shared by Put and PutMany.
func putList(ctx context.Context, conn db.DBTX, l *domain.List) error {
	query := `INSERT INTO lists (id, name, color, sort_order) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color,
		sort_order = excluded.sort_order`
	if _, err := conn.ExecContext(ctx, query, l.ID, l.Name, l.Color, l.SortOrder); err != nil {
		return fmt.Errorf("upserting list: %w", unavailable(err))
	}
	return nil
}
