package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/vtodo/internal/db"
	"github.com/alexanderramin/vtodo/internal/domain"
)

// todoColumns is the canonical SELECT column list for todos.
const todoColumns = `id, list_id, summary, description, status, completed_at,
		priority, due, rrule, tags, reminders, created, modified, sort_order, raw_ics`

// SQLiteTodoRepo implements TodoRepo using a SQLite database.
type SQLiteTodoRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteTodoRepo creates a new SQLiteTodoRepo. The unit of work is
// used for multi-row batches and the list-delete cascade.
func NewSQLiteTodoRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteTodoRepo {
	return &SQLiteTodoRepo{db: conn, uow: uow}
}

func (r *SQLiteTodoRepo) Get(ctx context.Context, id string) (*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanTodo(row)
}

func (r *SQLiteTodoRepo) ListAll(ctx context.Context) ([]*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY sort_order, created`
	return r.queryTodos(ctx, query)
}

func (r *SQLiteTodoRepo) ListByList(ctx context.Context, listID string) ([]*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE list_id = ? ORDER BY sort_order, created`
	return r.queryTodos(ctx, query, listID)
}

func (r *SQLiteTodoRepo) ListByStatus(ctx context.Context, status domain.TodoStatus) ([]*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE status = ? ORDER BY sort_order, created`
	return r.queryTodos(ctx, query, string(status))
}

func (r *SQLiteTodoRepo) Put(ctx context.Context, t *domain.Todo) error {
	return putTodo(ctx, r.db, t)
}

func (r *SQLiteTodoRepo) PutMany(ctx context.Context, todos []*domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, t := range todos {
			if err := putTodo(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch writing todos: %w", err)
	}
	return nil
}

func (r *SQLiteTodoRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM todos WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting todo: %w", unavailable(err))
	}
	return nil
}

func (r *SQLiteTodoRepo) DeleteByList(ctx context.Context, listID string) error {
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE list_id = ?`, listID); err != nil {
			return fmt.Errorf("deleting todos by list: %w", unavailable(err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cascading todo delete: %w", err)
	}
	return nil
}

func (r *SQLiteTodoRepo) queryTodos(ctx context.Context, query string, args ...any) ([]*domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", unavailable(err))
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		t, err := scanTodoFromRows(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", unavailable(err))
	}
	return todos, nil
}

// putTodo is insert-or-replace keyed by id, shared by Put and PutMany.
func putTodo(ctx context.Context, conn db.DBTX, t *domain.Todo) error {
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	reminders, err := json.Marshal(t.Reminders)
	if err != nil {
		return fmt.Errorf("encoding reminders: %w", err)
	}

	query := `INSERT OR REPLACE INTO todos (` + todoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = conn.ExecContext(ctx, query,
		t.ID,
		t.ListID,
		t.Summary,
		t.Description,
		string(t.Status),
		nullableTimeToString(t.CompletedAt),
		t.Priority,
		nullableTimeToString(t.Due),
		nullableStr(t.RRule),
		string(tags),
		string(reminders),
		t.Created.Format(timeLayout),
		t.Modified.Format(timeLayout),
		t.SortOrder,
		nullableStr(t.RawIcs),
	)
	if err != nil {
		return fmt.Errorf("upserting todo: %w", unavailable(err))
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row *sql.Row) (*domain.Todo, error) {
	t, err := scanTodoRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("todo: %w", ErrNotFound)
	}
	return t, err
}

func scanTodoFromRows(rows *sql.Rows) (*domain.Todo, error) {
	return scanTodoRow(rows)
}

// scanTodoRow scans one row and rehydrates the typed fields the store
// flattens: nullable timestamps come back as *time.Time (NULL stays nil,
// never an epoch value) and the tags/reminders JSON becomes slices.
func scanTodoRow(row rowScanner) (*domain.Todo, error) {
	var t domain.Todo
	var statusStr string
	var completedAtStr, dueStr, rruleStr, rawIcsStr sql.NullString
	var tagsJSON, remindersJSON string
	var createdStr, modifiedStr string

	err := row.Scan(
		&t.ID, &t.ListID, &t.Summary, &t.Description, &statusStr, &completedAtStr,
		&t.Priority, &dueStr, &rruleStr, &tagsJSON, &remindersJSON,
		&createdStr, &modifiedStr, &t.SortOrder, &rawIcsStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning todo: %w", unavailable(err))
	}

	t.Status = domain.TodoStatus(statusStr)
	t.RRule = strPtr(rruleStr)
	t.RawIcs = strPtr(rawIcsStr)

	if t.CompletedAt, err = parseNullableTime(completedAtStr); err != nil {
		return nil, fmt.Errorf("rehydrating completed_at: %w", err)
	}
	if t.Due, err = parseNullableTime(dueStr); err != nil {
		return nil, fmt.Errorf("rehydrating due: %w", err)
	}
	if t.Created, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("rehydrating created: %w", err)
	}
	if t.Modified, err = parseTime(modifiedStr); err != nil {
		return nil, fmt.Errorf("rehydrating modified: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if err := json.Unmarshal([]byte(remindersJSON), &t.Reminders); err != nil {
		return nil, fmt.Errorf("decoding reminders: %w", err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Reminders == nil {
		t.Reminders = []domain.Reminder{}
	}

	return &t, nil
}
