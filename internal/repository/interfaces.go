package repository

import (
	"context"

	"github.com/alexanderramin/vtodo/internal/domain"
)

type ListRepo interface {
	Get(ctx context.Context, id string) (*domain.List, error)
	ListAll(ctx context.Context) ([]*domain.List, error)
	Put(ctx context.Context, l *domain.List) error
	// PutMany writes all lists in one transaction; a failure leaves none
	// of them visible.
	PutMany(ctx context.Context, lists []*domain.List) error
	Delete(ctx context.Context, id string) error
}

type TodoRepo interface {
	Get(ctx context.Context, id string) (*domain.Todo, error)
	ListAll(ctx context.Context) ([]*domain.Todo, error)
	ListByList(ctx context.Context, listID string) ([]*domain.Todo, error)
	ListByStatus(ctx context.Context, status domain.TodoStatus) ([]*domain.Todo, error)
	Put(ctx context.Context, t *domain.Todo) error
	// PutMany writes all todos in one transaction; a failure leaves none
	// of them visible.
	PutMany(ctx context.Context, todos []*domain.Todo) error
	Delete(ctx context.Context, id string) error
	// DeleteByList removes every todo belonging to the list in one
	// transaction. Used by the list-delete cascade.
	DeleteByList(ctx context.Context, listID string) error
}
