package repository

import (
	"context"

	"secure-chat/backend/internal/audit/domain"
)

// Repository defines persistence for audit events.
type Repository interface {
	Create(ctx context.Context, e *domain.Event) error
	ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]*domain.Event, error)
}
