package repository

import (
	"context"
	"database/sql"
	"time"

	"vibenest/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// EventRepo is the append-only log of vibe transitions and control actions.
type EventRepo interface {
	Append(ctx context.Context, e models.VibeEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.VibeEvent, error)
}

type Repository struct {
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
