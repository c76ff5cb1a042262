package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkaye/ai-journal/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type EntryRepository interface {
	// AppendMessages atomically appends messages to the entry for
	// (userID, date), creating the entry when absent. A non-nil mood
	// replaces the entry's mood; nil leaves it untouched. Returns the
	// entry as stored after the write.
	AppendMessages(ctx context.Context, userID uuid.UUID, date time.Time, messages []domain.Message, mood *domain.Mood) (*domain.Entry, error)
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Entry, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Entry, error)
	SetDailySummary(ctx context.Context, userID uuid.UUID, date time.Time, summary string) error
	ListMissingSummaries(ctx context.Context, date time.Time) ([]*domain.Entry, error)
}

type Repositories struct {
	User  UserRepository
	Entry EntryRepository
}
