package service

import (
	"context"

	"github.com/mkaye/ai-journal/internal/config"
	"github.com/mkaye/ai-journal/internal/domain"
	"github.com/mkaye/ai-journal/internal/repository"
)

// CompletionClient is the narrow seam to the hosted completion provider.
// ClassifySentiment never fails: the adapter clamps out-of-set answers and
// substitutes neutral on provider errors.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ClassifySentiment(ctx context.Context, text string) domain.Mood
}

type Services struct {
	Auth    *AuthService
	Journal *JournalService
}

func NewServices(repos *repository.Repositories, aiClient CompletionClient, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, cfg),
		Journal: NewJournalService(repos.Entry, aiClient, cfg),
	}
}
