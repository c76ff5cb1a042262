package testutil

import (
	"context"
	"sync"

	"github.com/mkaye/ai-journal/internal/domain"
)

// StubCompletionClient is a deterministic stand-in for the hosted provider.
// Tests set Reply/Sentiment/Err and inspect the prompts that were sent.
type StubCompletionClient struct {
	mu        sync.Mutex
	Reply     string
	Sentiment domain.Mood
	Err       error
	prompts   []string
}

func NewStubCompletionClient() *StubCompletionClient {
	return &StubCompletionClient{
		Reply:     "Thanks for sharing. That sounds like a meaningful day.",
		Sentiment: domain.MoodNeutral,
	}
}

func (s *StubCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}

// ClassifySentiment mirrors the real adapter's contract: it always returns
// an in-set label, falling back to neutral when a failure is staged.
func (s *StubCompletionClient) ClassifySentiment(ctx context.Context, text string) domain.Mood {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil || s.Sentiment == "" {
		return domain.MoodNeutral
	}
	return s.Sentiment
}

// Prompts returns a copy of every prompt sent so far.
func (s *StubCompletionClient) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}
