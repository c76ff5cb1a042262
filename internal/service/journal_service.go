package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mkaye/ai-journal/internal/ai"
	"github.com/mkaye/ai-journal/internal/config"
	"github.com/mkaye/ai-journal/internal/domain"
	"github.com/mkaye/ai-journal/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNoEntry    = errors.New("no entries found for this date")
	ErrCompletion = errors.New("completion service failed")
)

// HistoryLimit caps the history projection; there is no pagination cursor.
const HistoryLimit = 30

type JournalService struct {
	entryRepo repository.EntryRepository
	ai        CompletionClient
	aiTimeout time.Duration
}

func NewJournalService(entryRepo repository.EntryRepository, aiClient CompletionClient, cfg *config.Config) *JournalService {
	return &JournalService{
		entryRepo: entryRepo,
		ai:        aiClient,
		aiTimeout: cfg.AITimeout,
	}
}

type PostMessageResult struct {
	UserMessage domain.Message
	AIResponse  domain.Message
	Mood        *domain.Mood
	Entry       *domain.Entry
}

// PostMessage appends a journal message and its AI reply to the day's entry.
// The user message is never stored without its paired reply: a completion
// failure aborts the whole operation before anything is persisted. Sentiment
// is best-effort and cannot block delivery.
func (s *JournalService) PostMessage(ctx context.Context, userID uuid.UUID, text string, date time.Time) (*PostMessageResult, error) {
	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	replyText, err := s.ai.Complete(aiCtx, ai.ChatPrompt(text))
	if err != nil {
		log.Printf("ERROR [service.PostMessage] completion failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	moodCtx, cancelMood := context.WithTimeout(ctx, s.aiTimeout)
	defer cancelMood()
	mood := s.ai.ClassifySentiment(moodCtx, text)

	userMessage := domain.Message{
		Sender:    domain.SenderUser,
		Text:      text,
		Timestamp: time.Now(),
	}
	aiMessage := domain.Message{
		Sender:    domain.SenderAI,
		Text:      replyText,
		Timestamp: time.Now(),
	}

	entry, err := s.entryRepo.AppendMessages(ctx, userID, date, []domain.Message{userMessage, aiMessage}, &mood)
	if err != nil {
		return nil, err
	}

	return &PostMessageResult{
		UserMessage: userMessage,
		AIResponse:  aiMessage,
		Mood:        entry.Mood,
		Entry:       entry,
	}, nil
}

type CommandResult struct {
	AIResponse domain.Message
	Entry      *domain.Entry
}

// HandleCommand runs a predefined command. Unknown commands degrade to a
// fixed reply without touching the provider; they never error. When a date
// is supplied the reply is appended to that day's entry, and a day summary
// is additionally stored on the entry.
func (s *JournalService) HandleCommand(ctx context.Context, userID uuid.UUID, command string, date *time.Time, cctx ai.CommandContext) (*CommandResult, error) {
	cmd := ai.ParseCommand(command)

	var replyText string
	if cmd == ai.CommandUnknown {
		replyText = ai.UnknownCommandReply
	} else {
		if cmd == ai.CommandSummarizeDay {
			if date == nil {
				return nil, ErrNoEntry
			}
			entry, err := s.entryRepo.GetByUserAndDate(ctx, userID, *date)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrNoEntry
				}
				return nil, err
			}
			cctx.DailyMessages = entry.Messages
		}

		aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
		defer cancel()

		var err error
		replyText, err = s.ai.Complete(aiCtx, ai.CommandPrompt(cmd, cctx))
		if err != nil {
			log.Printf("ERROR [service.HandleCommand] completion failed: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
		}
	}

	aiMessage := domain.Message{
		Sender:    domain.SenderAI,
		Text:      replyText,
		Timestamp: time.Now(),
	}

	var entry *domain.Entry
	if date != nil {
		var err error
		entry, err = s.entryRepo.AppendMessages(ctx, userID, *date, []domain.Message{aiMessage}, nil)
		if err != nil {
			return nil, err
		}

		if cmd == ai.CommandSummarizeDay {
			if err := s.entryRepo.SetDailySummary(ctx, userID, *date, replyText); err != nil {
				log.Printf("ERROR [service.HandleCommand] storing summary: %v", err)
			}
		}
	}

	return &CommandResult{AIResponse: aiMessage, Entry: entry}, nil
}

// DayView is the read shape for one calendar day. A day with no entry is the
// expected common case, so it renders as an empty view rather than an error.
type DayView struct {
	Messages     domain.MessageList `json:"messages"`
	Mood         *domain.Mood       `json:"mood"`
	DailySummary string             `json:"dailySummary"`
}

func (s *JournalService) GetEntryByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DayView, error) {
	entry, err := s.entryRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &DayView{Messages: domain.MessageList{}}, nil
		}
		return nil, err
	}

	return &DayView{
		Messages:     entry.Messages,
		Mood:         entry.Mood,
		DailySummary: entry.DailySummary,
	}, nil
}

type HistoryItem struct {
	Date         string       `json:"date"`
	Mood         *domain.Mood `json:"mood"`
	MessageCount int          `json:"messageCount"`
	DailySummary string       `json:"dailySummary"`
}

// GetHistory projects the most recent entries, newest first.
func (s *JournalService) GetHistory(ctx context.Context, userID uuid.UUID) ([]HistoryItem, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryItem, 0, len(entries))
	for _, entry := range entries {
		history = append(history, HistoryItem{
			Date:         entry.Date.Format("2006-01-02"),
			Mood:         entry.Mood,
			MessageCount: len(entry.Messages),
			DailySummary: entry.DailySummary,
		})
	}

	return history, nil
}
