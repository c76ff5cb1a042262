package worker

import (
	"context"
	"log"
	"time"

	"github.com/mkaye/ai-journal/internal/ai"
	"github.com/mkaye/ai-journal/internal/repository"
	"github.com/mkaye/ai-journal/internal/service"
	"github.com/robfig/cron/v3"
)

// SummaryWorker writes an AI summary onto the previous day's entries that
// accumulated messages but were never summarized explicitly.
type SummaryWorker struct {
	entryRepo repository.EntryRepository
	aiClient  service.CompletionClient
	cron      *cron.Cron
	schedule  string
}

func NewSummaryWorker(entryRepo repository.EntryRepository, aiClient service.CompletionClient, schedule string) *SummaryWorker {
	return &SummaryWorker{
		entryRepo: entryRepo,
		aiClient:  aiClient,
		cron:      cron.New(),
		schedule:  schedule,
	}
}

func (w *SummaryWorker) Start() error {
	log.Printf("Starting summary worker with schedule: %s", w.schedule)

	_, err := w.cron.AddFunc(w.schedule, func() {
		w.summarizeYesterday()
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	return nil
}

func (w *SummaryWorker) Stop() {
	log.Println("Stopping summary worker...")
	ctx := w.cron.Stop()
	<-ctx.Done()
	log.Println("Summary worker stopped")
}

func (w *SummaryWorker) summarizeYesterday() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	w.SummarizeDay(ctx, yesterday)
}

// SummarizeDay generates and stores summaries for every unsummarized entry
// on the given day. Per-entry failures are logged and skipped so one bad
// provider call cannot stall the rest of the batch.
func (w *SummaryWorker) SummarizeDay(ctx context.Context, day time.Time) {
	entries, err := w.entryRepo.ListMissingSummaries(ctx, day)
	if err != nil {
		log.Printf("ERROR [worker.SummarizeDay] listing entries: %v", err)
		return
	}

	for _, entry := range entries {
		prompt := ai.CommandPrompt(ai.CommandSummarizeDay, ai.CommandContext{
			DailyMessages: entry.Messages,
		})

		summary, err := w.aiClient.Complete(ctx, prompt)
		if err != nil {
			log.Printf("ERROR [worker.SummarizeDay] summarizing entry %s: %v", entry.ID, err)
			continue
		}

		if err := w.entryRepo.SetDailySummary(ctx, entry.UserID, entry.Date, summary); err != nil {
			log.Printf("ERROR [worker.SummarizeDay] storing summary for entry %s: %v", entry.ID, err)
		}
	}

	if len(entries) > 0 {
		log.Printf("Summary worker processed %d entries for %s", len(entries), day.Format("2006-01-02"))
	}
}
