package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkaye/ai-journal/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *entryRepository {
	return &entryRepository{db: db}
}

// AppendMessages is a single conditional upsert, so two concurrent appends
// for the same (user, date) both land in the message log in whatever order
// the database serializes them, and only one row ever exists per day.
func (r *entryRepository) AppendMessages(ctx context.Context, userID uuid.UUID, date time.Time, messages []domain.Message, mood *domain.Mood) (*domain.Entry, error) {
	now := time.Now()

	entry := &domain.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      domain.EntryDate(date),
		Messages:  messages,
		Mood:      mood,
		CreatedAt: now,
		UpdatedAt: now,
	}

	assignments := map[string]interface{}{
		"messages":   gorm.Expr("entries.messages || excluded.messages"),
		"updated_at": now,
	}
	if mood != nil {
		// Latest message wins; the day's mood is not aggregated.
		assignments["mood"] = string(*mood)
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(entry).Error
	if err != nil {
		return nil, err
	}

	return r.GetByUserAndDate(ctx, userID, date)
}

func (r *entryRepository) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Entry, error) {
	var entry domain.Entry
	err := r.db.WithContext(ctx).
		First(&entry, "user_id = ? AND date = ?", userID, domain.EntryDate(date)).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) SetDailySummary(ctx context.Context, userID uuid.UUID, date time.Time, summary string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("user_id = ? AND date = ?", userID, domain.EntryDate(date)).
		Updates(map[string]interface{}{
			"daily_summary": summary,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// ListMissingSummaries returns the entries for a calendar day that have
// messages but no daily summary yet. Used by the nightly summary job.
func (r *entryRepository) ListMissingSummaries(ctx context.Context, date time.Time) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Where("date = ? AND daily_summary = '' AND jsonb_array_length(messages) > 0", domain.EntryDate(date)).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
