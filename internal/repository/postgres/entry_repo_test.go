package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/mkaye/ai-journal/internal/domain"
	"github.com/mkaye/ai-journal/internal/repository/postgres"
	"github.com/mkaye/ai-journal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messagePair(userText, aiText string) []domain.Message {
	now := time.Now()
	return []domain.Message{
		{Sender: domain.SenderUser, Text: userText, Timestamp: now},
		{Sender: domain.SenderAI, Text: aiText, Timestamp: now},
	}
}

func TestEntryRepository_AppendCreates(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	date, _ := domain.ParseEntryDate("2025-05-05")
	mood := domain.MoodHappy

	entry, err := repo.AppendMessages(ctx, user.ID, date, messagePair("Had a great day", "Nice!"), &mood)
	require.NoError(t, err)

	require.Len(t, entry.Messages, 2)
	assert.Equal(t, domain.SenderUser, entry.Messages[0].Sender)
	assert.Equal(t, "Had a great day", entry.Messages[0].Text)
	assert.Equal(t, domain.SenderAI, entry.Messages[1].Sender)
	require.NotNil(t, entry.Mood)
	assert.Equal(t, domain.MoodHappy, *entry.Mood)
	assert.Equal(t, "", entry.DailySummary)
}

func TestEntryRepository_AppendIsMonotonic(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	date, _ := domain.ParseEntryDate("2025-05-05")

	happy := domain.MoodHappy
	first, err := repo.AppendMessages(ctx, user.ID, date, messagePair("morning note", "reply one"), &happy)
	require.NoError(t, err)
	require.Len(t, first.Messages, 2)

	tired := domain.MoodTired
	second, err := repo.AppendMessages(ctx, user.ID, date, messagePair("evening note", "reply two"), &tired)
	require.NoError(t, err)

	// Strictly appended: prior messages unchanged, in order, new ones after.
	require.Len(t, second.Messages, 4)
	assert.Equal(t, "morning note", second.Messages[0].Text)
	assert.Equal(t, "reply one", second.Messages[1].Text)
	assert.Equal(t, "evening note", second.Messages[2].Text)
	assert.Equal(t, "reply two", second.Messages[3].Text)

	// Mood is latest-wins.
	require.NotNil(t, second.Mood)
	assert.Equal(t, domain.MoodTired, *second.Mood)

	// Still a single row for the (user, date) pair.
	var count int64
	require.NoError(t, testDB.DB.Model(&domain.Entry{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEntryRepository_AppendNilMoodKeepsMood(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	date, _ := domain.ParseEntryDate("2025-05-05")

	excited := domain.MoodExcited
	_, err := repo.AppendMessages(ctx, user.ID, date, messagePair("note", "reply"), &excited)
	require.NoError(t, err)

	entry, err := repo.AppendMessages(ctx, user.ID, date, []domain.Message{
		{Sender: domain.SenderAI, Text: "a command reply", Timestamp: time.Now()},
	}, nil)
	require.NoError(t, err)

	require.Len(t, entry.Messages, 3)
	require.NotNil(t, entry.Mood)
	assert.Equal(t, domain.MoodExcited, *entry.Mood)
}

func TestEntryRepository_GetByUserAndDate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewEntryBuilder(user.ID).
		WithDate("2025-05-05").
		WithMessage(domain.SenderUser, "hello").
		WithMood(domain.MoodHappy).
		Build(t, testDB.DB)

	date, _ := domain.ParseEntryDate("2025-05-05")
	entry, err := repo.GetByUserAndDate(ctx, user.ID, date)
	require.NoError(t, err)
	assert.Len(t, entry.Messages, 1)

	missing, _ := domain.ParseEntryDate("2025-05-06")
	_, err = repo.GetByUserAndDate(ctx, user.ID, missing)
	assert.Error(t, err)
}

func TestEntryRepository_ListByUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	for _, d := range []string{"2025-05-01", "2025-05-03", "2025-05-02"} {
		testutil.NewEntryBuilder(user.ID).
			WithDate(d).
			WithMessage(domain.SenderUser, "note on "+d).
			Build(t, testDB.DB)
	}
	testutil.NewEntryBuilder(other.ID).WithDate("2025-05-04").Build(t, testDB.DB)

	entries, err := repo.ListByUser(ctx, user.ID, 30)
	require.NoError(t, err)

	// Newest first, only this user's entries.
	require.Len(t, entries, 3)
	assert.Equal(t, "2025-05-03", entries[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2025-05-02", entries[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2025-05-01", entries[2].Date.Format("2006-01-02"))

	limited, err := repo.ListByUser(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestEntryRepository_SetDailySummary(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewEntryBuilder(user.ID).
		WithDate("2025-05-05").
		WithMessage(domain.SenderUser, "a full day").
		Build(t, testDB.DB)

	date, _ := domain.ParseEntryDate("2025-05-05")
	require.NoError(t, repo.SetDailySummary(ctx, user.ID, date, "A productive day overall."))

	entry, err := repo.GetByUserAndDate(ctx, user.ID, date)
	require.NoError(t, err)
	assert.Equal(t, "A productive day overall.", entry.DailySummary)

	missing, _ := domain.ParseEntryDate("2025-05-06")
	err = repo.SetDailySummary(ctx, user.ID, missing, "nope")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryRepository_ListMissingSummaries(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	// Needs a summary.
	testutil.NewEntryBuilder(user.ID).
		WithDate("2025-05-05").
		WithMessage(domain.SenderUser, "busy day").
		Build(t, testDB.DB)

	// Already summarized.
	testutil.NewEntryBuilder(other.ID).
		WithDate("2025-05-05").
		WithMessage(domain.SenderUser, "quiet day").
		WithSummary("Already done.").
		Build(t, testDB.DB)

	// No messages to summarize.
	testutil.NewEntryBuilder(user.ID).
		WithDate("2025-05-04").
		Build(t, testDB.DB)

	date, _ := domain.ParseEntryDate("2025-05-05")
	entries, err := repo.ListMissingSummaries(ctx, date)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, user.ID, entries[0].UserID)
}
