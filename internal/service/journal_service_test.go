package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mkaye/ai-journal/internal/ai"
	"github.com/mkaye/ai-journal/internal/domain"
	"github.com/mkaye/ai-journal/internal/repository/postgres"
	"github.com/mkaye/ai-journal/internal/service"
	"github.com/mkaye/ai-journal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type journalFixture struct {
	svc    *service.JournalService
	stub   *testutil.StubCompletionClient
	testDB *testutil.TestDB
	user   *domain.User
}

func newJournalFixture(t *testing.T) *journalFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	stub := testutil.NewStubCompletionClient()
	svc := service.NewJournalService(repos.Entry, stub, testutil.TestConfig())
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	return &journalFixture{svc: svc, stub: stub, testDB: testDB, user: user}
}

func TestJournalService_PostMessage(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	f.stub.Reply = "Nice!"
	f.stub.Sentiment = domain.MoodHappy

	date, _ := domain.ParseEntryDate("2025-05-05")
	result, err := f.svc.PostMessage(ctx, f.user.ID, "Had a great day", date)
	require.NoError(t, err)

	assert.Equal(t, domain.SenderUser, result.UserMessage.Sender)
	assert.Equal(t, "Had a great day", result.UserMessage.Text)
	assert.Equal(t, domain.SenderAI, result.AIResponse.Sender)
	assert.Equal(t, "Nice!", result.AIResponse.Text)
	require.NotNil(t, result.Mood)
	assert.Equal(t, domain.MoodHappy, *result.Mood)

	// Both messages and the mood are visible on a subsequent read.
	view, err := f.svc.GetEntryByDate(ctx, f.user.ID, date)
	require.NoError(t, err)
	require.Len(t, view.Messages, 2)
	assert.Equal(t, "Had a great day", view.Messages[0].Text)
	assert.Equal(t, "Nice!", view.Messages[1].Text)
	require.NotNil(t, view.Mood)
	assert.Equal(t, domain.MoodHappy, *view.Mood)
}

func TestJournalService_PostMessageCompletionFailure(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	f.stub.Err = errors.New("provider exploded")

	date, _ := domain.ParseEntryDate("2025-05-05")
	_, err := f.svc.PostMessage(ctx, f.user.ID, "Had a great day", date)
	assert.ErrorIs(t, err, service.ErrCompletion)

	// Nothing was persisted: no orphaned user message without its reply.
	view, err := f.svc.GetEntryByDate(ctx, f.user.ID, date)
	require.NoError(t, err)
	assert.Len(t, view.Messages, 0)
}

func TestJournalService_PostMessageMoodLatestWins(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()
	date, _ := domain.ParseEntryDate("2025-05-05")

	f.stub.Sentiment = domain.MoodHappy
	_, err := f.svc.PostMessage(ctx, f.user.ID, "Great morning", date)
	require.NoError(t, err)

	f.stub.Sentiment = domain.MoodStressed
	result, err := f.svc.PostMessage(ctx, f.user.ID, "Awful afternoon", date)
	require.NoError(t, err)

	require.NotNil(t, result.Mood)
	assert.Equal(t, domain.MoodStressed, *result.Mood)
	assert.Len(t, result.Entry.Messages, 4)
}

func TestJournalService_HandleCommandSummarize(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	testutil.NewEntryBuilder(f.user.ID).
		WithDate("2025-05-05").
		WithMessage(domain.SenderUser, "Shipped the release").
		WithMessage(domain.SenderAI, "Well done!").
		Build(t, f.testDB.DB)

	f.stub.Reply = "You shipped a release and felt accomplished."

	date, _ := domain.ParseEntryDate("2025-05-05")
	result, err := f.svc.HandleCommand(ctx, f.user.ID, "Summarize my day", &date, ai.CommandContext{})
	require.NoError(t, err)

	assert.Equal(t, domain.SenderAI, result.AIResponse.Sender)
	assert.Equal(t, "You shipped a release and felt accomplished.", result.AIResponse.Text)

	// The day's log was fed into the prompt.
	prompts := f.stub.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Shipped the release")

	// The reply was appended and stored as the day's summary.
	view, err := f.svc.GetEntryByDate(ctx, f.user.ID, date)
	require.NoError(t, err)
	assert.Len(t, view.Messages, 3)
	assert.Equal(t, "You shipped a release and felt accomplished.", view.DailySummary)
}

func TestJournalService_HandleCommandSummarizeNoEntry(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	date, _ := domain.ParseEntryDate("2025-05-06")
	_, err := f.svc.HandleCommand(ctx, f.user.ID, "Summarize my day", &date, ai.CommandContext{})
	assert.ErrorIs(t, err, service.ErrNoEntry)

	_, err = f.svc.HandleCommand(ctx, f.user.ID, "Summarize my day", nil, ai.CommandContext{})
	assert.ErrorIs(t, err, service.ErrNoEntry)
}

func TestJournalService_HandleCommandUnknown(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	date, _ := domain.ParseEntryDate("2025-05-05")
	result, err := f.svc.HandleCommand(ctx, f.user.ID, "Order me a pizza", &date, ai.CommandContext{})
	require.NoError(t, err, "unknown commands degrade gracefully, they never error")

	assert.Equal(t, ai.UnknownCommandReply, result.AIResponse.Text)
	assert.Empty(t, f.stub.Prompts(), "unknown commands must not reach the provider")

	// The canned reply is still journaled for the supplied date.
	view, err := f.svc.GetEntryByDate(ctx, f.user.ID, date)
	require.NoError(t, err)
	require.Len(t, view.Messages, 1)
	assert.Equal(t, ai.UnknownCommandReply, view.Messages[0].Text)
	assert.Nil(t, view.Mood, "command replies never touch the mood")
}

func TestJournalService_HandleCommandWithoutDate(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	f.stub.Reply = "Tomorrow is a fresh start."

	result, err := f.svc.HandleCommand(ctx, f.user.ID, "Give me motivation for tomorrow", nil, ai.CommandContext{
		UserContext: "Training for a marathon.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Tomorrow is a fresh start.", result.AIResponse.Text)
	assert.Nil(t, result.Entry, "no date means nothing is journaled")

	prompts := f.stub.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Training for a marathon.")
}

func TestJournalService_HandleCommandCompletionFailure(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	f.stub.Err = errors.New("rate limited")

	date, _ := domain.ParseEntryDate("2025-05-05")
	_, err := f.svc.HandleCommand(ctx, f.user.ID, "Give me motivation for tomorrow", &date, ai.CommandContext{})
	assert.ErrorIs(t, err, service.ErrCompletion)

	view, err := f.svc.GetEntryByDate(ctx, f.user.ID, date)
	require.NoError(t, err)
	assert.Len(t, view.Messages, 0)
}

func TestJournalService_GetEntryByDateEmpty(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	date, _ := domain.ParseEntryDate("2025-01-01")
	view, err := f.svc.GetEntryByDate(ctx, f.user.ID, date)
	require.NoError(t, err, "a day with no entry is the common case, not an error")

	assert.NotNil(t, view.Messages)
	assert.Len(t, view.Messages, 0)
	assert.Nil(t, view.Mood)
	assert.Equal(t, "", view.DailySummary)
}

func TestJournalService_GetHistory(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	testutil.NewEntryBuilder(f.user.ID).
		WithDate("2025-05-01").
		WithMessage(domain.SenderUser, "one").
		WithMood(domain.MoodSad).
		WithSummary("A rough day.").
		Build(t, f.testDB.DB)
	testutil.NewEntryBuilder(f.user.ID).
		WithDate("2025-05-03").
		WithMessage(domain.SenderUser, "two").
		WithMessage(domain.SenderAI, "reply").
		WithMood(domain.MoodHappy).
		Build(t, f.testDB.DB)

	history, err := f.svc.GetHistory(ctx, f.user.ID)
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "2025-05-03", history[0].Date)
	require.NotNil(t, history[0].Mood)
	assert.Equal(t, domain.MoodHappy, *history[0].Mood)
	assert.Equal(t, 2, history[0].MessageCount)

	assert.Equal(t, "2025-05-01", history[1].Date)
	assert.Equal(t, 1, history[1].MessageCount)
	assert.Equal(t, "A rough day.", history[1].DailySummary)
}
