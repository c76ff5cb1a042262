package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkaye/ai-journal/internal/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// SignupResponse matches the API auth response
type SignupResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// BuildAndAuthenticate creates a user through the signup endpoint and
// returns the user record with a usable bearer token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": b.username,
		"email":    b.email,
		"password": b.password,
	})

	resp, err := http.Post(ts.URL("/auth/signup"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err, "signup request failed")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "signup did not succeed")

	var signup SignupResponse
	AssertJSONResponse(t, resp, &signup)

	userID, err := uuid.Parse(signup.ID)
	require.NoError(t, err)

	var user domain.User
	require.NoError(t, ts.DB.DB.First(&user, "id = ?", userID).Error)

	return &user, signup.Token
}

// EntryBuilder creates journal entries directly in the database
type EntryBuilder struct {
	userID   uuid.UUID
	date     time.Time
	messages domain.MessageList
	mood     *domain.Mood
	summary  string
}

func NewEntryBuilder(userID uuid.UUID) *EntryBuilder {
	return &EntryBuilder{
		userID:   userID,
		date:     domain.EntryDate(time.Now()),
		messages: domain.MessageList{},
	}
}

func (b *EntryBuilder) WithDate(date string) *EntryBuilder {
	parsed, err := domain.ParseEntryDate(date)
	if err != nil {
		panic(fmt.Sprintf("bad fixture date %q: %v", date, err))
	}
	b.date = parsed
	return b
}

func (b *EntryBuilder) WithMessage(sender domain.Sender, text string) *EntryBuilder {
	b.messages = append(b.messages, domain.Message{
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	})
	return b
}

func (b *EntryBuilder) WithMood(mood domain.Mood) *EntryBuilder {
	b.mood = &mood
	return b
}

func (b *EntryBuilder) WithSummary(summary string) *EntryBuilder {
	b.summary = summary
	return b
}

func (b *EntryBuilder) Build(t *testing.T, db *gorm.DB) *domain.Entry {
	t.Helper()

	entry := &domain.Entry{
		ID:           uuid.New(),
		UserID:       b.userID,
		Date:         b.date,
		Messages:     b.messages,
		Mood:         b.mood,
		DailySummary: b.summary,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	return entry
}

// DoJSON performs a JSON request with an optional bearer token.
func DoJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
