package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodNeutral  Mood = "neutral"
	MoodStressed Mood = "stressed"
	MoodTired    Mood = "tired"
	MoodExcited  Mood = "excited"
)

var validMoods = map[Mood]bool{
	MoodHappy:    true,
	MoodSad:      true,
	MoodNeutral:  true,
	MoodStressed: true,
	MoodTired:    true,
	MoodExcited:  true,
}

// ParseMood clamps a raw classifier answer to the closed label set.
// Anything outside the set, including empty input, becomes neutral.
func ParseMood(raw string) Mood {
	mood := Mood(strings.ToLower(strings.TrimSpace(raw)))
	if validMoods[mood] {
		return mood
	}
	return MoodNeutral
}

// Message is one chat message embedded in an Entry's log. Messages are
// append-only and immutable once written.
type Message struct {
	Sender    Sender         `json:"sender"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
}

// MessageList stores the day's message log as a single JSONB column so the
// append can be one conditional upsert at the database.
type MessageList []Message

func (m MessageList) Value() (driver.Value, error) {
	if m == nil {
		m = MessageList{}
	}
	return json.Marshal(m)
}

func (m *MessageList) Scan(value interface{}) error {
	if value == nil {
		*m = MessageList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for message list", value)
	}

	return json.Unmarshal(data, m)
}

// Entry is one user's one calendar day of journaling. At most one row exists
// per (user, date); Date is always UTC midnight.
type Entry struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID   `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_entries_user_date"`
	Date         time.Time   `json:"date" gorm:"type:date;not null;uniqueIndex:idx_entries_user_date"`
	Messages     MessageList `json:"messages" gorm:"type:jsonb;not null;default:'[]'"`
	Mood         *Mood       `json:"mood" gorm:"type:text"`
	DailySummary string      `json:"dailySummary" gorm:"not null;default:''"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// EntryDate normalizes a timestamp to the UTC midnight used for storage keying.
func EntryDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseEntryDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseEntryDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
