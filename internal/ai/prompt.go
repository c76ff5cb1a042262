package ai

import (
	"fmt"
	"strings"

	"github.com/mkaye/ai-journal/internal/domain"
)

// Command is a predefined user-triggered request, distinct from free-text
// journaling. Dispatch is typed so orchestration never matches raw strings.
type Command int

const (
	CommandUnknown Command = iota
	CommandSummarizeDay
	CommandMotivateTomorrow
	CommandImproveWeek
)

// ParseCommand maps the fixed phrases the chat UI sends to a Command.
// Unrecognized phrases map to CommandUnknown, never an error.
func ParseCommand(s string) Command {
	switch strings.TrimSpace(s) {
	case "Summarize my day":
		return CommandSummarizeDay
	case "Give me motivation for tomorrow":
		return CommandMotivateTomorrow
	case "What can I improve this week?":
		return CommandImproveWeek
	default:
		return CommandUnknown
	}
}

// UnknownCommandReply is returned verbatim for commands we do not recognize.
const UnknownCommandReply = "Sorry, I don't understand that command."

// CommandContext carries whatever surrounding material a command prompt may
// use. All fields are optional except DailyMessages for CommandSummarizeDay.
type CommandContext struct {
	DailyMessages []domain.Message
	UserContext   string
	WeeklyNotes   []string
}

// ChatPrompt seeds a conversational completion with the user's entry text.
func ChatPrompt(userInput string) string {
	return fmt.Sprintf("You are an empathetic and constructive journal assistant. "+
		"A user has written the following journal entry: %q. "+
		"Please provide a short, supportive, and insightful reply.", userInput)
}

// SentimentPrompt asks for exactly one of the six mood labels.
func SentimentPrompt(text string) string {
	return fmt.Sprintf("Analyze the sentiment of the following text and classify it as "+
		"primarily 'happy', 'sad', 'neutral', 'stressed', 'tired', or 'excited'. "+
		"Provide only the label. Text: %q\nSentiment:", text)
}

// CommandPrompt builds the prompt for a command. It is a pure function of
// its arguments: the same command and context always produce the same prompt.
func CommandPrompt(cmd Command, cctx CommandContext) string {
	switch cmd {
	case CommandSummarizeDay:
		lines := make([]string, 0, len(cctx.DailyMessages))
		for _, m := range cctx.DailyMessages {
			lines = append(lines, fmt.Sprintf("%s: %s", m.Sender, m.Text))
		}
		return fmt.Sprintf("Based on the following conversation log for the day, "+
			"please provide a concise summary of the user's day:\n\n%s\n\nSummary:",
			strings.Join(lines, "\n"))

	case CommandMotivateTomorrow:
		extra := ""
		if cctx.UserContext != "" {
			extra = cctx.UserContext + " "
		}
		return fmt.Sprintf("The user is looking for motivation for tomorrow. %s"+
			"Please provide an encouraging and uplifting message.", extra)

	case CommandImproveWeek:
		weekly := ""
		if len(cctx.WeeklyNotes) > 0 {
			weekly = fmt.Sprintf("Here are some entries from this week: %s ",
				strings.Join(cctx.WeeklyNotes, "; "))
		}
		return fmt.Sprintf("A user is asking for areas of improvement for the week. %s"+
			"Based on general well-being principles or any provided context, "+
			"suggest one or two actionable things they could focus on.", weekly)

	default:
		return ""
	}
}
