package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mkaye/ai-journal/internal/ai"
	"github.com/mkaye/ai-journal/internal/api/middleware"
	"github.com/mkaye/ai-journal/internal/domain"
	"github.com/mkaye/ai-journal/internal/service"
	"github.com/mkaye/ai-journal/internal/websocket"
)

type ChatHandler struct {
	journalService *service.JournalService
	hub            *websocket.Hub
}

func NewChatHandler(journalService *service.JournalService, hub *websocket.Hub) *ChatHandler {
	return &ChatHandler{
		journalService: journalService,
		hub:            hub,
	}
}

type PostMessageRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

type PostMessageResponse struct {
	UserMessage domain.Message `json:"userMessage"`
	AIResponse  domain.Message `json:"aiResponse"`
	Mood        *domain.Mood   `json:"mood"`
}

type CommandRequest struct {
	Command string `json:"command"`
	Date    string `json:"date,omitempty"`
	Context struct {
		UserContext   string `json:"userContext"`
		WeeklyEntries []struct {
			Text string `json:"text"`
		} `json:"weeklyEntries"`
	} `json:"context"`
}

type CommandResponse struct {
	AIResponse domain.Message `json:"aiResponse"`
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" || req.Date == "" {
		respondError(w, http.StatusBadRequest, "Text and date are required.")
		return
	}

	date, err := domain.ParseEntryDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format.")
		return
	}

	result, err := h.journalService.PostMessage(r.Context(), userID, req.Text, date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error while processing message.")
		return
	}

	h.hub.Publish(userID, websocket.EntryUpdated(result.Entry))

	respondJSON(w, http.StatusCreated, PostMessageResponse{
		UserMessage: result.UserMessage,
		AIResponse:  result.AIResponse,
		Mood:        result.Mood,
	})
}

func (h *ChatHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Command == "" {
		respondError(w, http.StatusBadRequest, "Command is required.")
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := domain.ParseEntryDate(req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format.")
			return
		}
		date = &parsed
	}

	cctx := ai.CommandContext{UserContext: req.Context.UserContext}
	for _, e := range req.Context.WeeklyEntries {
		cctx.WeeklyNotes = append(cctx.WeeklyNotes, e.Text)
	}

	result, err := h.journalService.HandleCommand(r.Context(), userID, req.Command, date, cctx)
	if err != nil {
		if errors.Is(err, service.ErrNoEntry) {
			respondError(w, http.StatusNotFound, "No entries found for this date to summarize.")
			return
		}
		respondError(w, http.StatusInternalServerError, "Server error while processing command.")
		return
	}

	if result.Entry != nil {
		h.hub.Publish(userID, websocket.EntryUpdated(result.Entry))
	}

	respondJSON(w, http.StatusOK, CommandResponse{AIResponse: result.AIResponse})
}

func (h *ChatHandler) GetMessagesByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	date, err := domain.ParseEntryDate(chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format.")
		return
	}

	view, err := h.journalService.GetEntryByDate(r.Context(), userID, date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error while fetching messages.")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	history, err := h.journalService.GetHistory(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error while fetching entry history.")
		return
	}

	respondJSON(w, http.StatusOK, history)
}
