package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// MessageResponse is the body of a single-message error response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorsResponse is the body of a response listing every problem found in a request.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondMessage writes {"message": message}.
func RespondMessage(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, MessageResponse{Message: message})
}

// RespondErrors writes {"errors": [...]}; a nil list is written as an empty array.
func RespondErrors(w http.ResponseWriter, logger *slog.Logger, status int, messages []string) {
	if messages == nil {
		messages = []string{}
	}
	RespondJSON(w, logger, status, ErrorsResponse{Errors: messages})
}
