package file

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeSuccess(log *slog.Logger, w http.ResponseWriter, msg string) {
	response := map[string]any{
		"response": msg,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
