package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Delete always answers with success: a token that cannot be revoked is already unusable.
func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sd SessionDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	if err := sd.Logout(ctx, r.Header.Get(AuthTokenHeader)); err != nil {
		log.Error("failed to delete session", slog.String("error", err.Error()))
	}

	response := map[string]any{
		"response": "Success logout",
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
