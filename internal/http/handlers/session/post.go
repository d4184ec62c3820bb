package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"cloudstorage/internal/dto"
	"cloudstorage/internal/models"
	utils "cloudstorage/internal/utils/http_errors"
	"cloudstorage/internal/validator"
)

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sc SessionCreator) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	defer r.Body.Close()

	var loginRequest dto.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteServiceError(w, models.ErrInputData)
		return
	}

	if err := validator.Struct(loginRequest); err != nil {
		log.Warn("invalid login request", slog.String("error", err.Error()))
		utils.WriteServiceError(w, models.ErrInvalidCredentials)
		return
	}

	token, err := sc.Login(ctx, loginRequest.Login, loginRequest.Password)
	if err != nil {
		log.Warn("failed to login", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dto.LoginResponse{AuthToken: token}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
