package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"cloudstorage/internal/dto"
	utils "cloudstorage/internal/utils/http_errors"
	"cloudstorage/internal/validator"
)

// Rename reads the new name from the JSON body. A malformed body or a name
// failing validation is passed on as an empty name so the caller's identity
// is still checked first.
func Rename(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fr FileRenamer) {
	op := pkg + "Rename"

	log = log.With(slog.String("op", op))

	defer r.Body.Close()

	filename := r.URL.Query().Get("filename")

	var renameRequest dto.RenameRequest

	if err := json.NewDecoder(r.Body).Decode(&renameRequest); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		renameRequest = dto.RenameRequest{}
	} else if err := validator.Struct(renameRequest); err != nil {
		log.Warn("invalid rename request", slog.String("error", err.Error()))
		renameRequest.Filename = ""
	}

	if err := fr.Rename(ctx, r.Header.Get(authTokenHeader), filename, renameRequest.Filename); err != nil {
		log.Warn("failed to rename file", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	writeSuccess(log, w, "Edit file name")
}
