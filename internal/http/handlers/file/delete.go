package file

import (
	"context"
	"log/slog"
	"net/http"

	utils "cloudstorage/internal/utils/http_errors"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fd FileDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	filename := r.URL.Query().Get("filename")

	if err := fd.Delete(ctx, r.Header.Get(authTokenHeader), filename); err != nil {
		log.Warn("failed to delete file", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	writeSuccess(log, w, "Success delete")
}
