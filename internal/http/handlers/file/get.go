package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"cloudstorage/internal/dto"
	utils "cloudstorage/internal/utils/http_errors"
	parseutil "cloudstorage/internal/utils/parseLimit"
)

func Download(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fp FileProvider) {
	op := pkg + "Download"

	log = log.With(slog.String("op", op))

	filename := r.URL.Query().Get("filename")

	content, err := fp.Download(ctx, r.Header.Get(authTokenHeader), filename)
	if err != nil {
		log.Warn("failed to download file", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if _, err := w.Write(content); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fp FileProvider) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	limit := parseutil.ParseLimit(r.URL.Query().Get("limit"))

	files, err := fp.List(ctx, r.Header.Get(authTokenHeader), limit)
	if err != nil {
		log.Warn("failed to list files", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	response := make([]dto.FileResponse, 0, len(files))

	for _, f := range files {
		response = append(response, dto.FileResponse{
			Filename: f.Filename,
			Size:     f.Size,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
