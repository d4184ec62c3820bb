package file

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"

	utils "cloudstorage/internal/utils/http_errors"
)

// Upload accepts the content either as the raw request body or as the
// "file" field of a multipart form.
func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fu FileUploader) {
	op := pkg + "Upload"

	log = log.With(slog.String("op", op))

	filename := r.URL.Query().Get("filename")

	content, closeContent, err := uploadContent(r)
	if err != nil {
		log.Warn("failed to read upload", slog.String("error", err.Error()))
	}
	defer closeContent()

	if err := fu.Upload(ctx, r.Header.Get(authTokenHeader), filename, content); err != nil {
		log.Warn("failed to upload file", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	writeSuccess(log, w, "Success upload")
}

// uploadContent returns a nil reader when the multipart form carries no file.
func uploadContent(r *http.Request) (io.Reader, func(), error) {
	closeBody := func() { _ = r.Body.Close() }

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, closeBody, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, closeBody, err
	}

	file, _, err := r.FormFile(formFileField)
	if err != nil {
		return nil, func() { _ = r.MultipartForm.RemoveAll() }, err
	}

	return file, func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}, nil
}
