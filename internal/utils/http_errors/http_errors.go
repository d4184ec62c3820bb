package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"cloudstorage/internal/dto"
	"cloudstorage/internal/models"
)

const (
	MsgBadCredentials = "Error Bad Credentials"
	MsgUnauthorized   = "Error Unauthorized"
	MsgInputData      = "Error Input Data"
	MsgDeleteFile     = "Error Delete File"
	MsgUploadFile     = "Error Upload File"
)

// errorID is reported to clients for every handled error kind.
const errorID = 0

type errorKind struct {
	err     error
	status  int
	message string
}

var errorKinds = []errorKind{
	{models.ErrInvalidCredentials, http.StatusBadRequest, MsgBadCredentials},
	{models.ErrUnauthorized, http.StatusUnauthorized, MsgUnauthorized},
	{models.ErrInputData, http.StatusBadRequest, MsgInputData},
	{models.ErrDeleteFailed, http.StatusInternalServerError, MsgDeleteFile},
	{models.ErrUploadFailed, http.StatusInternalServerError, MsgUploadFile},
	{models.ErrRenameFailed, http.StatusInternalServerError, MsgUploadFile},
}

func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Message: msg,
		ID:      errorID,
	})
}

// StatusFor maps a service error to the status code and client-facing message.
// Unknown errors never leak their text.
func StatusFor(err error) (int, string) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			return kind.status, kind.message
		}
	}

	return http.StatusInternalServerError, models.ErrInternal.Error()
}

func WriteServiceError(w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	WriteJSONError(w, status, msg)
}
