package file

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloudstorage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRenamer struct {
	mock.Mock
}

func (m *mockRenamer) Rename(ctx context.Context, authHeader string, filename string, newFilename string) error {
	args := m.Called(ctx, authHeader, filename, newFilename)
	return args.Error(0)
}

func TestRename_Success(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPut, "/file?filename=a.txt", strings.NewReader(`{"filename":"b.txt"}`))
	req.Header.Set("auth-token", bearer)
	w := httptest.NewRecorder()

	renamer := new(mockRenamer)
	renamer.On("Rename", mock.Anything, bearer, "a.txt", "b.txt").Return(nil)

	Rename(req.Context(), discardLogger(), w, req, renamer)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Edit file name"}`, w.Body.String())
	renamer.AssertExpectations(t)
}

func TestRename_MalformedBodyStillChecksIdentity(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPut, "/file?filename=a.txt", strings.NewReader(`{broken`))
	w := httptest.NewRecorder()

	renamer := new(mockRenamer)
	renamer.On("Rename", mock.Anything, "", "a.txt", "").Return(models.ErrUnauthorized)

	Rename(req.Context(), discardLogger(), w, req, renamer)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRename_Failed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPut, "/file?filename=a.txt", strings.NewReader(`{"filename":"a.txt"}`))
	req.Header.Set("auth-token", bearer)
	w := httptest.NewRecorder()

	renamer := new(mockRenamer)
	renamer.On("Rename", mock.Anything, bearer, "a.txt", "a.txt").Return(models.ErrRenameFailed)

	Rename(req.Context(), discardLogger(), w, req, renamer)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error Upload File", decodeError(t, w.Body).Message)
}

func TestRename_InvalidNameIsPassedOnEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{}`},
		{name: "too long name", body: `{"filename":"` + strings.Repeat("x", 256) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/file?filename=a.txt", strings.NewReader(tt.body))
			req.Header.Set("auth-token", bearer)
			w := httptest.NewRecorder()

			renamer := new(mockRenamer)
			renamer.On("Rename", mock.Anything, bearer, "a.txt", "").Return(models.ErrInputData)

			Rename(req.Context(), discardLogger(), w, req, renamer)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Error Input Data", decodeError(t, w.Body).Message)
			renamer.AssertExpectations(t)
		})
	}
}
