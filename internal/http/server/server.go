package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cloudstorage/internal/config"
	"cloudstorage/internal/http/handlers/file"
	"cloudstorage/internal/http/handlers/session"
	"cloudstorage/internal/http/middleware"
	"cloudstorage/internal/models"
	utils "cloudstorage/internal/utils/http_errors"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	srv *http.Server
	log *slog.Logger
}

func New(
	cfg *config.Config,
	log *slog.Logger,
	authService AuthService,
	fileService FileService,
	metrics Metrics,
) *Server {
	return &Server{
		srv: newHTTPServer(cfg.HTTPServer, NewRouter(cfg, log, authService, fileService, metrics)),
		log: log,
	}
}

// newHTTPServer bounds only the header read by the short timeout so that
// uploads up to the body limit are not cut off mid-transfer.
func newHTTPServer(cfg config.HTTPServer, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		ReadHeaderTimeout: cfg.Timeout,
		ReadTimeout:       cfg.TransferTimeout,
		WriteTimeout:      cfg.TransferTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		Handler:           handler,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := s.log

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server", slog.String("error", err.Error()))
				errChan <- err
			}
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", slog.String("error", err.Error()))
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func NewRouter(
	cfg *config.Config,
	log *slog.Logger,
	auth AuthService,
	files FileService,
	metrics Metrics,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	setupRoutes(r, log, cfg.HTTPServer.MaxBodySize, auth, files)

	if metrics != nil && cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}

func setupRoutes(r *mux.Router, log *slog.Logger, maxBodySize int64, auth AuthService, files FileService) {
	// POST session
	r.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session.Delete(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// POST file
	r.HandleFunc("/file", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		file.Upload(ctx, log, w, r, files)
	}).Methods(http.MethodPost)

	// DELETE file
	r.HandleFunc("/file", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		file.Delete(ctx, log, w, r, files)
	}).Methods(http.MethodDelete)

	// GET file
	r.HandleFunc("/file", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		file.Download(ctx, log, w, r, files)
	}).Methods(http.MethodGet)

	// PUT file
	r.HandleFunc("/file", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		file.Rename(ctx, log, w, r, files)
	}).Methods(http.MethodPut)

	// GET list
	r.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		file.List(ctx, log, w, r, files)
	}).Methods(http.MethodGet)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
