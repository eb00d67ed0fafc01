package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vidscribe/internal/article"
	"vidscribe/internal/config"
	"vidscribe/internal/logging"
	"vidscribe/internal/notifications"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/services"
	"vidscribe/internal/video"
)

// PipelineRunner executes the article pipeline for a video URL.
type PipelineRunner interface {
	Run(ctx context.Context, rawURL string) (pipeline.Artifact, error)
}

// Server exposes the article pipeline and store over HTTP.
type Server struct {
	bind     string
	logger   *slog.Logger
	runner   PipelineRunner
	store    *article.Store
	notifier notifications.Service
	staging  string

	mu       sync.Mutex
	inFlight map[string]struct{}

	listener net.Listener
	server   *http.Server
}

// NewServer builds the HTTP server. Returns nil when no bind address is
// configured.
func NewServer(cfg *config.Config, runner PipelineRunner, store *article.Store, notifier notifications.Service, logger *slog.Logger) *Server {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	srv := &Server{
		bind:     bind,
		logger:   logger.With(logging.String(logging.FieldComponent, "api-server")),
		runner:   runner,
		store:    store,
		notifier: notifier,
		staging:  cfg.Paths.StagingDir,
		inFlight: make(map[string]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/articles", srv.handleArticles)
	mux.HandleFunc("/api/articles/", srv.handleArticle)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the server's HTTP handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listArticles(w, r)
	case http.MethodPost:
		s.submitArticle(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	views := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, toView(a))
	}
	s.writeJSON(w, http.StatusOK, ArticleListResponse{Articles: views})
}

func (s *Server) submitArticle(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", "validation")
		return
	}

	ref, err := video.Parse(req.URL)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid YouTube URL", "validation")
		return
	}

	if !s.claim(ref.ID()) {
		s.writeError(w, http.StatusConflict, "this video is already being processed", "")
		return
	}
	defer s.release(ref.ID())

	// Runs are never cancelled by a dropped client connection: once
	// accepted, the pipeline finishes and the article is persisted.
	runCtx := services.WithRequestID(context.Background(), uuid.NewString())
	runCtx = services.WithVideoID(runCtx, ref.ID())

	artifact, err := s.runner.Run(runCtx, req.URL)
	if err != nil {
		_ = s.notifier.NotifyPipelineFailed(runCtx, ref.ID(), err)
		s.writeError(w, statusForError(err), services.Details(err).Message, services.Category(err))
		return
	}

	saved, err := s.store.Save(runCtx, article.FromArtifact(artifact))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	_ = s.notifier.NotifyArticleReady(runCtx, saved.Title, saved.WordCount, saved.ReadTime)
	s.writeJSON(w, http.StatusCreated, toView(saved))
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/articles/")
	if idStr == "" || strings.Contains(idStr, "/") {
		s.writeError(w, http.StatusNotFound, "article not found", "")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid article id", "validation")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := s.store.GetByID(r.Context(), id)
		if errors.Is(err, article.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "article not found", "")
			return
		}
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error(), "")
			return
		}
		s.writeJSON(w, http.StatusOK, toView(a))
	case http.MethodDelete:
		err := s.store.Delete(r.Context(), id)
		if errors.Is(err, article.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "article not found", "")
			return
		}
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error(), "")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	articles, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	s.writeJSON(w, http.StatusOK, StatusResponse{
		Running:    true,
		InFlight:   s.inFlightIDs(),
		Articles:   len(articles),
		DBPath:     s.store.Path(),
		StagingDir: s.staging,
	})
}

// claim marks a video as in flight. It returns false when a run for the
// same video is already active.
func (s *Server) claim(videoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, active := s.inFlight[videoID]; active {
		return false
	}
	s.inFlight[videoID] = struct{}{}
	return true
}

func (s *Server) release(videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, videoID)
}

func (s *Server) inFlightIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.inFlight))
	for id := range s.inFlight {
		ids = append(ids, id)
	}
	return ids
}

// statusForError maps the failure taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch services.Category(err) {
	case "validation":
		return http.StatusBadRequest
	case "unavailable":
		return http.StatusUnprocessableEntity
	case "rate_limited":
		return http.StatusTooManyRequests
	case "blocked", "transcription", "generation":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toView(a article.Article) ArticleView {
	return ArticleView{
		ID:        a.ID,
		VideoID:   a.VideoID,
		URL:       a.URL,
		Title:     a.Title,
		Uploader:  a.Uploader,
		HTML:      a.HTML,
		Source:    a.Source,
		WordCount: a.WordCount,
		ReadTime:  a.ReadTime,
		Duration:  a.Duration,
		ViewCount: a.ViewCount,
		CreatedAt: a.CreatedAt,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, category string) {
	s.writeJSON(w, status, ErrorResponse{Error: message, Category: category})
}
