package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
)

type chunkKey struct{}

// ResultsHandler serves the SNR stage output
type ResultsHandler struct {
	service      ResultsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewResultsHandler creates a results handler
func NewResultsHandler(service ResultsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ResultsHandler {
	return &ResultsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "results_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /chunks routes
func (h *ResultsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListChunks)
	r.Route("/{chunk}", func(r chi.Router) {
		r.Use(h.ChunkCtx)
		r.Get("/snr", h.GetSNR)
		r.Get("/skipped", h.GetSkipped)
	})
	return r
}

// ChunkCtx rejects an empty chunk parameter and stores it in the context
func (h *ResultsHandler) ChunkCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := chi.URLParam(r, "chunk")
		if chunk == "" {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusBadRequest, "INVALID_PARAMETER", "chunk is required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), chunkKey{}, chunk)))
	})
}

func chunkFrom(r *http.Request) string {
	chunk, _ := r.Context().Value(chunkKey{}).(string)
	return chunk
}

// ListChunks handles GET /api/v1/chunks
func (h *ResultsHandler) ListChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := h.service.ListChunks(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   chunks,
		"count":  len(chunks),
	})
}

// GetSNR handles GET /api/v1/chunks/{chunk}/snr
func (h *ResultsHandler) GetSNR(w http.ResponseWriter, r *http.Request) {
	chunk := chunkFrom(r)

	records, err := h.service.ChunkSNR(r.Context(), chunk)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "served snr records",
		slog.String("chunk", chunk),
		slog.Int("count", len(records)))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"chunk":  chunk,
		"data":   records,
		"count":  len(records),
	})
}

// GetSkipped handles GET /api/v1/chunks/{chunk}/skipped
func (h *ResultsHandler) GetSkipped(w http.ResponseWriter, r *http.Request) {
	chunk := chunkFrom(r)

	records, err := h.service.ChunkSkipped(r.Context(), chunk)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"chunk":  chunk,
		"data":   records,
		"count":  len(records),
	})
}
