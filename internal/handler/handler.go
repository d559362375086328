// Package handler содержит HTTP обработчики API анализа тональности.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/config"
	"github.com/InQaaaaGit/thai_sentiment/internal/middleware"
	"github.com/InQaaaaGit/thai_sentiment/internal/models"
	"github.com/InQaaaaGit/thai_sentiment/internal/presentation"
	"github.com/InQaaaaGit/thai_sentiment/internal/sentiment"
	"github.com/InQaaaaGit/thai_sentiment/internal/service"
)

const (
	contentTypeJSON = "application/json"
	uploadField     = "file"
	// multipartMemory часть формы, которая держится в памяти, остальное уходит во временные файлы
	multipartMemory = 1 << 20
)

// Handler обработчики HTTP API
type Handler struct {
	service   service.SentimentService
	presenter *presentation.Presenter
	cfg       *config.Config
	logger    *zap.Logger
	modelName string
	version   string
}

// NewHandler создает обработчики. modelName и version попадают в ответы
// /healthz и / соответственно.
func NewHandler(svc service.SentimentService, presenter *presentation.Presenter, cfg *config.Config, logger *zap.Logger, modelName, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:   svc,
		presenter: presenter,
		cfg:       cfg,
		logger:    logger,
		modelName: modelName,
		version:   version,
	}
}

// HandlePredict обрабатывает POST /sentiment/predict
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.SentimentRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.Predict(r.Context(), req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.toResponse(result))
}

// HandlePredictMultiple обрабатывает POST /sentiment/predict_multiple
func (h *Handler) HandlePredictMultiple(w http.ResponseWriter, r *http.Request) {
	var req models.MultipleSentimentRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := h.service.PredictMultiple(r.Context(), req.Texts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.toMultipleResponse(results))
}

// HandlePredictFile обрабатывает POST /sentiment/predict_file с multipart полем file
func (h *Handler) HandlePredictFile(w http.ResponseWriter, r *http.Request) {
	if h.cfg != nil && h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, r, uploadError(err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Error("Error removing multipart temp files", zap.Error(err))
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.writeError(w, r, service.NewValidationError(service.CodeInvalidUpload,
			fmt.Sprintf("multipart field %q is required", uploadField)))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Error("Error closing uploaded file", zap.Error(err))
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, r, uploadError(err))
		return
	}

	h.logger.Debug("File uploaded",
		zap.String("filename", header.Filename),
		zap.Int("size", len(data)))

	results, err := h.service.PredictFile(r.Context(), header.Filename, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.toMultipleResponse(results))
}

// HandleYouTube обрабатывает POST /sentiment/youtube
func (h *Handler) HandleYouTube(w http.ResponseWriter, r *http.Request) {
	var req models.YouTubeRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := h.service.FromYouTube(r.Context(), req.URL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.toMultipleResponse(results))
}

// HandleRoot обрабатывает GET / и отдает идентификатор сервиса
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"My first Project": "Thai-Sentiment-Analysis",
		"version":          h.version,
	})
}

// HandleHealth обрабатывает GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Model: h.modelName})
}

// WithLogging добавляет логирование запросов
func (h *Handler) WithLogging(next http.Handler) http.Handler {
	return middleware.LoggerMiddleware(h.logger)(next)
}

// WithGzip добавляет поддержку gzip сжатия
func (h *Handler) WithGzip(next http.Handler) http.Handler {
	return middleware.GzipMiddleware(h.logger)(next)
}

func (h *Handler) toResponse(r service.Result) models.SentimentResponse {
	probs := make([]models.Probability, 0, sentiment.NumClasses)
	for _, l := range sentiment.Labels() {
		probs = append(probs, models.Probability{
			Label:       h.presenter.Label(l),
			Probability: r.Prediction.Probabilities[l],
		})
	}
	return models.SentimentResponse{
		Text:          r.Text,
		Sentiment:     h.presenter.Label(r.Prediction.Label),
		Probabilities: probs,
		Summary:       h.presenter.Summary(r.Prediction),
	}
}

func (h *Handler) toMultipleResponse(results []service.Result) models.MultipleSentimentResponse {
	resp := models.MultipleSentimentResponse{Result: make([]models.SentimentResponse, 0, len(results))}
	for _, r := range results {
		resp.Result = append(resp.Result, h.toResponse(r))
	}
	return resp
}

func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	defer func() {
		if err := r.Body.Close(); err != nil {
			h.logger.Error("Error closing request body", zap.Error(err))
		}
	}()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.NewValidationError(service.CodeInvalidBody, "invalid JSON body: "+err.Error())
	}
	return nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return service.NewValidationError(service.CodeInvalidUpload,
			fmt.Sprintf("file is too large, maximum is %d bytes", maxErr.Limit))
	}
	return service.NewValidationError(service.CodeInvalidUpload, "invalid multipart upload: "+err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Detail: ve.Message, Code: ve.Code})
		return
	}

	h.logger.Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Detail: "internal server error",
		Code:   "internal_error",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error writing JSON response", zap.Error(err))
	}
}
