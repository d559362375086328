// Package service содержит бизнес-логику эндпоинтов анализа тональности:
// валидацию входа, вызов классификатора и сборку результата.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/extract"
	"github.com/InQaaaaGit/thai_sentiment/internal/metrics"
	"github.com/InQaaaaGit/thai_sentiment/internal/sentiment"
)

// Classifier классифицирует один текст
type Classifier interface {
	Classify(ctx context.Context, text string) (sentiment.Prediction, error)
}

// CommentSource загружает комментарии к видео
type CommentSource interface {
	Fetch(ctx context.Context, reference string, limit int) ([]string, error)
}

// Result исходный текст и предсказание для него
type Result struct {
	Text       string
	Prediction sentiment.Prediction
}

// SentimentService определяет операции сервиса анализа тональности
type SentimentService interface {
	Predict(ctx context.Context, text string) (Result, error)
	PredictMultiple(ctx context.Context, texts []string) ([]Result, error)
	PredictFile(ctx context.Context, filename string, data []byte) ([]Result, error)
	FromYouTube(ctx context.Context, reference string) ([]Result, error)
}

// SentimentServiceImpl реализует SentimentService
type SentimentServiceImpl struct {
	classifier Classifier
	comments   CommentSource
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewSentimentService создает новый экземпляр SentimentService.
// metrics может быть nil.
func NewSentimentService(classifier Classifier, comments CommentSource, m *metrics.Metrics, logger *zap.Logger) *SentimentServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SentimentServiceImpl{
		classifier: classifier,
		comments:   comments,
		metrics:    m,
		logger:     logger,
	}
}

// Predict классифицирует один текст
func (s *SentimentServiceImpl) Predict(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, s.reject(CodeEmptyText, "text must not be empty")
	}
	if n := sentiment.TextLength(text); n > sentiment.MaxTextLength {
		return Result{}, s.reject(CodeTextTooLong,
			fmt.Sprintf("text is too long (%d characters), maximum is %d", n, sentiment.MaxTextLength))
	}
	return s.classify(ctx, text)
}

// PredictMultiple классифицирует пакет текстов с сохранением порядка.
// Пакет обрезается до MaxBatchSize до любой проверки, а слишком длинный
// текст отклоняет весь пакет.
func (s *SentimentServiceImpl) PredictMultiple(ctx context.Context, texts []string) ([]Result, error) {
	texts = sentiment.CapBatch(texts)
	if len(texts) == 0 {
		return nil, s.reject(CodeEmptyBatch, "texts must not be empty")
	}

	var tooLong int
	for _, text := range texts {
		if sentiment.TextLength(text) > sentiment.MaxTextLength {
			tooLong++
		}
	}
	if tooLong > 0 {
		return nil, s.reject(CodeBatchTextTooLong,
			fmt.Sprintf("%d of %d texts exceed %d characters", tooLong, len(texts), sentiment.MaxTextLength))
	}

	results := make([]Result, 0, len(texts))
	for _, text := range texts {
		r, err := s.classify(ctx, text)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// PredictFile извлекает тексты из файла и классифицирует их как пакет
func (s *SentimentServiceImpl) PredictFile(ctx context.Context, filename string, data []byte) ([]Result, error) {
	texts, err := extract.Extract(filename, data)
	if err != nil {
		return nil, s.extractionError(err)
	}
	if len(texts) == 0 {
		return nil, s.reject(CodeNoTextInFile, "file contains no text")
	}
	return s.PredictMultiple(ctx, texts)
}

// FromYouTube классифицирует последние комментарии к видео.
// Пустой результат и ошибка загрузки отдаются клиенту одним сообщением,
// но с разными кодами.
func (s *SentimentServiceImpl) FromYouTube(ctx context.Context, reference string) ([]Result, error) {
	comments, err := s.comments.Fetch(ctx, reference, sentiment.MaxBatchSize)
	if err != nil {
		s.logger.Warn("Failed to fetch comments",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, s.reject(CodeCommentsUnavailable, MessageNoComments)
	}
	if len(comments) == 0 {
		return nil, s.reject(CodeNoComments, MessageNoComments)
	}
	return s.PredictMultiple(ctx, comments)
}

func (s *SentimentServiceImpl) classify(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	p, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("classify text: %w", err)
	}
	s.metrics.ObservePrediction(p.Label.String(), time.Since(start))
	return Result{Text: text, Prediction: p}, nil
}

func (s *SentimentServiceImpl) extractionError(err error) error {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFileType):
		return s.reject(CodeUnsupportedFileType, err.Error())
	case errors.Is(err, extract.ErrMissingTextColumn):
		return s.reject(CodeMissingTextColumn, err.Error())
	case errors.Is(err, extract.ErrInvalidEncoding):
		return s.reject(CodeInvalidEncoding, err.Error())
	case errors.Is(err, extract.ErrMalformed):
		return s.reject(CodeInvalidUpload, err.Error())
	}
	return fmt.Errorf("extract texts: %w", err)
}

func (s *SentimentServiceImpl) reject(code, message string) error {
	s.metrics.ObserveValidationError(code)
	s.logger.Info("Request rejected",
		zap.String("code", code),
		zap.String("reason", message))
	return NewValidationError(code, message)
}
