package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/sentiment"
)

const pipelineName = "thaiSentimentPipeline"

// classAliases имена меток из config.json модели, которые встречаются
// у дообученных моделей тональности
var classAliases = map[string]sentiment.Label{
	"negative": sentiment.Negative,
	"neg":      sentiment.Negative,
	"label_0":  sentiment.Negative,
	"0":        sentiment.Negative,
	"neutral":  sentiment.Neutral,
	"neu":      sentiment.Neutral,
	"label_1":  sentiment.Neutral,
	"1":        sentiment.Neutral,
	"positive": sentiment.Positive,
	"pos":      sentiment.Positive,
	"label_2":  sentiment.Positive,
	"2":        sentiment.Positive,
}

// ONNX локальный рантайм: токенизатор и ONNX модель из каталога MODEL_PATH,
// выполняемые через hugot. Пайплайн настроен на softmax по всем меткам.
type ONNX struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	logger   *zap.Logger

	// пайплайн не документирован как безопасный для конкурентного запуска
	mu sync.Mutex
}

// NewONNX загружает модель и токенизатор из каталога
func NewONNX(modelPath string, logger *zap.Logger) (*ONNX, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// требует разделяемую библиотеку onnxruntime в системе
	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	cfg := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      pipelineName,
	}
	cfg.Options = append(cfg.Options,
		pipelines.WithMultiLabel(),
		pipelines.WithSoftmax(),
	)

	pipeline, err := hugot.NewPipeline(session, cfg)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			logger.Error("Error destroying hugot session", zap.Error(destroyErr))
		}
		return nil, fmt.Errorf("failed to load model from %s: %w", modelPath, err)
	}

	logger.Info("ONNX model initialized", zap.String("path", modelPath))
	return &ONNX{
		session:  session,
		pipeline: pipeline,
		logger:   logger,
	}, nil
}

// Logits возвращает логарифмы вероятностей классов
func (o *ONNX) Logits(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	output, err := o.pipeline.RunPipeline([]string{text})
	o.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("pipeline run failed: %w", err)
	}
	if len(output.ClassificationOutputs) != 1 {
		return nil, fmt.Errorf("expected 1 classification output, got %d", len(output.ClassificationOutputs))
	}

	return logitsFromOutputs(output.ClassificationOutputs[0])
}

// Name возвращает имя бэкенда
func (o *ONNX) Name() string {
	return "onnx"
}

// Close освобождает сессию hugot
func (o *ONNX) Close() error {
	return o.session.Destroy()
}

// logitsFromOutputs раскладывает вероятности по индексам классов.
// Если имена меток модели не распознаны, используется порядок выходов.
func logitsFromOutputs(outputs []pipelines.ClassificationOutput) ([]float64, error) {
	if len(outputs) != sentiment.NumClasses {
		return nil, fmt.Errorf("expected %d labels, got %d", sentiment.NumClasses, len(outputs))
	}

	probs := make([]float64, sentiment.NumClasses)
	seen := make(map[sentiment.Label]bool, sentiment.NumClasses)
	byName := true
	for _, out := range outputs {
		label, ok := classAliases[strings.ToLower(strings.TrimSpace(out.Label))]
		if !ok || seen[label] {
			byName = false
			break
		}
		seen[label] = true
		probs[label] = float64(out.Score)
	}
	if !byName {
		for i, out := range outputs {
			probs[i] = float64(out.Score)
		}
	}

	logits := make([]float64, sentiment.NumClasses)
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return nil, errors.New("model returned a negative or NaN probability")
		}
		logits[i] = logProportion(p)
	}
	return logits, nil
}
